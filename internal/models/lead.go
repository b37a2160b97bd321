package models

import "time"

// Lead status constants
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusProposal  = "proposal"
	LeadStatusAgreement = "agreement"
	LeadStatusClosed    = "closed"
	LeadStatusLost      = "lost"
)

var validLeadStatuses = map[string]bool{
	LeadStatusNew:       true,
	LeadStatusContacted: true,
	LeadStatusQualified: true,
	LeadStatusProposal:  true,
	LeadStatusAgreement: true,
	LeadStatusClosed:    true,
	LeadStatusLost:      true,
}

// IsValidLeadStatus reports whether status is a known lead status
func IsValidLeadStatus(status string) bool {
	return validLeadStatuses[status]
}

// Lead represents a sales lead
type Lead struct {
	ID           int64     `json:"id"`
	PublicID     string    `json:"public_id"` // UUID exposed in the API
	CreatedBy    int64     `json:"created_by"`
	AssignedTo   *int64    `json:"assigned_to,omitempty"`
	Status       string    `json:"status"`
	LeadScore    int       `json:"lead_score"` // 0-100
	Company      string    `json:"company"`
	ContactName  string    `json:"contact_name"`
	ContactEmail string    `json:"contact_email,omitempty"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
