package models

import "time"

// Approval request type constants
const (
	ApprovalTypeBankChange       = "bank_change"
	ApprovalTypePermissionChange = "permission_change"
	ApprovalTypeCTCChange        = "ctc_change"
	ApprovalTypeGoLive           = "go_live"
	ApprovalTypeAgreement        = "agreement"
)

var validApprovalTypes = map[string]bool{
	ApprovalTypeBankChange:       true,
	ApprovalTypePermissionChange: true,
	ApprovalTypeCTCChange:        true,
	ApprovalTypeGoLive:           true,
	ApprovalTypeAgreement:        true,
}

// IsValidApprovalType reports whether t is a known approval request type
func IsValidApprovalType(t string) bool {
	return validApprovalTypes[t]
}

// Approval request status constants
const (
	ApprovalStatusPending      = "pending"
	ApprovalStatusPendingHR    = "pending_hr"
	ApprovalStatusPendingAdmin = "pending_admin"
	ApprovalStatusApproved     = "approved"
	ApprovalStatusRejected     = "rejected"
)

// IsTerminalApprovalStatus reports whether status permits no further transitions
func IsTerminalApprovalStatus(status string) bool {
	return status == ApprovalStatusApproved || status == ApprovalStatusRejected
}

// ApprovalRequest generalizes bank-change, permission-change, CTC-change,
// go-live and agreement approvals. Once approved or rejected the record is
// terminal: status and changes are never mutated again.
type ApprovalRequest struct {
	ID                int64      `json:"id"`
	PublicID          string     `json:"public_id"` // UUID exposed in the API
	RequestType       string     `json:"request_type"`
	SubjectEmployeeID string     `json:"subject_employee_id"`
	RequestedBy       int64      `json:"requested_by"`
	Changes           string     `json:"changes"` // JSON mapping of field -> new value
	Status            string     `json:"status"`
	ReviewedBy        *int64     `json:"reviewed_by,omitempty"`
	ReviewedAt        *time.Time `json:"reviewed_at,omitempty"`
	ReviewNote        string     `json:"review_note,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
