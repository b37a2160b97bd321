package models

import "time"

// Funnel artifact type constants, one per pipeline stage record
const (
	ArtifactMeeting        = "meeting"
	ArtifactPricingPlan    = "pricing_plan"
	ArtifactScopeOfWork    = "scope_of_work"
	ArtifactQuotation      = "quotation"
	ArtifactAgreement      = "agreement"
	ArtifactPayment        = "payment"
	ArtifactKickoffRequest = "kickoff_request"
	ArtifactProject        = "project"
)

var validArtifactTypes = map[string]bool{
	ArtifactMeeting:        true,
	ArtifactPricingPlan:    true,
	ArtifactScopeOfWork:    true,
	ArtifactQuotation:      true,
	ArtifactAgreement:      true,
	ArtifactPayment:        true,
	ArtifactKickoffRequest: true,
	ArtifactProject:        true,
}

// IsValidArtifactType reports whether t is a known artifact type
func IsValidArtifactType(t string) bool {
	return validArtifactTypes[t]
}

// AllArtifactTypes returns the known artifact types
func AllArtifactTypes() []string {
	return []string{
		ArtifactMeeting,
		ArtifactPricingPlan,
		ArtifactScopeOfWork,
		ArtifactQuotation,
		ArtifactAgreement,
		ArtifactPayment,
		ArtifactKickoffRequest,
		ArtifactProject,
	}
}

// FunnelArtifact is one recorded workflow artifact for a lead
// (a meeting, pricing plan, scope of work, quotation, agreement,
// payment, kickoff request or project record).
type FunnelArtifact struct {
	ID           int64     `json:"id"`
	LeadID       int64     `json:"lead_id"`
	ArtifactType string    `json:"artifact_type"`
	CreatedBy    int64     `json:"created_by"`
	Detail       string    `json:"detail,omitempty"` // JSON blob
	CreatedAt    time.Time `json:"created_at"`
}
