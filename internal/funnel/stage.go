package funnel

import "github.com/atlashq/erp-core/internal/models"

// Stage represents one step in the fixed lead-to-project pipeline
type Stage string

const (
	StageLeadCapture    Stage = "lead_capture"
	StageRecordMeeting  Stage = "record_meeting"
	StagePricingPlan    Stage = "pricing_plan"
	StageScopeOfWork    Stage = "scope_of_work"
	StageQuotation      Stage = "quotation"
	StageAgreement      Stage = "agreement"
	StageRecordPayment  Stage = "record_payment"
	StageKickoffRequest Stage = "kickoff_request"
	StageProjectCreated Stage = "project_created"
)

// stageOrder is the strict pipeline ordering. lead_capture is completed by
// the lead record itself; every later stage by its artifact.
var stageOrder = []Stage{
	StageLeadCapture,
	StageRecordMeeting,
	StagePricingPlan,
	StageScopeOfWork,
	StageQuotation,
	StageAgreement,
	StageRecordPayment,
	StageKickoffRequest,
	StageProjectCreated,
}

// statusByStage maps each completed stage to the lead status it implies
var statusByStage = map[Stage]string{
	StageLeadCapture:    models.LeadStatusNew,
	StageRecordMeeting:  models.LeadStatusContacted,
	StagePricingPlan:    models.LeadStatusQualified,
	StageScopeOfWork:    models.LeadStatusQualified,
	StageQuotation:      models.LeadStatusProposal,
	StageAgreement:      models.LeadStatusAgreement,
	StageRecordPayment:  models.LeadStatusAgreement,
	StageKickoffRequest: models.LeadStatusAgreement,
	StageProjectCreated: models.LeadStatusClosed,
}

// artifactByStage maps each artifact-backed stage to its artifact type
var artifactByStage = map[Stage]string{
	StageRecordMeeting:  models.ArtifactMeeting,
	StagePricingPlan:    models.ArtifactPricingPlan,
	StageScopeOfWork:    models.ArtifactScopeOfWork,
	StageQuotation:      models.ArtifactQuotation,
	StageAgreement:      models.ArtifactAgreement,
	StageRecordPayment:  models.ArtifactPayment,
	StageKickoffRequest: models.ArtifactKickoffRequest,
	StageProjectCreated: models.ArtifactProject,
}

// Stages returns the pipeline stages in order
func Stages() []Stage {
	return append([]Stage{}, stageOrder...)
}

// StatusFor returns the lead status implied by a completed stage
func StatusFor(stage Stage) string {
	return statusByStage[stage]
}

// String returns the string representation of the stage
func (s Stage) String() string {
	return string(s)
}
