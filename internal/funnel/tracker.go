package funnel

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/atlashq/erp-core/internal/models"
	"go.uber.org/zap"
)

// ErrLeadNotFound is returned when the lead does not exist
var ErrLeadNotFound = errors.New("lead not found")

// Progress is the derived pipeline position of a lead
type Progress struct {
	LeadID         string  `json:"lead_id"`
	CompletedSteps []Stage `json:"completed_steps"`
	CurrentStep    Stage   `json:"current_step"`
	Status         string  `json:"status"`
}

// Tracker derives a lead's pipeline stage and status from its artifact chain
type Tracker struct {
	leads     leadStore
	artifacts artifactStore
	logger    *zap.Logger
}

type leadStore interface {
	GetByID(id int64) (*models.Lead, error)
	UpdateStatus(tx *sql.Tx, id int64, status string) error
}

type artifactStore interface {
	TypesByLead(leadID int64) (map[string]bool, error)
}

// NewTracker creates a new funnel tracker
func NewTracker(leads leadStore, artifacts artifactStore, logger *zap.Logger) *Tracker {
	return &Tracker{
		leads:     leads,
		artifacts: artifacts,
		logger:    logger,
	}
}

// Compute derives the funnel progress for a lead. Read-only and idempotent:
// two calls with no intervening writes yield identical results.
func (t *Tracker) Compute(lead *models.Lead) (*Progress, error) {
	types, err := t.artifacts.TypesByLead(lead.ID)
	if err != nil {
		return nil, fmt.Errorf("load artifacts: %w", err)
	}
	return derive(lead, types), nil
}

// derive computes progress from the artifact existence set. The persisted
// "lost" status is terminal and never overridden by artifact-derived status.
func derive(lead *models.Lead, artifactTypes map[string]bool) *Progress {
	progress := &Progress{
		LeadID:         lead.PublicID,
		CompletedSteps: []Stage{},
	}

	lastCompleted := Stage("")
	currentSet := false

	for _, stage := range stageOrder {
		var completed bool
		if stage == StageLeadCapture {
			// lead_capture has no artifact of its own: it reads as completed
			// once any pipeline artifact exists, so an untouched lead sits at
			// lead_capture as its next actionable step.
			completed = len(artifactTypes) > 0
		} else {
			completed = artifactTypes[artifactByStage[stage]]
		}

		if completed {
			progress.CompletedSteps = append(progress.CompletedSteps, stage)
			lastCompleted = stage
		} else if !currentSet {
			progress.CurrentStep = stage
			currentSet = true
		}
	}

	if !currentSet {
		// All stages complete: current step stays at the last stage
		progress.CurrentStep = stageOrder[len(stageOrder)-1]
	}

	if lead.Status == models.LeadStatusLost {
		progress.Status = models.LeadStatusLost
	} else if lastCompleted != "" {
		progress.Status = statusByStage[lastCompleted]
	} else {
		progress.Status = models.LeadStatusNew
	}

	return progress
}

// Sync computes the funnel progress and writes the derived status back to the
// lead row when it differs, so the lead read and the funnel read always agree.
func (t *Tracker) Sync(leadID int64) (*Progress, error) {
	lead, err := t.leads.GetByID(leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}

	progress, err := t.Compute(lead)
	if err != nil {
		return nil, err
	}

	if lead.Status != progress.Status && lead.Status != models.LeadStatusLost {
		if err := t.leads.UpdateStatus(nil, lead.ID, progress.Status); err != nil {
			return nil, fmt.Errorf("write back status: %w", err)
		}
		t.logger.Info("Lead status advanced",
			zap.String("lead_id", lead.PublicID),
			zap.String("from", lead.Status),
			zap.String("to", progress.Status))
	}

	return progress, nil
}
