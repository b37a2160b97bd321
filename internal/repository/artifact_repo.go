package repository

import (
	"database/sql"
	"fmt"

	"github.com/atlashq/erp-core/internal/models"
	"go.uber.org/zap"
)

// ArtifactRepository handles funnel artifact database operations
type ArtifactRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewArtifactRepository creates a new artifact repository
func NewArtifactRepository(db *sql.DB, logger *zap.Logger) *ArtifactRepository {
	return &ArtifactRepository{
		db:     db,
		logger: logger,
	}
}

// Create records a funnel artifact for a lead
func (r *ArtifactRepository) Create(tx *sql.Tx, artifact *models.FunnelArtifact) error {
	query := `
		INSERT INTO funnel_artifacts (lead_id, artifact_type, created_by, detail)
		VALUES (?, ?, ?, ?)
	`

	detail := artifact.Detail
	if detail == "" {
		detail = "{}"
	}

	var result sql.Result
	var err error
	if tx != nil {
		result, err = tx.Exec(query, artifact.LeadID, artifact.ArtifactType, artifact.CreatedBy, detail)
	} else {
		result, err = r.db.Exec(query, artifact.LeadID, artifact.ArtifactType, artifact.CreatedBy, detail)
	}

	if err != nil {
		r.logger.Error("Failed to create artifact",
			zap.Int64("lead_id", artifact.LeadID),
			zap.String("type", artifact.ArtifactType),
			zap.Error(err))
		return fmt.Errorf("failed to create artifact: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	artifact.ID = id
	return nil
}

// TypesByLead returns the distinct artifact types recorded for a lead.
// This existence set is all the funnel tracker needs for stage derivation.
func (r *ArtifactRepository) TypesByLead(leadID int64) (map[string]bool, error) {
	rows, err := r.db.Query(
		`SELECT DISTINCT artifact_type FROM funnel_artifacts WHERE lead_id = ?`,
		leadID,
	)
	if err != nil {
		r.logger.Error("Failed to get artifact types", zap.Int64("lead_id", leadID), zap.Error(err))
		return nil, fmt.Errorf("failed to get artifact types: %w", err)
	}
	defer rows.Close()

	types := make(map[string]bool)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		types[t] = true
	}
	return types, rows.Err()
}

// ListByLead returns all artifacts recorded for a lead in creation order
func (r *ArtifactRepository) ListByLead(leadID int64) ([]*models.FunnelArtifact, error) {
	rows, err := r.db.Query(
		`SELECT id, lead_id, artifact_type, created_by, detail, created_at
		 FROM funnel_artifacts WHERE lead_id = ? ORDER BY created_at, id`,
		leadID,
	)
	if err != nil {
		r.logger.Error("Failed to list artifacts", zap.Int64("lead_id", leadID), zap.Error(err))
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []*models.FunnelArtifact
	for rows.Next() {
		var a models.FunnelArtifact
		if err := rows.Scan(&a.ID, &a.LeadID, &a.ArtifactType, &a.CreatedBy, &a.Detail, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		artifacts = append(artifacts, &a)
	}
	return artifacts, rows.Err()
}
