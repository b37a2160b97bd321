package repository

import (
	"database/sql"
	"fmt"

	"github.com/atlashq/erp-core/internal/models"
	"go.uber.org/zap"
)

// LeadRepository handles lead database operations
type LeadRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *sql.DB, logger *zap.Logger) *LeadRepository {
	return &LeadRepository{
		db:     db,
		logger: logger,
	}
}

const leadColumns = `id, public_id, created_by, assigned_to, status, lead_score,
	company, contact_name, contact_email, contact_phone, created_at, updated_at`

func scanLead(row rowScanner) (*models.Lead, error) {
	var lead models.Lead
	var assignedTo sql.NullInt64

	err := row.Scan(
		&lead.ID,
		&lead.PublicID,
		&lead.CreatedBy,
		&assignedTo,
		&lead.Status,
		&lead.LeadScore,
		&lead.Company,
		&lead.ContactName,
		&lead.ContactEmail,
		&lead.ContactPhone,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if assignedTo.Valid {
		lead.AssignedTo = &assignedTo.Int64
	}
	return &lead, nil
}

// Create creates a new lead
func (r *LeadRepository) Create(lead *models.Lead) error {
	query := `
		INSERT INTO leads (public_id, created_by, assigned_to, status, lead_score,
			company, contact_name, contact_email, contact_phone)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		lead.PublicID,
		lead.CreatedBy,
		lead.AssignedTo,
		lead.Status,
		lead.LeadScore,
		lead.Company,
		lead.ContactName,
		lead.ContactEmail,
		lead.ContactPhone,
	)
	if err != nil {
		r.logger.Error("Failed to create lead", zap.String("company", lead.Company), zap.Error(err))
		return fmt.Errorf("failed to create lead: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	lead.ID = id
	return nil
}

// GetByPublicID retrieves a lead by its public UUID
func (r *LeadRepository) GetByPublicID(publicID string) (*models.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE public_id = ?`, leadColumns)

	lead, err := scanLead(r.db.QueryRow(query, publicID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get lead", zap.String("public_id", publicID), zap.Error(err))
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return lead, nil
}

// GetByID retrieves a lead by its internal row ID
func (r *LeadRepository) GetByID(id int64) (*models.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE id = ?`, leadColumns)

	lead, err := scanLead(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get lead", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return lead, nil
}

// ListAll retrieves all leads, newest first. Visibility filtering happens in
// the access package after the snapshot is loaded.
func (r *LeadRepository) ListAll() ([]*models.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads ORDER BY created_at DESC, id DESC`, leadColumns)

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Failed to list leads", zap.Error(err))
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	var leads []*models.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// UpdateStatus updates the persisted lead status
func (r *LeadRepository) UpdateStatus(tx *sql.Tx, id int64, status string) error {
	query := `UPDATE leads SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	var err error
	if tx != nil {
		_, err = tx.Exec(query, status, id)
	} else {
		_, err = r.db.Exec(query, status, id)
	}

	if err != nil {
		r.logger.Error("Failed to update lead status", zap.Int64("id", id), zap.String("status", status), zap.Error(err))
		return fmt.Errorf("failed to update lead status: %w", err)
	}
	return nil
}
