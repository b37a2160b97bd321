package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/atlashq/erp-core/internal/models"
	"go.uber.org/zap"
)

// ApprovalRepository handles approval request database operations
type ApprovalRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewApprovalRepository creates a new approval repository
func NewApprovalRepository(db *sql.DB, logger *zap.Logger) *ApprovalRepository {
	return &ApprovalRepository{
		db:     db,
		logger: logger,
	}
}

const approvalColumns = `id, public_id, request_type, subject_employee_id, requested_by,
	changes, status, reviewed_by, reviewed_at, review_note, created_at, updated_at`

func scanApproval(row rowScanner) (*models.ApprovalRequest, error) {
	var req models.ApprovalRequest
	var reviewedBy sql.NullInt64
	var reviewedAt sql.NullTime

	err := row.Scan(
		&req.ID,
		&req.PublicID,
		&req.RequestType,
		&req.SubjectEmployeeID,
		&req.RequestedBy,
		&req.Changes,
		&req.Status,
		&reviewedBy,
		&reviewedAt,
		&req.ReviewNote,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if reviewedBy.Valid {
		req.ReviewedBy = &reviewedBy.Int64
	}
	if reviewedAt.Valid {
		req.ReviewedAt = &reviewedAt.Time
	}
	return &req, nil
}

// Create creates a new approval request
func (r *ApprovalRepository) Create(req *models.ApprovalRequest) error {
	query := `
		INSERT INTO approval_requests (public_id, request_type, subject_employee_id,
			requested_by, changes, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		req.PublicID,
		req.RequestType,
		req.SubjectEmployeeID,
		req.RequestedBy,
		req.Changes,
		req.Status,
	)
	if err != nil {
		r.logger.Error("Failed to create approval request",
			zap.String("type", req.RequestType),
			zap.String("subject", req.SubjectEmployeeID),
			zap.Error(err))
		return fmt.Errorf("failed to create approval request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	req.ID = id
	return nil
}

// GetByPublicID retrieves an approval request by its public UUID
func (r *ApprovalRepository) GetByPublicID(publicID string) (*models.ApprovalRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM approval_requests WHERE public_id = ?`, approvalColumns)

	req, err := scanApproval(r.db.QueryRow(query, publicID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get approval request", zap.String("public_id", publicID), zap.Error(err))
		return nil, fmt.Errorf("failed to get approval request: %w", err)
	}
	return req, nil
}

// GetPendingBySubject retrieves the oldest non-terminal request of the given
// type for an employee, or nil when none is pending.
func (r *ApprovalRepository) GetPendingBySubject(employeeID, requestType string) (*models.ApprovalRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM approval_requests
		WHERE subject_employee_id = ? AND request_type = ?
			AND status IN ('pending', 'pending_hr', 'pending_admin')
		ORDER BY created_at, id LIMIT 1
	`, approvalColumns)

	req, err := scanApproval(r.db.QueryRow(query, employeeID, requestType))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get pending approval request",
			zap.String("subject", employeeID),
			zap.String("type", requestType),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get pending approval request: %w", err)
	}
	return req, nil
}

// ListPendingByTypes retrieves all non-terminal requests of the given types,
// oldest first. Used to build a reviewer's queue.
func (r *ApprovalRepository) ListPendingByTypes(requestTypes []string) ([]*models.ApprovalRequest, error) {
	if len(requestTypes) == 0 {
		return nil, nil
	}

	placeholders := ""
	args := make([]interface{}, 0, len(requestTypes))
	for i, t := range requestTypes {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += "?"
		args = append(args, t)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM approval_requests
		WHERE request_type IN (%s) AND status IN ('pending', 'pending_hr', 'pending_admin')
		ORDER BY created_at, id
	`, approvalColumns, placeholders)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("Failed to list pending approval requests", zap.Error(err))
		return nil, fmt.Errorf("failed to list pending approval requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.ApprovalRequest
	for rows.Next() {
		req, err := scanApproval(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approval request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// FinalizeIfPending transitions a request to a terminal status only if it is
// still pending. Returns false when the request was already consumed — the
// single-row compare-and-swap that gives approval actions at-most-once
// semantics without a cross-table transaction.
func (r *ApprovalRepository) FinalizeIfPending(tx *sql.Tx, id int64, status string, reviewerID int64, note string) (bool, error) {
	query := `
		UPDATE approval_requests
		SET status = ?, reviewed_by = ?, reviewed_at = ?, review_note = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status IN ('pending', 'pending_hr', 'pending_admin')
	`

	var result sql.Result
	var err error
	if tx != nil {
		result, err = tx.Exec(query, status, reviewerID, time.Now().UTC(), note, id)
	} else {
		result, err = r.db.Exec(query, status, reviewerID, time.Now().UTC(), note, id)
	}

	if err != nil {
		r.logger.Error("Failed to finalize approval request", zap.Int64("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to finalize approval request: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected == 1, nil
}
