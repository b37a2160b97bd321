package repository

import (
	"database/sql"
	"fmt"

	"github.com/atlashq/erp-core/internal/models"
	"go.uber.org/zap"
)

// UserRepository handles user (principal) database operations
type UserRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = `id, employee_id, full_name, email, role, is_active, created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var employeeID sql.NullString

	err := row.Scan(
		&user.ID,
		&employeeID,
		&user.FullName,
		&user.Email,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if employeeID.Valid {
		user.EmployeeID = &employeeID.String
	}
	return &user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = ?`, userColumns)

	user, err := scanUser(r.db.QueryRow(query, id))
	if err != nil {
		r.logger.Error("Failed to get user by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = ?`, userColumns)

	user, err := scanUser(r.db.QueryRow(query, email))
	if err != nil {
		r.logger.Error("Failed to get user by email", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Create creates a new user
func (r *UserRepository) Create(user *models.User) error {
	query := `
		INSERT INTO users (employee_id, full_name, email, role, is_active)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		user.EmployeeID,
		user.FullName,
		user.Email,
		user.Role,
		user.IsActive,
	)
	if err != nil {
		r.logger.Error("Failed to create user", zap.String("email", user.Email), zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = id
	return nil
}

// UpdateRole updates a user's role. Used when a permission-change request is
// approved; the caller is responsible for invalidating any cached principal.
func (r *UserRepository) UpdateRole(tx *sql.Tx, id int64, role string) error {
	query := `UPDATE users SET role = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	var err error
	if tx != nil {
		_, err = tx.Exec(query, role, id)
	} else {
		_, err = r.db.Exec(query, role, id)
	}

	if err != nil {
		r.logger.Error("Failed to update user role", zap.Int64("id", id), zap.String("role", role), zap.Error(err))
		return fmt.Errorf("failed to update user role: %w", err)
	}
	return nil
}
