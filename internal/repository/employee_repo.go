package repository

import (
	"database/sql"
	"fmt"

	"github.com/atlashq/erp-core/internal/models"
	"go.uber.org/zap"
)

// EmployeeRepository handles employee database operations
type EmployeeRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *sql.DB, logger *zap.Logger) *EmployeeRepository {
	return &EmployeeRepository{
		db:     db,
		logger: logger,
	}
}

const employeeColumns = `id, employee_id, full_name, department, reporting_manager_id, user_id,
	bank_account_name, bank_account_number, bank_name, bank_ifsc, ctc, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEmployee(row rowScanner) (*models.Employee, error) {
	var emp models.Employee
	var managerID sql.NullString
	var userID sql.NullInt64

	err := row.Scan(
		&emp.ID,
		&emp.EmployeeID,
		&emp.FullName,
		&emp.Department,
		&managerID,
		&userID,
		&emp.BankAccountName,
		&emp.BankAccountNumber,
		&emp.BankName,
		&emp.BankIFSC,
		&emp.CTC,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if managerID.Valid {
		emp.ReportingManagerID = &managerID.String
	}
	if userID.Valid {
		emp.UserID = &userID.Int64
	}
	return &emp, nil
}

// Create creates a new employee along with its primary department membership
func (r *EmployeeRepository) Create(tx *sql.Tx, emp *models.Employee) error {
	query := `
		INSERT INTO employees (employee_id, full_name, department, reporting_manager_id, user_id)
		VALUES (?, ?, ?, ?, ?)
	`

	exec := r.db.Exec
	if tx != nil {
		exec = tx.Exec
	}

	result, err := exec(query,
		emp.EmployeeID,
		emp.FullName,
		emp.Department,
		emp.ReportingManagerID,
		emp.UserID,
	)
	if err != nil {
		r.logger.Error("Failed to create employee", zap.String("employee_id", emp.EmployeeID), zap.Error(err))
		return fmt.Errorf("failed to create employee: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	emp.ID = id

	_, err = exec(
		`INSERT INTO employee_departments (employee_id, department) VALUES (?, ?)`,
		emp.EmployeeID, emp.Department,
	)
	if err != nil {
		return fmt.Errorf("failed to create department membership: %w", err)
	}

	return nil
}

// GetByEmployeeID retrieves an employee by its human-readable code
func (r *EmployeeRepository) GetByEmployeeID(employeeID string) (*models.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees WHERE employee_id = ?`, employeeColumns)

	emp, err := scanEmployee(r.db.QueryRow(query, employeeID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get employee", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// GetByUserID retrieves the employee linked to a user, if any
func (r *EmployeeRepository) GetByUserID(userID int64) (*models.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees WHERE user_id = ?`, employeeColumns)

	emp, err := scanEmployee(r.db.QueryRow(query, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get employee by user ID", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// ListAll retrieves every employee. Used to build the reporting-hierarchy
// snapshot; the table is internal-tool sized so a full scan is fine.
func (r *EmployeeRepository) ListAll() ([]*models.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees ORDER BY employee_id`, employeeColumns)

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Failed to list employees", zap.Error(err))
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []*models.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// GetDepartments returns the department membership set for an employee
func (r *EmployeeRepository) GetDepartments(employeeID string) ([]string, error) {
	rows, err := r.db.Query(
		`SELECT department FROM employee_departments WHERE employee_id = ? ORDER BY department`,
		employeeID,
	)
	if err != nil {
		r.logger.Error("Failed to get departments", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, fmt.Errorf("failed to get departments: %w", err)
	}
	defer rows.Close()

	var departments []string
	for rows.Next() {
		var dept string
		if err := rows.Scan(&dept); err != nil {
			return nil, err
		}
		departments = append(departments, dept)
	}
	return departments, rows.Err()
}

// AddDepartment adds a department membership; duplicates are ignored
func (r *EmployeeRepository) AddDepartment(employeeID, department string) error {
	_, err := r.db.Exec(
		`INSERT OR IGNORE INTO employee_departments (employee_id, department) VALUES (?, ?)`,
		employeeID, department,
	)
	if err != nil {
		return fmt.Errorf("failed to add department: %w", err)
	}
	return nil
}

// RemoveDepartment removes a department membership
func (r *EmployeeRepository) RemoveDepartment(employeeID, department string) error {
	_, err := r.db.Exec(
		`DELETE FROM employee_departments WHERE employee_id = ? AND department = ?`,
		employeeID, department,
	)
	if err != nil {
		return fmt.Errorf("failed to remove department: %w", err)
	}
	return nil
}

// UpdateReportingManager reassigns an employee's direct manager. Cycle
// detection happens in the access package before this is called.
func (r *EmployeeRepository) UpdateReportingManager(employeeID string, managerID *string) error {
	_, err := r.db.Exec(
		`UPDATE employees SET reporting_manager_id = ?, updated_at = CURRENT_TIMESTAMP WHERE employee_id = ?`,
		managerID, employeeID,
	)
	if err != nil {
		r.logger.Error("Failed to update reporting manager", zap.String("employee_id", employeeID), zap.Error(err))
		return fmt.Errorf("failed to update reporting manager: %w", err)
	}
	return nil
}

// UpdateBankDetails applies approved bank-change fields to the employee row
func (r *EmployeeRepository) UpdateBankDetails(tx *sql.Tx, employeeID string, fields map[string]string) error {
	columns := map[string]string{
		"bank_account_name":   "bank_account_name",
		"bank_account_number": "bank_account_number",
		"bank_name":           "bank_name",
		"bank_ifsc":           "bank_ifsc",
	}

	exec := r.db.Exec
	if tx != nil {
		exec = tx.Exec
	}

	for field, value := range fields {
		column, ok := columns[field]
		if !ok {
			continue
		}
		query := fmt.Sprintf(`UPDATE employees SET %s = ?, updated_at = CURRENT_TIMESTAMP WHERE employee_id = ?`, column)
		if _, err := exec(query, value, employeeID); err != nil {
			r.logger.Error("Failed to update bank details", zap.String("employee_id", employeeID), zap.Error(err))
			return fmt.Errorf("failed to update bank details: %w", err)
		}
	}
	return nil
}

// UpdateCTC applies an approved CTC change to the employee row
func (r *EmployeeRepository) UpdateCTC(tx *sql.Tx, employeeID string, ctc float64) error {
	query := `UPDATE employees SET ctc = ?, updated_at = CURRENT_TIMESTAMP WHERE employee_id = ?`

	var err error
	if tx != nil {
		_, err = tx.Exec(query, ctc, employeeID)
	} else {
		_, err = r.db.Exec(query, ctc, employeeID)
	}
	if err != nil {
		r.logger.Error("Failed to update CTC", zap.String("employee_id", employeeID), zap.Error(err))
		return fmt.Errorf("failed to update ctc: %w", err)
	}
	return nil
}
