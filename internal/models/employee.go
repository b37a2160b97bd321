package models

import "time"

// Department constants
const (
	DepartmentSales      = "Sales"
	DepartmentHR         = "HR"
	DepartmentConsulting = "Consulting"
	DepartmentFinance    = "Finance"
	DepartmentAdmin      = "Admin"
)

var validDepartments = map[string]bool{
	DepartmentSales:      true,
	DepartmentHR:         true,
	DepartmentConsulting: true,
	DepartmentFinance:    true,
	DepartmentAdmin:      true,
}

// IsValidDepartment reports whether name is a configured department
func IsValidDepartment(name string) bool {
	return validDepartments[name]
}

// AllDepartments returns the full configured department set
func AllDepartments() []string {
	return []string{
		DepartmentSales,
		DepartmentHR,
		DepartmentConsulting,
		DepartmentFinance,
		DepartmentAdmin,
	}
}

// Employee represents an employee record in the reporting hierarchy
type Employee struct {
	ID                 int64     `json:"id"`
	EmployeeID         string    `json:"employee_id"` // human-readable code, e.g. "EMP001"
	FullName           string    `json:"full_name"`
	Department         string    `json:"department"` // primary department
	Departments        []string  `json:"departments,omitempty"`
	ReportingManagerID *string   `json:"reporting_manager_id,omitempty"` // employee_id of direct manager
	UserID             *int64    `json:"user_id,omitempty"`
	BankAccountName    string    `json:"bank_account_name,omitempty"`
	BankAccountNumber  string    `json:"bank_account_number,omitempty"`
	BankName           string    `json:"bank_name,omitempty"`
	BankIFSC           string    `json:"bank_ifsc,omitempty"`
	CTC                float64   `json:"ctc,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
