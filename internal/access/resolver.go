package access

import (
	"fmt"
	"sort"

	"github.com/atlashq/erp-core/internal/models"
	"go.uber.org/zap"
)

// EmployeeStore is the employee data the resolver needs
type EmployeeStore interface {
	ListAll() ([]*models.Employee, error)
	GetByEmployeeID(employeeID string) (*models.Employee, error)
	GetDepartments(employeeID string) ([]string, error)
	AddDepartment(employeeID, department string) error
	RemoveDepartment(employeeID, department string) error
	UpdateReportingManager(employeeID string, managerID *string) error
}

// AccessScope is the derived visibility and mutation rights of a principal.
// Computed fresh per request so hierarchy changes take effect immediately.
type AccessScope struct {
	UserID            int64    `json:"user_id"`
	FullName          string   `json:"full_name"`
	Departments       []string `json:"departments"`
	PrimaryDepartment string   `json:"primary_department"`
	AccessiblePages   []string `json:"accessible_pages"`
	HasReportees      bool     `json:"has_reportees"`
	ReporteeCount     int      `json:"reportee_count"`
	IsViewOnly        bool     `json:"is_view_only"`
	CanEdit           bool     `json:"can_edit"`
	CanManageTeam     bool     `json:"can_manage_team"`
}

// BulkUpdateError is a per-employee failure inside a bulk department update
type BulkUpdateError struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

// BulkUpdateResult reports the outcome of a bulk department update. Partial
// success is expected: callers must inspect Errors, not the HTTP status.
type BulkUpdateResult struct {
	UpdatedCount int               `json:"updated_count"`
	Errors       []BulkUpdateError `json:"errors"`
}

var pagesByDepartment = map[string][]string{
	models.DepartmentSales:      {"leads", "funnel", "quotations"},
	models.DepartmentHR:         {"employees", "approvals", "onboarding"},
	models.DepartmentConsulting: {"projects", "kickoffs"},
	models.DepartmentFinance:    {"expenses", "payments"},
	models.DepartmentAdmin:      {"admin", "permissions"},
}

// Resolver computes access scopes and visibility filters from the live
// employee hierarchy
type Resolver struct {
	employees EmployeeStore
	logger    *zap.Logger
}

// NewResolver creates a new access resolver
func NewResolver(employees EmployeeStore, logger *zap.Logger) *Resolver {
	return &Resolver{
		employees: employees,
		logger:    logger,
	}
}

// ResolveAccess computes the access scope for a principal
func (r *Resolver) ResolveAccess(user *models.User) (*AccessScope, error) {
	scope := &AccessScope{
		UserID:      user.ID,
		FullName:    user.FullName,
		Departments: []string{},
	}

	var emp *models.Employee
	if user.EmployeeID != nil {
		var err error
		emp, err = r.employees.GetByEmployeeID(*user.EmployeeID)
		if err != nil {
			return nil, fmt.Errorf("resolve employee: %w", err)
		}
	}

	if emp != nil {
		departments, err := r.employees.GetDepartments(emp.EmployeeID)
		if err != nil {
			return nil, fmt.Errorf("resolve departments: %w", err)
		}
		scope.Departments = departments
		scope.PrimaryDepartment = emp.Department

		snapshot, err := r.employees.ListAll()
		if err != nil {
			return nil, fmt.Errorf("load hierarchy: %w", err)
		}
		hierarchy := NewHierarchy(snapshot)
		scope.HasReportees = hierarchy.HasReportees(emp.EmployeeID)
		scope.ReporteeCount = hierarchy.ReporteeCount(emp.EmployeeID)
	}

	if user.Role == models.RoleAdmin {
		// Admins see every department regardless of hierarchy
		scope.Departments = models.AllDepartments()
		if scope.PrimaryDepartment == "" {
			scope.PrimaryDepartment = models.DepartmentAdmin
		}
		scope.IsViewOnly = false
	} else {
		scope.IsViewOnly = !models.IsEditCapableRole(user.Role) && !scope.HasReportees
	}

	scope.CanEdit = !scope.IsViewOnly
	scope.CanManageTeam = scope.HasReportees
	scope.AccessiblePages = accessiblePages(user.Role, scope.Departments)

	return scope, nil
}

func accessiblePages(role string, departments []string) []string {
	seen := make(map[string]bool)

	if role == models.RoleAdmin {
		for _, pages := range pagesByDepartment {
			for _, p := range pages {
				seen[p] = true
			}
		}
	} else {
		for _, dept := range departments {
			for _, p := range pagesByDepartment[dept] {
				seen[p] = true
			}
		}
	}

	pages := make([]string, 0, len(seen))
	for p := range seen {
		pages = append(pages, p)
	}
	sort.Strings(pages)
	return pages
}

// visibleUserIDs returns the set of lead creators the principal may see, or
// nil when the principal sees everything (admin).
func (r *Resolver) visibleUserIDs(user *models.User) (map[int64]bool, error) {
	if user.Role == models.RoleAdmin {
		return nil, nil
	}

	visible := map[int64]bool{user.ID: true}

	if user.EmployeeID == nil {
		return visible, nil
	}

	snapshot, err := r.employees.ListAll()
	if err != nil {
		return nil, fmt.Errorf("load hierarchy: %w", err)
	}
	hierarchy := NewHierarchy(snapshot)

	if !hierarchy.HasReportees(*user.EmployeeID) {
		return visible, nil
	}

	for userID := range hierarchy.SubtreeUserIDs(*user.EmployeeID) {
		visible[userID] = true
	}
	return visible, nil
}

// FilterLeads returns the subset of leads the principal may see: admins see
// all, managers see their own plus their transitive reportees', everyone else
// sees only their own.
func (r *Resolver) FilterLeads(user *models.User, leads []*models.Lead) ([]*models.Lead, error) {
	visible, err := r.visibleUserIDs(user)
	if err != nil {
		return nil, err
	}
	if visible == nil {
		return leads, nil
	}

	filtered := make([]*models.Lead, 0, len(leads))
	for _, lead := range leads {
		if visible[lead.CreatedBy] {
			filtered = append(filtered, lead)
		}
	}
	return filtered, nil
}

// AuthorizeLead applies the FilterLeads rule to a single record. The caller
// must check record existence first so a missing ID yields 404, never 403.
func (r *Resolver) AuthorizeLead(user *models.User, lead *models.Lead) (bool, error) {
	visible, err := r.visibleUserIDs(user)
	if err != nil {
		return false, err
	}
	if visible == nil {
		return true, nil
	}
	return visible[lead.CreatedBy], nil
}

// BulkUpdateDepartments applies department membership changes to a batch of
// employees. Each employee's update is independent: unknown employees and
// would-be-empty membership sets are recorded as per-item errors and the
// batch continues. Unknown department names are silently dropped.
func (r *Resolver) BulkUpdateDepartments(employeeIDs, addDepartments, removeDepartments []string) (*BulkUpdateResult, error) {
	result := &BulkUpdateResult{Errors: []BulkUpdateError{}}

	add := filterValidDepartments(addDepartments)
	remove := filterValidDepartments(removeDepartments)

	for _, employeeID := range employeeIDs {
		emp, err := r.employees.GetByEmployeeID(employeeID)
		if err != nil {
			return nil, fmt.Errorf("get employee %s: %w", employeeID, err)
		}
		if emp == nil {
			result.Errors = append(result.Errors, BulkUpdateError{EmployeeID: employeeID, Error: "Not found"})
			continue
		}

		current, err := r.employees.GetDepartments(employeeID)
		if err != nil {
			return nil, fmt.Errorf("get departments %s: %w", employeeID, err)
		}

		after := make(map[string]bool, len(current))
		for _, d := range current {
			after[d] = true
		}
		for _, d := range add {
			after[d] = true
		}
		for _, d := range remove {
			delete(after, d)
		}

		if len(after) == 0 {
			result.Errors = append(result.Errors, BulkUpdateError{EmployeeID: employeeID, Error: "Cannot remove all departments"})
			continue
		}

		for _, d := range add {
			if err := r.employees.AddDepartment(employeeID, d); err != nil {
				return nil, fmt.Errorf("add department %s to %s: %w", d, employeeID, err)
			}
		}
		for _, d := range remove {
			if err := r.employees.RemoveDepartment(employeeID, d); err != nil {
				return nil, fmt.Errorf("remove department %s from %s: %w", d, employeeID, err)
			}
		}

		result.UpdatedCount++
		r.logger.Info("Updated employee departments",
			zap.String("employee_id", employeeID),
			zap.Strings("add", add),
			zap.Strings("remove", remove))
	}

	return result, nil
}

func filterValidDepartments(departments []string) []string {
	valid := make([]string, 0, len(departments))
	for _, d := range departments {
		if models.IsValidDepartment(d) {
			valid = append(valid, d)
		}
	}
	return valid
}

// ReassignManager changes an employee's direct manager after validating the
// assignment would not create a cycle in the reporting hierarchy.
func (r *Resolver) ReassignManager(employeeID string, managerID *string) error {
	emp, err := r.employees.GetByEmployeeID(employeeID)
	if err != nil {
		return fmt.Errorf("get employee: %w", err)
	}
	if emp == nil {
		return ErrEmployeeNotFound
	}

	if managerID != nil {
		manager, err := r.employees.GetByEmployeeID(*managerID)
		if err != nil {
			return fmt.Errorf("get manager: %w", err)
		}
		if manager == nil {
			return ErrEmployeeNotFound
		}

		snapshot, err := r.employees.ListAll()
		if err != nil {
			return fmt.Errorf("load hierarchy: %w", err)
		}
		if NewHierarchy(snapshot).WouldCreateCycle(employeeID, *managerID) {
			return ErrCycleDetected
		}
	}

	if err := r.employees.UpdateReportingManager(employeeID, managerID); err != nil {
		return err
	}

	r.logger.Info("Reassigned reporting manager", zap.String("employee_id", employeeID))
	return nil
}
