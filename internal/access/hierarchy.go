package access

import (
	"github.com/atlashq/erp-core/internal/models"
)

// Hierarchy is an adjacency view over an employee snapshot. The
// reporting_manager_id relation must form a forest; traversals are still
// bounded by the snapshot size so erroneous cycles cannot hang a request.
type Hierarchy struct {
	byID          map[string]*models.Employee
	directReports map[string][]string
	total         int
}

// NewHierarchy builds a hierarchy from an employee snapshot
func NewHierarchy(employees []*models.Employee) *Hierarchy {
	h := &Hierarchy{
		byID:          make(map[string]*models.Employee, len(employees)),
		directReports: make(map[string][]string),
		total:         len(employees),
	}

	for _, emp := range employees {
		h.byID[emp.EmployeeID] = emp
	}
	for _, emp := range employees {
		if emp.ReportingManagerID == nil {
			continue
		}
		manager := *emp.ReportingManagerID
		h.directReports[manager] = append(h.directReports[manager], emp.EmployeeID)
	}

	return h
}

// Get returns the employee with the given code, or nil
func (h *Hierarchy) Get(employeeID string) *models.Employee {
	return h.byID[employeeID]
}

// DirectReports returns the employee codes reporting directly to employeeID
func (h *Hierarchy) DirectReports(employeeID string) []string {
	return h.directReports[employeeID]
}

// HasReportees reports whether at least one employee reports to employeeID
func (h *Hierarchy) HasReportees(employeeID string) bool {
	return len(h.directReports[employeeID]) > 0
}

// ReporteeCount returns the number of direct reports of employeeID
func (h *Hierarchy) ReporteeCount(employeeID string) int {
	return len(h.directReports[employeeID])
}

// TransitiveReportees returns every employee code below employeeID in the
// hierarchy. Breadth-first, with expansion capped at the snapshot size.
func (h *Hierarchy) TransitiveReportees(employeeID string) []string {
	var result []string
	visited := map[string]bool{employeeID: true}
	queue := append([]string{}, h.directReports[employeeID]...)

	for len(queue) > 0 && len(result) < h.total {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		result = append(result, current)
		queue = append(queue, h.directReports[current]...)
	}

	return result
}

// SubtreeUserIDs returns the user IDs linked to employeeID and every
// transitive reportee. Used to scope lead visibility to a manager's subtree.
func (h *Hierarchy) SubtreeUserIDs(employeeID string) map[int64]bool {
	userIDs := make(map[int64]bool)

	if emp := h.byID[employeeID]; emp != nil && emp.UserID != nil {
		userIDs[*emp.UserID] = true
	}
	for _, code := range h.TransitiveReportees(employeeID) {
		if emp := h.byID[code]; emp != nil && emp.UserID != nil {
			userIDs[*emp.UserID] = true
		}
	}

	return userIDs
}

// WouldCreateCycle reports whether assigning newManagerID as the direct
// manager of employeeID would make employeeID report to itself, directly or
// transitively. The walk up the manager chain is bounded by the snapshot size.
func (h *Hierarchy) WouldCreateCycle(employeeID, newManagerID string) bool {
	if employeeID == newManagerID {
		return true
	}

	current := newManagerID
	for steps := 0; steps < h.total; steps++ {
		emp := h.byID[current]
		if emp == nil || emp.ReportingManagerID == nil {
			return false
		}
		current = *emp.ReportingManagerID
		if current == employeeID {
			return true
		}
	}

	return false
}
