package access

import (
	"testing"

	"github.com/atlashq/erp-core/internal/models"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }
func i64Ptr(i int64) *int64   { return &i }

func testEmployees() []*models.Employee {
	return []*models.Employee{
		{EmployeeID: "EMP001", Department: models.DepartmentSales, UserID: i64Ptr(1)},
		{EmployeeID: "EMP002", Department: models.DepartmentSales, ReportingManagerID: strPtr("EMP001"), UserID: i64Ptr(2)},
		{EmployeeID: "EMP003", Department: models.DepartmentSales, ReportingManagerID: strPtr("EMP002"), UserID: i64Ptr(3)},
		{EmployeeID: "EMP004", Department: models.DepartmentHR, UserID: i64Ptr(4)},
	}
}

func TestHierarchy_DirectReports(t *testing.T) {
	h := NewHierarchy(testEmployees())

	assert.Equal(t, []string{"EMP002"}, h.DirectReports("EMP001"))
	assert.True(t, h.HasReportees("EMP001"))
	assert.Equal(t, 1, h.ReporteeCount("EMP001"))

	assert.False(t, h.HasReportees("EMP003"))
	assert.Equal(t, 0, h.ReporteeCount("EMP003"))
	assert.False(t, h.HasReportees("EMP004"))
}

func TestHierarchy_TransitiveReportees(t *testing.T) {
	h := NewHierarchy(testEmployees())

	assert.ElementsMatch(t, []string{"EMP002", "EMP003"}, h.TransitiveReportees("EMP001"))
	assert.ElementsMatch(t, []string{"EMP003"}, h.TransitiveReportees("EMP002"))
	assert.Empty(t, h.TransitiveReportees("EMP003"))
	assert.Empty(t, h.TransitiveReportees("EMP004"))
}

func TestHierarchy_TransitiveReportees_TerminatesOnCycle(t *testing.T) {
	// A cycle should never exist, but traversal must still terminate
	employees := []*models.Employee{
		{EmployeeID: "EMP001", ReportingManagerID: strPtr("EMP002")},
		{EmployeeID: "EMP002", ReportingManagerID: strPtr("EMP001")},
	}
	h := NewHierarchy(employees)

	reportees := h.TransitiveReportees("EMP001")
	assert.LessOrEqual(t, len(reportees), 2)
}

func TestHierarchy_SubtreeUserIDs(t *testing.T) {
	h := NewHierarchy(testEmployees())

	userIDs := h.SubtreeUserIDs("EMP001")
	assert.Equal(t, map[int64]bool{1: true, 2: true, 3: true}, userIDs)
}

func TestHierarchy_WouldCreateCycle(t *testing.T) {
	h := NewHierarchy(testEmployees())

	tests := []struct {
		name       string
		employeeID string
		managerID  string
		expected   bool
	}{
		{"self-report", "EMP001", "EMP001", true},
		{"direct cycle", "EMP001", "EMP002", true},
		{"transitive cycle", "EMP001", "EMP003", true},
		{"valid reassignment", "EMP004", "EMP002", false},
		{"valid top-level manager", "EMP002", "EMP004", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, h.WouldCreateCycle(tt.employeeID, tt.managerID))
		})
	}
}
