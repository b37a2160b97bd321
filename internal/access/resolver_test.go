package access

import (
	"testing"

	"github.com/atlashq/erp-core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockEmployeeStore implements EmployeeStore for testing
type mockEmployeeStore struct {
	listAllFunc                func() ([]*models.Employee, error)
	getByEmployeeIDFunc        func(employeeID string) (*models.Employee, error)
	getDepartmentsFunc         func(employeeID string) ([]string, error)
	addDepartmentFunc          func(employeeID, department string) error
	removeDepartmentFunc       func(employeeID, department string) error
	updateReportingManagerFunc func(employeeID string, managerID *string) error
}

func (m *mockEmployeeStore) ListAll() ([]*models.Employee, error) {
	return m.listAllFunc()
}

func (m *mockEmployeeStore) GetByEmployeeID(employeeID string) (*models.Employee, error) {
	return m.getByEmployeeIDFunc(employeeID)
}

func (m *mockEmployeeStore) GetDepartments(employeeID string) ([]string, error) {
	return m.getDepartmentsFunc(employeeID)
}

func (m *mockEmployeeStore) AddDepartment(employeeID, department string) error {
	return m.addDepartmentFunc(employeeID, department)
}

func (m *mockEmployeeStore) RemoveDepartment(employeeID, department string) error {
	return m.removeDepartmentFunc(employeeID, department)
}

func (m *mockEmployeeStore) UpdateReportingManager(employeeID string, managerID *string) error {
	return m.updateReportingManagerFunc(employeeID, managerID)
}

// newChainStore builds a store over the EMP001 <- EMP002 <- EMP003 chain plus
// the unrelated EMP004
func newChainStore() *mockEmployeeStore {
	employees := testEmployees()
	byID := make(map[string]*models.Employee)
	for _, e := range employees {
		byID[e.EmployeeID] = e
	}
	return &mockEmployeeStore{
		listAllFunc: func() ([]*models.Employee, error) { return employees, nil },
		getByEmployeeIDFunc: func(employeeID string) (*models.Employee, error) {
			return byID[employeeID], nil
		},
		getDepartmentsFunc: func(employeeID string) ([]string, error) {
			if emp := byID[employeeID]; emp != nil {
				return []string{emp.Department}, nil
			}
			return nil, nil
		},
		addDepartmentFunc:    func(string, string) error { return nil },
		removeDepartmentFunc: func(string, string) error { return nil },
		updateReportingManagerFunc: func(string, *string) error { return nil },
	}
}

func chainUser(id int64, employeeID, role string) *models.User {
	return &models.User{
		ID:         id,
		FullName:   "Test User",
		Role:       role,
		EmployeeID: strPtr(employeeID),
		IsActive:   true,
	}
}

func TestResolveAccess_ManagerWithReportees(t *testing.T) {
	resolver := NewResolver(newChainStore(), zap.NewNop())

	scope, err := resolver.ResolveAccess(chainUser(1, "EMP001", models.RoleExecutive))
	require.NoError(t, err)

	assert.True(t, scope.HasReportees)
	assert.Equal(t, 1, scope.ReporteeCount)
	// Reportees confer edit rights even without an edit-capable role
	assert.False(t, scope.IsViewOnly)
	assert.True(t, scope.CanEdit)
	assert.True(t, scope.CanManageTeam)
	assert.Equal(t, scope.CanManageTeam, scope.HasReportees)
	assert.Equal(t, []string{models.DepartmentSales}, scope.Departments)
	assert.Equal(t, models.DepartmentSales, scope.PrimaryDepartment)
}

func TestResolveAccess_LeafExecutiveIsViewOnly(t *testing.T) {
	resolver := NewResolver(newChainStore(), zap.NewNop())

	scope, err := resolver.ResolveAccess(chainUser(3, "EMP003", models.RoleExecutive))
	require.NoError(t, err)

	assert.False(t, scope.HasReportees)
	assert.True(t, scope.IsViewOnly)
	assert.False(t, scope.CanEdit)
	assert.False(t, scope.CanManageTeam)
	assert.Equal(t, scope.CanEdit, !scope.IsViewOnly)
}

func TestResolveAccess_EditCapableRoleWithoutReportees(t *testing.T) {
	resolver := NewResolver(newChainStore(), zap.NewNop())

	scope, err := resolver.ResolveAccess(chainUser(4, "EMP004", models.RoleHRManager))
	require.NoError(t, err)

	assert.False(t, scope.HasReportees)
	assert.False(t, scope.IsViewOnly)
	assert.True(t, scope.CanEdit)
	assert.False(t, scope.CanManageTeam)
}

func TestResolveAccess_Admin(t *testing.T) {
	resolver := NewResolver(newChainStore(), zap.NewNop())

	user := &models.User{ID: 99, Role: models.RoleAdmin, IsActive: true}
	scope, err := resolver.ResolveAccess(user)
	require.NoError(t, err)

	assert.ElementsMatch(t, models.AllDepartments(), scope.Departments)
	assert.Equal(t, models.DepartmentAdmin, scope.PrimaryDepartment)
	assert.False(t, scope.IsViewOnly)
	assert.True(t, scope.CanEdit)
	assert.NotEmpty(t, scope.AccessiblePages)
}

func leadBy(userID int64) *models.Lead {
	return &models.Lead{ID: userID, PublicID: "lead", CreatedBy: userID, Status: models.LeadStatusNew}
}

func TestFilterLeads_Scoping(t *testing.T) {
	resolver := NewResolver(newChainStore(), zap.NewNop())
	leads := []*models.Lead{leadBy(1), leadBy(2), leadBy(3), leadBy(4)}

	tests := []struct {
		name     string
		user     *models.User
		expected []int64
	}{
		{"admin sees all", &models.User{ID: 99, Role: models.RoleAdmin}, []int64{1, 2, 3, 4}},
		{"top manager sees whole subtree", chainUser(1, "EMP001", models.RoleSalesManager), []int64{1, 2, 3}},
		{"mid manager sees self plus reportee", chainUser(2, "EMP002", models.RoleExecutive), []int64{2, 3}},
		{"leaf sees only own", chainUser(3, "EMP003", models.RoleExecutive), []int64{3}},
		{"unrelated sees only own", chainUser(4, "EMP004", models.RoleExecutive), []int64{4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered, err := resolver.FilterLeads(tt.user, leads)
			require.NoError(t, err)

			got := make([]int64, 0, len(filtered))
			for _, l := range filtered {
				got = append(got, l.CreatedBy)
			}
			assert.ElementsMatch(t, tt.expected, got)
		})
	}
}

// A lead passes AuthorizeLead exactly when FilterLeads keeps it
func TestAuthorizeLead_AgreesWithFilter(t *testing.T) {
	resolver := NewResolver(newChainStore(), zap.NewNop())
	leads := []*models.Lead{leadBy(1), leadBy(2), leadBy(3), leadBy(4)}

	users := []*models.User{
		{ID: 99, Role: models.RoleAdmin},
		chainUser(1, "EMP001", models.RoleSalesManager),
		chainUser(2, "EMP002", models.RoleExecutive),
		chainUser(3, "EMP003", models.RoleExecutive),
	}

	for _, user := range users {
		filtered, err := resolver.FilterLeads(user, leads)
		require.NoError(t, err)

		kept := make(map[int64]bool)
		for _, l := range filtered {
			kept[l.ID] = true
		}

		for _, lead := range leads {
			ok, err := resolver.AuthorizeLead(user, lead)
			require.NoError(t, err)
			assert.Equal(t, kept[lead.ID], ok,
				"user %d lead %d: single-record and list visibility disagree", user.ID, lead.ID)
		}
	}
}

func TestBulkUpdateDepartments(t *testing.T) {
	t.Run("empty batch is a no-op", func(t *testing.T) {
		store := newChainStore()
		mutations := 0
		store.addDepartmentFunc = func(string, string) error { mutations++; return nil }
		store.removeDepartmentFunc = func(string, string) error { mutations++; return nil }

		resolver := NewResolver(store, zap.NewNop())
		result, err := resolver.BulkUpdateDepartments(nil, []string{models.DepartmentHR}, nil)
		require.NoError(t, err)

		assert.Equal(t, 0, result.UpdatedCount)
		assert.Empty(t, result.Errors)
		assert.Equal(t, 0, mutations)
	})

	t.Run("unknown employee recorded, batch continues", func(t *testing.T) {
		store := newChainStore()
		resolver := NewResolver(store, zap.NewNop())

		result, err := resolver.BulkUpdateDepartments(
			[]string{"EMP999", "EMP002"}, []string{models.DepartmentHR}, nil)
		require.NoError(t, err)

		assert.Equal(t, 1, result.UpdatedCount)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "EMP999", result.Errors[0].EmployeeID)
		assert.Equal(t, "Not found", result.Errors[0].Error)
	})

	t.Run("invalid department names silently dropped", func(t *testing.T) {
		store := newChainStore()
		var added []string
		store.addDepartmentFunc = func(_, dept string) error { added = append(added, dept); return nil }

		resolver := NewResolver(store, zap.NewNop())
		result, err := resolver.BulkUpdateDepartments(
			[]string{"EMP002"}, []string{"Warehouse", models.DepartmentHR}, nil)
		require.NoError(t, err)

		assert.Equal(t, 1, result.UpdatedCount)
		assert.Empty(t, result.Errors)
		assert.Equal(t, []string{models.DepartmentHR}, added)
	})

	t.Run("cannot remove all departments", func(t *testing.T) {
		store := newChainStore()
		mutations := 0
		store.addDepartmentFunc = func(string, string) error { mutations++; return nil }
		store.removeDepartmentFunc = func(string, string) error { mutations++; return nil }

		resolver := NewResolver(store, zap.NewNop())
		result, err := resolver.BulkUpdateDepartments(
			[]string{"EMP001"}, nil, []string{models.DepartmentSales})
		require.NoError(t, err)

		assert.Equal(t, 0, result.UpdatedCount)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "Cannot remove all departments", result.Errors[0].Error)
		assert.Equal(t, 0, mutations, "rejected update must not touch memberships")
	})

	t.Run("swap departments", func(t *testing.T) {
		store := newChainStore()
		resolver := NewResolver(store, zap.NewNop())

		result, err := resolver.BulkUpdateDepartments(
			[]string{"EMP001"}, []string{models.DepartmentHR}, []string{models.DepartmentSales})
		require.NoError(t, err)

		assert.Equal(t, 1, result.UpdatedCount)
		assert.Empty(t, result.Errors)
	})
}

func TestReassignManager(t *testing.T) {
	t.Run("unknown employee", func(t *testing.T) {
		resolver := NewResolver(newChainStore(), zap.NewNop())
		err := resolver.ReassignManager("EMP999", strPtr("EMP001"))
		assert.ErrorIs(t, err, ErrEmployeeNotFound)
	})

	t.Run("unknown manager", func(t *testing.T) {
		resolver := NewResolver(newChainStore(), zap.NewNop())
		err := resolver.ReassignManager("EMP002", strPtr("EMP999"))
		assert.ErrorIs(t, err, ErrEmployeeNotFound)
	})

	t.Run("cycle rejected", func(t *testing.T) {
		store := newChainStore()
		updated := false
		store.updateReportingManagerFunc = func(string, *string) error { updated = true; return nil }

		resolver := NewResolver(store, zap.NewNop())
		err := resolver.ReassignManager("EMP001", strPtr("EMP003"))
		assert.ErrorIs(t, err, ErrCycleDetected)
		assert.False(t, updated)
	})

	t.Run("valid reassignment", func(t *testing.T) {
		store := newChainStore()
		var gotManager *string
		store.updateReportingManagerFunc = func(_ string, managerID *string) error {
			gotManager = managerID
			return nil
		}

		resolver := NewResolver(store, zap.NewNop())
		err := resolver.ReassignManager("EMP004", strPtr("EMP002"))
		require.NoError(t, err)
		require.NotNil(t, gotManager)
		assert.Equal(t, "EMP002", *gotManager)
	})

	t.Run("clearing manager skips cycle check", func(t *testing.T) {
		resolver := NewResolver(newChainStore(), zap.NewNop())
		assert.NoError(t, resolver.ReassignManager("EMP003", nil))
	})
}
