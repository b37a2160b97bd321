package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atlashq/erp-core/internal/models"
)

// BulkUpdateRequest is the body of POST /api/department-access/bulk-update
type BulkUpdateRequest struct {
	EmployeeIDs       []string `json:"employee_ids" binding:"required"`
	AddDepartments    []string `json:"add_departments"`
	RemoveDepartments []string `json:"remove_departments"`
}

// myAccess handles GET /api/department-access/my-access
func (s *Server) myAccess(c *gin.Context) {
	scope, err := s.resolver.ResolveAccess(principal(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, scope)
}

// bulkUpdateDepartments handles POST /api/department-access/bulk-update.
// Admin only; the role gate fires before any mutation. Per-item failures land
// in the errors array, never in the HTTP status.
func (s *Server) bulkUpdateDepartments(c *gin.Context) {
	if principal(c).Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var req BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := s.resolver.BulkUpdateDepartments(req.EmployeeIDs, req.AddDepartments, req.RemoveDepartments)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
