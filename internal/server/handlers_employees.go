package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atlashq/erp-core/internal/models"
	"github.com/atlashq/erp-core/pkg/utils"
)

// CreateEmployeeRequest is the body of POST /api/employees
type CreateEmployeeRequest struct {
	EmployeeID         string  `json:"employee_id" binding:"required"`
	FullName           string  `json:"full_name" binding:"required"`
	Department         string  `json:"department" binding:"required"`
	ReportingManagerID *string `json:"reporting_manager_id"`
	UserID             *int64  `json:"user_id"`
}

// ReassignManagerRequest is the body of PUT /api/employees/:employee_id/manager
type ReassignManagerRequest struct {
	ReportingManagerID *string `json:"reporting_manager_id"`
}

// createEmployee handles POST /api/employees (admin only)
func (s *Server) createEmployee(c *gin.Context) {
	if principal(c).Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := utils.ValidateEmployeeID(req.EmployeeID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.IsValidDepartment(req.Department) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown department"})
		return
	}

	if existing, err := s.employees.GetByEmployeeID(req.EmployeeID); err != nil {
		s.writeError(c, err)
		return
	} else if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "employee already exists"})
		return
	}

	if req.ReportingManagerID != nil {
		manager, err := s.employees.GetByEmployeeID(*req.ReportingManagerID)
		if err != nil {
			s.writeError(c, err)
			return
		}
		if manager == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "reporting manager not found"})
			return
		}
	}

	emp := &models.Employee{
		EmployeeID:         req.EmployeeID,
		FullName:           utils.SanitizeString(req.FullName),
		Department:         req.Department,
		ReportingManagerID: req.ReportingManagerID,
		UserID:             req.UserID,
	}
	if err := s.employees.Create(nil, emp); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, emp)
}

// reassignManager handles PUT /api/employees/:employee_id/manager (admin
// only). Assignments that would create a reporting cycle are rejected at
// write time with a conflict.
func (s *Server) reassignManager(c *gin.Context) {
	if principal(c).Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var req ReassignManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := s.resolver.ReassignManager(c.Param("employee_id"), req.ReportingManagerID); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"employee_id": c.Param("employee_id"), "reporting_manager_id": req.ReportingManagerID})
}
