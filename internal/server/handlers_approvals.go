package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atlashq/erp-core/internal/models"
)

// SubmitApprovalRequest is the body of POST /api/approvals
type SubmitApprovalRequest struct {
	RequestType       string            `json:"request_type" binding:"required"`
	SubjectEmployeeID string            `json:"subject_employee_id" binding:"required"`
	Changes           map[string]string `json:"changes"`
}

// ReviewRequest is the optional body of approve/reject endpoints
type ReviewRequest struct {
	Note string `json:"note"`
}

// submitApproval handles POST /api/approvals
func (s *Server) submitApproval(c *gin.Context) {
	var req SubmitApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Changes == nil {
		req.Changes = map[string]string{}
	}

	created, err := s.approvals.Submit(principal(c), req.RequestType, req.SubjectEmployeeID, req.Changes)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// pendingApprovals handles GET /api/approvals/pending, returning the
// caller's queue per the routing table
func (s *Server) pendingApprovals(c *gin.Context) {
	requests, err := s.approvals.PendingQueue(principal(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (s *Server) reviewNote(c *gin.Context) string {
	var req ReviewRequest
	if c.Request.ContentLength > 0 {
		_ = c.ShouldBindJSON(&req)
	}
	return req.Note
}

// actionBankChange handles POST /api/hr/bank-change-request/:employee_id/{approve,reject}.
// Bank changes are terminal at the HR queue: approval writes the bank fields
// and finishes, with no admin escalation.
func (s *Server) actionBankChange(approve bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := s.approvals.ActionBySubject(
			principal(c), c.Param("employee_id"), models.ApprovalTypeBankChange, approve, s.reviewNote(c))
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, req)
	}
}

// actionCTCChange handles POST /api/admin/ctc-change-request/:employee_id/{approve,reject}
func (s *Server) actionCTCChange(approve bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := s.approvals.ActionBySubject(
			principal(c), c.Param("employee_id"), models.ApprovalTypeCTCChange, approve, s.reviewNote(c))
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, req)
	}
}

// actionPermissionChange handles POST /api/permission-change-requests/:id/{approve,reject}.
// Admin only: HR can view and create permission changes but any action
// attempt is forbidden.
func (s *Server) actionPermissionChange(approve bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := s.approvals.ActionByID(principal(c), c.Param("id"), approve, s.reviewNote(c))
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, req)
	}
}
