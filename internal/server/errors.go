package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/atlashq/erp-core/internal/access"
	"github.com/atlashq/erp-core/internal/approval"
	"github.com/atlashq/erp-core/internal/funnel"
)

// writeError maps domain errors onto the HTTP taxonomy: NotFound for missing
// or already-consumed records, Forbidden for role/scope denials, Conflict for
// invariant violations, 400 for malformed input.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, access.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, access.ErrEmployeeNotFound),
		errors.Is(err, approval.ErrSubjectNotFound),
		errors.Is(err, funnel.ErrLeadNotFound),
		errors.Is(err, approval.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, approval.ErrAlreadyProcessed):
		// A terminal request is indistinguishable from an absent one
		c.JSON(http.StatusNotFound, gin.H{"error": "approval request not found or already processed"})
	case errors.Is(err, access.ErrCycleDetected):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, approval.ErrInvalidChanges):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.logger.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
