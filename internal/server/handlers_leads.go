package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/atlashq/erp-core/internal/access"
	"github.com/atlashq/erp-core/internal/models"
	"github.com/atlashq/erp-core/pkg/utils"
)

// CreateLeadRequest is the body of POST /api/leads
type CreateLeadRequest struct {
	Company      string `json:"company" binding:"required"`
	ContactName  string `json:"contact_name" binding:"required"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	LeadScore    int    `json:"lead_score"`
}

// ArtifactRequest is the body of POST /api/leads/:id/artifacts/:type
type ArtifactRequest struct {
	Detail string `json:"detail"`
}

// listLeads handles GET /api/leads, scoped by the hierarchy filter
func (s *Server) listLeads(c *gin.Context) {
	user := principal(c)
	if !access.Allowed(user.Role, access.ResourceLead, access.ActionView) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	all, err := s.leads.ListAll()
	if err != nil {
		s.writeError(c, err)
		return
	}

	visible, err := s.resolver.FilterLeads(user, all)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if visible == nil {
		visible = []*models.Lead{}
	}
	c.JSON(http.StatusOK, visible)
}

// createLead handles POST /api/leads
func (s *Server) createLead(c *gin.Context) {
	user := principal(c)
	if !access.Allowed(user.Role, access.ResourceLead, access.ActionCreate) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := utils.ValidateLeadScore(req.LeadScore); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ContactEmail != "" {
		if err := utils.ValidateEmail(req.ContactEmail); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	lead := &models.Lead{
		PublicID:     uuid.NewString(),
		CreatedBy:    user.ID,
		Status:       models.LeadStatusNew,
		LeadScore:    req.LeadScore,
		Company:      utils.SanitizeString(req.Company),
		ContactName:  utils.SanitizeString(req.ContactName),
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
	}

	if err := s.leads.Create(lead); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lead)
}

// loadAuthorizedLead fetches a lead and applies the single-record access
// rule. Existence is checked first: a missing ID yields 404 and never leaks a
// 403 that would confirm the record exists.
func (s *Server) loadAuthorizedLead(c *gin.Context) *models.Lead {
	lead, err := s.leads.GetByPublicID(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return nil
	}
	if lead == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
		return nil
	}

	allowed, err := s.resolver.AuthorizeLead(principal(c), lead)
	if err != nil {
		s.writeError(c, err)
		return nil
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return nil
	}
	return lead
}

// getLead handles GET /api/leads/:id
func (s *Server) getLead(c *gin.Context) {
	lead := s.loadAuthorizedLead(c)
	if lead == nil {
		return
	}
	c.JSON(http.StatusOK, lead)
}

// funnelProgress handles GET /api/leads/:id/funnel-progress. Reading progress
// also writes the derived status back so this endpoint and the lead read can
// never disagree.
func (s *Server) funnelProgress(c *gin.Context) {
	lead := s.loadAuthorizedLead(c)
	if lead == nil {
		return
	}

	progress, err := s.tracker.Sync(lead.ID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// recordArtifact handles POST /api/leads/:id/artifacts/:type
func (s *Server) recordArtifact(c *gin.Context) {
	user := principal(c)
	if !access.Allowed(user.Role, access.ResourceLead, access.ActionUpdate) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	artifactType := c.Param("type")
	if !models.IsValidArtifactType(artifactType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown artifact type"})
		return
	}

	lead := s.loadAuthorizedLead(c)
	if lead == nil {
		return
	}

	var req ArtifactRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	artifact := &models.FunnelArtifact{
		LeadID:       lead.ID,
		ArtifactType: artifactType,
		CreatedBy:    user.ID,
		Detail:       req.Detail,
	}
	if err := s.artifacts.Create(nil, artifact); err != nil {
		s.writeError(c, err)
		return
	}

	progress, err := s.tracker.Sync(lead.ID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, progress)
}

// markLeadLost handles POST /api/leads/:id/lost, the only manual terminal
// transition: "lost" is never auto-derived from artifacts.
func (s *Server) markLeadLost(c *gin.Context) {
	user := principal(c)
	if !access.Allowed(user.Role, access.ResourceLead, access.ActionUpdate) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	lead := s.loadAuthorizedLead(c)
	if lead == nil {
		return
	}

	if err := s.leads.UpdateStatus(nil, lead.ID, models.LeadStatusLost); err != nil {
		s.writeError(c, err)
		return
	}
	lead.Status = models.LeadStatusLost
	c.JSON(http.StatusOK, lead)
}
