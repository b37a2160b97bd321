// Package server is the HTTP adapter: it translates REST requests into calls
// on the access resolver, funnel tracker and approval service.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/atlashq/erp-core/internal/access"
	"github.com/atlashq/erp-core/internal/funnel"
	"github.com/atlashq/erp-core/internal/models"
)

// Config holds HTTP server configuration
type Config struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	PrincipalHeader string
	Debug           bool
}

type userStore interface {
	GetByID(id int64) (*models.User, error)
}

type employeeStore interface {
	Create(tx *sql.Tx, emp *models.Employee) error
	GetByEmployeeID(employeeID string) (*models.Employee, error)
}

type leadStore interface {
	Create(lead *models.Lead) error
	GetByPublicID(publicID string) (*models.Lead, error)
	ListAll() ([]*models.Lead, error)
	UpdateStatus(tx *sql.Tx, id int64, status string) error
}

type artifactStore interface {
	Create(tx *sql.Tx, artifact *models.FunnelArtifact) error
}

type accessService interface {
	ResolveAccess(user *models.User) (*access.AccessScope, error)
	FilterLeads(user *models.User, leads []*models.Lead) ([]*models.Lead, error)
	AuthorizeLead(user *models.User, lead *models.Lead) (bool, error)
	BulkUpdateDepartments(employeeIDs, add, remove []string) (*access.BulkUpdateResult, error)
	ReassignManager(employeeID string, managerID *string) error
}

type funnelService interface {
	Compute(lead *models.Lead) (*funnel.Progress, error)
	Sync(leadID int64) (*funnel.Progress, error)
}

type approvalService interface {
	Submit(requester *models.User, requestType, subjectEmployeeID string, changes map[string]string) (*models.ApprovalRequest, error)
	PendingQueue(reviewer *models.User) ([]*models.ApprovalRequest, error)
	ActionBySubject(reviewer *models.User, subjectEmployeeID, requestType string, approve bool, note string) (*models.ApprovalRequest, error)
	ActionByID(reviewer *models.User, publicID string, approve bool, note string) (*models.ApprovalRequest, error)
}

type principalCache interface {
	Get(userID int64) *models.User
	Set(user *models.User)
}

// Server is the HTTP server
type Server struct {
	cfg        Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger

	users     userStore
	employees employeeStore
	leads     leadStore
	artifacts artifactStore
	resolver  accessService
	tracker   funnelService
	approvals approvalService
	cache     principalCache
}

// New creates a new HTTP server with its routes registered
func New(
	cfg Config,
	users userStore,
	employees employeeStore,
	leads leadStore,
	artifacts artifactStore,
	resolver accessService,
	tracker funnelService,
	approvals approvalService,
	cache principalCache,
	logger *zap.Logger,
) *Server {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:       cfg,
		router:    gin.New(),
		logger:    logger,
		users:     users,
		employees: employees,
		leads:     leads,
		artifacts: artifacts,
		resolver:  resolver,
		tracker:   tracker,
		approvals: approvals,
		cache:     cache,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(corsMiddleware())
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)

	api := s.router.Group("/api")
	api.Use(s.authMiddleware())
	{
		api.GET("/department-access/my-access", s.myAccess)
		api.POST("/department-access/bulk-update", s.bulkUpdateDepartments)

		api.GET("/leads", s.listLeads)
		api.POST("/leads", s.createLead)
		api.GET("/leads/:id", s.getLead)
		api.GET("/leads/:id/funnel-progress", s.funnelProgress)
		api.POST("/leads/:id/artifacts/:type", s.recordArtifact)
		api.POST("/leads/:id/lost", s.markLeadLost)

		api.POST("/employees", s.createEmployee)
		api.PUT("/employees/:employee_id/manager", s.reassignManager)

		api.POST("/approvals", s.submitApproval)
		api.GET("/approvals/pending", s.pendingApprovals)

		api.POST("/hr/bank-change-request/:employee_id/approve", s.actionBankChange(true))
		api.POST("/hr/bank-change-request/:employee_id/reject", s.actionBankChange(false))

		api.POST("/admin/ctc-change-request/:employee_id/approve", s.actionCTCChange(true))
		api.POST("/admin/ctc-change-request/:employee_id/reject", s.actionCTCChange(false))

		api.POST("/permission-change-requests/:id/approve", s.actionPermissionChange(true))
		api.POST("/permission-change-requests/:id/reject", s.actionPermissionChange(false))
	}
}

// Start starts the HTTP server and blocks until it exits
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the gin engine for tests
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "erp-core",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		s.logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
