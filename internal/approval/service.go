package approval

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/atlashq/erp-core/internal/access"
	"github.com/atlashq/erp-core/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type approvalStore interface {
	Create(req *models.ApprovalRequest) error
	GetByPublicID(publicID string) (*models.ApprovalRequest, error)
	GetPendingBySubject(employeeID, requestType string) (*models.ApprovalRequest, error)
	ListPendingByTypes(requestTypes []string) ([]*models.ApprovalRequest, error)
	FinalizeIfPending(tx *sql.Tx, id int64, status string, reviewerID int64, note string) (bool, error)
}

type employeeStore interface {
	GetByEmployeeID(employeeID string) (*models.Employee, error)
	UpdateBankDetails(tx *sql.Tx, employeeID string, fields map[string]string) error
	UpdateCTC(tx *sql.Tx, employeeID string, ctc float64) error
}

type userStore interface {
	UpdateRole(tx *sql.Tx, id int64, role string) error
}

type txRunner interface {
	WithTransaction(fn func(*sql.Tx) error) error
}

// principalInvalidator evicts a cached principal after a role change. This is
// a correctness requirement: a stale cached role must never outlive the write.
type principalInvalidator interface {
	InvalidateUser(userID int64)
}

// Service manages the approval request lifecycle
type Service struct {
	tx        txRunner
	approvals approvalStore
	employees employeeStore
	users     userStore
	cache     principalInvalidator
	logger    *zap.Logger
}

// NewService creates a new approval service
func NewService(
	tx txRunner,
	approvals approvalStore,
	employees employeeStore,
	users userStore,
	cache principalInvalidator,
	logger *zap.Logger,
) *Service {
	return &Service{
		tx:        tx,
		approvals: approvals,
		employees: employees,
		users:     users,
		cache:     cache,
		logger:    logger,
	}
}

// Submit creates a new approval request routed to the queue for its type
func (s *Service) Submit(requester *models.User, requestType, subjectEmployeeID string, changes map[string]string) (*models.ApprovalRequest, error) {
	if !models.IsValidApprovalType(requestType) {
		return nil, fmt.Errorf("%w: unknown request type %q", ErrInvalidChanges, requestType)
	}
	if !CanSubmit(requester.Role, requestType) {
		return nil, access.ErrForbidden
	}

	subject, err := s.employees.GetByEmployeeID(subjectEmployeeID)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, ErrSubjectNotFound
	}

	changesJSON, err := json.Marshal(changes)
	if err != nil {
		return nil, fmt.Errorf("marshal changes: %w", err)
	}

	req := &models.ApprovalRequest{
		PublicID:          uuid.NewString(),
		RequestType:       requestType,
		SubjectEmployeeID: subjectEmployeeID,
		RequestedBy:       requester.ID,
		Changes:           string(changesJSON),
		Status:            InitialStatus(requestType),
	}

	if err := s.approvals.Create(req); err != nil {
		return nil, err
	}

	s.logger.Info("Approval request submitted",
		zap.String("public_id", req.PublicID),
		zap.String("type", requestType),
		zap.String("subject", subjectEmployeeID),
		zap.String("queue", string(RouteFor(requestType))))
	return req, nil
}

// PendingQueue returns the non-terminal requests the reviewer may action
func (s *Service) PendingQueue(reviewer *models.User) ([]*models.ApprovalRequest, error) {
	types := ActionableTypes(reviewer.Role)
	if len(types) == 0 {
		return []*models.ApprovalRequest{}, nil
	}

	requests, err := s.approvals.ListPendingByTypes(types)
	if err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []*models.ApprovalRequest{}
	}
	return requests, nil
}

// ActionBySubject approves or rejects the pending request of the given type
// for an employee. Returns ErrRequestNotFound when nothing is pending.
func (s *Service) ActionBySubject(reviewer *models.User, subjectEmployeeID, requestType string, approve bool, note string) (*models.ApprovalRequest, error) {
	subject, err := s.employees.GetByEmployeeID(subjectEmployeeID)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, ErrSubjectNotFound
	}

	req, err := s.approvals.GetPendingBySubject(subjectEmployeeID, requestType)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}

	return s.action(reviewer, req, approve, note)
}

// ActionByID approves or rejects a request identified by its public ID
func (s *Service) ActionByID(reviewer *models.User, publicID string, approve bool, note string) (*models.ApprovalRequest, error) {
	req, err := s.approvals.GetByPublicID(publicID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}
	if models.IsTerminalApprovalStatus(req.Status) {
		return nil, ErrAlreadyProcessed
	}

	return s.action(reviewer, req, approve, note)
}

// action performs the role check, the terminal-state compare-and-swap, and
// the approval side-effects.
func (s *Service) action(reviewer *models.User, req *models.ApprovalRequest, approve bool, note string) (*models.ApprovalRequest, error) {
	if !CanAction(reviewer.Role, req.RequestType) {
		return nil, access.ErrForbidden
	}
	// Reviewers never action their own submissions
	if req.RequestedBy == reviewer.ID && reviewer.Role != models.RoleAdmin {
		return nil, access.ErrForbidden
	}

	finalStatus := models.ApprovalStatusRejected
	if approve {
		finalStatus = models.ApprovalStatusApproved
	}

	var invalidateUserID *int64
	err := s.tx.WithTransaction(func(tx *sql.Tx) error {
		consumed, err := s.approvals.FinalizeIfPending(tx, req.ID, finalStatus, reviewer.ID, note)
		if err != nil {
			return err
		}
		if !consumed {
			// First writer wins; this action observed a terminal request
			return ErrAlreadyProcessed
		}

		if approve {
			userID, err := s.applyChanges(tx, req)
			if err != nil {
				return err
			}
			invalidateUserID = userID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Invalidate after commit so the cache can never re-serve the old role
	if invalidateUserID != nil {
		s.cache.InvalidateUser(*invalidateUserID)
	}

	req.Status = finalStatus
	req.ReviewedBy = &reviewer.ID
	req.ReviewNote = note

	s.logger.Info("Approval request finalized",
		zap.String("public_id", req.PublicID),
		zap.String("type", req.RequestType),
		zap.String("status", finalStatus),
		zap.Int64("reviewer", reviewer.ID))
	return req, nil
}

// applyChanges mutates the subject record on approval and returns the user
// ID whose cached principal must be invalidated, if any. Bank changes are
// terminal at HR: the approved fields land on the employee row directly.
func (s *Service) applyChanges(tx *sql.Tx, req *models.ApprovalRequest) (*int64, error) {
	var changes map[string]string
	if err := json.Unmarshal([]byte(req.Changes), &changes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidChanges, err)
	}

	switch req.RequestType {
	case models.ApprovalTypeBankChange:
		return nil, s.employees.UpdateBankDetails(tx, req.SubjectEmployeeID, changes)

	case models.ApprovalTypeCTCChange:
		raw, ok := changes["ctc"]
		if !ok {
			return nil, fmt.Errorf("%w: missing ctc field", ErrInvalidChanges)
		}
		ctc, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad ctc value %q", ErrInvalidChanges, raw)
		}
		return nil, s.employees.UpdateCTC(tx, req.SubjectEmployeeID, ctc)

	case models.ApprovalTypePermissionChange:
		role, ok := changes["role"]
		if !ok || !models.IsValidRole(role) {
			return nil, fmt.Errorf("%w: bad role value %q", ErrInvalidChanges, role)
		}
		subject, err := s.employees.GetByEmployeeID(req.SubjectEmployeeID)
		if err != nil {
			return nil, err
		}
		if subject == nil || subject.UserID == nil {
			return nil, fmt.Errorf("%w: employee has no linked user", ErrInvalidChanges)
		}
		if err := s.users.UpdateRole(tx, *subject.UserID, role); err != nil {
			return nil, err
		}
		return subject.UserID, nil

	case models.ApprovalTypeGoLive, models.ApprovalTypeAgreement:
		// Status transition only; no record mutation
		return nil, nil

	default:
		return nil, fmt.Errorf("%w: unknown request type %q", ErrInvalidChanges, req.RequestType)
	}
}
