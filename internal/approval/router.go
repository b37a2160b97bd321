package approval

import (
	"github.com/atlashq/erp-core/internal/access"
	"github.com/atlashq/erp-core/internal/models"
)

// Queue identifies the reviewer group responsible for a pending request
type Queue string

const (
	QueueHR      Queue = "hr"
	QueueAdmin   Queue = "admin"
	QueueManager Queue = "manager"
)

// queueByType is the static approval routing table. Bank changes are terminal
// at HR: approval applies the change directly and never escalates to admin.
var queueByType = map[string]Queue{
	models.ApprovalTypeBankChange:       QueueHR,
	models.ApprovalTypePermissionChange: QueueAdmin,
	models.ApprovalTypeCTCChange:        QueueAdmin,
	models.ApprovalTypeGoLive:           QueueAdmin,
	models.ApprovalTypeAgreement:        QueueManager,
}

// initialStatusByQueue maps a queue to the pending status new requests carry
var initialStatusByQueue = map[Queue]string{
	QueueHR:      models.ApprovalStatusPendingHR,
	QueueAdmin:   models.ApprovalStatusPendingAdmin,
	QueueManager: models.ApprovalStatusPending,
}

var resourceByType = map[string]access.Resource{
	models.ApprovalTypeBankChange:       access.ResourceBankChange,
	models.ApprovalTypePermissionChange: access.ResourcePermissionChange,
	models.ApprovalTypeCTCChange:        access.ResourceCTCChange,
	models.ApprovalTypeGoLive:           access.ResourceGoLive,
	models.ApprovalTypeAgreement:        access.ResourceAgreement,
}

// RouteFor returns the approval queue responsible for a request type
func RouteFor(requestType string) Queue {
	return queueByType[requestType]
}

// InitialStatus returns the pending status a new request of this type carries
func InitialStatus(requestType string) string {
	return initialStatusByQueue[queueByType[requestType]]
}

// CanSubmit reports whether the role may create a request of this type
func CanSubmit(role, requestType string) bool {
	return access.Allowed(role, resourceByType[requestType], access.ActionCreate)
}

// CanAction reports whether the role may approve or reject a request of this
// type. HR may submit go-live and permission changes but never action them.
func CanAction(role, requestType string) bool {
	return access.Allowed(role, resourceByType[requestType], access.ActionApprove)
}

// ActionableTypes returns the request types the role may approve or reject
func ActionableTypes(role string) []string {
	var types []string
	for _, t := range []string{
		models.ApprovalTypeBankChange,
		models.ApprovalTypePermissionChange,
		models.ApprovalTypeCTCChange,
		models.ApprovalTypeGoLive,
		models.ApprovalTypeAgreement,
	} {
		if CanAction(role, t) {
			types = append(types, t)
		}
	}
	return types
}
