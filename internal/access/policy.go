package access

import "github.com/atlashq/erp-core/internal/models"

// Resource identifies a protected resource class
type Resource string

// Action identifies an operation on a resource
type Action string

// Decision is the outcome of a policy lookup
type Decision int

const (
	ResourceLead             Resource = "lead"
	ResourceDepartmentAccess Resource = "department_access"
	ResourceEmployee         Resource = "employee"
	ResourceBankChange       Resource = "bank_change"
	ResourcePermissionChange Resource = "permission_change"
	ResourceCTCChange        Resource = "ctc_change"
	ResourceGoLive           Resource = "go_live"
	ResourceAgreement        Resource = "agreement"
)

const (
	ActionView    Action = "view"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

const (
	// DecisionDeny rejects the action outright
	DecisionDeny Decision = iota
	// DecisionAllow permits the action without further filtering
	DecisionAllow
	// DecisionScoped permits the action subject to hierarchy scope filtering
	DecisionScoped
)

// policyTable is the single declarative role x resource x action table.
// Anything absent is a deny. Admin is handled before lookup: admins are
// allowed everything unscoped.
var policyTable = map[string]map[Resource]map[Action]Decision{
	models.RoleHRManager: {
		ResourceLead:             {ActionView: DecisionScoped},
		ResourceEmployee:         {ActionView: DecisionAllow},
		ResourceBankChange:       {ActionView: DecisionAllow, ActionCreate: DecisionAllow, ActionApprove: DecisionAllow, ActionReject: DecisionAllow},
		ResourcePermissionChange: {ActionView: DecisionAllow, ActionCreate: DecisionAllow},
		ResourceCTCChange:        {ActionView: DecisionAllow, ActionCreate: DecisionAllow},
		ResourceGoLive:           {ActionView: DecisionAllow, ActionCreate: DecisionAllow},
	},
	models.RoleHRExecutive: {
		ResourceEmployee:         {ActionView: DecisionAllow},
		ResourceBankChange:       {ActionView: DecisionAllow, ActionCreate: DecisionAllow, ActionApprove: DecisionAllow, ActionReject: DecisionAllow},
		ResourcePermissionChange: {ActionView: DecisionAllow, ActionCreate: DecisionAllow},
		ResourceCTCChange:        {ActionView: DecisionAllow, ActionCreate: DecisionAllow},
		ResourceGoLive:           {ActionView: DecisionAllow, ActionCreate: DecisionAllow},
	},
	models.RoleSalesManager: {
		ResourceLead:      {ActionView: DecisionScoped, ActionCreate: DecisionAllow, ActionUpdate: DecisionScoped},
		ResourceAgreement: {ActionView: DecisionAllow, ActionCreate: DecisionAllow, ActionApprove: DecisionAllow, ActionReject: DecisionAllow},
	},
	models.RoleConsultingManager: {
		ResourceLead:      {ActionView: DecisionScoped, ActionCreate: DecisionAllow, ActionUpdate: DecisionScoped},
		ResourceAgreement: {ActionView: DecisionAllow, ActionApprove: DecisionAllow, ActionReject: DecisionAllow},
	},
	models.RoleManager: {
		ResourceLead:      {ActionView: DecisionScoped, ActionCreate: DecisionAllow, ActionUpdate: DecisionScoped},
		ResourceAgreement: {ActionView: DecisionAllow, ActionApprove: DecisionAllow, ActionReject: DecisionAllow},
	},
	models.RoleExecutive: {
		ResourceLead:      {ActionView: DecisionScoped, ActionCreate: DecisionAllow, ActionUpdate: DecisionScoped},
		ResourceAgreement: {ActionView: DecisionAllow, ActionCreate: DecisionAllow},
	},
	models.RoleConsultant: {
		ResourceLead: {ActionView: DecisionScoped},
	},
}

// Lookup evaluates the policy table for a role, resource and action
func Lookup(role string, resource Resource, action Action) Decision {
	if role == models.RoleAdmin {
		return DecisionAllow
	}

	actions, ok := policyTable[role][resource]
	if !ok {
		return DecisionDeny
	}
	decision, ok := actions[action]
	if !ok {
		return DecisionDeny
	}
	return decision
}

// Allowed reports whether the role may perform the action at all
// (scoped access still counts as allowed; the caller applies the filter)
func Allowed(role string, resource Resource, action Action) bool {
	return Lookup(role, resource, action) != DecisionDeny
}
