package models

import "time"

// Role constants
const (
	RoleAdmin             = "admin"
	RoleHRManager         = "hr_manager"
	RoleHRExecutive       = "hr_executive"
	RoleSalesManager      = "sales_manager"
	RoleConsultingManager = "consulting_manager"
	RoleManager           = "manager"
	RoleExecutive         = "executive"
	RoleConsultant        = "consultant"
)

var validRoles = map[string]bool{
	RoleAdmin:             true,
	RoleHRManager:         true,
	RoleHRExecutive:       true,
	RoleSalesManager:      true,
	RoleConsultingManager: true,
	RoleManager:           true,
	RoleExecutive:         true,
	RoleConsultant:        true,
}

// Roles that grant edit rights independent of the reporting hierarchy.
var editCapableRoles = map[string]bool{
	RoleAdmin:             true,
	RoleHRManager:         true,
	RoleSalesManager:      true,
	RoleConsultingManager: true,
}

// IsValidRole reports whether role is a known role
func IsValidRole(role string) bool {
	return validRoles[role]
}

// IsEditCapableRole reports whether the role grants edit rights by itself
func IsEditCapableRole(role string) bool {
	return editCapableRoles[role]
}

// HR roles may view and create permission changes but never action them.
func IsHRRole(role string) bool {
	return role == RoleHRManager || role == RoleHRExecutive
}

// User represents an authenticated principal
type User struct {
	ID         int64     `json:"id"`
	EmployeeID *string   `json:"employee_id,omitempty"` // nullable; not all principals link to an employee
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
