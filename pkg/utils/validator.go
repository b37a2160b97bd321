package utils

import (
	"fmt"
	"regexp"
)

var (
	emailRegex      = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	employeeIDRegex = regexp.MustCompile(`^EMP[0-9]{3,}$`)
)

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidateEmployeeID validates a human-readable employee code (e.g. "EMP001")
func ValidateEmployeeID(employeeID string) error {
	if !employeeIDRegex.MatchString(employeeID) {
		return fmt.Errorf("invalid employee ID format: %s", employeeID)
	}
	return nil
}

// ValidateLeadScore validates a lead score value
func ValidateLeadScore(score int) error {
	if score < 0 || score > 100 {
		return fmt.Errorf("lead score must be between 0 and 100: %d", score)
	}
	return nil
}

// SanitizeString removes control characters from user-supplied text
func SanitizeString(s string) string {
	return regexp.MustCompile(`[\x00-\x1f\x7f]`).ReplaceAllString(s, "")
}
