package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@company.co.in",
		"a+tag@sub.domain.org",
	}
	for _, email := range valid {
		assert.NoError(t, ValidateEmail(email), email)
	}

	invalid := []string{
		"",
		"plainstring",
		"@example.com",
		"user@",
		"user@nodot",
	}
	for _, email := range invalid {
		assert.Error(t, ValidateEmail(email), email)
	}
}

func TestValidateEmployeeID(t *testing.T) {
	assert.NoError(t, ValidateEmployeeID("EMP001"))
	assert.NoError(t, ValidateEmployeeID("EMP12345"))

	invalid := []string{"", "EMP01", "emp001", "EMPABC", "001EMP", "EMP001X"}
	for _, id := range invalid {
		assert.Error(t, ValidateEmployeeID(id), id)
	}
}

func TestValidateLeadScore(t *testing.T) {
	assert.NoError(t, ValidateLeadScore(0))
	assert.NoError(t, ValidateLeadScore(50))
	assert.NoError(t, ValidateLeadScore(100))
	assert.Error(t, ValidateLeadScore(-1))
	assert.Error(t, ValidateLeadScore(101))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "Acme Corp", SanitizeString("Acme\x00 Corp"))
	assert.Equal(t, "line1line2", SanitizeString("line1\nline2"))
	assert.Equal(t, "clean", SanitizeString("clean"))
}
