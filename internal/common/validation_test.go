package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateHandle(t *testing.T) {
	assert.NoError(t, ValidateHandle("alice_99"))
	assert.Error(t, ValidateHandle("ab"), "too short")
	assert.Error(t, ValidateHandle("has space"))
	assert.Error(t, ValidateHandle("dash-ed"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("secret123"))
	assert.Error(t, ValidatePassword("short"))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail(""))
	assert.NoError(t, ValidateEmail("user@campus.edu"))
	assert.NoError(t, ValidateEmail("  User@Campus.EDU "), "trimmed and lowercased before matching")
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
}

func TestValidateCategory(t *testing.T) {
	assert.NoError(t, ValidateCategory(""))
	assert.NoError(t, ValidateCategory("CONFESSION"))
	assert.NoError(t, ValidateCategory("LOST_FOUND"))
	assert.Error(t, ValidateCategory("confession"), "categories are uppercase")
	assert.Error(t, ValidateCategory("NOPE"))
	assert.Error(t, ValidateCategory("all"), "filter value is not writable")

	assert.NoError(t, ValidateFilterCategory("all"))
	assert.NoError(t, ValidateFilterCategory(""))
	assert.NoError(t, ValidateFilterCategory("CONFESSION"))
	assert.Error(t, ValidateFilterCategory("NOPE"))
}
