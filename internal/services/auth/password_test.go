// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordValidator_Valid(t *testing.T) {
	v := DefaultPasswordValidator()

	result := v.Validate("correct-horse-battery", "alice", "alice@example.com")

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestPasswordValidator_TooShort(t *testing.T) {
	v := DefaultPasswordValidator()

	result := v.Validate("abc12")

	assert.False(t, result.Valid)
	assertHasCode(t, result, "min_length")
}

func TestPasswordValidator_EntirelyNumeric(t *testing.T) {
	v := DefaultPasswordValidator()

	result := v.Validate("1234567890")

	assert.False(t, result.Valid)
	assertHasCode(t, result, "entirely_numeric")
}

func TestPasswordValidator_CommonPassword(t *testing.T) {
	v := DefaultPasswordValidator()

	result := v.Validate("password")

	assert.False(t, result.Valid)
	assertHasCode(t, result, "common_password")
}

func TestPasswordValidator_SimilarToUsername(t *testing.T) {
	v := DefaultPasswordValidator()

	result := v.Validate("alice12345", "alice", "alice@example.com")

	assert.False(t, result.Valid)
	assertHasCode(t, result, "too_similar")
}

func TestPasswordValidator_MultipleErrors(t *testing.T) {
	v := DefaultPasswordValidator()

	result := v.Validate("123456")

	assert.False(t, result.Valid)
	assertHasCode(t, result, "min_length")
	assertHasCode(t, result, "entirely_numeric")
	assertHasCode(t, result, "common_password")
}

func TestPasswordValidator_ChecksDisabled(t *testing.T) {
	v := &PasswordValidator{MinLength: 8}

	result := v.Validate("password", "pass")

	assert.True(t, result.Valid)
}

func TestPasswordValidationError_Messages(t *testing.T) {
	err := &PasswordValidationError{Errors: []ValidationError{
		{Code: "min_length", Message: "too short"},
		{Code: "common_password", Message: "too common"},
	}}

	assert.Equal(t, "too short", err.Error())
	assert.Equal(t, []string{"too short", "too common"}, err.Messages())
}

func assertHasCode(t *testing.T, result ValidationResult, code string) {
	t.Helper()
	for _, err := range result.Errors {
		if err.Code == code {
			return
		}
	}
	t.Errorf("expected validation error with code %q, got %v", code, result.Errors)
}
