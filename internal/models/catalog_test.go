// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAuthorDisplayName(t *testing.T) {
	author := Author{FirstName: "Mary", LastName: "Shelley"}

	assert.Equal(t, "Shelley, Mary", author.DisplayName())
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status   string
		expected string
	}{
		{StatusMaintenance, "Maintenance"},
		{StatusOnLoan, "On loan"},
		{StatusAvailable, "Available"},
		{StatusReserved, "Reserved"},
		{"x", "Unknown"},
		{"", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusLabel(tt.status))
		})
	}
}

func TestBookCopyIsOverdue(t *testing.T) {
	t.Run("no due date", func(t *testing.T) {
		copy := BookCopy{}
		assert.False(t, copy.IsOverdue())
	})

	t.Run("due in the future", func(t *testing.T) {
		due := time.Now().AddDate(0, 0, 7)
		copy := BookCopy{DueBack: &due}
		assert.False(t, copy.IsOverdue())
	})

	t.Run("due in the past", func(t *testing.T) {
		due := time.Now().AddDate(0, 0, -7)
		copy := BookCopy{DueBack: &due}
		assert.True(t, copy.IsOverdue())
	})
}
