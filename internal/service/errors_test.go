package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceError_Error(t *testing.T) {
	tests := []struct {
		name     string
		service  string
		op       string
		err      error
		expected string
	}{
		{
			name:     "with underlying error",
			service:  "task",
			op:       "create",
			err:      errors.New("database connection failed"),
			expected: "task service create operation failed: database connection failed",
		},
		{
			name:     "without underlying error",
			service:  "task",
			op:       "delete",
			expected: "task service delete operation failed",
		},
		{
			name:     "with sentinel error",
			service:  "task",
			op:       "get",
			err:      ErrTaskNotFound,
			expected: "task service get operation failed: task not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceErr := NewServiceError(tt.service, tt.op, tt.err)
			assert.Equal(t, tt.expected, serviceErr.Error())
		})
	}
}

func TestServiceError_ErrorsIsAs(t *testing.T) {
	underlying := errors.New("database connection failed")
	wrapped := NewServiceError("task", "list", underlying)

	assert.ErrorIs(t, wrapped, underlying)
	assert.False(t, errors.Is(wrapped, ErrTaskNotFound))

	var serviceErr *ServiceError
	assert.True(t, errors.As(wrapped, &serviceErr))
	assert.Equal(t, "list", serviceErr.Op)
}
