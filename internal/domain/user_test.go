package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("John Doe", "john@example.com", "$2a$10$hash")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("Expected timestamps to be set")
	}

	tests := []struct {
		name, email, hash string
		want              error
	}{
		{"", "john@example.com", "hash", ErrEmptyName},
		{"John", "", "hash", ErrEmptyEmail},
		{"John", "john@example.com", "", ErrEmptyHashedPassword},
	}
	for _, tt := range tests {
		if _, err := NewUser(tt.name, tt.email, tt.hash); err != tt.want {
			t.Errorf("NewUser(%q, %q, %q): expected %v, got %v", tt.name, tt.email, tt.hash, tt.want, err)
		}
	}
}

func TestUserJSONOmitsPasswordHash(t *testing.T) {
	t.Parallel()

	user, err := NewUser("John Doe", "john@example.com", "$2a$10$secrethash")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	data, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if strings.Contains(string(data), "secrethash") || strings.Contains(string(data), "password") {
		t.Errorf("Serialized user leaks password data: %s", data)
	}
}
