package validate

import (
	"errors"
	"strings"
	"testing"

	"deliveryflow/pkg/fault"

	"github.com/google/uuid"
)

func TestID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		ok   bool
	}{
		{"uuid", uuid.NewString(), true},
		{"upper case uuid", strings.ToUpper(uuid.NewString()), true},
		{"empty", "", false},
		{"short", "1234", false},
		{"37 chars", uuid.NewString() + "a", false},
		{"36 chars not a uuid", strings.Repeat("z", 36), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ID(tt.id)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, fault.ErrInvalidID) {
				t.Fatalf("expected ErrInvalidID, got %v", err)
			}
		})
	}
}

func TestStruct(t *testing.T) {
	type sample struct {
		Name  string `json:"name" validate:"required,max=5"`
		Email string `json:"email" validate:"email"`
	}

	if err := Struct(sample{Name: "ana", Email: "ana@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := Struct(sample{Name: "too long", Email: "nope"})
	var fe *fault.FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldError, got %v", err)
	}
	if !errors.Is(err, fault.ErrInvalidField) {
		t.Fatalf("expected ErrInvalidField, got %v", err)
	}
	if len(fe.Fields) != 2 || fe.Fields[0] != "name" || fe.Fields[1] != "email" {
		t.Fatalf("unexpected fields: %v", fe.Fields)
	}
}
