package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_Wrapped(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", ErrNotFound, IsNotFound},
		{"invalid document", ErrInvalidDocument, IsInvalidDocument},
		{"validation", ErrValidation, IsValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("opening transcript.docx: %w", tt.err)
			if !tt.check(wrapped) {
				t.Errorf("expected wrapped %v to match", tt.err)
			}
			if tt.check(errors.New("something else")) {
				t.Error("unrelated error should not match")
			}
		})
	}
}

func TestSentinelErrors_Distinct(t *testing.T) {
	if IsNotFound(ErrInvalidDocument) {
		t.Error("ErrInvalidDocument should not be ErrNotFound")
	}
	if IsInvalidDocument(ErrNotFound) {
		t.Error("ErrNotFound should not be ErrInvalidDocument")
	}
}
