// Package errors provides common domain error types for chatview.
//
// This package defines sentinel errors for conditions that callers are
// expected to branch on, such as a missing input file or a document that is
// not a readable DOCX container. Using typed errors enables consistent error
// handling with errors.Is() checks.
//
// Usage:
//
//	import cverrors "github.com/otherjamesbrown/chatview/pkg/errors"
//
//	// Return a domain error
//	return nil, fmt.Errorf("opening %s: %w", path, cverrors.ErrNotFound)
//
//	// Check for domain errors
//	if cverrors.IsNotFound(err) {
//	    // handle missing input
//	}
package errors

import "errors"

// Domain errors - common sentinel errors for domain conditions.
var (
	// ErrNotFound indicates the requested input file was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidDocument indicates the input is not a readable DOCX container.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrValidation indicates invalid input or configuration.
	ErrValidation = errors.New("validation error")
)

// IsNotFound reports whether any error in err's chain is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidDocument reports whether any error in err's chain is ErrInvalidDocument.
func IsInvalidDocument(err error) bool {
	return errors.Is(err, ErrInvalidDocument)
}

// IsValidation reports whether any error in err's chain is ErrValidation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
