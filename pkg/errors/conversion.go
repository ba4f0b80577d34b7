package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// ErrorCode represents a classified conversion error.
type ErrorCode string

const (
	ErrInputNotFound      ErrorCode = "input_not_found"
	ErrUnreadableDocument ErrorCode = "invalid_document"
	ErrWriteFailed        ErrorCode = "write_failed"
	ErrEncodeFailed       ErrorCode = "encode_failed"
	ErrInvalidConfig      ErrorCode = "invalid_config"
	ErrProcessingError    ErrorCode = "processing_error"
)

// ConversionError is a structured error for conversion failures.
type ConversionError struct {
	Code    ErrorCode
	Stage   string
	Message string
	Cause   error
}

func (e *ConversionError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Stage, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ConversionError) Unwrap() error {
	return e.Cause
}

// ClassifyError inspects an error and returns a *ConversionError with the appropriate code.
// If the error doesn't match any known pattern, it returns a ConversionError with ErrProcessingError.
// An error that is already a *ConversionError is returned unchanged.
func ClassifyError(err error, stage string) *ConversionError {
	if err == nil {
		return nil
	}

	var existing *ConversionError
	if errors.As(err, &existing) {
		return existing
	}

	ce := &ConversionError{
		Stage:   stage,
		Message: err.Error(),
		Cause:   err,
	}

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, fs.ErrNotExist):
		ce.Code = ErrInputNotFound
	case errors.Is(err, ErrInvalidDocument):
		ce.Code = ErrUnreadableDocument
	case errors.Is(err, ErrValidation):
		ce.Code = ErrInvalidConfig
	case errors.Is(err, fs.ErrPermission) && stage == "open":
		ce.Code = ErrUnreadableDocument
	case errors.Is(err, fs.ErrPermission):
		ce.Code = ErrWriteFailed
	default:
		lower := strings.ToLower(err.Error())
		switch {
		case strings.Contains(lower, "writing") || strings.Contains(lower, "no space left"):
			ce.Code = ErrWriteFailed
		case strings.Contains(lower, "encoding") || strings.Contains(lower, "marshal"):
			ce.Code = ErrEncodeFailed
		default:
			ce.Code = ErrProcessingError
		}
	}

	return ce
}

// CodeOf returns the error code of the first ConversionError in err's chain,
// or an empty code if there is none.
func CodeOf(err error) ErrorCode {
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
