package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound           = errors.New("resource not found")
	ErrEvaluationNotFound = fmt.Errorf("%w: evaluation", ErrNotFound)
	ErrSchemeNotFound     = fmt.Errorf("%w: mark scheme", ErrNotFound)
	ErrCellNotFound       = fmt.Errorf("%w: cell", ErrNotFound)

	// Workbook errors
	ErrWorkbookUnreadable = errors.New("could not read workbook")
	ErrSheetMissing       = errors.New("workbook has no sheets")

	// Scheme errors
	ErrSchemeInvalid = errors.New("invalid mark scheme")
	ErrSchemeEmpty   = errors.New("mark scheme has no questions")
	ErrUnknownPolicy = errors.New("unknown scoring policy")

	// Reference errors
	ErrBadCellRef = errors.New("malformed cell reference")
)

// Error constructors with context
func NewLoadError(label string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrWorkbookUnreadable, label, err)
}

func NewSchemeError(question int, reason string) error {
	return fmt.Errorf("%w: question %d: %s", ErrSchemeInvalid, question, reason)
}

func NewCellRefError(ref string) error {
	return fmt.Errorf("%w: %q", ErrBadCellRef, ref)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsLoadError(err error) bool {
	return errors.Is(err, ErrWorkbookUnreadable) || errors.Is(err, ErrSheetMissing)
}

func IsSchemeError(err error) bool {
	return errors.Is(err, ErrSchemeInvalid) ||
		errors.Is(err, ErrSchemeEmpty) ||
		errors.Is(err, ErrUnknownPolicy)
}
