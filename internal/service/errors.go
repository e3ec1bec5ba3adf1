package service

import (
	"errors"
	"fmt"
)

var (
	ErrPeriodNotFound     = errors.New("period not found")
	ErrCycleNotFound      = errors.New("cycle not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrRecordNotFound     = errors.New("financial record not found")
	ErrAttachmentNotFound = errors.New("attachment not found")

	ErrPeriodExists         = errors.New("period for this year already exists")
	ErrCategoryExists       = errors.New("a category with this name already exists")
	ErrCategoryCodeConflict = errors.New("failed to create category due to a conflict, please retry")
	ErrDefaultCategory      = errors.New("the DEFAULT category cannot be deleted or renamed")

	ErrCategoryForbidden = errors.New("you cannot use a category that does not belong to you")
	ErrCycleForbidden    = errors.New("the selected cycle's period does not belong to you")

	ErrPeriodMismatch   = errors.New("period does not match the cycle's period")
	ErrSameCycle        = errors.New("current and previous cycles cannot be the same")
	ErrDifferentPeriods = errors.New("both cycles must belong to the same period")
	ErrNothingToCopy    = errors.New("no financial records found in the previous cycle")

	ErrReaderNil = errors.New("reader is nil")

	// ErrInvalidInput is wrapped by every field validation failure.
	ErrInvalidInput = errors.New("invalid input")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
