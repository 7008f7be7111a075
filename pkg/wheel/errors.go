package wheel

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyWheel is returned when spinning a wheel without sections.
	ErrEmptyWheel = errors.New("wheel has no sections")
	// ErrStorage wraps any failure of the durable store.
	ErrStorage = errors.New("wheel storage failure")
)

// InvalidPercentageError represents a percentage outside (0, 100].
type InvalidPercentageError struct {
	Percentage float64
}

// Error implements error.
func (e *InvalidPercentageError) Error() string {
	return fmt.Sprintf("percentage %v must be greater than 0 and at most 100", e.Percentage)
}

// InvalidNameError represents a blank section name.
type InvalidNameError struct {
	Name string
}

// Error implements error.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("section name %q is empty", e.Name)
}

// DuplicateNameError represents a section name that already exists on the wheel.
type DuplicateNameError struct {
	Name string
}

// Error implements error.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("a section named %q already exists", e.Name)
}

// BudgetExceededError represents a change that would push the wheel over 100%.
// Total is the allocation the requested percentage was added to.
type BudgetExceededError struct {
	Total     float64
	Requested float64
}

// Error implements error.
func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("adding %v%% to %v%% would exceed 100%%", e.Requested, e.Total)
}

// SectionNotFoundError represents a lookup for a section that does not exist.
type SectionNotFoundError struct {
	Name string
}

// Error implements error.
func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("no section named %q", e.Name)
}

// IncompleteWheelError represents a spin attempted before the wheel reaches 100%.
type IncompleteWheelError struct {
	Total float64
}

// Error implements error.
func (e *IncompleteWheelError) Error() string {
	return fmt.Sprintf("wheel is only %v%% complete", e.Total)
}

// IsValidation reports whether err is one of the expected, user-displayable wheel errors.
func IsValidation(err error) bool {
	var (
		invalidPercentage *InvalidPercentageError
		invalidName       *InvalidNameError
		duplicate         *DuplicateNameError
		budget            *BudgetExceededError
		notFound          *SectionNotFoundError
		incomplete        *IncompleteWheelError
	)

	switch {
	case errors.Is(err, ErrEmptyWheel),
		errors.As(err, &invalidPercentage),
		errors.As(err, &invalidName),
		errors.As(err, &duplicate),
		errors.As(err, &budget),
		errors.As(err, &notFound),
		errors.As(err, &incomplete):
		return true
	default:
		return false
	}
}
