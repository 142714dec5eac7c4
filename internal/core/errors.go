package core

import "errors"

// Engine error kinds. Every engine failure wraps one of these sentinels so
// callers can discriminate with errors.Is without depending on message text.
var (
	// ErrNotFound marks a reference to a nonexistent or foreign-owned entity.
	ErrNotFound = errors.New("not found")

	// ErrCategoryLocked marks a spend blocked by category control.
	ErrCategoryLocked = errors.New("category locked")

	// ErrConfirmationRequired marks an operation that would cross a soft
	// invariant (goal overshoot) and needs an explicit caller override.
	ErrConfirmationRequired = errors.New("confirmation required")

	// Validation sentinels: malformed or out-of-range input.
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidTarget     = errors.New("invalid target amount")
	ErrEmptyName         = errors.New("empty name")
	ErrEmptyCategory     = errors.New("empty category")
	ErrEmptyParticipants = errors.New("at least one participant required")
	ErrTargetExceeded    = errors.New("current amount exceeds target")
	ErrCategoryInUse     = errors.New("category has recorded transactions")
	ErrCategoryExists    = errors.New("category already exists")
	ErrUsernameTaken     = errors.New("username already exists")
	ErrEmptyCredential   = errors.New("empty credential hash")
	ErrInvalidTheme      = errors.New("invalid theme")
)

var validationErrors = []error{
	ErrInvalidAmount,
	ErrInvalidDate,
	ErrInvalidTarget,
	ErrEmptyName,
	ErrEmptyCategory,
	ErrEmptyParticipants,
	ErrTargetExceeded,
	ErrCategoryInUse,
	ErrCategoryExists,
	ErrUsernameTaken,
	ErrEmptyCredential,
	ErrInvalidTheme,
}

// IsValidation reports whether err is any of the validation sentinels.
func IsValidation(err error) bool {
	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
