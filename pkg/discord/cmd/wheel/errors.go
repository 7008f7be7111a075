package wheel

import (
	"errors"
	"fmt"

	"github.com/ethpandaops/panda-wheel/pkg/wheel"
)

// Error types reported to the command error metric.
const (
	errorTypeInvalidPercentage = "invalid_percentage"
	errorTypeInvalidName       = "invalid_name"
	errorTypeDuplicateName     = "duplicate_name"
	errorTypeBudgetExceeded    = "budget_exceeded"
	errorTypeNotFound          = "not_found"
	errorTypeEmptyWheel        = "empty_wheel"
	errorTypeIncomplete        = "incomplete_wheel"
	errorTypeNotInGuild        = "not_in_guild"
	errorTypeStorage           = "storage"
	errorTypeRender            = "render"
	errorTypeInternal          = "internal"
	errorTypeRespond           = "respond"
)

const msgUnexpected = "❌ An unexpected error occurred! Please try again."

var (
	errNotInGuild = errors.New("wheel commands must be used in a server")
	errRender     = errors.New("failed to render wheel")
	errRespond    = errors.New("failed to respond to interaction")
)

// userMessage maps err onto the message shown to the user and the error type recorded
// for it. sub is the subcommand that failed.
func userMessage(sub string, err error) (string, string) {
	var (
		invalidPercentage *wheel.InvalidPercentageError
		invalidName       *wheel.InvalidNameError
		duplicate         *wheel.DuplicateNameError
		budget            *wheel.BudgetExceededError
		notFound          *wheel.SectionNotFoundError
		incomplete        *wheel.IncompleteWheelError
	)

	switch {
	case errors.As(err, &invalidPercentage):
		return "❌ Percentage must be greater than 0 and at most 100!", errorTypeInvalidPercentage
	case errors.As(err, &invalidName):
		return "❌ Section name cannot be empty!", errorTypeInvalidName
	case errors.As(err, &duplicate):
		return fmt.Sprintf("❌ A section with name '%s' already exists!", duplicate.Name), errorTypeDuplicateName
	case errors.As(err, &budget):
		if sub == "edit" {
			return fmt.Sprintf("❌ This change would exceed 100%% total! Current total without this section: %s",
				wheel.FormatPercent(budget.Total)), errorTypeBudgetExceeded
		}

		return fmt.Sprintf("❌ Adding this section would exceed 100%% total! Current total: %s",
			wheel.FormatPercent(budget.Total)), errorTypeBudgetExceeded
	case errors.As(err, &notFound):
		return fmt.Sprintf("❌ No section found with name '%s'!", notFound.Name), errorTypeNotFound
	case errors.Is(err, wheel.ErrEmptyWheel):
		return "❌ No sections in the wheel! Use `/wheel add` to add some.", errorTypeEmptyWheel
	case errors.As(err, &incomplete):
		return fmt.Sprintf("⚠️ Wheel is only %s complete! Add more sections to reach 100%%.",
			wheel.FormatPercent(incomplete.Total)), errorTypeIncomplete
	case errors.Is(err, errNotInGuild):
		return "❌ Wheel commands can only be used in a server!", errorTypeNotInGuild
	case errors.Is(err, wheel.ErrStorage):
		return msgUnexpected, errorTypeStorage
	case errors.Is(err, errRender):
		return msgUnexpected, errorTypeRender
	default:
		return msgUnexpected, errorTypeInternal
	}
}

// isUserError reports whether errorType describes a rejected request rather than a fault.
func isUserError(errorType string) bool {
	switch errorType {
	case errorTypeStorage, errorTypeRender, errorTypeInternal:
		return false
	default:
		return true
	}
}
