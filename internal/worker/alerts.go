package worker

import (
	"fmt"
	"log/slog"

	"tally/internal/amqp"
)

// HandleAlert logs a consumed threshold alert at a severity matching its
// kind. It is the default consumer handler; notification transports
// (mail, push) plug in by wrapping it.
func HandleAlert(msg *amqp.AlertMessage) error {
	attrs := []any{
		"user_id", msg.UserID,
		"month", msg.Month,
		"spent_cents", msg.SpentCents,
		"limit_cents", msg.LimitCents,
	}
	if msg.Category != "" {
		attrs = append(attrs, "category", msg.Category)
	}

	switch msg.Kind {
	case amqp.AlertBudgetWarn, amqp.AlertCategoryWarn:
		slog.Warn("Spending approaching limit", attrs...)
	case amqp.AlertBudgetOver, amqp.AlertCategoryLocked:
		slog.Error("Spending limit reached", attrs...)
	default:
		return fmt.Errorf("unknown alert kind %q", msg.Kind)
	}
	return nil
}
