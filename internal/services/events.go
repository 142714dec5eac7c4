package services

import (
	"context"
	"log/slog"

	"tally/internal/amqp"
)

// AlertPublisher delivers budget-control events to interested consumers.
// The engine treats publishing as best-effort: a failed publish is logged
// and never fails the ledger operation that produced it.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, msg *amqp.AlertMessage) error
}

// publishAlert is the nil-safe, best-effort publish used by all services.
func publishAlert(ctx context.Context, p AlertPublisher, msg *amqp.AlertMessage) {
	if p == nil {
		return
	}
	if err := p.PublishAlert(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish alert",
			"error", err,
			"kind", msg.Kind,
			"user_id", msg.UserID)
	}
}
