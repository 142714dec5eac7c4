package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"tally/internal/amqp"
	"tally/internal/core"
	"tally/internal/storage"
)

// capturedAlerts records published alerts in memory for assertions.
type capturedAlerts struct {
	msgs []*amqp.AlertMessage
}

func (c *capturedAlerts) PublishAlert(_ context.Context, msg *amqp.AlertMessage) error {
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *capturedAlerts) kinds() []amqp.AlertKind {
	var out []amqp.AlertKind
	for _, m := range c.msgs {
		out = append(out, m.Kind)
	}
	return out
}

func newTestEngine(t *testing.T) (*Engine, *capturedAlerts, core.Session) {
	t.Helper()

	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	alerts := &capturedAlerts{}
	eng := NewEngine(store, alerts)

	session, err := eng.Users.Register(context.Background(), "alice", "hash", "alice@example.com")
	require.NoError(t, err)
	return eng, alerts, session
}

func mustRecord(t *testing.T, eng *Engine, session core.Session, cents int64, category string, date core.Date) int64 {
	t.Helper()
	id, err := eng.Ledger.Record(context.Background(), session, core.TransactionDraft{
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Date:        date,
		Description: "test entry",
	})
	require.NoError(t, err)
	return id
}
