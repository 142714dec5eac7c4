package amqp

import (
	"encoding/json"
	"time"
)

// AlertKind names the budget-control events the engine emits.
type AlertKind string

const (
	// AlertBudgetWarn fires when monthly spend reaches 80% of the budget.
	AlertBudgetWarn AlertKind = "budget_warn"
	// AlertBudgetOver fires when monthly spend reaches the budget.
	AlertBudgetOver AlertKind = "budget_over"
	// AlertCategoryWarn fires when category spend reaches 80% of its limit.
	AlertCategoryWarn AlertKind = "category_warn"
	// AlertCategoryLocked fires when a category limit is reached and the
	// category transitions to locked.
	AlertCategoryLocked AlertKind = "category_locked"
)

// AlertMessage is the wire form of one budget-control event. Amounts are
// integer cents like everywhere else in the engine.
type AlertMessage struct {
	Kind       AlertKind `json:"kind"`
	UserID     int64     `json:"user_id"`
	Month      string    `json:"month"`
	Category   string    `json:"category,omitempty"`
	SpentCents int64     `json:"spent_cents"`
	LimitCents int64     `json:"limit_cents"`
	Timestamp  time.Time `json:"timestamp"`
}

func (m *AlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func AlertMessageFromJSON(data []byte) (*AlertMessage, error) {
	var msg AlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
