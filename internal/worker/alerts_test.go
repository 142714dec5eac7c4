package worker

import (
	"testing"

	"tally/internal/amqp"
)

func TestHandleAlert(t *testing.T) {
	tests := []struct {
		name    string
		kind    amqp.AlertKind
		wantErr bool
	}{
		{"budget warn", amqp.AlertBudgetWarn, false},
		{"budget over", amqp.AlertBudgetOver, false},
		{"category warn", amqp.AlertCategoryWarn, false},
		{"category locked", amqp.AlertCategoryLocked, false},
		{"unknown kind", amqp.AlertKind("bogus"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := HandleAlert(&amqp.AlertMessage{
				Kind:   tt.kind,
				UserID: 1,
				Month:  "2024-06",
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("HandleAlert() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
