package core

import (
	"strings"
	"time"
)

const (
	// KindSpend is a transaction entered directly by the user.
	KindSpend TransactionKind = "spend"
	// KindGoal is a synthetic entry mirroring a savings-goal contribution.
	KindGoal TransactionKind = "goal"
	// KindReimbursement is a synthetic credit posted when a shared-expense
	// participant pays their share.
	KindReimbursement TransactionKind = "reimbursement"
)

// Category names used for the synthetic transaction kinds. Kept for display
// and reporting; the engine itself discriminates on TransactionKind.
const (
	GoalCategory          = "Goal"
	ReimbursementCategory = "Reimbursement"
)

type (
	TransactionKind string

	// Session identifies the authenticated user on whose behalf an engine
	// call runs. It is supplied by the identity collaborator; the engine
	// never resolves credentials itself.
	Session struct {
		UserID   int64
		Username string
	}

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID          int64
		UserID      int64
		Amount      Money // positive = spend, negative = credit
		Category    string
		Kind        TransactionKind
		Date        Date
		Description string
		Deleted     bool
	}

	// TransactionDraft carries the user-editable fields of a transaction.
	TransactionDraft struct {
		Amount      Money
		Category    string
		Date        Date
		Description string
	}

	Category struct {
		ID           int64
		UserID       int64
		Name         string
		MonthlyLimit *Money // nil when the category has no limit
		Locked       bool
	}

	Budget struct {
		UserID int64
		Month  Month
		Amount Money
	}

	Goal struct {
		ID          int64
		UserID      int64
		Name        string
		Target      Money
		Current     Money
		TargetDate  Date
		CreatedDate Date
		Completed   bool
	}

	SharedExpense struct {
		ID            int64
		TransactionID int64
		UserID        int64
		Participant   string
		Owed          Money
		Paid          bool
	}

	// Participant is one named party of a shared expense at creation time.
	Participant struct {
		Name string
		Paid bool
	}

	Challenge struct {
		ID        int64
		UserID    int64
		Category  string
		Target    Money
		Current   Money
		StartDate Date
		EndDate   Date
		Completed bool
	}
)

// Synthetic reports whether the kind is generated by the engine itself
// rather than entered as a direct spend.
func (k TransactionKind) Synthetic() bool {
	return k == KindGoal || k == KindReimbursement
}

// NewDate creates a Date from year, month, day (UTC, midnight).
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current date truncated to a calendar day.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String formats the date as YYYY-MM-DD, the layout used in storage.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// Validate rejects drafts the ledger must never accept: a zero amount, a
// missing date, or a blank category. Category membership is checked against
// storage, not here.
func (t TransactionDraft) Validate() error {
	if t.Amount.Cents == 0 {
		return ErrInvalidAmount
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// Validate checks goal fields at creation/update time. The overshoot check
// runs last so that a caller holding an explicit confirmation can treat
// ErrTargetExceeded as the only remaining objection.
func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if g.Target.Cents <= 0 {
		return ErrInvalidTarget
	}
	if g.Current.Cents < 0 {
		return ErrInvalidAmount
	}
	if err := g.TargetDate.Validate(); err != nil {
		return err
	}
	if g.Current.Cents > g.Target.Cents {
		return ErrTargetExceeded
	}
	return nil
}

func (c Challenge) Validate() error {
	if strings.TrimSpace(c.Category) == "" {
		return ErrEmptyCategory
	}
	if c.Target.Cents <= 0 {
		return ErrInvalidTarget
	}
	if err := c.StartDate.Validate(); err != nil {
		return err
	}
	if err := c.EndDate.Validate(); err != nil {
		return err
	}
	if c.EndDate.Before(c.StartDate) {
		return ErrInvalidDate
	}
	return nil
}
