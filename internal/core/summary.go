package core

// LimitState is the category-control decision for a spend month.
type LimitState string

const (
	LimitOK     LimitState = "ok"
	LimitWarn   LimitState = "warn"
	LimitLocked LimitState = "locked"
)

// LimitCheck is the result of evaluating a category against its monthly
// limit. Spent and Ratio are zero for an already-locked category, whose
// state is sticky and returned without recomputation.
type LimitCheck struct {
	State LimitState
	Spent Money
	Limit Money
	Ratio float64 // spent/limit; 0 when the category has no limit
}

// CategoryAmount is an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// BudgetStatus compares a month's budget against ledger spend. Set is false
// when no budget row exists for the month, in which case Savings and Ratio
// are undefined and must be reported as "not set".
type BudgetStatus struct {
	Month   Month
	Budget  Money
	Spent   Money
	Savings Money
	Ratio   float64 // spent/budget
	Set     bool
}

// MonthOverview is a compact dashboard summary for one month.
type MonthOverview struct {
	Month      Month
	Total      Money
	ByCategory []CategoryAmount
}

// SharedOverview summarizes one shared expense for list views.
type SharedOverview struct {
	TransactionID int64
	Date          Date
	Description   string
	Total         Money
	Participants  int
	PaidCount     int
}
