package services

import (
	"time"

	"tally/internal/cache"
	"tally/internal/core"
	"tally/internal/storage"
)

const (
	summaryCacheSize = 128
	summaryCacheTTL  = time.Minute
)

// Engine bundles every service over one store. Callers supply a session per
// call; the engine itself is safe to share.
type Engine struct {
	Users      *UserService
	Ledger     *LedgerService
	Categories *CategoryService
	Budgets    *BudgetService
	Goals      *GoalService
	Shared     *SharedService
	Challenges *ChallengeService
}

// NewEngine wires the services together. alerts may be nil, in which case
// threshold events are dropped silently.
func NewEngine(store *storage.Store, alerts AlertPublisher) *Engine {
	summaries := cache.New[core.MonthOverview](summaryCacheSize, summaryCacheTTL)
	categories := NewCategoryService(store, alerts)

	return &Engine{
		Users:      NewUserService(store),
		Ledger:     NewLedgerService(store, alerts, categories, summaries),
		Categories: categories,
		Budgets:    NewBudgetService(store),
		Goals:      NewGoalService(store, summaries),
		Shared:     NewSharedService(store, summaries),
		Challenges: NewChallengeService(store),
	}
}
