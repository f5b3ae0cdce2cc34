package store

import (
	"context"

	"github.com/nhle/energy-planner/internal/model"
)

// TaskFilter controls filtering, sorting, and limiting for task queries.
type TaskFilter struct {
	IDs       []string // restrict to these task IDs, or nil (all)
	Completed *bool    // completion state, or nil (all)
	Query     *string  // search task titles
	SortBy    string   // "created_at", "title", "energy_cost"
	SortDesc  bool
	Limit     int
}

// EnergyFilter selects daily energy records. Day wins over From/To.
type EnergyFilter struct {
	Day  *model.CalendarDay
	From *model.CalendarDay // inclusive
	To   *model.CalendarDay // inclusive
}

// Store is the persistence collaborator for the task repository and the
// daily energy tracker.
//
// Insert, Update and Delete only stage a snapshot of the entity. Save
// commits everything staged since the previous Save or Discard in one
// transaction, and clears the stage whether or not the commit succeeds.
//
// Writers sharing a store stage and save inside Write, which holds the
// store's writer lock so that a Save only ever commits the caller's own
// changes.
type Store interface {
	Insert(e model.Entity)
	Update(e model.Entity)
	Delete(e model.Entity)
	Save(ctx context.Context) error
	Discard()
	Write(fn func() error) error

	FetchTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error)
	FetchEnergyRecords(ctx context.Context, filter EnergyFilter) ([]model.DailyEnergyRecord, error)
}
