// Package energy tracks the daily energy ceiling. A calendar day starts
// with no ceiling set; the first SetEnergyForToday creates that day's
// record and later calls overwrite it.
package energy

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/nhle/energy-planner/internal/clock"
	"github.com/nhle/energy-planner/internal/model"
	"github.com/nhle/energy-planner/internal/store"
)

// DefaultCeiling is reported by CurrentCeiling before today's energy is set.
const DefaultCeiling = 100

// Tracker owns the energy record for the current calendar day.
type Tracker struct {
	mu       sync.Mutex
	store    store.Store
	clock    clock.Clock
	newID    func() string
	fallback int

	// current is the most recently synced record. It may belong to an
	// earlier day, in which case today is still unset.
	current *model.DailyEnergyRecord
}

// NewTracker builds a tracker on s. A non-positive fallback uses
// DefaultCeiling and a nil newID uses random UUIDs.
func NewTracker(s store.Store, c clock.Clock, fallback int, newID func() string) *Tracker {
	if fallback <= 0 {
		fallback = DefaultCeiling
	}
	if newID == nil {
		newID = uuid.NewString
	}
	return &Tracker{store: s, clock: c, newID: newID, fallback: fallback}
}

// LoadTodayCeiling syncs the tracker with today's stored record, if any.
// Call it at start-up and whenever the calendar day changes.
func (t *Tracker) LoadTodayCeiling(ctx context.Context) error {
	rec, err := t.fetchDay(ctx, t.clock.Today())
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.current = rec
	t.mu.Unlock()
	return nil
}

// SetEnergyForToday records ceiling as today's energy.
func (t *Tracker) SetEnergyForToday(ctx context.Context, ceiling int) error {
	if ceiling <= 0 {
		return model.ErrInvalidEnergy
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	today := t.clock.Today()
	var rec model.DailyEnergyRecord
	if prev := t.current; prev != nil && prev.Date == today {
		rec = *prev
	} else {
		existing, err := t.fetchDay(ctx, today)
		if err != nil {
			return err
		}
		if existing != nil {
			rec = *existing
		}
	}

	err := t.store.Write(func() error {
		rec.Ceiling = ceiling
		rec.UpdatedAt = t.clock.Now()
		if rec.ID == "" {
			rec.ID = t.newID()
			rec.Date = today
			t.store.Insert(rec)
		} else {
			t.store.Update(rec)
		}
		return t.store.Save(ctx)
	})
	if err != nil {
		return &model.PersistenceError{Op: "set energy", Err: err}
	}

	t.current = &rec
	return nil
}

// IsEnergySetForToday reports whether the synced record is today's.
func (t *Tracker) IsEnergySetForToday() bool {
	_, ok := t.Today()
	return ok
}

// Today returns today's record when it has been set.
func (t *Tracker) Today() (model.DailyEnergyRecord, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil || t.current.Date != t.clock.Today() {
		return model.DailyEnergyRecord{}, false
	}
	return *t.current, true
}

// CurrentCeiling is today's ceiling, or the fallback when unset.
func (t *Tracker) CurrentCeiling() int {
	if rec, ok := t.Today(); ok {
		return rec.Ceiling
	}
	return t.fallback
}

// RequireEnergyForToday returns ErrEnergyNotSet until today's energy is
// set. Presentation code calls it before completing a task.
func (t *Tracker) RequireEnergyForToday() error {
	if !t.IsEnergySetForToday() {
		return model.ErrEnergyNotSet
	}
	return nil
}

// History returns the stored records between from and to, inclusive,
// oldest first.
func (t *Tracker) History(ctx context.Context, from, to model.CalendarDay) ([]model.DailyEnergyRecord, error) {
	recs, err := t.store.FetchEnergyRecords(ctx, store.EnergyFilter{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("loading energy history: %w", err)
	}
	return recs, nil
}

func (t *Tracker) fetchDay(ctx context.Context, day model.CalendarDay) (*model.DailyEnergyRecord, error) {
	recs, err := t.store.FetchEnergyRecords(ctx, store.EnergyFilter{Day: &day})
	if err != nil {
		return nil, fmt.Errorf("loading energy for %s: %w", day, err)
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return &recs[0], nil
}
