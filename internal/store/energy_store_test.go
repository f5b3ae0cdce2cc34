package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/nhle/energy-planner/internal/model"
	"github.com/nhle/energy-planner/internal/store"
	"github.com/nhle/energy-planner/internal/testutil"
)

func day(d int) model.CalendarDay {
	return model.CalendarDay{Year: 2025, Month: time.May, Day: d}
}

func TestEnergyRecordUpsertByDay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	rec := model.DailyEnergyRecord{ID: "e1", Date: day(4), Ceiling: 120}
	s.Insert(rec)
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	rec.Ceiling = 80
	s.Update(rec)
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	d := day(4)
	got, err := s.FetchEnergyRecords(ctx, store.EnergyFilter{Day: &d})
	if err != nil {
		t.Fatalf("FetchEnergyRecords: %v", err)
	}
	if len(got) != 1 || got[0].Ceiling != 80 || got[0].Date != d {
		t.Fatalf("unexpected records: %+v", got)
	}
}

func TestEnergyRecordOnePerDay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	s.Insert(model.DailyEnergyRecord{ID: "e1", Date: day(4), Ceiling: 100})
	s.Insert(model.DailyEnergyRecord{ID: "e2", Date: day(4), Ceiling: 200})
	if err := s.Save(ctx); err == nil {
		t.Fatal("expected unique constraint violation")
	}

	got, _ := s.FetchEnergyRecords(ctx, store.EnergyFilter{})
	if len(got) != 0 {
		t.Errorf("failed transaction left records: %+v", got)
	}
}

func TestEnergyRecordRange(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	for i, d := range []int{1, 2, 3, 10} {
		s.Insert(model.DailyEnergyRecord{ID: string(rune('a' + i)), Date: day(d), Ceiling: 50 + d})
	}
	s.Insert(model.DailyEnergyRecord{ID: "june", Date: model.CalendarDay{Year: 2025, Month: time.June, Day: 1}, Ceiling: 70})
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	from, to := day(2), day(10)
	got, err := s.FetchEnergyRecords(ctx, store.EnergyFilter{From: &from, To: &to})
	if err != nil {
		t.Fatalf("FetchEnergyRecords: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3: %+v", len(got), got)
	}
	if got[0].Date != day(2) || got[2].Date != day(10) {
		t.Errorf("records out of order: %+v", got)
	}
}
