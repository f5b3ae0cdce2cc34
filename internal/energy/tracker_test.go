package energy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nhle/energy-planner/internal/model"
	"github.com/nhle/energy-planner/internal/store"
	"github.com/nhle/energy-planner/internal/tasks"
	"github.com/nhle/energy-planner/internal/testutil"
)

var errDiskFull = errors.New("disk full")

type failingStore struct {
	store.Store
	fail bool
}

func (f *failingStore) Save(ctx context.Context) error {
	if f.fail {
		f.Store.Discard()
		return errDiskFull
	}
	return f.Store.Save(ctx)
}

var morning = time.Date(2025, time.May, 4, 8, 0, 0, 0, time.UTC)

func newTracker(t *testing.T) (*Tracker, *failingStore, *testutil.Clock) {
	t.Helper()
	fs := &failingStore{Store: testutil.NewTestStore(t)}
	clk := testutil.NewClock(morning)
	return NewTracker(fs, clk, 0, testutil.SequentialIDs("e")), fs, clk
}

func TestNewDayStartsUnset(t *testing.T) {
	t.Parallel()
	tr, _, _ := newTracker(t)

	if tr.IsEnergySetForToday() {
		t.Error("fresh tracker should be unset")
	}
	if got := tr.CurrentCeiling(); got != DefaultCeiling {
		t.Errorf("CurrentCeiling = %d, want %d", got, DefaultCeiling)
	}
	if err := tr.RequireEnergyForToday(); !errors.Is(err, model.ErrEnergyNotSet) {
		t.Errorf("RequireEnergyForToday = %v, want ErrEnergyNotSet", err)
	}
}

func TestSetEnergyForTodayUpserts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr, fs, clk := newTracker(t)

	if err := tr.SetEnergyForToday(ctx, 150); err != nil {
		t.Fatalf("SetEnergyForToday: %v", err)
	}
	if !tr.IsEnergySetForToday() || tr.CurrentCeiling() != 150 {
		t.Fatalf("state after set: set=%v ceiling=%d", tr.IsEnergySetForToday(), tr.CurrentCeiling())
	}
	if err := tr.RequireEnergyForToday(); err != nil {
		t.Errorf("RequireEnergyForToday: %v", err)
	}

	clk.Advance(3 * time.Hour)
	if err := tr.SetEnergyForToday(ctx, 80); err != nil {
		t.Fatalf("second SetEnergyForToday: %v", err)
	}

	day := clk.Today()
	recs, err := fs.FetchEnergyRecords(ctx, store.EnergyFilter{Day: &day})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Ceiling != 80 || recs[0].ID != "e-1" {
		t.Errorf("want a single overwritten record, got %+v", recs)
	}
}

func TestSetEnergyRejectsNonPositive(t *testing.T) {
	t.Parallel()
	tr, _, _ := newTracker(t)

	for _, v := range []int{0, -5} {
		if err := tr.SetEnergyForToday(context.Background(), v); !errors.Is(err, model.ErrInvalidEnergy) {
			t.Errorf("SetEnergyForToday(%d) = %v, want ErrInvalidEnergy", v, err)
		}
	}
	if tr.IsEnergySetForToday() {
		t.Error("rejected value changed state")
	}
}

func TestDayRolloverResetsState(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr, fs, clk := newTracker(t)

	if err := tr.SetEnergyForToday(ctx, 120); err != nil {
		t.Fatal(err)
	}

	clk.Set(time.Date(2025, time.May, 4, 23, 59, 59, 0, time.UTC))
	if !tr.IsEnergySetForToday() {
		t.Error("still the same calendar day")
	}

	clk.Advance(time.Second)
	if tr.IsEnergySetForToday() {
		t.Error("midnight should start an unset day")
	}
	if tr.CurrentCeiling() != DefaultCeiling {
		t.Errorf("CurrentCeiling after rollover = %d", tr.CurrentCeiling())
	}

	if err := tr.SetEnergyForToday(ctx, 60); err != nil {
		t.Fatal(err)
	}
	recs, _ := fs.FetchEnergyRecords(ctx, store.EnergyFilter{})
	if len(recs) != 2 {
		t.Fatalf("want one record per day, got %+v", recs)
	}
	if recs[0].Ceiling != 120 || recs[1].Ceiling != 60 {
		t.Errorf("records = %+v", recs)
	}
}

func TestLoadTodayCeiling(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr, fs, clk := newTracker(t)

	if err := tr.SetEnergyForToday(ctx, 90); err != nil {
		t.Fatal(err)
	}

	// A second tracker on the same store, as after a restart.
	restarted := NewTracker(fs, clk, 70, nil)
	if restarted.IsEnergySetForToday() {
		t.Error("unsynced tracker should be unset")
	}
	if restarted.CurrentCeiling() != 70 {
		t.Errorf("fallback ceiling = %d, want 70", restarted.CurrentCeiling())
	}
	if err := restarted.LoadTodayCeiling(ctx); err != nil {
		t.Fatal(err)
	}
	if !restarted.IsEnergySetForToday() || restarted.CurrentCeiling() != 90 {
		t.Errorf("after load: set=%v ceiling=%d", restarted.IsEnergySetForToday(), restarted.CurrentCeiling())
	}

	// Setting again after a restart updates the stored record.
	if err := restarted.SetEnergyForToday(ctx, 95); err != nil {
		t.Fatal(err)
	}
	recs, _ := fs.FetchEnergyRecords(ctx, store.EnergyFilter{})
	if len(recs) != 1 || recs[0].Ceiling != 95 {
		t.Errorf("records = %+v", recs)
	}
}

func TestSetEnergyFindsStoredRecordWithoutLoad(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr, fs, clk := newTracker(t)
	if err := tr.SetEnergyForToday(ctx, 90); err != nil {
		t.Fatal(err)
	}

	other := NewTracker(fs, clk, 0, nil)
	if err := other.SetEnergyForToday(ctx, 40); err != nil {
		t.Fatalf("SetEnergyForToday on unsynced tracker: %v", err)
	}
	recs, _ := fs.FetchEnergyRecords(ctx, store.EnergyFilter{})
	if len(recs) != 1 || recs[0].Ceiling != 40 {
		t.Errorf("records = %+v", recs)
	}
}

func TestSetEnergyPersistenceFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr, fs, _ := newTracker(t)

	fs.fail = true
	err := tr.SetEnergyForToday(ctx, 100)
	if !errors.Is(err, model.ErrPersistence) || !errors.Is(err, errDiskFull) {
		t.Fatalf("err = %v, want wrapped ErrPersistence", err)
	}
	if tr.IsEnergySetForToday() {
		t.Error("failed insert left today set")
	}

	fs.fail = false
	if err := tr.SetEnergyForToday(ctx, 100); err != nil {
		t.Fatal(err)
	}
	fs.fail = true
	if err := tr.SetEnergyForToday(ctx, 200); !errors.Is(err, model.ErrPersistence) {
		t.Fatalf("err = %v", err)
	}
	if tr.CurrentCeiling() != 100 {
		t.Errorf("failed update changed ceiling to %d", tr.CurrentCeiling())
	}
}

func TestHistory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr, _, clk := newTracker(t)

	for i := 0; i < 5; i++ {
		if err := tr.SetEnergyForToday(ctx, 50+i*10); err != nil {
			t.Fatal(err)
		}
		clk.Advance(24 * time.Hour)
	}

	today := clk.Today()
	recs, err := tr.History(ctx, today.AddDays(-3), today)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3: %+v", len(recs), recs)
	}
	if recs[0].Ceiling != 70 || recs[2].Ceiling != 90 {
		t.Errorf("records = %+v", recs)
	}
}

// stagingHook runs after every entity the wrapped writer stages.
type stagingHook struct {
	store.Store
	onStage func(model.Entity)
}

func (h *stagingHook) Insert(e model.Entity) {
	h.Store.Insert(e)
	h.onStage(e)
}

func (h *stagingHook) Update(e model.Entity) {
	h.Store.Update(e)
	h.onStage(e)
}

func TestSetEnergyIsIsolatedFromTaskWrites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	base := testutil.NewTestStore(t)
	clk := testutil.NewClock(morning)

	taskStore := &failingStore{Store: base}
	repo := tasks.NewRepository(taskStore, clk, testutil.SequentialIDs("t"))
	taskID, err := repo.CreateTask(ctx, model.TaskDraft{Title: "Walk"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	taskStore.fail = true

	// A failing task toggle starts right after the tracker stages its
	// record. It must neither commit nor drop the tracker's change.
	toggled := make(chan error, 1)
	hook := &stagingHook{Store: base}
	hook.onStage = func(e model.Entity) {
		if _, ok := e.(model.DailyEnergyRecord); !ok {
			return
		}
		go func() { toggled <- repo.ToggleTaskCompletion(ctx, taskID) }()
		time.Sleep(20 * time.Millisecond)
	}
	tr := NewTracker(hook, clk, 0, testutil.SequentialIDs("e"))

	if err := tr.SetEnergyForToday(ctx, 120); err != nil {
		t.Fatalf("SetEnergyForToday: %v", err)
	}
	if err := <-toggled; !errors.Is(err, model.ErrPersistence) {
		t.Fatalf("toggle err = %v, want ErrPersistence", err)
	}

	day := clk.Today()
	recs, err := base.FetchEnergyRecords(ctx, store.EnergyFilter{Day: &day})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Ceiling != 120 {
		t.Errorf("persisted records = %+v, want today's 120", recs)
	}
	if !tr.IsEnergySetForToday() {
		t.Error("tracker lost today's energy")
	}

	stored, err := base.FetchTasks(ctx, store.TaskFilter{})
	if err != nil {
		t.Fatal(err)
	}
	task, err := repo.Task(taskID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 || stored[0].Completed || task.Completed {
		t.Errorf("failed toggle leaked: stored=%+v memory=%+v", stored, task)
	}
}
