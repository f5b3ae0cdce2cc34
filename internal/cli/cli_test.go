package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nhle/energy-planner/internal/clock"
	"github.com/nhle/energy-planner/internal/model"
)

func TestResolveTask(t *testing.T) {
	t.Parallel()

	tasks := []model.Task{{ID: "ab"}, {ID: "abc123"}, {ID: "abd456"}, {ID: "xyz789"}}

	tests := []struct {
		ref     string
		want    string
		wantErr error
	}{
		{ref: "ab", want: "ab"}, // exact match beats prefixes
		{ref: "abc", want: "abc123"},
		{ref: "x", want: "xyz789"},
		{ref: "  xyz789 ", want: "xyz789"},
		{ref: "q", wantErr: model.ErrNotFound},
	}
	for _, tt := range tests {
		got, err := resolveTask(tasks, tt.ref)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("resolveTask(%q) error = %v, want %v", tt.ref, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("resolveTask(%q) unexpected error: %v", tt.ref, err)
			continue
		}
		if got.ID != tt.want {
			t.Errorf("resolveTask(%q) = %s, want %s", tt.ref, got.ID, tt.want)
		}
	}

	if _, err := resolveTask([]model.Task{{ID: "abc123"}, {ID: "abd456"}}, "ab"); err == nil {
		t.Error("expected an ambiguity error for prefix ab")
	}
	if _, err := resolveTask(tasks, ""); err == nil {
		t.Error("expected an error for an empty reference")
	}
}

func TestResolveSubTask(t *testing.T) {
	t.Parallel()

	tasks := []model.Task{
		{ID: "t1", SubTasks: []model.SubTask{{ID: "s-100", TaskID: "t1"}, {ID: "s-200", TaskID: "t1"}}},
		{ID: "t2", SubTasks: []model.SubTask{{ID: "s-201", TaskID: "t2"}}},
	}

	owner, st, err := resolveSubTask(tasks, "s-1")
	if err != nil {
		t.Fatalf("resolveSubTask: %v", err)
	}
	if owner.ID != "t1" || st.ID != "s-100" {
		t.Errorf("got (%s, %s), want (t1, s-100)", owner.ID, st.ID)
	}

	owner, st, err = resolveSubTask(tasks, "s-201")
	if err != nil {
		t.Fatalf("resolveSubTask: %v", err)
	}
	if owner.ID != "t2" || st.ID != "s-201" {
		t.Errorf("got (%s, %s), want (t2, s-201)", owner.ID, st.ID)
	}

	if _, _, err := resolveSubTask(tasks, "s-2"); err == nil {
		t.Error("expected an ambiguity error for prefix s-2")
	}
	if _, _, err := resolveSubTask(tasks, "nope"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestAddOptionsDraft(t *testing.T) {
	t.Parallel()

	o := &addOptions{Energy: 40, Color: "Blue", Symbol: "book", SubTasks: []string{"outline:10", "draft"}}
	d, err := o.draft("Write report")
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if d.Color != model.ColorBlue || d.Symbol != model.SymbolBook {
		t.Errorf("color/symbol = %v/%v, want blue/book", d.Color, d.Symbol)
	}
	want := []model.SubTaskDraft{{Title: "outline", EnergyCost: 10}, {Title: "draft"}}
	if len(d.SubTasks) != len(want) {
		t.Fatalf("got %d sub-tasks, want %d", len(d.SubTasks), len(want))
	}
	for i := range want {
		if d.SubTasks[i] != want[i] {
			t.Errorf("sub-task %d = %+v, want %+v", i, d.SubTasks[i], want[i])
		}
	}

	bad := []*addOptions{
		{Color: "mauve"},
		{Symbol: "rocket"},
		{Energy: -5},
		{SubTasks: []string{"outline:0"}},
	}
	for _, o := range bad {
		if _, err := o.draft("x"); err == nil {
			t.Errorf("draft with %+v: expected an error", *o)
		}
	}
}

// runner executes commands against one database in a temp dir.
type runner struct {
	t      *testing.T
	config string
	db     string
}

func newRunner(t *testing.T) *runner {
	t.Helper()
	dir := t.TempDir()
	return &runner{
		t:      t,
		config: filepath.Join(dir, "config.yaml"),
		db:     filepath.Join(dir, "data", "energyplan.db"),
	}
}

func (r *runner) run(args ...string) (string, error) {
	r.t.Helper()

	s := &session{clock: clock.System{}}
	defer func() {
		if err := s.close(); err != nil {
			r.t.Errorf("closing session: %v", err)
		}
	}()

	var out bytes.Buffer
	cmd := newRoot(s, "test")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", r.config, "--db", r.db}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (r *runner) mustRun(args ...string) string {
	r.t.Helper()
	out, err := r.run(args...)
	if err != nil {
		r.t.Fatalf("energyplan %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func (r *runner) day() dayView {
	r.t.Helper()
	var v dayView
	if err := json.Unmarshal([]byte(r.mustRun("list", "-o", "json")), &v); err != nil {
		r.t.Fatalf("decoding list output: %v", err)
	}
	return v
}

func TestCompletionIsGatedOnEnergy(t *testing.T) {
	t.Parallel()
	r := newRunner(t)

	r.mustRun("add", "Write", "report", "--energy", "40", "--sub", "outline:10", "--sub", "draft")

	v := r.day()
	if len(v.Tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(v.Tasks))
	}
	task := v.Tasks[0]
	if task.Title != "Write report" || task.EnergyCost != 40 {
		t.Errorf("task = %q/%d, want Write report/40", task.Title, task.EnergyCost)
	}
	if len(task.SubTasks) != 2 || task.SubTasks[0].EnergyCost != 10 || task.SubTasks[1].EnergyCost != 5 {
		t.Errorf("sub-tasks = %+v, want outline:10 and draft:5", task.SubTasks)
	}
	if v.EnergySet {
		t.Error("energy reported as set on a fresh database")
	}

	_, err := r.run("done", task.ID[:8])
	if !errors.Is(err, model.ErrEnergyNotSet) {
		t.Fatalf("done without energy: error = %v, want ErrEnergyNotSet", err)
	}
	_, err = r.run("sub", "done", task.SubTasks[0].ID)
	if !errors.Is(err, model.ErrEnergyNotSet) {
		t.Fatalf("sub done without energy: error = %v, want ErrEnergyNotSet", err)
	}

	r.mustRun("energy", "set", "120")
	r.mustRun("done", task.ID[:8])

	v = r.day()
	if !v.EnergySet || v.Summary.Ceiling != 120 {
		t.Errorf("energy = %v/%d, want set/120", v.EnergySet, v.Summary.Ceiling)
	}
	if !v.Tasks[0].Completed {
		t.Error("task not completed")
	}
	if v.Summary.Spent != 40 {
		t.Errorf("Spent = %d, want 40", v.Summary.Spent)
	}
}

func TestSubTaskBudgetIsEnforced(t *testing.T) {
	t.Parallel()
	r := newRunner(t)

	r.mustRun("add", "Errands", "--energy", "20")
	id := r.day().Tasks[0].ID

	r.mustRun("sub", "add", id, "post office", "--energy", "15")
	if _, err := r.run("sub", "add", id, "bank", "--energy", "10"); !errors.Is(err, model.ErrBudgetExceeded) {
		t.Fatalf("error = %v, want ErrBudgetExceeded", err)
	}

	// The default allocation shrinks to what is left.
	r.mustRun("sub", "add", id, "bank")
	task := r.day().Tasks[0]
	if len(task.SubTasks) != 2 || task.SubTasks[1].EnergyCost != 5 {
		t.Fatalf("sub-tasks = %+v, want bank with 5", task.SubTasks)
	}

	if _, err := r.run("budget", id, "15"); !errors.Is(err, model.ErrBudgetExceeded) {
		t.Errorf("shrinking below allocation: error = %v, want ErrBudgetExceeded", err)
	}
	r.mustRun("sub", "rm", task.SubTasks[0].ID)
	r.mustRun("budget", id, "15")
	r.mustRun("sub", "energy", task.SubTasks[1].ID, "15")

	task = r.day().Tasks[0]
	if task.EnergyCost != 15 || len(task.SubTasks) != 1 || task.SubTasks[0].EnergyCost != 15 {
		t.Errorf("task = %+v, want energy 15 with one sub-task of 15", task)
	}

	r.mustRun("rm", id)
	if n := len(r.day().Tasks); n != 0 {
		t.Errorf("got %d tasks after rm, want 0", n)
	}
}

func TestEnergySetRespectsConfiguredBounds(t *testing.T) {
	t.Parallel()
	r := newRunner(t)

	for _, arg := range []string{"10", "505", "0", "lots"} {
		if _, err := r.run("energy", "set", arg); err == nil {
			t.Errorf("energy set %s: expected an error", arg)
		}
	}

	r.mustRun("energy", "set", "25")
	out := r.mustRun("energy", "history", "-o", "yaml")
	if !strings.Contains(out, "ceiling: 25") {
		t.Errorf("history output missing today's record:\n%s", out)
	}
}

func TestListRejectsUnknownFormat(t *testing.T) {
	t.Parallel()
	r := newRunner(t)

	if _, err := r.run("list", "-o", "xml"); err == nil {
		t.Error("expected an error for -o xml")
	}
}

func TestConfigInitAndShow(t *testing.T) {
	t.Parallel()
	r := newRunner(t)

	r.mustRun("config", "init")
	if _, err := os.Stat(r.config); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if _, err := r.run("config", "init"); err == nil {
		t.Error("second init without --force should fail")
	}
	r.mustRun("config", "init", "--force")

	out := r.mustRun("config", "show")
	for _, want := range []string{"rollover_time", "max_ceiling: 500"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show output missing %q:\n%s", want, out)
		}
	}

	if _, err := os.Stat(r.db); !os.IsNotExist(err) {
		t.Errorf("config commands should not create the database, stat error = %v", err)
	}
}
