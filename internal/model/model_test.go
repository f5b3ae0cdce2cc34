package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseColorFallsBackToPurple(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Color
	}{
		{"orange", ColorOrange},
		{" Cyan ", ColorCyan},
		{"yellow", ColorYellow},
		{"", ColorPurple},
		{"magenta", ColorPurple},
	}
	for _, tt := range tests {
		if got := ParseColor(tt.in); got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseSymbolFallsBackToCheckmark(t *testing.T) {
	t.Parallel()

	if got := ParseSymbol("bolt"); got != SymbolBolt {
		t.Errorf("ParseSymbol(bolt) = %v", got)
	}
	if got := ParseSymbol("rocket"); got != SymbolCheckmark {
		t.Errorf("ParseSymbol(rocket) = %v, want checkmark", got)
	}
	if len(AllSymbols()) != 8 || len(AllColors()) != 8 {
		t.Errorf("expected 8 colors and 8 symbols, got %d and %d", len(AllColors()), len(AllSymbols()))
	}
}

func TestValidateColorName(t *testing.T) {
	t.Parallel()

	if err := ValidateColorName(""); err != nil {
		t.Errorf("empty name should be accepted: %v", err)
	}
	if err := ValidateColorName("Green"); err != nil {
		t.Errorf("Green should be accepted: %v", err)
	}
	if err := ValidateColorName("grean"); err == nil {
		t.Error("expected error for unknown color")
	}
	if err := ValidateSymbolName("bogus"); err == nil {
		t.Error("expected error for unknown symbol")
	}
}

func TestCalendarDayEquality(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+2", 2*60*60)
	morning := time.Date(2025, time.March, 9, 0, 5, 0, 0, loc)
	night := time.Date(2025, time.March, 9, 23, 59, 59, 0, loc)

	if DayOf(morning) != DayOf(night) {
		t.Errorf("expected same day, got %v and %v", DayOf(morning), DayOf(night))
	}
	if DayOf(night.Add(time.Second)) == DayOf(night) {
		t.Error("expected midnight to start a new day")
	}
}

func TestCalendarDayArithmetic(t *testing.T) {
	t.Parallel()

	d := CalendarDay{Year: 2024, Month: time.February, Day: 28}
	if got := d.AddDays(1); got != (CalendarDay{2024, time.February, 29}) {
		t.Errorf("leap day: got %v", got)
	}
	if got := d.AddDays(2); got != (CalendarDay{2024, time.March, 1}) {
		t.Errorf("month rollover: got %v", got)
	}
	if got := d.AddDays(-28); got != (CalendarDay{2024, time.January, 31}) {
		t.Errorf("negative: got %v", got)
	}
	if !d.Before(d.AddDays(1)) || d.Before(d) {
		t.Error("Before ordering is wrong")
	}
	if d.String() != "2024-02-28" {
		t.Errorf("String() = %q", d.String())
	}

	parsed, err := ParseDay("2024-02-28")
	if err != nil {
		t.Fatalf("ParseDay: %v", err)
	}
	if parsed != d {
		t.Errorf("ParseDay = %v, want %v", parsed, d)
	}
	if _, err := ParseDay("yesterday"); err == nil {
		t.Error("expected parse error")
	}
}

func TestTaskCloneIsDeep(t *testing.T) {
	t.Parallel()

	orig := Task{ID: "t1", SubTasks: []SubTask{{ID: "s1", EnergyCost: 5}}}
	c := orig.Clone()
	c.SubTasks[0].EnergyCost = 10
	c.SubTasks = append(c.SubTasks, SubTask{ID: "s2"})

	if orig.SubTasks[0].EnergyCost != 5 || len(orig.SubTasks) != 1 {
		t.Errorf("clone shares storage with original: %+v", orig.SubTasks)
	}
	if orig.SubTaskIndex("s1") != 0 || orig.SubTaskIndex("nope") != -1 {
		t.Error("SubTaskIndex returned wrong index")
	}
}

func TestTypedErrorsMatchSentinels(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("disk full")
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"budget", &BudgetError{TaskEnergy: 10, Allocated: 6, Requested: 6}, ErrBudgetExceeded},
		{"not found", &NotFoundError{Kind: "task", ID: "x"}, ErrNotFound},
		{"persistence", &PersistenceError{Op: "create task", Err: storeErr}, ErrPersistence},
		{"persistence unwrap", &PersistenceError{Op: "create task", Err: storeErr}, storeErr},
		{"wrapped", fmt.Errorf("outer: %w", &NotFoundError{Kind: "sub-task", ID: "y"}), ErrNotFound},
	}
	for _, tt := range tests {
		if !errors.Is(tt.err, tt.want) {
			t.Errorf("%s: errors.Is(%v, %v) = false", tt.name, tt.err, tt.want)
		}
	}

	if !IsValidation(&BudgetError{}) || IsValidation(&NotFoundError{}) {
		t.Error("IsValidation classification is wrong")
	}
	if !IsPersistence(fmt.Errorf("x: %w", &PersistenceError{Op: "op", Err: storeErr})) {
		t.Error("IsPersistence should see through wrapping")
	}
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Energy.DefaultCeiling != 100 {
		t.Errorf("DefaultCeiling = %d, want 100", cfg.Energy.DefaultCeiling)
	}
	if cfg.Energy.MinCeiling != 25 || cfg.Energy.MaxCeiling != 500 || cfg.Energy.Step != 5 {
		t.Errorf("unexpected energy bounds: %+v", cfg.Energy)
	}
	if !cfg.Display.ShowCompleted {
		t.Error("ShowCompleted should default to true")
	}
}

func TestSaveThenLoadConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultAppConfig()
	cfg.Energy.DefaultCeiling = 150
	cfg.Energy.RolloverTime = "04:30"
	cfg.Storage.Path = "/tmp/plan.db"

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Energy.DefaultCeiling != 150 || got.Energy.RolloverTime != "04:30" {
		t.Errorf("round trip lost values: %+v", got.Energy)
	}
	if got.Storage.Path != "/tmp/plan.db" {
		t.Errorf("Storage.Path = %q", got.Storage.Path)
	}
}

func TestLoadConfigRejectsBadBounds(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "energy:\n  min_ceiling: 50\n  max_ceiling: 10\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestParseClock(t *testing.T) {
	t.Parallel()

	h, m, err := ParseClock("07:45")
	if err != nil || h != 7 || m != 45 {
		t.Errorf("ParseClock(07:45) = %d, %d, %v", h, m, err)
	}
	for _, bad := range []string{"", "24:00", "12:60", "noon"} {
		if _, _, err := ParseClock(bad); err == nil {
			t.Errorf("ParseClock(%q) should fail", bad)
		}
	}
}

func TestParseSubTaskDraft(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    SubTaskDraft
		wantErr bool
	}{
		{"outline", SubTaskDraft{Title: "outline"}, false},
		{"outline:10", SubTaskDraft{Title: "outline", EnergyCost: 10}, false},
		{" call Bob : 7 ", SubTaskDraft{Title: "call Bob", EnergyCost: 7}, false},
		{"standup:15:5", SubTaskDraft{Title: "standup:15", EnergyCost: 5}, false},
		{"note: read", SubTaskDraft{Title: "note: read"}, false},
		{"bad:0", SubTaskDraft{}, true},
	}
	for _, tt := range tests {
		got, err := ParseSubTaskDraft(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSubTaskDraft(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseSubTaskDraft(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseSubTaskDrafts(t *testing.T) {
	t.Parallel()

	got, err := ParseSubTaskDrafts("a:5\n\n  \nb\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].EnergyCost != 5 || got[1].Title != "b" {
		t.Errorf("ParseSubTaskDrafts = %+v", got)
	}
	if _, err := ParseSubTaskDrafts("a:-1"); err == nil {
		t.Error("expected error for negative energy")
	}
}
