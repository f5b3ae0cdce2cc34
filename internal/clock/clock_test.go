package clock

import (
	"testing"
	"time"

	"github.com/nhle/energy-planner/internal/model"
)

func TestFuncToday(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.June, 1, 23, 30, 0, 0, time.UTC)
	c := Func(func() time.Time { return now })

	if !c.Now().Equal(now) {
		t.Errorf("Now() = %v", c.Now())
	}
	want := model.CalendarDay{Year: 2025, Month: time.June, Day: 1}
	if c.Today() != want {
		t.Errorf("Today() = %v, want %v", c.Today(), want)
	}
}

func TestSystemUsesLocation(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("test", 5*60*60)
	c := System{Location: loc}
	if c.Now().Location() != loc {
		t.Errorf("Now() location = %v, want %v", c.Now().Location(), loc)
	}
	if c.Today() != model.DayOf(time.Now().In(loc)) {
		// Only fails if the test straddles midnight in loc.
		t.Logf("Today() = %v", c.Today())
	}
}
