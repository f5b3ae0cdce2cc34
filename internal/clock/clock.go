// Package clock provides the time source used for creation timestamps and
// for deciding which calendar day it is.
package clock

import (
	"time"

	"github.com/nhle/energy-planner/internal/model"
)

// Clock reports the current instant and the current calendar day.
type Clock interface {
	Now() time.Time
	Today() model.CalendarDay
}

// System is the wall clock in a fixed location. A nil Location means
// time.Local.
type System struct {
	Location *time.Location
}

func (s System) Now() time.Time {
	now := time.Now()
	if s.Location != nil {
		now = now.In(s.Location)
	}
	return now
}

func (s System) Today() model.CalendarDay {
	return model.DayOf(s.Now())
}

// Func adapts a plain function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

func (f Func) Today() model.CalendarDay { return model.DayOf(f()) }
