package app

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/energy-planner/internal/model"
)

// DayCheckMsg asks the app to compare the clock with the day it is
// showing. It is sent periodically by the scheduler.
type DayCheckMsg struct{}

// DayChangedMsg starts a new day: today's energy is reloaded from the store
// and the user is prompted when it has not been set yet. A zero Day means
// the clock's current day.
type DayChangedMsg struct {
	Day model.CalendarDay
}

// energyReloadedMsg is sent after the tracker re-syncs with the store.
type energyReloadedMsg struct{ err error }

func (m Model) reloadEnergy() tea.Cmd {
	tracker := m.tracker
	return func() tea.Msg {
		err := tracker.LoadTodayCeiling(context.Background())
		if err != nil {
			log.Printf("failed to reload today's energy: %v", err)
		}
		return energyReloadedMsg{err: err}
	}
}
