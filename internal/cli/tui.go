package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/energy-planner/internal/app"
	"github.com/nhle/energy-planner/internal/scheduler"
)

// dayCheckInterval is how often the UI compares the clock with the day it
// is showing.
const dayCheckInterval = time.Minute

// runTUI starts the interactive planner and its day-rollover jobs.
func runTUI(ctx context.Context, s *session) error {
	p := tea.NewProgram(
		app.New(s.repo, s.tracker, s.cfg, s.clock),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	sched := scheduler.New(nil)
	if _, err := sched.ScheduleDaily(s.cfg.Energy.RolloverTime, func() {
		p.Send(app.DayChangedMsg{})
	}); err != nil {
		return fmt.Errorf("scheduling day rollover: %w", err)
	}
	if _, err := sched.ScheduleInterval(dayCheckInterval, func() {
		p.Send(app.DayCheckMsg{})
	}); err != nil {
		return fmt.Errorf("scheduling day check: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running interactive planner: %w", err)
	}
	return nil
}
