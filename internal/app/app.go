package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/energy-planner/internal/budget"
	"github.com/nhle/energy-planner/internal/clock"
	"github.com/nhle/energy-planner/internal/energy"
	"github.com/nhle/energy-planner/internal/keys"
	"github.com/nhle/energy-planner/internal/model"
	"github.com/nhle/energy-planner/internal/tasks"
	"github.com/nhle/energy-planner/internal/ui"
	"github.com/nhle/energy-planner/internal/ui/command"
	"github.com/nhle/energy-planner/internal/ui/detail"
	"github.com/nhle/energy-planner/internal/ui/energyform"
	helpview "github.com/nhle/energy-planner/internal/ui/help"
	"github.com/nhle/energy-planner/internal/ui/subtaskform"
	"github.com/nhle/energy-planner/internal/ui/taskform"
	"github.com/nhle/energy-planner/internal/ui/tasklist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewTaskForm
	ViewSubTaskForm
	ViewEnergyForm
	ViewHelp
	ViewCommand
)

const (
	subTaskEnergyStep = 1
	taskEnergyStep    = 5
)

// Model is the root Bubble Tea model that manages view routing, layout,
// and access to the task repository and energy tracker.
type Model struct {
	currentView  ViewState
	previousView ViewState
	frame        ui.Frame
	repo         *tasks.Repository
	tracker      *energy.Tracker
	cfg          *model.AppConfig
	clock        clock.Clock
	keys         *keys.KeyMap

	taskList    tasklist.Model
	detail      detail.Model
	helpView    helpview.Model
	commandView command.Model
	taskForm    taskform.Model
	subTaskForm subtaskform.Model
	energyForm  energyform.Model

	// pending is a completion that is waiting for today's energy.
	pending *tasklist.Selection

	day       model.CalendarDay
	statusErr string
	ready     bool
}

// New creates the root model. repo and tracker must already be loaded.
func New(repo *tasks.Repository, tracker *energy.Tracker, cfg *model.AppConfig, c clock.Clock) Model {
	k := keys.DefaultKeyMap()
	m := Model{
		currentView: ViewList,
		repo:        repo,
		tracker:     tracker,
		cfg:         cfg,
		clock:       c,
		keys:        k,
		taskList:    tasklist.New(k, cfg.Display.ShowCompleted, 80, 24),
		detail:      detail.New(k, 80, 24),
		helpView:    helpview.New(k, cfg.Energy, 80, 24),
		commandView: command.New(80, 24),
		taskForm:    taskform.New(80, 24),
		subTaskForm: subtaskform.New(80, 24),
		energyForm:  energyform.New(cfg.Energy, 80, 24),
		day:         c.Today(),
	}
	m.taskList.SetTasks(repo.Tasks())
	return m
}

// Init asks for today's energy when it has not been set yet.
func (m Model) Init() tea.Cmd {
	if m.tracker.IsEnergySetForToday() {
		return nil
	}
	return func() tea.Msg {
		return energyPromptMsg{prompt: "How much energy do you have today?"}
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.frame = ui.NewFrame(msg.Width, msg.Height)
		m.ready = true
		contentWidth, contentHeight := m.frame.BodySize()
		m.taskList.SetSize(contentWidth, contentHeight)
		m.detail.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		m.taskForm.SetSize(contentWidth, contentHeight)
		m.subTaskForm.SetSize(contentWidth, contentHeight)
		m.energyForm.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case mutationDoneMsg:
		if msg.err != nil {
			m.statusErr = describe(msg.err)
		}
		cmd := m.refresh()
		return m, cmd

	case energyPromptMsg:
		if m.currentView != ViewList && m.currentView != ViewDetail {
			return m, nil
		}
		cmd := m.openEnergyForm(msg.prompt)
		return m, cmd

	case energySavedMsg:
		if msg.err != nil {
			m.statusErr = describe(msg.err)
			m.pending = nil
			return m, nil
		}
		if m.pending != nil {
			sel := *m.pending
			m.pending = nil
			return m, m.toggleCmd(sel)
		}
		cmd := m.refresh()
		return m, cmd

	case energyReloadedMsg:
		if msg.err != nil {
			m.statusErr = describe(msg.err)
		}
		cmd := m.refresh()
		if !m.tracker.IsEnergySetForToday() && (m.currentView == ViewList || m.currentView == ViewDetail) {
			prompt := m.openEnergyForm("A new day has started. How much energy do you have?")
			return m, tea.Batch(cmd, prompt)
		}
		return m, cmd

	case DayCheckMsg:
		if today := m.clock.Today(); today != m.day {
			return m, func() tea.Msg { return DayChangedMsg{Day: today} }
		}
		return m, nil

	case DayChangedMsg:
		m.day = msg.Day
		if m.day.IsZero() {
			m.day = m.clock.Today()
		}
		return m, m.reloadEnergy()

	case tasklist.SelectedTaskMsg:
		t, err := m.repo.Task(msg.TaskID)
		if err != nil {
			m.statusErr = describe(err)
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewDetail
		m.detail.SetTask(t, m.summary())
		return m, nil

	case detail.BackMsg:
		m.currentView = ViewList
		m.detail.Clear()
		return m, nil

	case detail.ActionMsg:
		switch msg.Action {
		case detail.ActionToggle:
			return m.toggle(tasklist.Selection{TaskID: msg.TaskID})
		case detail.ActionAddSubTask:
			cmd := m.openSubTaskForm(msg.TaskID)
			return m, cmd
		}
		return m, nil

	case taskform.TaskSubmittedMsg:
		m.currentView = ViewList
		return m, m.createTask(msg.Draft)

	case taskform.TaskFormCancelMsg:
		m.currentView = ViewList
		return m, nil

	case subtaskform.SubTaskSubmittedMsg:
		m.currentView = m.previousView
		return m, m.addSubTask(msg.TaskID, msg.Title, msg.Energy)

	case subtaskform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case energyform.EnergySubmittedMsg:
		m.currentView = m.previousView
		return m, m.setEnergy(msg.Ceiling)

	case energyform.CancelMsg:
		m.currentView = m.previousView
		if m.pending != nil {
			m.pending = nil
			m.statusErr = "Not completed: " + model.ErrEnergyNotSet.Error()
		}
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		cmd := m.executeCommand(msg.Command)
		return m, cmd

	case command.ErrorMsg:
		m.currentView = m.previousView
		m.statusErr = msg.Err.Error()
		return m, nil

	case tea.KeyMsg:
		m.statusErr = ""
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if next, cmd, ok := m.handleKey(msg); ok {
			return next, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleKey processes keys owned by the root model. ok is false when the
// key should be delegated to the active view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch m.currentView {
	case ViewHelp:
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil, true
		}
		return m, nil, false

	case ViewCommand:
		if key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil, true
		}
		return m, nil, false

	case ViewDetail:
		switch {
		case key.Matches(msg, m.keys.SetEnergy):
			cmd := m.openEnergyForm("")
			return m, cmd, true
		case key.Matches(msg, m.keys.Help):
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil, true
		case key.Matches(msg, m.keys.Command):
			m.previousView = m.currentView
			m.currentView = ViewCommand
			cmd := m.commandView.Focus()
			return m, cmd, true
		}
		return m, nil, false

	case ViewList:
		if m.taskList.Searching() {
			return m, nil, false
		}
		return m.handleListKey(msg)
	}
	return m, nil, false
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	sel, hasSel := m.taskList.Selected()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		cmd := m.commandView.Focus()
		return m, cmd, true

	case key.Matches(msg, m.keys.NewTask):
		m.previousView = m.currentView
		m.currentView = ViewTaskForm
		cmd := m.taskForm.StartCreate()
		return m, cmd, true

	case key.Matches(msg, m.keys.SetEnergy):
		cmd := m.openEnergyForm("")
		return m, cmd, true

	case key.Matches(msg, m.keys.AddSubTask):
		if !hasSel {
			return m, nil, true
		}
		cmd := m.openSubTaskForm(sel.TaskID)
		return m, cmd, true

	case key.Matches(msg, m.keys.Toggle):
		if !hasSel {
			return m, nil, true
		}
		next, cmd := m.toggle(sel)
		return next, cmd, true

	case key.Matches(msg, m.keys.Delete):
		if !hasSel {
			return m, nil, true
		}
		return m, m.deleteSelection(sel), true

	case key.Matches(msg, m.keys.EnergyUp), key.Matches(msg, m.keys.EnergyDown):
		st, ok := m.taskList.SelectedSubTask()
		if !ok {
			return m, nil, true
		}
		next := st.EnergyCost + subTaskEnergyStep
		if key.Matches(msg, m.keys.EnergyDown) {
			next = st.EnergyCost - subTaskEnergyStep
		}
		if next <= 0 {
			return m, nil, true
		}
		return m, m.updateSubTaskEnergy(st.TaskID, st.ID, next), true

	case key.Matches(msg, m.keys.TaskEnergyUp), key.Matches(msg, m.keys.TaskEnergyDown):
		t, ok := m.taskList.SelectedTask()
		if !ok {
			return m, nil, true
		}
		next := t.EnergyCost + taskEnergyStep
		if key.Matches(msg, m.keys.TaskEnergyDown) {
			next = t.EnergyCost - taskEnergyStep
		}
		if next <= 0 {
			return m, nil, true
		}
		return m, m.updateTaskEnergy(t.ID, next), true
	}
	return m, nil, false
}

// toggle flips completion of sel. Marking something complete needs
// today's energy; without it the energy form opens and the toggle is
// applied once the ceiling is saved.
func (m Model) toggle(sel tasklist.Selection) (tea.Model, tea.Cmd) {
	if m.completes(sel) {
		if err := m.tracker.RequireEnergyForToday(); err != nil {
			m.pending = &sel
			cmd := m.openEnergyForm("Set today's energy before completing tasks.")
			return m, cmd
		}
	}
	return m, m.toggleCmd(sel)
}

// completes reports whether toggling sel would mark it complete.
func (m Model) completes(sel tasklist.Selection) bool {
	t, err := m.repo.Task(sel.TaskID)
	if err != nil {
		return false
	}
	if sel.SubTaskID == "" {
		return !t.Completed
	}
	i := t.SubTaskIndex(sel.SubTaskID)
	return i >= 0 && !t.SubTasks[i].Completed
}

func (m *Model) openEnergyForm(prompt string) tea.Cmd {
	if m.currentView != ViewEnergyForm {
		m.previousView = m.currentView
	}
	m.currentView = ViewEnergyForm
	return m.energyForm.Start(m.tracker.CurrentCeiling(), prompt)
}

func (m *Model) openSubTaskForm(taskID string) tea.Cmd {
	t, err := m.repo.Task(taskID)
	if err != nil {
		m.statusErr = describe(err)
		return nil
	}
	cmd, err := m.subTaskForm.Start(t)
	if err != nil {
		m.statusErr = describe(err)
		return nil
	}
	m.previousView = m.currentView
	m.currentView = ViewSubTaskForm
	return cmd
}

// refresh pushes the repository's tasks into the list and detail views.
func (m *Model) refresh() tea.Cmd {
	cmd := m.taskList.SetTasks(m.repo.Tasks())
	if id := m.detail.TaskID(); id != "" {
		t, err := m.repo.Task(id)
		if err != nil {
			m.detail.Clear()
			if m.currentView == ViewDetail {
				m.currentView = ViewList
			}
		} else {
			m.detail.SetTask(t, m.summary())
		}
	}
	return cmd
}

func (m Model) summary() budget.DaySummary {
	return m.repo.Summary(m.tracker.CurrentCeiling())
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewTaskForm:
		m.taskForm, cmd = m.taskForm.Update(msg)
	case ViewSubTaskForm:
		m.subTaskForm, cmd = m.subTaskForm.Update(msg)
	case ViewEnergyForm:
		m.energyForm, cmd = m.energyForm.Update(msg)
	}

	return m, cmd
}

// View renders the active view inside the header and bottom bar.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.frame.Header("Energy Planner · "+m.day.String(),
		ui.Gauge(m.summary(), m.tracker.IsEnergySetForToday()))
	footer := m.frame.Footer(m.keyHints(), m.statusErr)

	return m.frame.Compose(header, m.renderContent(), footer)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.taskList.View()
	case ViewDetail:
		return m.detail.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewTaskForm:
		return m.taskForm.View()
	case ViewSubTaskForm:
		return m.subTaskForm.View()
	case ViewEnergyForm:
		return m.energyForm.View()
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewDetail:
		return "esc back | x toggle done | a add sub-task | e energy | j/k scroll"
	case ViewTaskForm, ViewSubTaskForm, ViewEnergyForm:
		return "enter submit | esc cancel"
	default:
		if m.taskList.Searching() {
			return "enter apply | esc clear"
		}
		return "q quit | ? help | n new | a sub-task | x done | d delete | e energy | / search"
	}
}

// executeCommand handles a parsed command from the command palette.
func (m *Model) executeCommand(c command.Command) tea.Cmd {
	switch c.Name {
	case command.CmdNew:
		if c.Arg != "" {
			return m.createTask(model.TaskDraft{Title: c.Arg})
		}
		m.previousView = m.currentView
		m.currentView = ViewTaskForm
		return m.taskForm.StartCreate()

	case command.CmdEnergy:
		if c.N == 0 {
			return m.openEnergyForm("")
		}
		b := m.cfg.Energy
		if c.N < b.MinCeiling || c.N > b.MaxCeiling {
			m.statusErr = fmt.Sprintf("energy must be between %d and %d", b.MinCeiling, b.MaxCeiling)
			return nil
		}
		return m.setEnergy(c.N)

	case command.CmdBudget:
		t, ok := m.taskList.SelectedTask()
		if !ok {
			m.statusErr = "no task selected"
			return nil
		}
		return m.updateTaskEnergy(t.ID, c.N)

	case command.CmdCompleted:
		return m.taskList.ToggleShowCompleted()

	case command.CmdHelp:
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return nil

	case command.CmdQuit:
		return tea.Quit
	}
	return nil
}
