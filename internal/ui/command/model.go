package command

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/energy-planner/internal/theme"
)

// Name identifies a palette command.
type Name string

const (
	CmdNew       Name = "new"       // new [title]
	CmdEnergy    Name = "energy"    // energy [N]
	CmdBudget    Name = "budget"    // budget N, sets the selected task's energy
	CmdCompleted Name = "completed" // toggle completed tasks
	CmdHelp      Name = "help"
	CmdQuit      Name = "quit"
)

var usage = map[Name]string{
	CmdNew:       "new [title]",
	CmdEnergy:    "energy [N]",
	CmdBudget:    "budget N",
	CmdCompleted: "completed",
	CmdHelp:      "help",
	CmdQuit:      "quit",
}

var aliases = map[string]Name{
	"n": CmdNew, "e": CmdEnergy, "b": CmdBudget, "q": CmdQuit, "?": CmdHelp,
}

// Command is a parsed palette line.
type Command struct {
	Name Name
	Arg  string // raw remainder after the name
	N    int    // Arg as an integer, when the command takes one
}

// CommandMsg is emitted when the user executes a command.
type CommandMsg struct {
	Command Command
}

// ErrorMsg is emitted when the palette line cannot be parsed.
type ErrorMsg struct {
	Err error
}

// Parse turns a palette line into a Command.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}

	word := strings.ToLower(fields[0])
	name, ok := aliases[word]
	if !ok {
		name = Name(word)
		if _, known := usage[name]; !known {
			return Command{}, fmt.Errorf("unknown command %q", fields[0])
		}
	}

	c := Command{Name: name, Arg: strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))}
	switch name {
	case CmdEnergy, CmdBudget:
		if c.Arg == "" {
			if name == CmdBudget {
				return Command{}, fmt.Errorf("usage: %s", usage[name])
			}
			return c, nil
		}
		n, err := strconv.Atoi(c.Arg)
		if err != nil || n <= 0 {
			return Command{}, fmt.Errorf("usage: %s (N must be a positive number)", usage[name])
		}
		c.N = n
	}
	return c, nil
}

// Usage lists every command's syntax, sorted.
func Usage() []string {
	out := make([]string, 0, len(usage))
	for _, u := range usage {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		line := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		if line == "" {
			return m, nil
		}
		c, err := Parse(line)
		if err != nil {
			return m, func() tea.Msg { return ErrorMsg{Err: err} }
		}
		return m, func() tea.Msg { return CommandMsg{Command: c} }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render("Command Palette")
	input := m.input.View()
	hints := theme.HelpStyle.Render(strings.Join(Usage(), " · "))

	content := lipgloss.JoinVertical(lipgloss.Left, title, input, "", hints)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
