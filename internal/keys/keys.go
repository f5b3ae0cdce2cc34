package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Search
	Search key.Binding

	// Command palette
	Command key.Binding

	// Help toggle
	Help key.Binding

	// Task actions
	NewTask    key.Binding
	AddSubTask key.Binding
	Toggle     key.Binding
	Delete     key.Binding

	// Energy
	SetEnergy      key.Binding
	EnergyUp       key.Binding
	EnergyDown     key.Binding
	TaskEnergyUp   key.Binding
	TaskEnergyDown key.Binding

	// View
	ToggleCompleted key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open detail"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		NewTask: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new task"),
		),
		AddSubTask: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add sub-task"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("x", " "),
			key.WithHelp("x", "toggle done"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		SetEnergy: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "set today's energy"),
		),
		EnergyUp: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "sub-task energy +1"),
		),
		EnergyDown: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "sub-task energy -1"),
		),
		TaskEnergyUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "task energy +5"),
		),
		TaskEnergyDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "task energy -5"),
		),
		ToggleCompleted: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "show/hide completed"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.NewTask, k.AddSubTask,
		k.Toggle, k.SetEnergy, k.Quit, k.Help,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.NewTask, k.AddSubTask, k.Toggle, k.Delete},
		{k.SetEnergy, k.EnergyUp, k.EnergyDown, k.TaskEnergyUp, k.TaskEnergyDown},
		{k.Search, k.Command, k.Help, k.ToggleCompleted},
	}
}
