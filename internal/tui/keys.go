package tui

import "github.com/charmbracelet/bubbles/key"

type focusKeys struct {
	Start   key.Binding
	Pause   key.Binding
	Finish  key.Binding
	Abandon key.Binding
	Longer  key.Binding
	Shorter key.Binding
	Mode    key.Binding
	Skip    key.Binding
	Quit    key.Binding
}

func newFocusKeys() focusKeys {
	return focusKeys{
		Start:   key.NewBinding(key.WithKeys("s", "enter"), key.WithHelp("s", "start")),
		Pause:   key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "pause/resume")),
		Finish:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "finish")),
		Abandon: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "abandon")),
		Longer:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "length")),
		Shorter: key.NewBinding(key.WithKeys("-", "_")),
		Mode:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "countdown/stopwatch")),
		Skip:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "skip break")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k focusKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Pause, k.Finish, k.Abandon, k.Longer, k.Mode, k.Skip, k.Quit}
}

func (k focusKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type dashboardKeys struct {
	Up     key.Binding
	Down   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Toggle key.Binding
	Claim  key.Binding
	Fuse   key.Binding
	Search key.Binding
	Quit   key.Binding
}

func newDashboardKeys() dashboardKeys {
	return dashboardKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "nav")),
		Down:   key.NewBinding(key.WithKeys("down", "j")),
		Next:   key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("←/→", "section")),
		Prev:   key.NewBinding(key.WithKeys("left", "h", "shift+tab")),
		Toggle: key.NewBinding(key.WithKeys(" ", "enter", "d"), key.WithHelp("d", "done")),
		Claim:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "claim")),
		Fuse:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fuse")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k dashboardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Next, k.Toggle, k.Claim, k.Fuse, k.Search, k.Quit}
}

func (k dashboardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
