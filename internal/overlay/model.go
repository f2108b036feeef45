package overlay

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// StatusTimeout is how long a status message stays visible
const StatusTimeout = 3 * time.Second

// KeyMap defines key bindings for the overlay
type KeyMap struct {
	Increment key.Binding
	Reset     key.Binding
	Scrape    key.Binding
	Generate  key.Binding
	Save      key.Binding
	Copy      key.Binding
	Close     key.Binding
}

// Keys are the overlay key bindings
var Keys = KeyMap{
	Increment: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "increment")),
	Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Scrape:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "scrape")),
	Generate:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate")),
	Save:      key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "save job")),
	Copy:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy resume")),
	Close:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "close")),
}

// Model is the bubbletea model for the overlay
type Model struct {
	ctx        context.Context
	controller *Controller
	state      State
	spinner    spinner.Model
}

// NewModel creates the overlay model
func NewModel(ctx context.Context, controller *Controller) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyles[StatusInfo]

	return &Model{
		ctx:        ctx,
		controller: controller,
		spinner:    s,
	}
}

// State returns the current overlay state
func (m *Model) State() State {
	return m.state
}

// Init loads the counter
func (m *Model) Init() tea.Cmd {
	return func() tea.Msg { return m.controller.Load(m.ctx) }
}

// Update handles messages for the overlay
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.state.Generating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case CloseMsg:
		m.state = Reduce(m.state, msg)
		return m, tea.Quit
	}

	before := m.state.StatusSeq
	m.state = Reduce(m.state, msg)
	return m, m.clearStatusAfter(before)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := m.ctx
	switch {
	case key.Matches(msg, Keys.Close):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, Keys.Increment):
		return m, func() tea.Msg { return m.controller.Increment(ctx) }

	case key.Matches(msg, Keys.Reset):
		return m, func() tea.Msg { return m.controller.Reset(ctx) }

	case key.Matches(msg, Keys.Scrape):
		return m, func() tea.Msg { return m.controller.Scrape(ctx) }

	case key.Matches(msg, Keys.Generate):
		if !m.state.CanGenerate() {
			return m, nil
		}
		m.state = Reduce(m.state, GenerateStartedMsg{})
		return m, tea.Batch(
			m.spinner.Tick,
			func() tea.Msg { return m.controller.Generate(ctx) },
		)

	case key.Matches(msg, Keys.Save):
		return m, func() tea.Msg { return m.controller.Save(ctx) }

	case key.Matches(msg, Keys.Copy):
		state := m.state
		return m, func() tea.Msg { return m.controller.Copy(state) }
	}
	return m, nil
}

// clearStatusAfter schedules a ClearStatusMsg when the status changed since before
func (m *Model) clearStatusAfter(before int) tea.Cmd {
	if m.state.StatusSeq == before {
		return nil
	}
	seq := m.state.StatusSeq
	return tea.Tick(StatusTimeout, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}

// View renders the overlay
func (m *Model) View() string {
	if m.state.Closed {
		return ""
	}
	return render(m.state, m.spinner.View())
}
