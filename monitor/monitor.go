// Package monitor renders a live view of observed player properties and events.
package monitor

import (
	"context"
	"time"

	"github.com/anisan-cli/mpvipc/ipc"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

// maxEvents bounds the event log shown under the properties.
const maxEvents = 8

// PropertyMsg carries a property notification into the model.
type PropertyMsg struct {
	Name  string
	Value ipc.Value
}

// EventMsg carries an event name into the model.
type EventMsg struct {
	Name string
	At   time.Time
}

// ClosedMsg tells the model the session is gone.
type ClosedMsg struct{}

type row struct {
	value   string
	updates int
}

// Model is the bubbletea model behind `mpvipc watch`.
type Model struct {
	address    string
	properties []string
	rows       map[string]*row
	events     []EventMsg
	closed     bool

	keys    keymap
	help    help.Model
	spinner spinner.Model
	width   int
}

// New builds a model showing properties in the given order.
func New(address string, properties []string) *Model {
	m := &Model{
		address:    address,
		properties: lo.Uniq(properties),
		rows:       make(map[string]*row),
		keys:       newKeymap(),
		help:       help.New(),
		spinner:    spinner.New(),
	}
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	for _, p := range m.properties {
		m.rows[p] = &row{value: "…"}
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.clear):
			m.events = nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	case PropertyMsg:
		r, ok := m.rows[msg.Name]
		if !ok {
			return m, nil
		}
		r.value = msg.Value.String()
		r.updates++
	case EventMsg:
		m.events = append(m.events, msg)
		if len(m.events) > maxEvents {
			m.events = m.events[len(m.events)-maxEvents:]
		}
	case ClosedMsg:
		m.closed = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// Closed reports whether the session ended while the view was open.
func (m *Model) Closed() bool {
	return m.closed
}

// Run observes properties on s and shows them until the user quits or the session ends.
func Run(ctx context.Context, s *ipc.Session, properties []string) error {
	m := New(s.Address(), properties)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	for _, name := range m.properties {
		_, err := s.ObserveProperty(ctx, name, func(name string, value ipc.Value) {
			p.Send(PropertyMsg{Name: name, Value: value})
		})
		if err != nil {
			return err
		}
	}

	unsubscribe := s.OnEvent(ipc.AnyEvent, ipc.ListenerFunc(func(ev ipc.Event) error {
		if ev.Name != "property-change" {
			p.Send(EventMsg{Name: ev.Name, At: time.Now()})
		}
		return nil
	}))
	defer unsubscribe()

	s.OnQuit(func() {
		p.Send(ClosedMsg{})
	})

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}

	if m.Closed() {
		return ipc.ErrConnectionClosed
	}
	return nil
}
