package monitor

import (
	"fmt"
	"strings"

	"github.com/anisan-cli/mpvipc/color"
	"github.com/anisan-cli/mpvipc/icon"
	"github.com/anisan-cli/mpvipc/style"
	"github.com/anisan-cli/mpvipc/util"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

func (m *Model) View() string {
	var b strings.Builder

	status := m.spinner.View() + " " + style.Fg(style.SuccessColor)("connected")
	if m.closed {
		status = icon.Get(icon.Fail) + " " + style.Fg(style.ErrorColor)("disconnected")
	}
	b.WriteString(style.Title("mpvipc") + " " + icon.Get(icon.Socket) + " " + m.address + "  " + status)
	b.WriteString("\n\n")

	nameWidth := 0
	for _, p := range m.properties {
		nameWidth = util.Max(nameWidth, lipgloss.Width(p))
	}

	valueWidth := 0
	if m.width > 0 {
		valueWidth = util.Clamp(m.width-nameWidth-8, 10, m.width)
	}

	for _, p := range m.properties {
		r := m.rows[p]
		value := r.value
		if valueWidth > 0 && lipgloss.Width(value) > valueWidth {
			value = truncate.StringWithTail(value, uint(valueWidth), "…")
		}

		name := style.New().Width(nameWidth).Foreground(color.Purple).Bold(true).Render(p)
		b.WriteString(fmt.Sprintf("%s  %s %s\n", name, value, style.Faint(fmt.Sprintf("(%d)", r.updates))))
	}

	if len(m.events) > 0 {
		b.WriteString("\n" + style.Bold("Events") + "\n")
		for _, ev := range m.events {
			b.WriteString(fmt.Sprintf("%s %s %s\n", icon.Get(icon.Event), style.Faint(ev.At.Format("15:04:05")), ev.Name))
		}
	}

	b.WriteString("\n" + m.help.View(m.keys))

	return paddingStyle.Render(b.String())
}
