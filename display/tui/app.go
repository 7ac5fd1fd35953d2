// Package tui renders status frames as an interactive full-screen dashboard.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/dwmstatus/display/statusline"
	"gitlab.com/tinyland/lab/dwmstatus/internal/format"
	"gitlab.com/tinyland/lab/dwmstatus/status"
)

// FrameMsg delivers one published frame to the program.
type FrameMsg struct {
	Frame statusline.Frame
}

// Model is the Bubbletea model for the TUI sink.
type Model struct {
	width  int
	height int
	ready  bool
	paused bool

	frame      statusline.Frame
	hasFrame   bool
	frames     int
	cpuHistory []float64

	help    help.Model
	started time.Time
}

// NewModel returns an initialized Model.
func NewModel() Model {
	return Model{
		help:    help.New(),
		started: time.Now(),
	}
}

// Init implements tea.Model. No initial commands are needed.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. It handles key presses, window resizes and frames.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true

	case FrameMsg:
		m.frames++
		m.cpuHistory = appendAndTrim(m.cpuHistory, msg.Frame.Metrics.CPU)
		if !m.paused {
			m.frame = msg.Frame
			m.hasFrame = true
		}
	}

	return m, nil
}

// View implements tea.Model. It renders the header, metrics and footer.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), m.renderContent(), m.renderFooter())
}

// renderHeader renders the title and the guard state badge.
func (m Model) renderHeader() string {
	badge := styleBadgeOK.Render(strings.ToUpper(status.StateNormal.String()))
	if m.frame.Low {
		badge = styleBadgeLo.Render(strings.ToUpper(status.StateLow.String()))
	}
	title := styleTitle.Render("dwmstatus") + "  " + badge
	if m.paused {
		title += "  " + styleFooter.UnsetMarginTop().Render("(frozen)")
	}
	return styleHeader.Width(m.width).Render(title)
}

// renderContent renders the status line and one row per metric.
func (m Model) renderContent() string {
	if !m.hasFrame {
		return styleContent.Width(m.width).Render("Waiting for the first sample...")
	}

	f := m.frame
	met := f.Metrics
	barWidth := m.barWidth()

	line := styleLine.Render(f.Text)
	if f.Low {
		line = styleLowLine.Render(f.Text)
	}

	rows := []string{
		line,
		"",
		row("CPU", bar(met.CPU, barWidth, false), fmt.Sprintf("%5.1f%%  %.1f GHz", met.CPU, met.FreqGHz)),
		row("", styleSpark.Render(sparkline(m.cpuHistory, barWidth)), ""),
		row("RAM", bar(met.RAM, barWidth, false), fmt.Sprintf("%5.0f%%", met.RAM)),
		row("BAT", bar(met.Battery, barWidth, true), fmt.Sprintf("%s%.0f%%  %s", met.State.Symbol(), met.Battery, met.State)),
		row("WIFI", styleValue.Render(format.TruncateWithEllipsis(met.Link, barWidth)), ""),
		row("TIME", styleValue.Render(met.DateTime), ""),
	}

	if d := f.Decision; d.State == status.StateLow && d.SuspendArmed {
		rows = append(rows, "", styleLowLine.Render(fmt.Sprintf("suspending after %d ticks", d.Remaining)))
	}

	return styleContent.Width(m.width).Render(strings.Join(rows, "\n"))
}

// renderFooter renders the help text, frame count and last update time.
func (m Model) renderFooter() string {
	info := fmt.Sprintf("  %d frames  up %s", m.frames, format.FormatDuration(time.Since(m.started)))
	if m.hasFrame {
		info += fmt.Sprintf("  Updated: %s", m.frame.Timestamp.Format("15:04:05"))
	}
	return styleFooter.Width(m.width).Render(m.help.View(keys) + info)
}

// barWidth sizes progress bars to the window, between 10 and 40 cells.
func (m Model) barWidth() int {
	w := m.width - 30
	if w < 10 {
		w = 10
	}
	if w > 40 {
		w = 40
	}
	return w
}

// bar renders a percentage as a solid progress bar.
func bar(percent float64, width int, inverted bool) string {
	p := progress.New(
		progress.WithWidth(width),
		progress.WithoutPercentage(),
		progress.WithSolidFill(string(barColor(percent, inverted))),
	)
	return p.ViewAs(percent / 100)
}

// row lays out a label, a graphic and a trailing value.
func row(label, graphic, value string) string {
	out := styleLabel.Render(label) + graphic
	if value != "" {
		out += "  " + styleValue.Render(value)
	}
	return out
}
