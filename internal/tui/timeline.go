package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tolgaer/punchwatch/internal/clock"
	"github.com/tolgaer/punchwatch/internal/engine"
)

// timelineModel shows the day's sessions and breaks as a bar chart plus a
// row-by-row table of what was extracted from the timesheet.
type timelineModel struct {
	src    engine.Source
	clk    clock.Clock
	width  int
	height int

	entries []engine.LogEntry
	missing bool

	chart barchart.Model
}

func newTimelineModel(src engine.Source, clk clock.Clock) timelineModel {
	return timelineModel{
		src:   src,
		clk:   clk,
		chart: barchart.New(60, 12),
	}
}

func (m *timelineModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type timelineDataMsg struct {
	entries []engine.LogEntry
	missing bool
}

func (m timelineModel) refresh() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.src.Rows()
		if err != nil {
			return timelineDataMsg{missing: true}
		}
		return timelineDataMsg{entries: entries}
	}
}

func (m timelineModel) update(msg tea.Msg) (timelineModel, tea.Cmd) {
	switch msg := msg.(type) {
	case timelineDataMsg:
		m.entries = msg.entries
		m.missing = msg.missing
		m.buildChart()
		return m, nil
	}
	return m, nil
}

func (m *timelineModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if m.height > 28 {
		chartHeight = 14
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	sessionStyle := lipgloss.NewStyle().Foreground(colorPrimary)
	liveStyle := lipgloss.NewStyle().Foreground(colorSuccess)

	now := m.clk.Now()
	var bars []barchart.BarData
	for i, e := range m.entries {
		mins := clock.MinutesBetween(e.Start, e.End)
		style := sessionStyle
		if e.Open {
			s := engine.Aggregate([]engine.LogEntry{e})
			mins = s.Totals(now, engine.DefaultConfig()).LiveMinutes
			style = liveStyle
		}
		bars = append(bars, barchart.BarData{
			Label: fmt.Sprintf("#%d", i+1),
			Values: []barchart.BarValue{{
				Name:  e.Start,
				Value: float64(mins),
				Style: style,
			}},
		})
	}
	if len(bars) == 0 {
		bars = append(bars, barchart.BarData{
			Label:  "—",
			Values: []barchart.BarValue{{Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m timelineModel) view() string {
	w := m.width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Timeline"), "  ",
		mutedStyle.Render("minutes per session"),
	)

	if m.missing {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				header, "",
				errorStyle.Render("Timesheet not found. Waiting for it to appear."),
			),
		)
	}

	chartView := m.chart.View()
	tableView := m.renderTable(w)
	nav := mutedStyle.Render("  r: refresh")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", chartView, "", tableView, "", nav),
	)
}

func (m timelineModel) renderTable(w int) string {
	if len(m.entries) == 0 {
		return mutedStyle.Render("  No entries yet today")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-4s %-10s %-10s %10s", "#", "In", "Out", "Worked")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", minInt(w-6, 40))))

	for i, e := range m.entries {
		out := e.End
		worked := formatMinutes(clock.MinutesBetween(e.Start, e.End))
		marker := "  "
		if e.Open {
			out = successStyle.Render("●")
			worked = successStyle.Render("running")
			marker = successStyle.Render("● ")
		}
		rows = append(rows, fmt.Sprintf("%s%-4d %-10s %-10s %10s", marker, i+1, e.Start, out, worked))
	}

	return strings.Join(rows, "\n")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
