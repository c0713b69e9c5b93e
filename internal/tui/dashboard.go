package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tolgaer/punchwatch/internal/clock"
	"github.com/tolgaer/punchwatch/internal/engine"
)

// dashboardModel renders the live work-progress view. It owns no data of
// its own: every frame reads the latest published summary and extrapolates
// the open session against the wall clock.
type dashboardModel struct {
	cell   *engine.SummaryCell
	clk    clock.Clock
	cfg    engine.ConfigFunc
	bar    progress.Model
	width  int
	height int
}

func newDashboardModel(cell *engine.SummaryCell, clk clock.Clock, cfg engine.ConfigFunc) dashboardModel {
	bar := progress.New(progress.WithGradient("#3B82F6", "#10B981"))
	bar.ShowPercentage = false
	return dashboardModel{
		cell: cell,
		clk:  clk,
		cfg:  cfg,
		bar:  bar,
	}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
	d.bar.Width = w - 12
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	// Nothing to track; the 1s tick just forces a re-render.
	return d, nil
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4
	cfg := d.cfg()
	now := d.clk.Now()

	s, ok := d.cell.Load()
	if !ok {
		hint := mutedStyle.Render("Waiting for the timesheet…")
		return panelStyle.Width(contentWidth).Render(hint)
	}
	totals := s.Totals(now, cfg)

	progressPanel := d.renderProgressPanel(contentWidth, s, totals, cfg)
	detailPanel := d.renderDetailPanel(contentWidth, s, totals)

	return lipgloss.JoinVertical(lipgloss.Left, progressPanel, detailPanel)
}

func (d dashboardModel) renderProgressPanel(w int, s engine.Summary, totals engine.Totals, cfg engine.Config) string {
	percent := totals.Percent(cfg)

	style := totalStyle
	switch {
	case percent >= 1:
		style = totalDoneStyle
	case float64(totals.TotalMinutes) >= float64(cfg.PreAlertMinutes()):
		style = totalWarnStyle
	}

	total := style.Width(w - 6).Render(formatMinutes(totals.TotalMinutes))
	bar := d.bar.ViewAs(percent)
	pct := mutedStyle.Render(fmt.Sprintf("%d%% of %s", int(percent*100), formatMinutes(cfg.WorkMinutes)))

	var indicator string
	if s.Live() {
		indicator = successStyle.Render(fmt.Sprintf("●  CLOCKED IN  %s", formatMinutes(totals.LiveMinutes)))
	} else {
		indicator = mutedStyle.Render("■  CLOCKED OUT")
	}

	content := lipgloss.JoinVertical(lipgloss.Center, total, bar, pct, indicator)
	if s.Live() {
		return activePanelStyle.Width(w).Render(content)
	}
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderDetailPanel(w int, s engine.Summary, totals engine.Totals) string {
	var rows []string
	rows = append(rows, titleStyle.Render("Today"))

	line := func(label, value string) string {
		return fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(14).Render(label), value)
	}

	first := s.FirstStart
	if first == "" {
		first = "—"
	}
	rows = append(rows, line("First in", highlightStyle.Render(first)))
	rows = append(rows, line("On break", highlightStyle.Render(formatMinutes(totals.BreakMinutes))))

	if totals.OvertimeMinutes > 0 {
		rows = append(rows, line("Overtime", warningStyle.Render(formatMinutes(totals.OvertimeMinutes))))
	} else {
		rows = append(rows, line("Left", highlightStyle.Render(formatMinutes(totals.RemainingMinutes))))
	}

	rows = append(rows, "")
	rows = append(rows, line("Half day at", mutedStyle.Render(formatClock(totals.HalfDayETA))))
	rows = append(rows, line("Full day at", mutedStyle.Render(formatClock(totals.FullDayETA))))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
