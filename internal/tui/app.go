// Package tui renders the punchwatch progress widget and settings screens.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tolgaer/punchwatch/internal/clock"
	"github.com/tolgaer/punchwatch/internal/engine"
	"github.com/tolgaer/punchwatch/internal/export"
	"github.com/tolgaer/punchwatch/internal/store"
)

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	cell   *engine.SummaryCell
	src    engine.Source
	clk    clock.Clock
	cfg    engine.ConfigFunc
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard dashboardModel
	timeline  timelineModel
	settings  settingsModel

	help   help.Model
	status string
}

func NewApp(s *store.Store, cell *engine.SummaryCell, src engine.Source, clk clock.Clock) App {
	h := help.New()
	h.ShowAll = false
	cfg := s.LoadConfig

	return App{
		store:      s,
		cell:       cell,
		src:        src,
		clk:        clk,
		cfg:        cfg,
		activeView: viewDashboard,
		dashboard:  newDashboardModel(cell, clk, cfg),
		timeline:   newTimelineModel(src, clk),
		settings:   newSettingsModel(s),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.timeline.refresh(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.timeline.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If the settings form is capturing input, delegate first.
		if a.activeView == viewSettings && a.settings.formActive {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Refresh):
			return a, a.timeline.refresh()
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewDashboard
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewTimeline
			return a, a.timeline.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 3
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		// The dashboard re-renders every second so the live session and
		// projections stay current even without timesheet changes.
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, tea.Batch(tickCmd(), cmd)

	case statusMsg:
		a.status = msg.text
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewTimeline:
		a.timeline, cmd = a.timeline.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	// Timeline data can arrive while another view is active.
	if _, ok := msg.(timelineDataMsg); ok && a.activeView != viewTimeline {
		a.timeline, cmd = a.timeline.update(msg)
	}
	return a, cmd
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewTimeline:
		return a.timeline.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewTimeline:
		content = a.timeline.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker(contentHeight)
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("punchwatch")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Live session indicator in footer
	liveInfo := ""
	if s, ok := a.cell.Load(); ok && s.Live() {
		totals := s.Totals(a.clk.Now(), a.cfg())
		liveInfo = successStyle.Render(" ● " + formatMinutes(totals.LiveMinutes))
	}

	left := footerStyle.Render(helpView)
	right := liveInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker(_ int) string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	return func() tea.Msg {
		entries, err := a.src.Rows()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		totals := engine.Aggregate(entries).Totals(a.clk.Now(), a.cfg())

		home, _ := os.UserHomeDir()
		dateStr := a.clk.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("punchwatch-%s.csv", dateStr))
			if err := export.ToCSV(entries, totals, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("punchwatch-%s.json", dateStr))
			if err := export.ToJSON(entries, totals, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
