package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/tolgaer/punchwatch/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	workHours      *string
	preAlertMargin *string
	soundComplete  *bool
	soundPreAlert  *bool
}

func newSettingsModel(s *store.Store) settingsModel {
	wh, pm := "", ""
	sc, sp := true, true
	return settingsModel{
		store:          s,
		workHours:      &wh,
		preAlertMargin: &pm,
		soundComplete:  &sc,
		soundPreAlert:  &sp,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	// Load current values
	*s.workHours = minsToHours(s.getVal("work_minutes", "480"))
	*s.preAlertMargin = s.getVal("pre_alert_margin", "10")
	*s.soundComplete = s.getVal("sound_on_complete", "1") != "0"
	*s.soundPreAlert = s.getVal("sound_on_pre_alert", "1") != "0"

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Workday length (hours)").Value(s.workHours),
			huh.NewInput().Title("Pre-alert margin (min)").Value(s.preAlertMargin),
		).Title("Thresholds"),
		huh.NewGroup(
			huh.NewConfirm().Title("Sound on completion").Value(s.soundComplete),
			huh.NewConfirm().Title("Sound on pre-alert").Value(s.soundPreAlert),
		).Title("Sounds"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.saveSettings()
		return s, s.refresh()
	}

	return s, cmd
}

func (s settingsModel) saveSettings() {
	s.store.SetSetting("work_minutes", hoursToMins(*s.workHours))
	s.store.SetSetting("pre_alert_margin", *s.preAlertMargin)
	s.store.SetSetting("sound_on_complete", boolSetting(*s.soundComplete))
	s.store.SetSetting("sound_on_pre_alert", boolSetting(*s.soundPreAlert))
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case "work_minutes", "half_day_minutes":
		if mins, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%.1f hours", float64(mins)/60)
		}
	case "pre_alert_margin":
		return v + " min"
	case "sound_on_complete", "sound_on_pre_alert":
		if v == "0" {
			return "off"
		}
		return "on"
	}
	return v
}

func minsToHours(s string) string {
	if mins, err := strconv.Atoi(s); err == nil {
		return fmt.Sprintf("%.1f", float64(mins)/60)
	}
	return s
}

func hoursToMins(s string) string {
	if hours, err := strconv.ParseFloat(s, 64); err == nil {
		return strconv.Itoa(int(hours * 60))
	}
	return s
}

func boolSetting(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
