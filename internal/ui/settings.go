package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/storekit/internal/i18n"
	"github.com/five82/storekit/internal/state"
)

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextTheme):
		m.cycleTheme()
	case key.Matches(msg, m.keys.NextLocale):
		m.opts.Settings.Update(func(prev state.State) state.State {
			return state.State{KeyLocale: i18n.Next(selectLocale(prev))}
		})
		m.applySettings()
	}
	return m, nil
}

// cycleTheme writes the next theme to the settings store, which persists it.
func (m *Model) cycleTheme() {
	m.opts.Settings.Update(func(prev state.State) state.State {
		return state.State{KeyTheme: NextTheme(GetTheme(selectTheme(prev)).Name)}
	})
	m.applySettings()
}

func (m Model) renderSettings() string {
	styles := m.theme.Styles()
	s := selectSettings(m.opts.Settings.GetState())

	lines := []string{
		styles.Text.Render(m.tr.T("settings.theme", m.theme.Name)),
		styles.Text.Render(m.tr.T("settings.locale", m.tr.DisplayName())),
		styles.Text.Render(m.tr.T("settings.user", s.Username)),
	}
	var b strings.Builder
	b.WriteString(styles.Panel.Render(strings.Join(lines, "\n")))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(m.tr.T("settings.saved")))
	return b.String()
}
