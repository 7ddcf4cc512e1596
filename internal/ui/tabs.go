package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Tab identifies a demo.
type Tab int

const (
	TabCounter Tab = iota
	TabSettings
	TabChat
	TabSignup
	TabUsers
	TabLogs
	tabCount
)

var tabKeys = [...]string{
	TabCounter:  "tab.counter",
	TabSettings: "tab.settings",
	TabChat:     "tab.chat",
	TabSignup:   "tab.signup",
	TabUsers:    "tab.users",
	TabLogs:     "tab.logs",
}

func (t Tab) next() Tab { return (t + 1) % tabCount }

func (t Tab) prev() Tab { return (t + tabCount - 1) % tabCount }

// tabFromKey maps "1".."6" to a tab.
func tabFromKey(k string) Tab {
	if len(k) != 1 || k[0] < '1' || k[0] > '0'+byte(tabCount) {
		return TabCounter
	}
	return Tab(k[0] - '1')
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := newBgStyle(m.theme.Surface)
	title := bg.render(m.tr.T("app.title"), styles.Header)
	user := bg.render(selectUsername(m.opts.Settings.GetState()), styles.Footer)
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(user)
	if gap < 1 {
		gap = 1
	}
	return bg.fill(title+bg.fill("", gap)+user, m.width)
}

func (m Model) renderTabs() string {
	styles := m.theme.Styles()
	parts := make([]string, 0, tabCount)
	for t := Tab(0); t < tabCount; t++ {
		label := string(rune('1'+t)) + " " + m.tr.T(tabKeys[t])
		if t == m.tab {
			parts = append(parts, styles.ActiveTab.Render(label))
		} else {
			parts = append(parts, styles.Tab.Render(label))
		}
	}
	return newBgStyle(m.theme.Surface).fill(lipgloss.JoinHorizontal(lipgloss.Top, parts...), m.width)
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	hint := m.tabHint()
	line := m.help.ShortHelpView(m.keys.ShortHelp())
	if hint != "" {
		line = hint + "  " + line
	}
	return styles.Footer.Width(m.width).Render(line)
}

func (m Model) tabHint() string {
	switch m.tab {
	case TabCounter:
		return m.tr.T("counter.hint")
	case TabSettings:
		return m.tr.T("settings.hint")
	case TabChat:
		return m.tr.T("chat.hint")
	case TabSignup:
		return m.tr.T("signup.hint")
	case TabUsers:
		return m.tr.T("users.hint")
	case TabLogs:
		return m.tr.T("logs.hint")
	}
	return ""
}

func (m Model) renderContent() string {
	var body string
	switch m.tab {
	case TabCounter:
		body = m.renderCounter()
	case TabSettings:
		body = m.renderSettings()
	case TabChat:
		body = m.renderChat()
	case TabSignup:
		body = m.renderSignup()
	case TabUsers:
		body = m.renderUsers()
	case TabLogs:
		body = m.renderLogs()
	}
	return strings.TrimRight(body, "\n")
}
