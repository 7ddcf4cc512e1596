package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/storekit/internal/logtail"
)

const logTailLines = 400

type logsMsg struct {
	lines []string
	err   error
}

func (m Model) loadLogs() tea.Cmd {
	path := m.opts.LogFile
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, logTailLines)
		return logsMsg{lines: lines, err: err}
	}
}

func (m *Model) applyLogs(msg logsMsg) {
	m.logErr = msg.err
	if msg.err != nil {
		return
	}
	if len(msg.lines) == 0 {
		m.logView.SetContent(m.theme.Styles().MutedText.Render(m.tr.T("logs.empty")))
		return
	}
	m.logView.SetContent(strings.Join(logtail.FormatLines(msg.lines), "\n"))
	m.logView.GotoBottom()
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Reload) {
		return m, m.loadLogs()
	}
	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

func (m Model) renderLogs() string {
	if m.logErr != nil {
		return m.theme.Styles().DangerText.Render(m.logErr.Error())
	}
	return m.logView.View()
}
