package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/storekit/internal/chat"
	"github.com/five82/storekit/internal/transport"
)

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	session := m.opts.Session
	if session == nil {
		return m, nil
	}

	if !m.chatInput.Focused() {
		switch {
		case key.Matches(msg, m.keys.Connect):
			user := selectUsername(m.opts.Settings.GetState())
			if err := session.Connect(user); err != nil {
				m.logger.Debug("connect rejected", "error", err)
			}
		case key.Matches(msg, m.keys.Confirm):
			if m.chatStatus() == transport.Connected.String() {
				cmd := m.chatInput.Focus()
				return m, cmd
			}
		case key.Matches(msg, m.keys.Up, m.keys.Down):
			var cmd tea.Cmd
			m.chatView, cmd = m.chatView.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Disconnect):
		session.Disconnect()
		m.chatInput.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Escape):
		m.chatInput.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		body := m.chatInput.Value()
		if strings.TrimSpace(body) == "" {
			return m, nil
		}
		if err := session.Send(body); err != nil {
			m.logger.Debug("send rejected", "error", err)
			return m, nil
		}
		m.chatInput.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

func (m Model) chatStatus() string {
	if m.opts.Chat == nil {
		return transport.Disconnected.String()
	}
	status := chat.Status(m.opts.Chat.GetState())
	if status == "" {
		return transport.Disconnected.String()
	}
	return status
}

// syncChat refreshes the message viewport, focuses the input once connected
// on the chat tab and drops focus once the connection is gone. The returned
// command starts the cursor blink when focus was gained.
func (m *Model) syncChat() tea.Cmd {
	if m.opts.Chat == nil {
		return nil
	}
	msgs := chat.Messages(m.opts.Chat.GetState())
	m.chatView.SetContent(m.renderMessages(msgs))
	m.chatView.GotoBottom()

	connected := m.chatStatus() == transport.Connected.String()
	switch {
	case !connected || m.tab != TabChat:
		m.chatInput.Blur()
	case !m.chatInput.Focused():
		return m.chatInput.Focus()
	}
	return nil
}

func (m Model) renderMessages(msgs []transport.Message) string {
	styles := m.theme.Styles()
	if len(msgs) == 0 {
		return styles.MutedText.Render(m.tr.T("chat.empty"))
	}
	lines := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		stamp := styles.FaintText.Render(msg.SentAt.Format("15:04:05"))
		switch msg.Kind {
		case transport.KindSystem:
			lines = append(lines, stamp+" "+styles.InfoText.Italic(true).Render(msg.Body))
		case transport.KindLoginSuccess:
			lines = append(lines, stamp+" "+styles.SuccessText.Render(msg.Body))
		default:
			lines = append(lines, stamp+" "+styles.AccentText.Render(msg.Author+":")+" "+styles.Text.Render(msg.Body))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderChat() string {
	styles := m.theme.Styles()
	status := m.chatStatus()

	var b strings.Builder
	b.WriteString(m.tr.T("chat.status", styles.StatusStyle(status).Render(m.tr.T("chat.state."+status))))
	if m.opts.Chat != nil {
		if user, _ := m.opts.Chat.GetState()[chat.KeyUser].(string); user != "" && status == transport.Connected.String() {
			b.WriteString("  ")
			b.WriteString(styles.MutedText.Render(m.tr.T("chat.token", user)))
		}
		if errText := chat.LastError(m.opts.Chat.GetState()); errText != "" {
			b.WriteString("\n")
			b.WriteString(styles.DangerText.Render(errText))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(m.chatView.View())
	b.WriteString("\n")
	b.WriteString(m.chatInput.View())
	return b.String()
}
