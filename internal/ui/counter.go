package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/storekit/internal/state"
)

func (m Model) handleCounterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	store := m.opts.Counter
	if store == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Increment):
		store.Update(func(prev state.State) state.State {
			return state.State{KeyCount: selectCount(prev) + 1}
		})
	case key.Matches(msg, m.keys.Decrement):
		store.Update(func(prev state.State) state.State {
			return state.State{KeyCount: selectCount(prev) - 1}
		})
	case key.Matches(msg, m.keys.Reset):
		store.Set(state.State{KeyCount: 0})
	}
	return m, nil
}

func (m Model) renderCounter() string {
	styles := m.theme.Styles()
	if m.opts.Counter == nil {
		return ""
	}
	count := selectCount(m.opts.Counter.GetState())

	var b strings.Builder
	b.WriteString(styles.Panel.Render(styles.AccentText.Bold(true).Render(m.tr.T("counter.value", count))))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(m.tr.T("counter.listeners", m.opts.Counter.Listeners())))
	return b.String()
}
