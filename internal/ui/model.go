package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/storekit/internal/chat"
	"github.com/five82/storekit/internal/fetch"
	"github.com/five82/storekit/internal/form"
	"github.com/five82/storekit/internal/i18n"
	"github.com/five82/storekit/internal/state"
)

// Options configures the UI. Every store is owned by the caller.
type Options struct {
	Context context.Context

	Counter  *state.Store
	Settings *state.Store
	Users    *state.Store
	Chat     *state.Store

	Session *chat.Session
	Fetcher fetch.UserFetcher
	LogFile string
	Logger  *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx    context.Context
	opts   Options
	logger *slog.Logger
	bridge *bridge
	keys   keyMap
	help   help.Model

	theme  Theme
	tr     *i18n.Translator
	tab    Tab
	width  int
	height int
	ready  bool

	showHelp bool

	chatInput textinput.Model
	chatView  viewport.Model

	wizard      *form.Wizard
	signupInput textinput.Model
	signupField int
	signedUp    *form.Signup

	usersRequested bool

	logView viewport.Model
	logErr  error
}

// New creates the model and mounts its store bindings. Call Close when the
// program exits.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	settings := opts.Settings
	if settings == nil {
		settings = state.New(SettingsState("", "", ""))
		opts.Settings = settings
	}

	b := newBridge()
	watch(b, sourceCounter, opts.Counter, selectCount)
	watch(b, sourceSettings, settings, selectSettings)
	watch(b, sourceUsers, opts.Users, func(s state.State) state.State { return s })
	watch(b, sourceChat, opts.Chat, func(s state.State) state.State { return s })

	chatInput := textinput.New()
	chatInput.CharLimit = 500
	signupInput := textinput.New()
	signupInput.CharLimit = 72

	m := Model{
		ctx:         ctx,
		opts:        opts,
		logger:      logger.With("component", "ui"),
		bridge:      b,
		keys:        defaultKeyMap(),
		help:        help.New(),
		chatInput:   chatInput,
		chatView:    viewport.New(0, 0),
		wizard:      form.NewWizard(),
		signupInput: signupInput,
		logView:     viewport.New(0, 0),
	}
	m.applySettings()
	m.loadSignupField()
	return m
}

// Close unmounts the store bindings.
func (m Model) Close() {
	m.bridge.close()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.bridge.waitForChange()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		cmd := m.resize()
		return m, cmd

	case changedMsg:
		var cmd tea.Cmd
		switch msg.source {
		case sourceSettings:
			m.applySettings()
		case sourceChat:
			cmd = m.syncChat()
		}
		return m, tea.Batch(cmd, m.bridge.waitForChange())

	case usersMsg:
		m.applyUsers(msg)
		return m, nil

	case postsMsg:
		m.applyPosts(msg)
		return m, nil

	case logsMsg:
		m.applyLogs(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// handleKey processes keyboard input. While a text input has focus only
// navigation keys are intercepted; everything else is typed.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Escape, m.keys.Quit) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextTab):
		return m.switchTab(m.tab.next())
	case key.Matches(msg, m.keys.PrevTab):
		return m.switchTab(m.tab.prev())
	}

	if !m.typing() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, m.keys.CycleTheme):
			m.cycleTheme()
			return m, nil
		case key.Matches(msg, m.keys.GotoTab):
			return m.switchTab(tabFromKey(msg.String()))
		}
	}

	switch m.tab {
	case TabCounter:
		return m.handleCounterKey(msg)
	case TabSettings:
		return m.handleSettingsKey(msg)
	case TabChat:
		return m.handleChatKey(msg)
	case TabSignup:
		return m.handleSignupKey(msg)
	case TabUsers:
		return m.handleUsersKey(msg)
	case TabLogs:
		return m.handleLogsKey(msg)
	}
	return m, nil
}

// typing reports whether a text input currently owns the keyboard.
func (m Model) typing() bool {
	switch m.tab {
	case TabChat:
		return m.chatInput.Focused()
	case TabSignup:
		return m.signedUp == nil
	}
	return false
}

func (m Model) switchTab(t Tab) (tea.Model, tea.Cmd) {
	m.tab = t
	m.chatInput.Blur()
	m.signupInput.Blur()

	switch t {
	case TabChat:
		cmd := m.syncChat()
		return m, cmd
	case TabSignup:
		if m.signedUp == nil {
			cmd := m.signupInput.Focus()
			return m, cmd
		}
	case TabUsers:
		if !m.usersRequested {
			m.usersRequested = true
			return m, m.loadUsers()
		}
	case TabLogs:
		return m, m.loadLogs()
	}
	return m, nil
}

func (m *Model) resize() tea.Cmd {
	bodyHeight := m.height - 6
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	m.chatView.Width = m.width
	m.chatView.Height = bodyHeight - 3
	m.chatInput.Width = m.width - 4
	m.signupInput.Width = m.width - 4
	m.logView.Width = m.width
	m.logView.Height = bodyHeight
	m.help.Width = m.width
	return m.syncChat()
}

// applySettings re-reads theme and locale from the settings store.
func (m *Model) applySettings() {
	s := m.opts.Settings.GetState()
	m.theme = GetTheme(selectTheme(s))
	m.tr = i18n.New(selectLocale(s))
	m.chatInput.Placeholder = m.tr.T("chat.placeholder")
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	defer m.Close()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if err != nil && m.ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
