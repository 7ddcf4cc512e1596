package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/storekit/internal/chat"
	"github.com/five82/storekit/internal/clock"
	"github.com/five82/storekit/internal/fetch"
	"github.com/five82/storekit/internal/state"
	"github.com/five82/storekit/internal/transport"
)

type fakeFetcher struct {
	users    []fetch.User
	err      error
	posts    map[int][]fetch.Post
	postsErr error
}

func (f fakeFetcher) FetchUsers(context.Context) ([]fetch.User, error) {
	return f.users, f.err
}

func (f fakeFetcher) FetchUserPosts(_ context.Context, userID int, limit int) ([]fetch.Post, error) {
	if f.postsErr != nil {
		return nil, f.postsErr
	}
	posts := f.posts[userID]
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	if opts.Counter == nil {
		opts.Counter = state.New(CounterState())
	}
	if opts.Settings == nil {
		opts.Settings = state.New(SettingsState("", "en", "ada"))
	}
	if opts.Users == nil {
		opts.Users = state.New(UsersState())
	}
	m := New(opts)
	t.Cleanup(m.Close)
	m, _ = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func TestCounterKeysUpdateStore(t *testing.T) {
	m := newTestModel(t, Options{})

	m, _ = step(t, m, keys("+"))
	m, _ = step(t, m, keys("+"))
	m, _ = step(t, m, keys("-"))
	if got := selectCount(m.opts.Counter.GetState()); got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}
	if !strings.Contains(m.View(), "Count: 1") {
		t.Fatalf("View() does not show the count:\n%s", m.View())
	}

	m, _ = step(t, m, keys("r"))
	if got := selectCount(m.opts.Counter.GetState()); got != 0 {
		t.Fatalf("count after reset = %d, want 0", got)
	}
}

func TestStoreChangesReachProgram(t *testing.T) {
	m := newTestModel(t, Options{})
	wait := m.Init()

	m.opts.Counter.Set(state.State{KeyCount: 5})
	msg := wait()
	changed, ok := msg.(changedMsg)
	if !ok || changed.source != sourceCounter {
		t.Fatalf("Init command returned %#v, want counter changedMsg", msg)
	}

	// An unrelated key in the same store does not fire the count binding.
	m.opts.Counter.Set(state.State{"other": true})
	if source, ok := m.bridge.pop(); ok {
		t.Fatalf("unexpected pending source %q", source)
	}
}

func TestBridgeCoalescesPerSource(t *testing.T) {
	m := newTestModel(t, Options{})
	wait := m.Init()

	for i := 1; i <= 200; i++ {
		m.opts.Counter.Set(state.State{KeyCount: i})
	}
	m.opts.Settings.Set(state.State{KeyTheme: "Nord"})
	m.opts.Counter.Set(state.State{KeyCount: 0})

	var got []string
	for range 2 {
		changed, ok := wait().(changedMsg)
		if !ok {
			t.Fatalf("wait returned a non changedMsg")
		}
		got = append(got, changed.source)
	}
	want := []string{sourceCounter, sourceSettings}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("sources = %v, want %v", got, want)
	}
	if source, ok := m.bridge.pop(); ok {
		t.Fatalf("unexpected pending source %q", source)
	}

	m, _ = step(t, m, changedMsg{source: sourceSettings})
	if m.theme.Name != "Nord" {
		t.Fatalf("theme = %q, want Nord", m.theme.Name)
	}
}

func TestCloseUnmountsBindings(t *testing.T) {
	counter := state.New(CounterState())
	m := New(Options{Counter: counter})
	if counter.Listeners() != 1 {
		t.Fatalf("Listeners() = %d, want 1", counter.Listeners())
	}
	m.Close()
	m.Close()
	if counter.Listeners() != 0 {
		t.Fatalf("Listeners() after Close = %d, want 0", counter.Listeners())
	}
}

func TestThemeAndLocaleWriteSettings(t *testing.T) {
	m := newTestModel(t, Options{})

	m, _ = step(t, m, keys("T"))
	if got := selectTheme(m.opts.Settings.GetState()); got != "Slate" {
		t.Fatalf("theme = %q, want Slate", got)
	}
	if m.theme.Name != "Slate" {
		t.Fatalf("model theme = %q, want Slate", m.theme.Name)
	}

	m, _ = step(t, m, keys("2"))
	m, _ = step(t, m, keys("l"))
	if got := selectLocale(m.opts.Settings.GetState()); got != "es" {
		t.Fatalf("locale = %q, want es", got)
	}
	if !strings.Contains(m.View(), "Ajustes") {
		t.Fatalf("View() is not translated:\n%s", m.View())
	}
}

func TestSettingsChangedElsewhereAreApplied(t *testing.T) {
	m := newTestModel(t, Options{})
	m.opts.Settings.Set(state.State{KeyTheme: "Nord", KeyLocale: "de"})
	m, _ = step(t, m, changedMsg{source: sourceSettings})
	if m.theme.Name != "Nord" || m.tr.Locale() != "de" {
		t.Fatalf("theme/locale = %s/%s, want Nord/de", m.theme.Name, m.tr.Locale())
	}
}

func TestHelpOverlay(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = step(t, m, keys("?"))
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard shortcuts") {
		t.Fatalf("help overlay not shown")
	}
	m, _ = step(t, m, esc)
	if m.showHelp {
		t.Fatalf("esc did not close help")
	}
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(t, Options{})
	_, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("ctrl+c returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("ctrl+c command did not quit")
	}
}

func TestGlobalKeysAreTypedIntoFocusedInput(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = step(t, m, keys("4"))
	if m.tab != TabSignup {
		t.Fatalf("tab = %v, want signup", m.tab)
	}
	m, _ = step(t, m, keys("q"))
	if got := m.signupInput.Value(); got != "q" {
		t.Fatalf("input = %q, want q", got)
	}
}

func TestSignupFlow(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = step(t, m, keys("4"))

	// Empty step one is rejected.
	m, _ = step(t, m, enter)
	m, _ = step(t, m, enter)
	if m.wizard.Step() != 0 || m.wizard.Errors()["Name"] == "" {
		t.Fatalf("empty account step was accepted")
	}

	m.signupField = 0
	m.loadSignupField()
	m, _ = step(t, m, keys("Ada"))
	m, _ = step(t, m, enter)
	m, _ = step(t, m, keys("ada@example.com"))
	m, _ = step(t, m, enter)
	if m.wizard.Step() != 1 {
		t.Fatalf("step = %d, want 1 (errors %v)", m.wizard.Step(), m.wizard.Errors())
	}

	m, _ = step(t, m, keys("correct horse"))
	m, _ = step(t, m, enter)
	m, _ = step(t, m, keys("correct horse"))
	m, _ = step(t, m, enter)
	if m.wizard.Step() != 2 {
		t.Fatalf("step = %d, want 2 (errors %v)", m.wizard.Step(), m.wizard.Errors())
	}
	if got := m.signupInput.Value(); got != "free" {
		t.Fatalf("plan input = %q, want default free", got)
	}

	m, _ = step(t, m, enter)
	if m.signedUp == nil || m.signedUp.Name != "Ada" {
		t.Fatalf("signup not completed: %#v (errors %v)", m.signedUp, m.wizard.Errors())
	}
	if !strings.Contains(m.View(), "Welcome aboard, Ada!") {
		t.Fatalf("View() missing welcome:\n%s", m.View())
	}
}

func TestUsersLoadOnFirstVisit(t *testing.T) {
	fetcher := fakeFetcher{users: []fetch.User{
		{ID: 1, Name: "Leanne Graham", Email: "leanne@example.com"},
		{ID: 2, Name: "Ervin Howell", Email: "ervin@example.com"},
	}}
	m := newTestModel(t, Options{Fetcher: fetcher})

	m, cmd := step(t, m, keys("5"))
	if cmd == nil {
		t.Fatalf("visiting users returned no command")
	}
	if loading, _ := state.Get[bool](m.opts.Users.GetState(), KeyLoading); !loading {
		t.Fatalf("users store not marked loading")
	}

	m, _ = step(t, m, cmd())
	if got := len(selectUsers(m.opts.Users.GetState())); got != 2 {
		t.Fatalf("users = %d, want 2", got)
	}
	if !strings.Contains(m.View(), "Ervin Howell") {
		t.Fatalf("View() missing user:\n%s", m.View())
	}

	m, _ = step(t, m, keys("1"))
	_, cmd = step(t, m, keys("5"))
	if cmd != nil {
		t.Fatalf("second visit refetched users")
	}
}

func TestUsersSelectAndLoadPosts(t *testing.T) {
	fetcher := fakeFetcher{
		users: []fetch.User{
			{ID: 1, Name: "Leanne Graham"},
			{ID: 2, Name: "Ervin Howell"},
		},
		posts: map[int][]fetch.Post{
			1: {{ID: 1, UserID: 1, Title: "sunt aut facere"}},
			2: {{ID: 11, UserID: 2, Title: "et ea vero quia"}},
		},
	}
	m := newTestModel(t, Options{Fetcher: fetcher})

	m, cmd := step(t, m, keys("5"))
	m, _ = step(t, m, cmd())

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if got, _ := state.Get[int](m.opts.Users.GetState(), KeySelected); got != 1 {
		t.Fatalf("selected = %d, want 1 (clamped to last user)", got)
	}

	m, cmd = step(t, m, enter)
	if cmd == nil {
		t.Fatalf("enter returned no command")
	}
	if loading, _ := state.Get[bool](m.opts.Users.GetState(), KeyPostsLoading); !loading {
		t.Fatalf("posts not marked loading")
	}
	m, _ = step(t, m, cmd())

	view := m.View()
	if !strings.Contains(view, "Posts by Ervin Howell") || !strings.Contains(view, "et ea vero quia") {
		t.Fatalf("View() missing posts:\n%s", view)
	}
	if strings.Contains(view, "sunt aut facere") {
		t.Fatalf("View() shows posts of another user:\n%s", view)
	}
}

func TestUsersPostsForOldSelectionAreDropped(t *testing.T) {
	fetcher := fakeFetcher{
		users: []fetch.User{{ID: 1, Name: "Leanne Graham"}, {ID: 2, Name: "Ervin Howell"}},
		posts: map[int][]fetch.Post{1: {{ID: 1, UserID: 1, Title: "sunt aut facere"}}},
	}
	m := newTestModel(t, Options{Fetcher: fetcher})

	m, cmd := step(t, m, keys("5"))
	m, _ = step(t, m, cmd())

	m, cmd = step(t, m, enter)
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = step(t, m, cmd())

	if posts := selectPosts(m.opts.Users.GetState()); len(posts) != 0 {
		t.Fatalf("posts = %v, want none after selection moved", posts)
	}
}

func TestUsersPostsErrorIsShown(t *testing.T) {
	fetcher := fakeFetcher{
		users:    []fetch.User{{ID: 1, Name: "Leanne Graham"}},
		postsErr: errors.New("api /posts returned status 500"),
	}
	m := newTestModel(t, Options{Fetcher: fetcher})

	m, cmd := step(t, m, keys("5"))
	m, _ = step(t, m, cmd())
	m, cmd = step(t, m, enter)
	m, _ = step(t, m, cmd())

	if !strings.Contains(m.View(), "Could not load posts: api /posts returned status 500") {
		t.Fatalf("View() missing posts error:\n%s", m.View())
	}
}

func TestUsersFetchErrorIsShown(t *testing.T) {
	m := newTestModel(t, Options{Fetcher: fakeFetcher{err: errors.New("api /users returned status 503")}})
	m, cmd := step(t, m, keys("5"))
	m, _ = step(t, m, cmd())
	if !strings.Contains(m.View(), "Could not load users: api /users returned status 503") {
		t.Fatalf("View() missing error:\n%s", m.View())
	}
}

func TestChatTab(t *testing.T) {
	clk := clock.NewManual(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	mock := transport.NewMock(transport.Options{Clock: clk, Latency: 100 * time.Millisecond, Seed: 1})
	chatStore := state.New(state.State{})
	session := chat.NewSession(mock, chatStore, chat.Options{})
	t.Cleanup(session.Close)

	m := newTestModel(t, Options{Chat: chatStore, Session: session})
	m, _ = step(t, m, keys("3"))

	m, _ = step(t, m, enter)
	if m.chatInput.Focused() {
		t.Fatalf("input focused while disconnected")
	}

	m, _ = step(t, m, keys("c"))
	if got := chat.Status(chatStore.GetState()); got != "connecting" {
		t.Fatalf("status = %q, want connecting", got)
	}

	clk.Advance(100 * time.Millisecond)
	m, cmd := step(t, m, changedMsg{source: sourceChat})
	if !m.chatInput.Focused() {
		t.Fatalf("input not focused once connected")
	}
	// Focusing returns the cursor blink command alongside the next wait.
	batch, ok := cmd().(tea.BatchMsg)
	if !ok || len(batch) != 2 {
		t.Fatalf("changedMsg command = %#v, want focus and wait batched", batch)
	}

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, cmd = step(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if cmd == nil || !m.chatInput.Focused() {
		t.Fatalf("returning to a connected chat tab returned no focus command")
	}

	m, _ = step(t, m, keys("hello there"))
	m, _ = step(t, m, enter)
	if m.chatInput.Value() != "" {
		t.Fatalf("input not cleared after send")
	}
	clk.Advance(500 * time.Millisecond)
	m, _ = step(t, m, changedMsg{source: sourceChat})

	if !strings.Contains(m.View(), "ada: hello there") {
		t.Fatalf("View() missing echoed message:\n%s", m.View())
	}

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	if got := chat.Status(chatStore.GetState()); got != "disconnected" {
		t.Fatalf("status = %q, want disconnected", got)
	}
	if m.chatInput.Focused() {
		t.Fatalf("input still focused after disconnect")
	}
}

func TestLogsTabFormatsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storekit.log")
	line := `{"time":"2026-03-01T12:00:05Z","level":"INFO","msg":"logged in","user":"ada"}` + "\n"
	if err := os.WriteFile(path, []byte(line), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m := newTestModel(t, Options{LogFile: path})
	m, cmd := step(t, m, keys("6"))
	if cmd == nil {
		t.Fatalf("visiting logs returned no command")
	}
	m, _ = step(t, m, cmd())
	if !strings.Contains(m.View(), "12:00:05 INFO  logged in user=ada") {
		t.Fatalf("View() missing formatted log line:\n%s", m.View())
	}
}

func TestTabNavigationWraps(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.tab != TabLogs {
		t.Fatalf("shift+tab from counter = %v, want logs", m.tab)
	}
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.tab != TabCounter {
		t.Fatalf("tab from logs = %v, want counter", m.tab)
	}
	if tabFromKey("9") != TabCounter || tabFromKey("6") != TabLogs {
		t.Fatalf("tabFromKey mapping is wrong")
	}
}
