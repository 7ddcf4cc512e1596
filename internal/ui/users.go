package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/storekit/internal/fetch"
	"github.com/five82/storekit/internal/state"
)

const postsLimit = 5

type usersMsg struct {
	users []fetch.User
	err   error
}

type postsMsg struct {
	userID int
	posts  []fetch.Post
	err    error
}

// loadUsers marks the users store as loading and fetches in a command.
func (m Model) loadUsers() tea.Cmd {
	if m.opts.Users == nil || m.opts.Fetcher == nil {
		return nil
	}
	m.opts.Users.Set(state.State{
		KeyLoading:    true,
		KeyError:      "",
		KeySelected:   0,
		KeyPosts:      []fetch.Post(nil),
		KeyPostsError: "",
	})

	ctx, fetcher := m.ctx, m.opts.Fetcher
	return func() tea.Msg {
		users, err := fetcher.FetchUsers(ctx)
		return usersMsg{users: users, err: err}
	}
}

func (m Model) applyUsers(msg usersMsg) {
	if m.opts.Users == nil {
		return
	}
	if msg.err != nil {
		m.logger.Warn("users fetch failed", "error", msg.err)
		m.opts.Users.Set(state.State{KeyLoading: false, KeyError: msg.err.Error()})
		return
	}
	m.opts.Users.Set(state.State{KeyLoading: false, KeyError: "", KeyUsers: msg.users})
}

// loadPosts fetches the posts of the highlighted user.
func (m Model) loadPosts() tea.Cmd {
	if m.opts.Users == nil || m.opts.Fetcher == nil {
		return nil
	}
	user, _, ok := selectSelectedUser(m.opts.Users.GetState())
	if !ok {
		return nil
	}
	m.opts.Users.Set(state.State{KeyPostsLoading: true, KeyPostsError: "", KeyPosts: []fetch.Post(nil)})

	ctx, fetcher, id := m.ctx, m.opts.Fetcher, user.ID
	return func() tea.Msg {
		posts, err := fetcher.FetchUserPosts(ctx, id, postsLimit)
		return postsMsg{userID: id, posts: posts, err: err}
	}
}

// applyPosts stores a posts response unless the selection moved on while it
// was in flight.
func (m Model) applyPosts(msg postsMsg) {
	if m.opts.Users == nil {
		return
	}
	user, _, ok := selectSelectedUser(m.opts.Users.GetState())
	if !ok || user.ID != msg.userID {
		return
	}
	if msg.err != nil {
		m.logger.Warn("posts fetch failed", "user_id", msg.userID, "error", msg.err)
		m.opts.Users.Set(state.State{KeyPostsLoading: false, KeyPostsError: msg.err.Error()})
		return
	}
	m.opts.Users.Set(state.State{KeyPostsLoading: false, KeyPostsError: "", KeyPosts: msg.posts})
}

func (m Model) moveSelection(delta int) {
	if m.opts.Users == nil {
		return
	}
	s := m.opts.Users.GetState()
	users := selectUsers(s)
	if len(users) == 0 {
		return
	}
	_, current, _ := selectSelectedUser(s)
	next := max(0, min(current+delta, len(users)-1))
	if next == current {
		return
	}
	m.opts.Users.Set(state.State{
		KeySelected:     next,
		KeyPosts:        []fetch.Post(nil),
		KeyPostsLoading: false,
		KeyPostsError:   "",
	})
}

func (m Model) handleUsersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Reload):
		m.usersRequested = true
		return m, m.loadUsers()
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Confirm):
		return m, m.loadPosts()
	}
	return m, nil
}

func (m Model) renderUsers() string {
	styles := m.theme.Styles()
	if m.opts.Users == nil {
		return ""
	}
	s := m.opts.Users.GetState()

	if loading, _ := state.Get[bool](s, KeyLoading); loading {
		return styles.InfoText.Render(m.tr.T("users.loading"))
	}
	if errText, _ := state.Get[string](s, KeyError); errText != "" {
		return styles.DangerText.Render(m.tr.T("users.error", errText))
	}

	users := selectUsers(s)
	selected, index, ok := selectSelectedUser(s)

	var b strings.Builder
	b.WriteString(styles.MutedText.Render(m.tr.T("users.count", len(users))))
	b.WriteString("\n\n")
	for i, u := range users {
		marker := "  "
		if ok && i == index {
			marker = styles.AccentText.Render("> ")
		}
		b.WriteString(marker)
		b.WriteString(styles.AccentText.Render(fmt.Sprintf("%-24s", u.Name)))
		b.WriteString(styles.Text.Render(fmt.Sprintf(" %-28s", u.Email)))
		b.WriteString(styles.FaintText.Render(" " + u.Company.Name))
		b.WriteString("\n")
	}

	if ok {
		b.WriteString("\n")
		b.WriteString(m.renderPosts(s, selected))
	}
	return b.String()
}

func (m Model) renderPosts(s state.State, user fetch.User) string {
	styles := m.theme.Styles()
	if loading, _ := state.Get[bool](s, KeyPostsLoading); loading {
		return styles.InfoText.Render(m.tr.T("users.posts_loading"))
	}
	if errText, _ := state.Get[string](s, KeyPostsError); errText != "" {
		return styles.DangerText.Render(m.tr.T("users.posts_error", errText))
	}
	posts := selectPosts(s)
	if len(posts) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.MutedText.Render(m.tr.T("users.posts", user.Name)))
	b.WriteString("\n")
	for _, p := range posts {
		b.WriteString(styles.Text.Render("  - " + p.Title))
		b.WriteString("\n")
	}
	return b.String()
}
