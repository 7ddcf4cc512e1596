package ui

import (
	"github.com/five82/storekit/internal/fetch"
	"github.com/five82/storekit/internal/state"
)

// Store keys used by the demo tabs.
const (
	KeyCount = "count"

	KeyTheme    = "theme"
	KeyLocale   = "locale"
	KeyUsername = "username"

	KeyUsers        = "users"
	KeyLoading      = "loading"
	KeyError        = "error"
	KeySelected     = "selected"
	KeyPosts        = "posts"
	KeyPostsLoading = "postsLoading"
	KeyPostsError   = "postsError"
)

// PersistedSettings lists the settings fields saved between runs.
var PersistedSettings = []string{KeyTheme, KeyLocale}

const (
	sourceCounter  = "counter"
	sourceSettings = "settings"
	sourceUsers    = "users"
	sourceChat     = "chat"
)

// CounterState is the initial counter store state.
func CounterState() state.State {
	return state.State{KeyCount: 0}
}

// SettingsState is the initial settings store state. Blank values fall back
// to Dracula, English and "guest".
func SettingsState(theme, locale, username string) state.State {
	if theme == "" {
		theme = themeOrder[0]
	}
	if locale == "" {
		locale = "en"
	}
	if username == "" {
		username = "guest"
	}
	return state.State{KeyTheme: theme, KeyLocale: locale, KeyUsername: username}
}

// UsersState is the initial users store state.
func UsersState() state.State {
	return state.State{
		KeyUsers:        []fetch.User(nil),
		KeyLoading:      false,
		KeyError:        "",
		KeySelected:     0,
		KeyPosts:        []fetch.Post(nil),
		KeyPostsLoading: false,
		KeyPostsError:   "",
	}
}

func selectCount(s state.State) int {
	n, _ := state.Get[int](s, KeyCount)
	return n
}

// settingsView is the slice of settings the UI renders.
type settingsView struct {
	Theme    string
	Locale   string
	Username string
}

func selectSettings(s state.State) settingsView {
	return settingsView{
		Theme:    selectTheme(s),
		Locale:   selectLocale(s),
		Username: selectUsername(s),
	}
}

func selectTheme(s state.State) string {
	v, _ := state.Get[string](s, KeyTheme)
	return v
}

func selectLocale(s state.State) string {
	v, _ := state.Get[string](s, KeyLocale)
	return v
}

func selectUsername(s state.State) string {
	v, _ := state.Get[string](s, KeyUsername)
	return v
}

func selectUsers(s state.State) []fetch.User {
	v, _ := state.Get[[]fetch.User](s, KeyUsers)
	return v
}

// selectSelectedUser returns the highlighted user, false when the list is
// empty.
func selectSelectedUser(s state.State) (fetch.User, int, bool) {
	users := selectUsers(s)
	if len(users) == 0 {
		return fetch.User{}, 0, false
	}
	i, _ := state.Get[int](s, KeySelected)
	i = max(0, min(i, len(users)-1))
	return users[i], i, true
}

func selectPosts(s state.State) []fetch.Post {
	v, _ := state.Get[[]fetch.Post](s, KeyPosts)
	return v
}
