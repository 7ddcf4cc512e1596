package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/five82/storekit/internal/config"
	"github.com/five82/storekit/internal/state"
	"github.com/five82/storekit/internal/ui"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.StoragePath = filepath.Join(dir, "storage.toml")
	cfg.LogFile = filepath.Join(dir, "logs", "storekit.log")
	cfg.Username = "ada"
	cfg.APIBase = "http://127.0.0.1:1"
	return cfg
}

func TestBuild_PersistsSettingsAcrossRuns(t *testing.T) {
	cfg := testConfig(t)

	first, err := Build(cfg, Options{})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	first.Settings.Set(state.State{ui.KeyTheme: "Nord", ui.KeyLocale: "es"})
	first.Close()

	second, err := Build(cfg, Options{})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	defer second.Close()

	s := second.Settings.GetState()
	if s[ui.KeyTheme] != "Nord" || s[ui.KeyLocale] != "es" {
		t.Fatalf("settings = %v, want restored Nord/es", s)
	}
	if s[ui.KeyUsername] != "ada" {
		t.Fatalf("username = %v, want ada from config", s[ui.KeyUsername])
	}
}

func TestBuild_LocaleFlagOverridesStoredLocale(t *testing.T) {
	cfg := testConfig(t)

	first, err := Build(cfg, Options{})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	first.Settings.Set(state.State{ui.KeyLocale: "es"})
	first.Close()

	second, err := Build(cfg, Options{Locale: "de"})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	defer second.Close()
	if got := second.Settings.GetState()[ui.KeyLocale]; got != "de" {
		t.Fatalf("locale = %v, want de", got)
	}
}

func TestBuild_SeedAndSecret(t *testing.T) {
	cfg := testConfig(t)

	a, err := Build(cfg, Options{Seed: 42})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	defer a.Close()
	if a.Config.Transport.Seed != 42 {
		t.Fatalf("seed = %d, want 42", a.Config.Transport.Seed)
	}

	token, err := a.Issuer.Issue("ada")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	claims, err := a.Issuer.Verify(token)
	if err != nil || claims.User != "ada" {
		t.Fatalf("Verify = %+v, %v; want ada", claims, err)
	}

	b, err := Build(cfg, Options{})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	defer b.Close()
	if b.Config.Transport.Seed == 0 {
		t.Fatalf("zero seed was not replaced")
	}
	if _, err := b.Issuer.Verify(token); err == nil {
		t.Fatalf("token from another run verified; secrets should differ")
	}
}

func TestBuild_RejectsShortSecret(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.Secret = "too-short"
	if _, err := Build(cfg, Options{}); err == nil {
		t.Fatalf("Build returned nil error, want secret length error")
	}
}

func TestBuild_WiresUIOptions(t *testing.T) {
	cfg := testConfig(t)
	cfg.Transport.Latency = time.Millisecond

	a, err := Build(cfg, Options{})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	defer a.Close()

	opts := a.UIOptions(t.Context())
	if opts.Counter != a.Counter || opts.Settings != a.Settings || opts.Chat != a.Chat || opts.Users != a.Users {
		t.Fatalf("UIOptions does not share the app stores")
	}
	if opts.Session == nil || opts.Fetcher == nil || opts.LogFile != cfg.LogFile {
		t.Fatalf("UIOptions missing collaborators: %+v", opts)
	}
	if got := a.Chat.GetState()["status"]; got != "disconnected" {
		t.Fatalf("chat status = %v, want disconnected", got)
	}
}
