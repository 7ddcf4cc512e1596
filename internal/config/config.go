package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures storekit's settings.
type Config struct {
	APIBase     string
	StoragePath string
	LogFile     string
	LogLevel    string
	Locale      string
	Username    string
	Theme       string
	Transport   TransportConfig
	Auth        AuthConfig
}

// TransportConfig tunes the simulated chat connection.
type TransportConfig struct {
	Latency    time.Duration
	Jitter     time.Duration
	PeerChance float64
	Seed       int64 // zero picks a fresh seed per run
}

// AuthConfig configures session tokens. An empty Secret makes the app
// generate one per run.
type AuthConfig struct {
	Secret        string
	TokenLifetime time.Duration
}

const (
	defaultConfigPath  = "~/.config/storekit/config.toml"
	defaultStoragePath = "~/.local/share/storekit/storage.toml"
	defaultLogFile     = "~/.local/state/storekit/storekit.log"
	defaultAPIBase     = "https://jsonplaceholder.typicode.com"
	defaultLogLevel    = "info"
	defaultLocale      = "en"
	defaultUsername    = "guest"
	defaultTheme       = "Dracula"

	defaultLatency       = 150 * time.Millisecond
	defaultJitter        = 350 * time.Millisecond
	defaultPeerChance    = 0.3
	defaultTokenLifetime = time.Hour
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBase:     defaultAPIBase,
		StoragePath: mustExpand(defaultStoragePath),
		LogFile:     mustExpand(defaultLogFile),
		LogLevel:    defaultLogLevel,
		Locale:      defaultLocale,
		Username:    defaultUser(),
		Theme:       defaultTheme,
		Transport: TransportConfig{
			Latency:    defaultLatency,
			Jitter:     defaultJitter,
			PeerChance: defaultPeerChance,
		},
		Auth: AuthConfig{TokenLifetime: defaultTokenLifetime},
	}
}

type rawConfig struct {
	APIBase     string `toml:"api_base"`
	StoragePath string `toml:"storage_path"`
	LogFile     string `toml:"log_file"`
	LogLevel    string `toml:"log_level"`
	Locale      string `toml:"locale"`
	Username    string `toml:"username"`
	Theme       string `toml:"theme"`
	Transport   struct {
		LatencyMS  *int     `toml:"latency_ms"`
		JitterMS   *int     `toml:"jitter_ms"`
		PeerChance *float64 `toml:"peer_chance"`
		Seed       int64    `toml:"seed"`
	} `toml:"transport"`
	Auth struct {
		Secret       string `toml:"secret"`
		TokenMinutes int    `toml:"token_minutes"`
	} `toml:"auth"`
}

// Load locates and parses the config file, falling back to defaults when it
// is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.APIBase = orDefault(raw.APIBase, defaultAPIBase)
	cfg.StoragePath = mustExpand(orDefault(raw.StoragePath, defaultStoragePath))
	cfg.LogFile = mustExpand(orDefault(raw.LogFile, defaultLogFile))
	cfg.LogLevel = strings.ToLower(orDefault(raw.LogLevel, defaultLogLevel))
	cfg.Locale = orDefault(raw.Locale, defaultLocale)
	cfg.Username = orDefault(raw.Username, defaultUser())
	cfg.Theme = orDefault(raw.Theme, defaultTheme)

	if ms := raw.Transport.LatencyMS; ms != nil {
		if *ms <= 0 {
			return Config{}, fmt.Errorf("transport.latency_ms must be positive, got %d", *ms)
		}
		cfg.Transport.Latency = time.Duration(*ms) * time.Millisecond
	}
	if ms := raw.Transport.JitterMS; ms != nil {
		if *ms < 0 {
			return Config{}, fmt.Errorf("transport.jitter_ms must not be negative, got %d", *ms)
		}
		cfg.Transport.Jitter = time.Duration(*ms) * time.Millisecond
	}
	if chance := raw.Transport.PeerChance; chance != nil {
		if *chance < 0 || *chance > 1 {
			return Config{}, fmt.Errorf("transport.peer_chance must be within [0, 1], got %g", *chance)
		}
		cfg.Transport.PeerChance = *chance
	}
	cfg.Transport.Seed = raw.Transport.Seed

	cfg.Auth.Secret = strings.TrimSpace(raw.Auth.Secret)
	if raw.Auth.TokenMinutes > 0 {
		cfg.Auth.TokenLifetime = time.Duration(raw.Auth.TokenMinutes) * time.Minute
	}

	return cfg, nil
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func defaultUser() string {
	if user := strings.TrimSpace(os.Getenv("USER")); user != "" {
		return user
	}
	return defaultUsername
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
