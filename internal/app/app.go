package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/five82/storekit/internal/auth"
	"github.com/five82/storekit/internal/chat"
	"github.com/five82/storekit/internal/clock"
	"github.com/five82/storekit/internal/config"
	"github.com/five82/storekit/internal/fetch"
	"github.com/five82/storekit/internal/logging"
	"github.com/five82/storekit/internal/state"
	"github.com/five82/storekit/internal/storage"
	"github.com/five82/storekit/internal/transport"
	"github.com/five82/storekit/internal/ui"
)

// Options configure the storekit application.
type Options struct {
	ConfigPath string // empty uses ~/.config/storekit/config.toml
	Locale     string // overrides the config and stored locale when set
	Seed       int64  // overrides transport.seed when non-zero
}

// App holds every collaborator built from the configuration.
type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Storage storage.Storage

	Counter  *state.Store
	Settings *state.Store
	Users    *state.Store
	Chat     *state.Store

	Transport *transport.Mock
	Session   *chat.Session
	Issuer    *auth.Issuer
	Fetcher   *fetch.Client

	closers []func()
}

// Run boots the storekit TUI until the user quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a, err := Build(cfg, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	a.Logger.Info("storekit starting",
		"config", opts.ConfigPath,
		"storage", cfg.StoragePath,
		"api_base", a.Fetcher.BaseURL(),
		"seed", a.Config.Transport.Seed)

	return ui.Run(a.UIOptions(ctx))
}

// Build constructs the application without starting the UI.
func Build(cfg config.Config, opts Options) (*App, error) {
	a := &App{Config: cfg}

	logger, logCloser, err := logging.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "storekit: logging disabled: %v\n", err)
	}
	a.Logger = logger
	a.onClose(func() { _ = logCloser.Close() })

	store, err := storage.OpenFile(cfg.StoragePath)
	if err != nil {
		logger.Warn("storage unavailable, settings will not persist", "path", cfg.StoragePath, "error", err)
		a.Storage = storage.NewMemory()
	} else {
		a.Storage = store
	}

	a.Counter = state.New(ui.CounterState(), state.WithName("counter"), state.WithLogger(logger))
	a.Users = state.New(ui.UsersState(), state.WithName("users"), state.WithLogger(logger))
	a.Chat = state.New(state.State{}, state.WithName("chat"), state.WithLogger(logger))
	a.Settings = state.New(ui.SettingsState(cfg.Theme, cfg.Locale, cfg.Username),
		state.WithName("settings"), state.WithLogger(logger))

	stopPersist, err := state.Persist(a.Settings, a.Storage, "settings", ui.PersistedSettings...)
	if err != nil {
		logger.Warn("could not restore settings", "error", err)
	}
	a.onClose(stopPersist)
	if locale := strings.TrimSpace(opts.Locale); locale != "" {
		a.Settings.Set(state.State{ui.KeyLocale: locale})
	}

	if opts.Seed != 0 {
		cfg.Transport.Seed = opts.Seed
	}
	if cfg.Transport.Seed == 0 {
		cfg.Transport.Seed = time.Now().UnixNano()
	}
	a.Config = cfg

	secret := cfg.Auth.Secret
	if secret == "" {
		secret, err = randomSecret()
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("generate auth secret: %w", err)
		}
	}
	a.Issuer, err = auth.NewIssuer(secret, cfg.Auth.TokenLifetime, clock.Real())
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init auth: %w", err)
	}

	a.Transport = transport.NewMock(transport.Options{
		Clock:      clock.Real(),
		Latency:    cfg.Transport.Latency,
		Jitter:     cfg.Transport.Jitter,
		PeerChance: cfg.Transport.PeerChance,
		Seed:       cfg.Transport.Seed,
		Issuer:     a.Issuer,
		Logger:     logger,
	})
	a.Session = chat.NewSession(a.Transport, a.Chat, chat.Options{Verifier: a.Issuer, Logger: logger})
	a.onClose(a.Session.Close)

	a.Fetcher, err = fetch.NewClient(cfg.APIBase)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}

	return a, nil
}

// UIOptions returns the options the UI runs with.
func (a *App) UIOptions(ctx context.Context) ui.Options {
	return ui.Options{
		Context:  ctx,
		Counter:  a.Counter,
		Settings: a.Settings,
		Users:    a.Users,
		Chat:     a.Chat,
		Session:  a.Session,
		Fetcher:  a.Fetcher,
		LogFile:  a.Config.LogFile,
		Logger:   a.Logger,
	}
}

// Close releases collaborators in reverse construction order. It is safe to
// call more than once.
func (a *App) Close() {
	closers := a.closers
	a.closers = nil
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
}

func (a *App) onClose(fn func()) {
	if fn != nil {
		a.closers = append(a.closers, fn)
	}
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
