package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/magnetdb/magnetcli/internal/config"
	"github.com/magnetdb/magnetcli/internal/logging"
	"github.com/magnetdb/magnetcli/internal/magnetdb"
	"github.com/magnetdb/magnetcli/internal/prefs"
	"github.com/magnetdb/magnetcli/internal/state"
	"github.com/magnetdb/magnetcli/internal/ui"
)

// Options configure magnetcli startup. Empty fields use defaults.
type Options struct {
	ConfigPath string
	DotenvPath string
	PrefsPath  string // empty uses default ~/.config/magnetcli/prefs.toml
	APIURL     string // overrides the configured API URL
	PollEvery  int    // seconds; zero uses default
	Debug      bool
}

// Env is the wired set of dependencies shared by the TUI and the commands.
type Env struct {
	Config config.Config
	Logger *log.Logger
	Client *magnetdb.Client

	logCloser io.Closer
}

// Setup loads configuration, opens the log file and builds the API client.
// Callers must Close the returned Env.
func Setup(opts Options) (*Env, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if opts.Debug {
		level = log.DebugLevel
	}
	logger, closer, err := logging.Open(cfg.LogFile, level)
	if err != nil {
		return nil, err
	}

	client, err := magnetdb.NewClient(cfg.APIURL, magnetdb.Options{
		Token:   cfg.Token,
		Timeout: cfg.Timeout,
		Logger:  logger,
	})
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("init magnetdb client: %w", err)
	}

	logger.WithFields(log.Fields{"api": client.BaseURL(), "level": level.String()}).Info("magnetcli started")
	return &Env{Config: cfg, Logger: logger, Client: client, logCloser: closer}, nil
}

// LoadConfig reads the dotenv file, the config file and the environment,
// then applies the command line overrides.
func LoadConfig(opts Options) (config.Config, error) {
	if err := config.LoadDotenv(opts.DotenvPath); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if apiURL := strings.TrimSpace(opts.APIURL); apiURL != "" {
		cfg.APIURL = apiURL
	}
	return cfg, nil
}

// Close releases the log file.
func (e *Env) Close() error {
	if e == nil || e.logCloser == nil {
		return nil
	}
	return e.logCloser.Close()
}

// Run boots the resource browser until the context is cancelled or the user
// quits.
func Run(ctx context.Context, opts Options) error {
	env, err := Setup(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	userPrefs, _ := prefs.Load(opts.PrefsPath)
	store := state.NewStore(userPrefs.PerPage)

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	// Populate the first tab before the UI starts.
	_ = refresh(ctx, store, env.Client, env.Logger)

	StartPoller(ctx, store, env.Client, env.Logger, interval)

	return ui.Run(ui.Options{
		Context:   ctx,
		Client:    env.Client,
		Store:     store,
		Logger:    env.Logger,
		PollTick:  interval,
		ThemeName: userPrefs.Theme,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
	})
}
