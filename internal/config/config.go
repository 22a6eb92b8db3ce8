package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/subosito/gotenv"
)

// Config holds what magnetcli needs to reach the MagnetDB API.
type Config struct {
	APIURL   string
	Token    string
	Timeout  time.Duration
	LogFile  string
	LogLevel string
}

const (
	defaultDir        = "~/.config/magnetcli"
	defaultConfigPath = defaultDir + "/config.toml"
	defaultLogFile    = "~/.local/state/magnetcli/magnetcli.log"
	defaultAPIURL     = "http://127.0.0.1:8000"
	defaultTimeout    = 30 * time.Second
	defaultLogLevel   = "info"
	defaultDotenvPath = ".env"
)

// Environment variables that override the config file.
const (
	EnvAPIURL     = "MAGNETDB_API_URL"
	EnvToken      = "MAGNETDB_TOKEN"
	EnvTimeout    = "MAGNETDB_TIMEOUT"
	EnvLogFile    = "MAGNETDB_LOG_FILE"
	EnvLogLevel   = "MAGNETDB_LOG_LEVEL"
	EnvDotenvPath = "MAGNETDB_DOTENV_PATH"
)

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		APIURL:   defaultAPIURL,
		Timeout:  defaultTimeout,
		LogFile:  mustExpand(defaultLogFile),
		LogLevel: defaultLogLevel,
	}
}

// Load reads the TOML config at path (the default location when empty) and
// applies MAGNETDB_* environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := cfg.readFile(resolved); err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL   string `toml:"api_url"`
		Token    string `toml:"token"`
		Timeout  string `toml:"timeout"`
		LogFile  string `toml:"log_file"`
		LogLevel string `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	return c.merge(raw.APIURL, raw.Token, raw.Timeout, raw.LogFile, raw.LogLevel)
}

func (c *Config) applyEnv() error {
	return c.merge(
		os.Getenv(EnvAPIURL),
		os.Getenv(EnvToken),
		os.Getenv(EnvTimeout),
		os.Getenv(EnvLogFile),
		os.Getenv(EnvLogLevel),
	)
}

// merge overwrites fields with every non-blank value.
func (c *Config) merge(apiURL, token, timeout, logFile, logLevel string) error {
	if v := strings.TrimSpace(apiURL); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(token); v != "" {
		c.Token = v
	}
	if v := strings.TrimSpace(timeout); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return err
		}
		c.Timeout = d
	}
	if v := strings.TrimSpace(logFile); v != "" {
		c.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(logLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	return nil
}

// parseTimeout accepts a Go duration ("45s") or a bare number of seconds.
func parseTimeout(value string) (time.Duration, error) {
	if d, err := time.ParseDuration(value); err == nil {
		if d <= 0 {
			return 0, fmt.Errorf("parse timeout %q: must be positive", value)
		}
		return d, nil
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse timeout %q: not a duration", value)
	}
	if seconds <= 0 {
		return 0, fmt.Errorf("parse timeout %q: must be positive", value)
	}
	return time.Duration(seconds) * time.Second, nil
}

// LoadDotenv loads KEY=VALUE pairs into the environment without replacing
// variables that are already set. With an empty path it reads
// $MAGNETDB_DOTENV_PATH, then ./.env, and a missing default file is ignored.
func LoadDotenv(path string) error {
	explicit := strings.TrimSpace(path)
	if explicit == "" {
		explicit = strings.TrimSpace(os.Getenv(EnvDotenvPath))
	}
	if explicit == "" {
		if _, err := os.Stat(defaultDotenvPath); errors.Is(err, os.ErrNotExist) {
			return nil
		}
		explicit = defaultDotenvPath
	}

	resolved, err := expandPath(explicit)
	if err != nil {
		return err
	}
	if err := gotenv.Load(resolved); err != nil {
		return fmt.Errorf("load dotenv %s: %w", resolved, err)
	}
	return nil
}

// Dir returns the magnetcli configuration directory.
func Dir() string {
	return mustExpand(defaultDir)
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
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
