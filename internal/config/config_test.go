package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvAPIURL, EnvToken, EnvTimeout, EnvLogFile, EnvLogLevel, EnvDotenvPath} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, defaultAPIURL, cfg.APIURL)
	assert.Equal(t, defaultTimeout, cfg.Timeout)
	assert.Equal(t, defaultLogLevel, cfg.LogLevel)
	assert.Empty(t, cfg.Token)
	assert.True(t, strings.HasPrefix(cfg.LogFile, home), "LogFile = %q, want it under HOME", cfg.LogFile)
}

func TestLoad_DefaultPathUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	writeFile(t, filepath.Join(home, ".config", "magnetcli", "config.toml"), `api_url = "http://magnetdb.lab:8000"`)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://magnetdb.lab:8000", cfg.APIURL)
	assert.Equal(t, filepath.Join(home, ".config", "magnetcli", "config.toml"), DefaultPath())
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
api_url = "  https://magnetdb.example.org  "
token = " abc "
timeout = "45s"
log_file = "  ~/logs/magnetcli.log  "
log_level = "DEBUG"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://magnetdb.example.org", cfg.APIURL)
	assert.Equal(t, "abc", cfg.Token)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, filepath.Join(home, "logs", "magnetcli.log"), cfg.LogFile)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_TimeoutInSeconds(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `timeout = "12"`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12*time.Second, cfg.Timeout)
}

func TestLoad_BadTimeoutFails(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `timeout = "soon"`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse timeout")

	writeFile(t, path, `timeout = "-3s"`)
	_, err = Load(path)
	require.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
api_url = "http://file:8000"
token = "file-token"
`)
	t.Setenv(EnvAPIURL, "http://env:9000")
	t.Setenv(EnvTimeout, "5s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env:9000", cfg.APIURL)
	assert.Equal(t, "file-token", cfg.Token)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `api_url = [`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadDotenv_DoesNotOverrideExisting(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "magnetdb.env")
	writeFile(t, path, "MAGNETDB_TOKEN=from-dotenv\nMAGNETDB_API_URL=http://dotenv:8000\n")
	t.Setenv(EnvAPIURL, "http://shell:8000")
	// gotenv.Load sets only unset keys; empty counts as set, so unset it.
	require.NoError(t, os.Unsetenv(EnvToken))

	require.NoError(t, LoadDotenv(path))
	t.Cleanup(func() { _ = os.Unsetenv(EnvToken) })

	assert.Equal(t, "from-dotenv", os.Getenv(EnvToken))
	assert.Equal(t, "http://shell:8000", os.Getenv(EnvAPIURL))
}

func TestLoadDotenv_MissingDefaultIsIgnored(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	assert.NoError(t, LoadDotenv(""))
}

func TestLoadDotenv_MissingExplicitFails(t *testing.T) {
	clearEnv(t)
	err := LoadDotenv(filepath.Join(t.TempDir(), "nope.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load dotenv")
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "a/b"), got)
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	_, err := expandPath("   ")
	assert.Error(t, err)
}
