// Package config loads magnetcli settings.
//
// # Configuration Discovery
//
// Load resolves settings in this order, later sources winning:
//
//  1. Built-in defaults
//  2. The TOML file (explicit path, or ~/.config/magnetcli/config.toml)
//  3. MAGNETDB_* environment variables
//
// LoadDotenv can be called first to seed the environment from a .env file
// (subosito/gotenv). It never replaces variables already exported by the shell.
//
// # Default Values
//
//   - Config file: ~/.config/magnetcli/config.toml
//   - API URL: http://127.0.0.1:8000
//   - Timeout: 30s
//   - Log file: ~/.local/state/magnetcli/magnetcli.log
//   - Log level: info
//
// # TOML Format
//
//	api_url = "https://magnetdb.example.org"
//	token = "..."
//	timeout = "30s"
//	log_file = "~/.local/state/magnetcli/magnetcli.log"
//	log_level = "debug"
//
// Every field is optional. timeout takes a Go duration or a number of
// seconds. Tilde expansion is applied to log_file.
//
// # Environment Variables
//
//   - MAGNETDB_API_URL, MAGNETDB_TOKEN, MAGNETDB_TIMEOUT
//   - MAGNETDB_LOG_FILE, MAGNETDB_LOG_LEVEL
//   - MAGNETDB_DOTENV_PATH: .env file read by LoadDotenv
//
// # Error Handling
//
// A missing config file is not an error. Unreadable files, TOML syntax errors
// and invalid timeouts are.
package config
