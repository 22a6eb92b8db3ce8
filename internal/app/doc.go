// Package app provides the orchestration layer for magnetcli.
//
// # Overview
//
// This package is the composition root: it wires configuration, logging,
// the MagnetDB client, the shared store, the poller and the UI.
//
//	┌──────────────┐
//	│   Setup()    │ config.LoadDotenv, config.Load, logging.Open,
//	│              │ magnetdb.NewClient
//	└──────┬───────┘
//	       │
//	┌──────┴───────┐
//	│    Run()     │
//	│      ├─────> prefs.Load()        Theme and page size
//	│      ├─────> state.NewStore()    Shared listing store
//	│      ├─────> refresh()           First page of the active tab
//	│      ├─────> StartPoller()       Background refresh
//	│      └─────> ui.Run()            Resource browser (blocks)
//	└──────────────┘
//
// The cli package calls Setup directly for one-shot commands, so both entry
// points read the same config and log to the same file.
//
// # Polling Behavior
//
// The poller refreshes only the resource shown in the active tab, using the
// list options (query, status, sort, page) the UI stored. The default
// interval is 10 seconds. After consecutive failures the delay doubles per
// failure, capped at two minutes, and resets on the next success. Failed
// polls are logged at warn level and never stop the loop.
//
// # Error Handling
//
// Fatal errors (returned from Setup and Run):
//   - Unreadable .env or config file, invalid timeout or log level
//   - Log file that cannot be opened
//   - Malformed API URL
//
// Recoverable errors (recorded in the store, shown by the UI):
//   - Network failures and non-2xx answers while polling
package app
