// Package state provides thread-safe state management for magnetcli.
//
// # Overview
//
// Store holds the latest page of each browsable resource (magnets, parts,
// sites) together with the list options used to fetch it. The background
// poller and the TUI share one Store: the poller refreshes the active
// resource, the TUI changes options and reads snapshots.
//
//	Poller / key press              UI render
//	┌──────────────────┐           ┌──────────────────┐
//	│ store.Refresh()  │           │                  │
//	│   List(options)  │──────────→│ store.Snapshot() │
//	│   UpdateX(page)  │  (mutex)  │   render tab     │
//	└──────────────────┘           └──────────────────┘
//
// # Failure Tracking
//
// A failed fetch keeps the previous page, records LastError and increments
// ConsecutiveFailures. IsOffline reports true from two consecutive failures.
// Any success resets the counter.
//
// # Snapshots
//
// Snapshot returns copies of items, options and the error, so callers may
// mutate the result freely.
package state
