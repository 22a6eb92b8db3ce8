package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutUpdatedWidth is the minimum list pane width that shows the
	// updated date column.
	LayoutUpdatedWidth = 56

	// LayoutExtraWideWidth is the threshold for extra-wide layouts.
	LayoutExtraWideWidth = 160
)

// Timing constants.
const (
	// ActionTimeout bounds a lifecycle call started from the browser.
	ActionTimeout = 15 * time.Second

	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second
)

// chromeHeight is the number of lines used by header, tabs and command bar.
const chromeHeight = 3
