package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/magnetdb/magnetcli/internal/magnetdb"
)

// Resource names one of the browsable API collections.
type Resource string

const (
	Magnets Resource = "magnets"
	Parts   Resource = "parts"
	Sites   Resource = "sites"
)

// Resources lists the collections in tab order.
func Resources() []Resource {
	return []Resource{Magnets, Parts, Sites}
}

// Title is the tab label of the resource.
func (r Resource) Title() string {
	switch r {
	case Magnets:
		return "Magnets"
	case Parts:
		return "Parts"
	case Sites:
		return "Sites"
	}
	return string(r)
}

// Next returns the following resource, wrapping around.
func (r Resource) Next() Resource {
	all := Resources()
	for i, res := range all {
		if res == r {
			return all[(i+1)%len(all)]
		}
	}
	return Magnets
}

// Statuses returns the status filter values the resource supports.
func (r Resource) Statuses() []string {
	switch r {
	case Parts:
		return magnetdb.PartStatuses
	case Sites:
		return magnetdb.SiteStatuses
	}
	return magnetdb.MagnetStatuses
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Active              Resource
	Options             map[Resource]magnetdb.ListOptions
	Magnets             magnetdb.Page[magnetdb.Magnet]
	Parts               magnetdb.Page[magnetdb.Part]
	Sites               magnetdb.Page[magnetdb.Site]
	Loaded              map[Resource]bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive fetch failures
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Len returns the number of items loaded for r.
func (s Snapshot) Len(r Resource) int {
	switch r {
	case Magnets:
		return len(s.Magnets.Items)
	case Parts:
		return len(s.Parts.Items)
	case Sites:
		return len(s.Sites.Items)
	}
	return 0
}

// PageInfo returns current page, last page and total for r.
func (s Snapshot) PageInfo(r Resource) (current, last, total int) {
	switch r {
	case Magnets:
		return s.Magnets.CurrentPage, s.Magnets.LastPage, s.Magnets.Total
	case Parts:
		return s.Parts.CurrentPage, s.Parts.LastPage, s.Parts.Total
	case Sites:
		return s.Sites.CurrentPage, s.Sites.LastPage, s.Sites.Total
	}
	return 0, 0, 0
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// NewStore returns a store showing magnets with perPage items per page.
func NewStore(perPage int) *Store {
	s := &Store{}
	s.snapshot.Active = Magnets
	s.snapshot.Options = map[Resource]magnetdb.ListOptions{}
	s.snapshot.Loaded = map[Resource]bool{}
	for _, r := range Resources() {
		s.snapshot.Options[r] = magnetdb.ListOptions{Page: 1, PerPage: perPage}
	}
	return s
}

// Active returns the resource being browsed.
func (s *Store) Active() Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot.Active == "" {
		return Magnets
	}
	return s.snapshot.Active
}

// SetActive switches the browsed resource.
func (s *Store) SetActive(r Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Active = r
}

// Options returns the list options used to fetch r.
func (s *Store) Options(r Resource) magnetdb.ListOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Options[r]
}

// SetOptions replaces the list options for r.
func (s *Store) SetOptions(r Resource, opts magnetdb.ListOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.Options == nil {
		s.snapshot.Options = map[Resource]magnetdb.ListOptions{}
	}
	s.snapshot.Options[r] = opts
}

// UpdateMagnets stores a fetched magnet page. When err is non-nil the
// previous data is kept but the error is recorded for visibility.
func (s *Store) UpdateMagnets(page *magnetdb.Page[magnetdb.Magnet], err error) {
	s.update(Magnets, err, func(snap *Snapshot) { snap.Magnets = clonePage(deref(page)) })
}

// UpdateParts stores a fetched part page.
func (s *Store) UpdateParts(page *magnetdb.Page[magnetdb.Part], err error) {
	s.update(Parts, err, func(snap *Snapshot) { snap.Parts = clonePage(deref(page)) })
}

// UpdateSites stores a fetched site page.
func (s *Store) UpdateSites(page *magnetdb.Page[magnetdb.Site], err error) {
	s.update(Sites, err, func(snap *Snapshot) { snap.Sites = clonePage(deref(page)) })
}

// RecordError notes a failed call without touching loaded data.
func (s *Store) RecordError(err error) {
	s.update("", err, nil)
}

func (s *Store) update(r Resource, err error, apply func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateLocked(r, err, apply)
}

func (s *Store) updateLocked(r Resource, err error, apply func(*Snapshot)) {
	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}
	if apply != nil {
		apply(&s.snapshot)
	}
	if r != "" {
		if s.snapshot.Loaded == nil {
			s.snapshot.Loaded = map[Resource]bool{}
		}
		s.snapshot.Loaded[r] = true
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if snap.Active == "" {
		snap.Active = Magnets
	}
	snap.Magnets = clonePage(s.snapshot.Magnets)
	snap.Parts = clonePage(s.snapshot.Parts)
	snap.Sites = clonePage(s.snapshot.Sites)
	snap.Options = make(map[Resource]magnetdb.ListOptions, len(s.snapshot.Options))
	for k, v := range s.snapshot.Options {
		snap.Options[k] = v
	}
	snap.Loaded = make(map[Resource]bool, len(s.snapshot.Loaded))
	for k, v := range s.snapshot.Loaded {
		snap.Loaded[k] = v
	}
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func clonePage[T any](page magnetdb.Page[T]) magnetdb.Page[T] {
	if len(page.Items) == 0 {
		page.Items = nil
		return page
	}
	items := make([]T, len(page.Items))
	copy(items, page.Items)
	page.Items = items
	return page
}

func deref[T any](page *magnetdb.Page[T]) magnetdb.Page[T] {
	if page == nil {
		return magnetdb.Page[T]{}
	}
	return *page
}
