package state

import (
	"context"
	"fmt"

	"github.com/magnetdb/magnetcli/internal/magnetdb"
)

// Refresh fetches the current page of r with its stored options and records
// the outcome. The returned error is the fetch error, if any. When the
// options of r change while the request is in flight the outcome is dropped,
// since it describes a page nobody is looking at anymore.
func (s *Store) Refresh(ctx context.Context, client *magnetdb.Client, r Resource) error {
	if client == nil {
		return fmt.Errorf("refresh %s: client is nil", r)
	}
	opts := s.Options(r)

	switch r {
	case Magnets:
		page, err := client.Magnets.List(ctx, opts)
		return s.settle(r, opts, err, func(snap *Snapshot) { snap.Magnets = clonePage(deref(page)) })
	case Parts:
		page, err := client.Parts.List(ctx, opts)
		return s.settle(r, opts, err, func(snap *Snapshot) { snap.Parts = clonePage(deref(page)) })
	case Sites:
		page, err := client.Sites.List(ctx, opts)
		return s.settle(r, opts, err, func(snap *Snapshot) { snap.Sites = clonePage(deref(page)) })
	}
	return fmt.Errorf("refresh: unknown resource %q", r)
}

// settle records a fetch made with opts if they are still the options of r.
func (s *Store) settle(r Resource, opts magnetdb.ListOptions, err error, apply func(*Snapshot)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.Options[r] != opts {
		return nil
	}
	s.updateLocked(r, err, apply)
	return err
}
