package state

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/magnetdb/magnetcli/internal/magnetdb"
)

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	s := NewStore(25)

	page := &magnetdb.Page[magnetdb.Magnet]{CurrentPage: 1, LastPage: 2, Total: 30, Items: []magnetdb.Magnet{{ID: 1}, {ID: 2}}}

	before := time.Now()
	s.UpdateMagnets(page, nil)

	snap := s.Snapshot()
	if len(snap.Magnets.Items) != 2 || snap.Magnets.Items[0].ID != 1 {
		t.Fatalf("snapshot magnets = %#v, want 2 items", snap.Magnets.Items)
	}
	if !snap.Loaded[Magnets] || snap.Loaded[Parts] {
		t.Fatalf("Loaded = %#v, want only magnets", snap.Loaded)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}
	if cur, last, total := snap.PageInfo(Magnets); cur != 1 || last != 2 || total != 30 {
		t.Fatalf("PageInfo = %d/%d/%d, want 1/2/30", cur, last, total)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Magnets.Items[0].ID = 999
	snap.Options[Magnets] = magnetdb.ListOptions{Query: "changed"}
	snap2 := s.Snapshot()
	if snap2.Magnets.Items[0].ID != 1 {
		t.Fatalf("Snapshot should clone items; got id %d want 1", snap2.Magnets.Items[0].ID)
	}
	if snap2.Options[Magnets].Query != "" {
		t.Fatalf("Snapshot should clone options; got %#v", snap2.Options[Magnets])
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	s := NewStore(25)

	s.UpdateSites(&magnetdb.Page[magnetdb.Site]{Items: []magnetdb.Site{{ID: 1}}}, nil)

	origErr := errors.New("boom")
	s.UpdateSites(nil, origErr)

	snap := s.Snapshot()
	if snap.Len(Sites) != 1 || snap.Sites.Items[0].ID != 1 {
		t.Fatalf("sites changed on error: got %#v", snap.Sites.Items)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	s := NewStore(25)

	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("fresh store should be online with 0 failures")
	}

	s.RecordError(errors.New("fail 1"))
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("after 1 failure: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.UpdateParts(nil, errors.New("fail 2"))
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 2 || !snap.IsOffline() {
		t.Fatalf("after 2 failures: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.UpdateParts(&magnetdb.Page[magnetdb.Part]{}, nil)
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("success should reset failures: got %d", snap.ConsecutiveFailures)
	}
}

func TestStore_OptionsAndActive(t *testing.T) {
	s := NewStore(10)

	if got := s.Active(); got != Magnets {
		t.Fatalf("Active = %q, want magnets", got)
	}
	if got := s.Options(Parts); got.Page != 1 || got.PerPage != 10 {
		t.Fatalf("default options = %#v, want page 1 per_page 10", got)
	}

	s.SetActive(Sites)
	s.SetOptions(Sites, magnetdb.ListOptions{Page: 3, Status: "defunct"})
	if s.Active() != Sites {
		t.Fatalf("Active = %q, want sites", s.Active())
	}
	if got := s.Options(Sites); got.Page != 3 || got.Status != "defunct" {
		t.Fatalf("Options(sites) = %#v", got)
	}
}

func TestResourceHelpers(t *testing.T) {
	if Magnets.Next() != Parts || Parts.Next() != Sites || Sites.Next() != Magnets {
		t.Fatalf("Next does not cycle magnets -> parts -> sites")
	}
	if Sites.Title() != "Sites" {
		t.Fatalf("Title = %q", Sites.Title())
	}
	if got := Sites.Statuses(); len(got) == 0 || got[0] != magnetdb.StatusScheduled {
		t.Fatalf("Sites.Statuses = %v", got)
	}
}

func TestStore_RefreshUsesStoredOptions(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/parts" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(magnetdb.Page[magnetdb.Part]{CurrentPage: 2, LastPage: 2, Items: []magnetdb.Part{{ID: 5, Name: "H5"}}})
	}))
	t.Cleanup(server.Close)

	client, err := magnetdb.NewClient(server.URL, magnetdb.Options{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	s := NewStore(25)
	s.SetOptions(Parts, magnetdb.ListOptions{Page: 2, Type: "helix"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	if err := s.Refresh(ctx, client, Parts); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	if gotQuery != "page=2&type=helix" {
		t.Fatalf("query = %q, want page=2&type=helix", gotQuery)
	}
	snap := s.Snapshot()
	if snap.Len(Parts) != 1 || snap.Parts.Items[0].Name != "H5" {
		t.Fatalf("parts = %#v", snap.Parts.Items)
	}

	if err := s.Refresh(ctx, client, Magnets); err == nil {
		t.Fatalf("Refresh(magnets) against missing route should fail")
	}
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 1 || snap.Len(Parts) != 1 {
		t.Fatalf("failed refresh should keep data and count a failure: %#v", snap)
	}
}

func TestStore_RefreshDropsPageFetchedWithOldOptions(t *testing.T) {
	s := NewStore(25)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		if page == "1" {
			// The user moves on while page 1 is still loading.
			s.SetOptions(Magnets, magnetdb.ListOptions{Page: 2, PerPage: 25})
		}
		_ = json.NewEncoder(w).Encode(magnetdb.Page[magnetdb.Magnet]{
			CurrentPage: 1, LastPage: 2,
			Items: []magnetdb.Magnet{{ID: 1, Name: "page " + page}},
		})
	}))
	t.Cleanup(server.Close)

	client, err := magnetdb.NewClient(server.URL, magnetdb.Options{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	if err := s.Refresh(ctx, client, Magnets); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if snap := s.Snapshot(); snap.Len(Magnets) != 0 || !snap.LastUpdated.IsZero() {
		t.Fatalf("page fetched with stale options should be dropped: %#v", snap.Magnets)
	}

	if err := s.Refresh(ctx, client, Magnets); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if snap := s.Snapshot(); snap.Len(Magnets) != 1 || snap.Magnets.Items[0].Name != "page 2" {
		t.Fatalf("magnets = %#v, want page 2", snap.Magnets.Items)
	}
}
