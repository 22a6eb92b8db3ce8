package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magnetdb/magnetcli/internal/logging"
	"github.com/magnetdb/magnetcli/internal/magnetdb"
	"github.com/magnetdb/magnetcli/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	base := 10 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 10 * time.Second},
		{"negative failures", -1, 10 * time.Second},
		{"one failure", 1, 20 * time.Second},
		{"two failures", 2, 40 * time.Second},
		{"three failures", 3, 80 * time.Second},
		{"four failures capped", 4, maxBackoff}, // Would be 160s
		{"many failures capped", 100, maxBackoff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calculateBackoff(tt.failures, base))
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	for failures := 0; failures <= 70; failures++ {
		got := calculateBackoff(failures, 2*time.Second)
		require.LessOrEqual(t, got, maxBackoff, "failures=%d", failures)
		require.Greater(t, got, time.Duration(0), "failures=%d", failures)
	}
}

func TestStartPollerRefreshesActiveResource(t *testing.T) {
	var sitesCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/sites" {
			atomic.AddInt32(&sitesCalls, 1)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"current_page": 1, "last_page": 1, "total": 1,
			"items": []map[string]any{{"id": 1, "name": "M10"}},
		})
	}))
	t.Cleanup(server.Close)

	client, err := magnetdb.NewClient(server.URL, magnetdb.Options{Logger: logging.Discard()})
	require.NoError(t, err)

	store := state.NewStore(25)
	store.SetActive(state.Sites)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	StartPoller(ctx, store, client, logging.Discard(), 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return store.Snapshot().Loaded[state.Sites]
	}, 2*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&sitesCalls), int32(1))
	assert.Equal(t, "M10", store.Snapshot().Sites.Items[0].Name)
}
