package youtubeapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/youtubingest/ingest/internal/cache"
)

// newFakeClient wires a real *Client against an httptest server instead of
// the live YouTube Data API, so GetVideos/ListPlaylistVideoIDs/
// SearchVideoIDs/ResolveChannel exercise the generated youtube/v3 request
// plumbing end to end rather than just the pure helpers around it.
func newFakeClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	stores := Stores{
		ChannelResolution: cache.NewLRU(16),
		ChannelMetadata:   cache.NewLRU(16),
		PlaylistMetadata:  cache.NewLRU(16),
		VideoMetadata:     cache.NewLRU(16),
		PaginatedListing:  cache.NewLRU(16),
	}

	client, err := NewTestClient(context.Background(), stores, DefaultCacheTTLs(), zap.NewNop(),
		option.WithEndpoint(server.URL),
		option.WithHTTPClient(server.Client()),
		option.WithoutAuthentication(),
	)
	if err != nil {
		t.Fatalf("NewTestClient failed: %v", err)
	}
	return client
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestGetVideosFakeServer(t *testing.T) {
	client := newFakeClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "videos") {
			t.Fatalf("unexpected request path %q", r.URL.Path)
		}
		writeJSON(w, map[string]any{
			"items": []map[string]any{
				{
					"id": "abc123",
					"snippet": map[string]any{
						"title":                "A title",
						"description":          "A description",
						"channelId":            "UCchannel",
						"channelTitle":         "A Channel",
						"publishedAt":          "2024-05-01T00:00:00Z",
						"tags":                 []string{"tag1"},
						"liveBroadcastContent": "none",
					},
					"contentDetails": map[string]any{"duration": "PT1M30S"},
				},
			},
		})
	})

	videos, err := client.GetVideos(context.Background(), NewQuotaTracker(), []string{"abc123"})
	if err != nil {
		t.Fatalf("GetVideos returned error: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("expected 1 video, got %d", len(videos))
	}
	if videos[0].ID != "abc123" || videos[0].Title != "A title" || videos[0].DurationSeconds != 90 {
		t.Fatalf("unexpected video record: %+v", videos[0])
	}
}

func TestListPlaylistVideoIDsFakeServer(t *testing.T) {
	client := newFakeClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"items": []map[string]any{
				{
					"snippet": map[string]any{
						"publishedAt": "2024-05-01T00:00:00Z",
						"resourceId":  map[string]any{"videoId": "vid1"},
					},
				},
				{
					"snippet": map[string]any{
						"publishedAt": "2024-05-02T00:00:00Z",
						"resourceId":  map[string]any{"videoId": "vid2"},
					},
				},
			},
		})
	})

	ids, err := client.ListPlaylistVideoIDs(context.Background(), NewQuotaTracker(), "PLsomething", nil, nil, 10)
	if err != nil {
		t.Fatalf("ListPlaylistVideoIDs returned error: %v", err)
	}
	if len(ids) != 2 || ids[0] != "vid1" || ids[1] != "vid2" {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestSearchVideoIDsFakeServer(t *testing.T) {
	client := newFakeClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"items": []map[string]any{
				{"id": map[string]any{"videoId": "searched1"}},
			},
		})
	})

	ids, err := client.SearchVideoIDs(context.Background(), NewQuotaTracker(), "some query", nil, nil, 10)
	if err != nil {
		t.Fatalf("SearchVideoIDs returned error: %v", err)
	}
	if len(ids) != 1 || ids[0] != "searched1" {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestResolveChannelFakeServerDirectID(t *testing.T) {
	client := newFakeClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"items": []map[string]any{
				{
					"id":      "UCdirect",
					"snippet": map[string]any{"title": "Direct Channel"},
					"contentDetails": map[string]any{
						"relatedPlaylists": map[string]any{"uploads": "UUdirect"},
					},
				},
			},
		})
	})

	info, err := client.ResolveChannel(context.Background(), NewQuotaTracker(), "UCabcdefghijklmnopqrstuv", HintDirectID)
	if err != nil {
		t.Fatalf("ResolveChannel returned error: %v", err)
	}
	if info.ChannelID != "UCdirect" || info.UploadsPlaylistID != "UUdirect" {
		t.Fatalf("unexpected channel info: %+v", info)
	}
}

func TestGetVideosQuotaRecordedOnlyWhenRequestReachesServer(t *testing.T) {
	client := newFakeClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"items": []map[string]any{}})
	})

	tracker := NewQuotaTracker()
	if _, err := client.GetVideos(context.Background(), tracker, []string{"zzz"}); err != nil {
		t.Fatalf("GetVideos returned error: %v", err)
	}
	calls, quota := tracker.Snapshot()
	if calls != 1 || quota != Cost.List {
		t.Fatalf("expected exactly one recorded list call (quota=%d), got calls=%d quota=%d", Cost.List, calls, quota)
	}
}
