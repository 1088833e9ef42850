package googlebooks

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vadimtrunov/PickSomething/internal/metadata/cache"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, store cache.Store) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(Config{APIKey: "books-key", BaseURL: server.URL}, nil, store, logger)
}

func TestSearchVolumes(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/volumes" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "asimov robots" {
			t.Errorf("q = %q", q.Get("q"))
		}
		if q.Get("key") != "books-key" {
			t.Errorf("key = %q", q.Get("key"))
		}
		if q.Get("maxResults") != "40" {
			t.Errorf("maxResults = %q, want 40", q.Get("maxResults"))
		}
		w.Write([]byte(`{"kind":"books#volumes","totalItems":1,"items":[
			{"id":"abc","volumeInfo":{"title":"Foundation","authors":["Isaac Asimov"],
			"imageLinks":{"thumbnail":"http://books.google.com/x.jpg"},"publishedDate":"1951",
			"infoLink":"https://books.example/abc"}}]}`))
	}, nil)

	volumes, err := client.SearchVolumes(context.Background(), "asimov robots", MaxResults)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(volumes) != 1 {
		t.Fatalf("expected 1 volume, got %d", len(volumes))
	}
	v := volumes[0]
	if v.ID != "abc" || v.VolumeInfo.Title != "Foundation" {
		t.Errorf("unexpected volume: %+v", v)
	}
	if v.VolumeInfo.ImageLinks == nil || v.VolumeInfo.ImageLinks.Thumbnail != "http://books.google.com/x.jpg" {
		t.Errorf("unexpected image links: %+v", v.VolumeInfo.ImageLinks)
	}
}

func TestSearchVolumes_NoItems(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"kind":"books#volumes","totalItems":0}`))
	}, nil)

	volumes, err := client.SearchVolumes(context.Background(), "zzzz", MaxResults)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if volumes == nil || len(volumes) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", volumes)
	}
}

func TestSearchVolumes_ClampsMaxResults(t *testing.T) {
	t.Parallel()
	var got []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.URL.Query().Get("maxResults"))
		w.Write([]byte(`{}`))
	}, nil)

	for _, n := range []int{0, 500} {
		if _, err := client.SearchVolumes(context.Background(), "x", n); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(got) != 2 || got[0] != "1" || got[1] != "40" {
		t.Errorf("maxResults sent = %v, want [1 40]", got)
	}
}

func TestSearchVolumes_APIError(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"message":"API key not valid"}}`))
	}, nil)

	if _, err := client.SearchVolumes(context.Background(), "x", MaxResults); err == nil {
		t.Fatal("expected error for 403")
	}
}

func TestSearchVolumes_Cached(t *testing.T) {
	t.Parallel()
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Write([]byte(`{"items":[{"id":"1","volumeInfo":{"title":"T"}}]}`))
	}, cache.NewMemory(time.Minute))

	for range 3 {
		if _, err := client.SearchVolumes(context.Background(), "t", MaxResults); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}
