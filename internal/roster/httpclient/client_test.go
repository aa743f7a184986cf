package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hooptrack/internal/domain"
	"hooptrack/internal/roster"
)

func TestGameInfoFetchAndMap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/games/g1" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key-123" {
			t.Fatalf("unexpected auth header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "g1",
			"team_id": "team-1",
			"opponent": "Crosstown",
			"date": "2026-01-10",
			"location": "home",
			"possession_model": "detailed",
			"roster": ["p1", "p2", "p3", "p4", "p5", "p6"]
		}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/", APIKey: "key-123"})

	info, err := c.GameInfo(context.Background(), "g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Model != domain.ModelDetailed || info.Location != domain.LocationHome {
		t.Fatalf("mapping failed: %+v", info)
	}
	if len(info.Roster) != 6 {
		t.Fatalf("expected 6 rostered players, got %d", len(info.Roster))
	}
}

func TestGameInfoNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	if _, err := c.GameInfo(context.Background(), "missing"); !errors.Is(err, roster.ErrGameUnknown) {
		t.Fatalf("expected ErrGameUnknown, got %v", err)
	}
}

func TestGameInfoUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	if _, err := c.GameInfo(context.Background(), "g1"); err == nil {
		t.Fatalf("expected error for 503 response")
	}
}

func TestGameInfoRejectsUnknownModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"id": "g1", "possession_model": "hybrid"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	if _, err := c.GameInfo(context.Background(), "g1"); err == nil {
		t.Fatalf("expected error for unknown possession model")
	}
}

func TestGameInfoDefaultsFillIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"roster": ["p1"]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	info, err := c.GameInfo(context.Background(), "g7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.GameID != "g7" {
		t.Fatalf("expected game ID backfill, got %q", info.GameID)
	}
	if info.Model != domain.ModelSimple || info.Location != domain.LocationHome {
		t.Fatalf("expected defaults, got %+v", info)
	}
}
