package transcript

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCleanCueTextStripsTagsAndEntities(t *testing.T) {
	got := cleanCueText("<i>Hello &amp; welcome</i>   to   the   show")
	want := "Hello & welcome to the show"
	if got != want {
		t.Fatalf("cleanCueText() = %q, want %q", got, want)
	}
}

func TestFetchCuesParsesTimedText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(`<?xml version="1.0" encoding="utf-8" ?><transcript><text start="0" dur="2.5">Hello there</text><text start="2.5" dur="3">General Kenobi</text></transcript>`))
	}))
	defer srv.Close()

	cues, err := fetchCues(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[0].Text != "Hello there" || cues[1].Text != "General Kenobi" {
		t.Fatalf("unexpected cue texts: %+v", cues)
	}
}

func TestFetchCuesEmptyDocumentClassifiesNoTranscripts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?><transcript></transcript>`))
	}))
	defer srv.Close()

	_, err := fetchCues(context.Background(), srv.Client(), srv.URL)
	var tlErr *trackListError
	if !asTrackListError(err, &tlErr) || tlErr.kind != classifyNoTranscripts {
		t.Fatalf("expected classifyNoTranscripts, got %v", err)
	}
}

func TestFetchCuesServerErrorClassifiesTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := fetchCues(context.Background(), srv.Client(), srv.URL)
	var tlErr *trackListError
	if !asTrackListError(err, &tlErr) || tlErr.kind != classifyTransport {
		t.Fatalf("expected classifyTransport, got %v", err)
	}
}
