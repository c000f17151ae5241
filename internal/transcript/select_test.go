package transcript

import "testing"

func TestSelectTrackExactManualMatch(t *testing.T) {
	tracks := []captionTrack{
		{LanguageCode: "en-US", Kind: "asr"},
		{LanguageCode: "en", Kind: ""},
		{LanguageCode: "ja", Kind: ""},
	}
	got, ok := selectTrack(tracks, []string{"en"})
	if !ok || got.LanguageCode != "en" {
		t.Fatalf("expected manual en track, got %+v %v", got, ok)
	}
}

func TestSelectTrackRegionVariantTieBreak(t *testing.T) {
	tracks := []captionTrack{
		{LanguageCode: "en-GB", Kind: ""},
		{LanguageCode: "en-US", Kind: ""},
	}
	// No exact "en" or no-region "en" track exists; "any" group keeps API order.
	got, ok := selectTrack(tracks, []string{"en"})
	if !ok || got.LanguageCode != "en-GB" {
		t.Fatalf("expected first API-order candidate en-GB, got %+v %v", got, ok)
	}
}

func TestSelectTrackPrefersNoRegionOverRegionVariant(t *testing.T) {
	tracks := []captionTrack{
		{LanguageCode: "en-US", Kind: ""},
		{LanguageCode: "en", Kind: ""},
	}
	got, ok := selectTrack(tracks, []string{"en"})
	if !ok || got.LanguageCode != "en" {
		t.Fatalf("expected no-region track preferred, got %+v %v", got, ok)
	}
}

func TestSelectTrackFallsBackToAutoGenerated(t *testing.T) {
	tracks := []captionTrack{
		{LanguageCode: "en", Kind: "asr"},
	}
	got, ok := selectTrack(tracks, []string{"en"})
	if !ok || got.Kind != "asr" {
		t.Fatalf("expected auto-generated fallback, got %+v %v", got, ok)
	}
}

func TestSelectTrackFallsBackToAnyNonASRWhenNoPreferredLanguageMatches(t *testing.T) {
	tracks := []captionTrack{
		{LanguageCode: "ja", Kind: "asr"},
		{LanguageCode: "fr", Kind: ""},
	}
	got, ok := selectTrack(tracks, []string{"en"})
	if !ok || got.LanguageCode != "fr" {
		t.Fatalf("expected first non-asr track, got %+v %v", got, ok)
	}
}

func TestSelectTrackEmptyTracksList(t *testing.T) {
	if _, ok := selectTrack(nil, []string{"en"}); ok {
		t.Fatalf("expected false for empty track list")
	}
}

func TestPrimarySubtag(t *testing.T) {
	cases := map[string]string{
		"en":    "en",
		"en-US": "en",
		"EN-gb": "en",
		"ja":    "ja",
	}
	for in, want := range cases {
		if got := primarySubtag(in); got != want {
			t.Errorf("primarySubtag(%q) = %q, want %q", in, got, want)
		}
	}
}
