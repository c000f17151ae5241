package digest

import (
	"strings"
	"testing"
	"time"

	"github.com/youtubingest/ingest/internal/domain"
)

func TestAssembleEmptySource(t *testing.T) {
	got := Assemble("Empty Channel", nil, true, true)
	want := "# Source: Empty Channel\n# Videos: 0\n"
	if got != want {
		t.Fatalf("Assemble() = %q, want %q", got, want)
	}
}

func TestAssembleOneVideoFullFields(t *testing.T) {
	published := time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC)
	videos := []domain.VideoRecord{
		{
			ID:               "abc123XYZ_0",
			Title:            "A Great Video",
			ChannelTitle:     "Some Channel",
			PublishedAt:      published,
			DurationSeconds:  75,
			Tags:             []string{"go", "testing"},
			DescriptionClean: "This is a clean description.",
			Transcript:       &domain.Transcript{Language: "en", FormattedText: "hello world"},
		},
	}

	got := Assemble("Some Channel", videos, true, true)

	want := "# Source: Some Channel\n# Videos: 1\n" +
		"\n=== [1] A Great Video (abc123XYZ_0) ===\n" +
		"URL: https://youtu.be/abc123XYZ_0\n" +
		"Channel: Some Channel\n" +
		"Published: 2024-03-15T12:30:00Z\n" +
		"Duration: 1:15\n" +
		"Tags: go, testing\n" +
		"\nDescription:\nThis is a clean description.\n" +
		"\nTranscript (en):\nhello world\n"

	if got != want {
		t.Fatalf("Assemble() =\n%q\nwant\n%q", got, want)
	}
}

func TestAssembleOmitsDescriptionAndTranscriptWhenExcluded(t *testing.T) {
	videos := []domain.VideoRecord{
		{
			ID:               "vid1",
			Title:            "Video",
			DescriptionClean: "should not appear",
			Transcript:       &domain.Transcript{Language: "en", FormattedText: "should not appear either"},
		},
	}

	got := Assemble("Source", videos, false, false)
	if strings.Contains(got, "should not appear") {
		t.Fatalf("expected excluded fields omitted, got %q", got)
	}
	if strings.Contains(got, "Description:") || strings.Contains(got, "Transcript") {
		t.Fatalf("expected no Description/Transcript headers, got %q", got)
	}
}

func TestFormatDurationHourBoundary(t *testing.T) {
	cases := []struct {
		seconds int64
		want    string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{65, "1:05"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3661, "1:01:01"},
	}
	for _, c := range cases {
		if got := formatDuration(c.seconds); got != c.want {
			t.Errorf("formatDuration(%d) = %q, want %q", c.seconds, got, c.want)
		}
	}
}

func TestFormatTagsNone(t *testing.T) {
	if got := formatTags(nil); got != "None" {
		t.Fatalf("formatTags(nil) = %q, want %q", got, "None")
	}
}
