// Package digest implements digest assembly (spec §4.6): a pure function
// of a source display name, its videos, and the request's include
// flags (transcripts arrive already formatted for the interval). Grounded on the teacher's prompt builders
// (internal/prompt package) for the "build one string block per item,
// join with blank lines" shape, generalized to the digest's fixed
// line-based format.
package digest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/youtubingest/ingest/internal/domain"
)

// Assemble builds the digest document for sourceName over videos,
// honoring includeDescription/includeTranscript. The result always ends
// in exactly one trailing newline.
func Assemble(sourceName string, videos []domain.VideoRecord, includeDescription, includeTranscript bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Source: %s\n", sourceName)
	fmt.Fprintf(&b, "# Videos: %d\n", len(videos))

	for i, v := range videos {
		b.WriteByte('\n')
		writeBlock(&b, i+1, v, includeDescription, includeTranscript)
	}

	return b.String()
}

func writeBlock(b *strings.Builder, index int, v domain.VideoRecord, includeDescription, includeTranscript bool) {
	fmt.Fprintf(b, "=== [%d] %s (%s) ===\n", index, v.Title, v.ID)
	fmt.Fprintf(b, "URL: https://youtu.be/%s\n", v.ID)
	fmt.Fprintf(b, "Channel: %s\n", v.ChannelTitle)
	fmt.Fprintf(b, "Published: %s\n", v.PublishedAt.UTC().Format("2006-01-02T15:04:05Z"))
	fmt.Fprintf(b, "Duration: %s\n", formatDuration(v.DurationSeconds))
	fmt.Fprintf(b, "Tags: %s\n", formatTags(v.Tags))

	if includeDescription && v.DescriptionClean != "" {
		b.WriteByte('\n')
		b.WriteString("Description:\n")
		b.WriteString(v.DescriptionClean)
		b.WriteByte('\n')
	}

	if includeTranscript && v.Transcript != nil && v.Transcript.FormattedText != "" {
		b.WriteByte('\n')
		fmt.Fprintf(b, "Transcript (%s):\n", v.Transcript.Language)
		b.WriteString(v.Transcript.FormattedText)
		b.WriteByte('\n')
	}
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return "None"
	}
	return strings.Join(tags, ", ")
}

// formatDuration renders H:MM:SS when the duration reaches an hour,
// otherwise M:SS.
func formatDuration(totalSeconds int64) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	s := totalSeconds % 60

	if h > 0 {
		return strconv.FormatInt(h, 10) + ":" + pad2(m) + ":" + pad2(s)
	}
	return strconv.FormatInt(m, 10) + ":" + pad2(s)
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
