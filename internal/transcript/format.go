package transcript

import (
	"fmt"
	"strings"
)

// formatCues implements spec §4.4's formatting rule: interval=0
// concatenates cue texts with single spaces; interval>0 buckets cues by
// floor(start/interval)*interval and emits one [HH:MM:SS]-prefixed line
// per non-empty bucket, suppressing duplicate cue texts within a bucket.
func formatCues(cues []cue, intervalSeconds int) string {
	if intervalSeconds <= 0 {
		return formatConcatenated(cues)
	}
	return formatBucketed(cues, intervalSeconds)
}

func formatConcatenated(cues []cue) string {
	parts := make([]string, 0, len(cues))
	for _, c := range cues {
		parts = append(parts, c.Text)
	}
	joined := strings.Join(parts, " ")
	return strings.Join(strings.Fields(joined), " ")
}

func formatBucketed(cues []cue, intervalSeconds int) string {
	type bucket struct {
		boundary int64
		texts    []string
		seen     map[string]bool
	}

	order := make([]int64, 0)
	buckets := make(map[int64]*bucket)

	for _, c := range cues {
		boundary := (int64(c.StartSeconds) / int64(intervalSeconds)) * int64(intervalSeconds)
		b, ok := buckets[boundary]
		if !ok {
			b = &bucket{boundary: boundary, seen: make(map[string]bool)}
			buckets[boundary] = b
			order = append(order, boundary)
		}
		if b.seen[c.Text] {
			continue
		}
		b.seen[c.Text] = true
		b.texts = append(b.texts, c.Text)
	}

	sortInt64s(order)

	var lines []string
	for _, boundary := range order {
		b := buckets[boundary]
		if len(b.texts) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("[%s] %s", formatClock(boundary), strings.Join(b.texts, " ")))
	}
	return strings.Join(lines, "\n")
}

func formatClock(totalSeconds int64) string {
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	s := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func sortInt64s(s []int64) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
