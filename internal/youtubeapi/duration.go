package youtubeapi

import (
	"regexp"
	"strconv"
)

var iso8601DurationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// parseISO8601Duration converts videos.list's contentDetails.duration
// (e.g. "PT1H2M10S") into total seconds. An unrecognized format yields 0
// rather than failing the whole video record.
func parseISO8601Duration(s string) int64 {
	m := iso8601DurationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	var total int64
	if m[1] != "" {
		h, _ := strconv.ParseInt(m[1], 10, 64)
		total += h * 3600
	}
	if m[2] != "" {
		mins, _ := strconv.ParseInt(m[2], 10, 64)
		total += mins * 60
	}
	if m[3] != "" {
		s, _ := strconv.ParseInt(m[3], 10, 64)
		total += s
	}
	return total
}
