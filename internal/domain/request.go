package domain

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// AllowedIntervals are the only legal transcript_interval_seconds values.
var AllowedIntervals = [5]int{0, 10, 20, 30, 60}

// IngestRequest is the validated input to the ingestion core (spec §3, §6).
type IngestRequest struct {
	URLOrQuery                string
	IncludeTranscript         bool
	IncludeDescription        bool
	TranscriptIntervalSeconds int
	StartDate                 *time.Time // UTC, day granularity
	EndDate                   *time.Time // UTC, day granularity
}

// Fingerprint returns a stable string identifying this request's semantic
// content, used as the key of the engine's in-flight deduplication (§4.5).
// Two requests with the same fingerprint must produce the same result.
func (r IngestRequest) Fingerprint() string {
	start := "-"
	if r.StartDate != nil {
		start = r.StartDate.Format("2006-01-02")
	}
	end := "-"
	if r.EndDate != nil {
		end = r.EndDate.Format("2006-01-02")
	}
	return fmt.Sprintf("%s|t=%v|d=%v|i=%d|s=%s|e=%s",
		r.URLOrQuery, r.IncludeTranscript, r.IncludeDescription,
		r.TranscriptIntervalSeconds, start, end)
}

// Validate checks the structural invariants spec §3/§7 assign to InvalidInput.
func (r IngestRequest) Validate() error {
	if len(r.URLOrQuery) == 0 {
		return fmt.Errorf("url_or_query must not be empty")
	}
	if utf8.RuneCountInString(r.URLOrQuery) > 2000 {
		return fmt.Errorf("url_or_query exceeds 2000 characters")
	}

	validInterval := false
	for _, v := range AllowedIntervals {
		if r.TranscriptIntervalSeconds == v {
			validInterval = true
			break
		}
	}
	if !validInterval {
		return fmt.Errorf("transcript_interval_seconds %d is not one of %v", r.TranscriptIntervalSeconds, AllowedIntervals)
	}

	if r.StartDate != nil && r.EndDate != nil && r.StartDate.After(*r.EndDate) {
		return fmt.Errorf("start_date %s is after end_date %s", r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02"))
	}

	return nil
}
