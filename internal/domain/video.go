package domain

import "time"

// Transcript is the formatted, cached result of the Transcript Source (§4.4).
type Transcript struct {
	Language      string
	FormattedText string
}

// VideoRecord is one video's worth of ingested data (spec §3).
type VideoRecord struct {
	ID                string
	Title             string
	DescriptionRaw    string
	DescriptionClean  string
	ChannelID         string
	ChannelTitle      string
	PublishedAt       time.Time
	DurationSeconds   int64
	Tags              []string
	Transcript        *Transcript
	OriginIndex       int
	LiveBroadcast     string // "none" | "live" | "upcoming" | "completed"
}

// IsLiveOrUpcoming reports whether this video should be dropped per the
// live-stream policy in spec §4.5 step 4.
func (v VideoRecord) IsLiveOrUpcoming() bool {
	return v.LiveBroadcast == "live" || v.LiveBroadcast == "upcoming"
}
