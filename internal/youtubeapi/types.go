package youtubeapi

// ChannelInfo is the resolved identity and uploads-playlist pointer for a
// channel (spec §4.3 resolve_channel / get_channel_metadata).
type ChannelInfo struct {
	ChannelID         string
	UploadsPlaylistID string
	Title             string
}

// PlaylistInfo is playlist metadata (spec §4.3 get_playlist_metadata).
type PlaylistInfo struct {
	Title string
}

// RawVideo is the subset of videos.list fields the engine needs to build a
// domain.VideoRecord, kept separate from google.golang.org/api/youtube/v3's
// wire type so cached copies survive a Redis JSON round trip cleanly.
type RawVideo struct {
	ID              string
	Title           string
	Description     string
	ChannelID       string
	ChannelTitle    string
	PublishedAt     string // RFC 3339, as returned by the API
	DurationSeconds int64
	Tags            []string
	LiveBroadcast   string // "live" or "upcoming"; empty when the API reports "none"
}

// notFoundSentinel marks a negative channel-resolution cache entry so a
// definitive not-found short-circuits future lookups for the same input
// (spec §4.3 "records a negative cache entry on definitive not-found").
type notFoundSentinel struct {
	Raw string
}
