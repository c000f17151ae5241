// Package constants holds the ingestion core's tunable defaults, grouped the
// way the teacher's internal/constants package groups its own (one exported
// anonymous-struct var per concern).
package constants

import "time"

var Quota = struct {
	SearchCost   int
	ListCost     int // channels.list, playlists.list, playlistItems.list, videos.list
	CaptionsCost int
	DailyLimit   int
	SafetyMargin int
}{
	SearchCost:   100,
	ListCost:     1,
	CaptionsCost: 50,
	DailyLimit:   10000,
	SafetyMargin: 200,
}

var Engine = struct {
	MaxVideosPerRequest   int
	MetadataBatchSize     int
	TranscriptConcurrency int
	EngineConcurrency     int
	RequestDeadline       time.Duration
	MinDurationSeconds    int64
}{
	MaxVideosPerRequest:   200,
	MetadataBatchSize:     50,
	TranscriptConcurrency: 4,
	EngineConcurrency:     8,
	RequestDeadline:       120 * time.Second,
	MinDurationSeconds:    0,
}

var CacheTTL = struct {
	ChannelResolution  time.Duration
	ChannelMetadata    time.Duration
	PlaylistMetadata   time.Duration
	VideoMetadata      time.Duration
	PaginatedListing   time.Duration
	TranscriptPositive time.Duration
	TranscriptNegative time.Duration
	TokenCount         time.Duration
}{
	ChannelResolution:  30 * time.Minute,
	ChannelMetadata:    20 * time.Minute,
	PlaylistMetadata:   20 * time.Minute,
	VideoMetadata:      10 * time.Minute,
	PaginatedListing:   5 * time.Minute,
	TranscriptPositive: 6 * time.Hour,
	TranscriptNegative: 24 * time.Hour,
	TokenCount:         1 * time.Hour,
}

var CacheCapacity = struct {
	ChannelResolution  int
	ChannelMetadata    int
	PlaylistMetadata   int
	VideoMetadata      int
	PaginatedListing   int
	TranscriptPositive int
	TranscriptNegative int
	TokenCount         int
}{
	ChannelResolution:  1024,
	ChannelMetadata:    1024,
	PlaylistMetadata:   1024,
	VideoMetadata:      1024,
	PaginatedListing:   1024,
	TranscriptPositive: 1024,
	TranscriptNegative: 1024,
	TokenCount:         1024,
}

var RetryConfig = struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      time.Duration
}{
	MaxAttempts: 4,
	BaseDelay:   300 * time.Millisecond,
	MaxDelay:    8 * time.Second,
	Jitter:      250 * time.Millisecond,
}

var CircuitBreakerConfig = struct {
	FailureThreshold      int
	TransientResetTimeout time.Duration
	QuotaResetTimeout     time.Duration
	HealthCheckInterval   time.Duration
}{
	FailureThreshold:      3,
	TransientResetTimeout: 30 * time.Second,
	QuotaResetTimeout:     1 * time.Hour,
	HealthCheckInterval:   10 * time.Minute,
}

var Transcript = struct {
	PerHostMinDelay time.Duration
	HTTPTimeout     time.Duration
}{
	PerHostMinDelay: 150 * time.Millisecond,
	HTTPTimeout:     15 * time.Second,
}

var Memory = struct {
	SampleInterval    time.Duration
	HighWaterFraction float64
	DefaultSoftCapMB  int64
}{
	SampleInterval:    30 * time.Second,
	HighWaterFraction: 0.75,
	DefaultSoftCapMB:  512,
}
