// Package youtubeapi implements the YouTube API Client component (spec
// §4.3): resolve_channel, get_channel_metadata, get_playlist_metadata,
// list_playlist_video_ids, search_video_ids, get_videos, each retried and
// circuit-broken, each memoized in a bounded cache. Grounded on the
// teacher's internal/service/youtube.go (google.golang.org/api/youtube/v3
// client construction, googleapi.Error status inspection) and
// internal/service/holodex_api_client.go (the retry/circuit-breaker
// wiring, generalized from a hand-rolled HTTP loop to
// internal/util.Retry + internal/util.CircuitBreaker).
package youtubeapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/youtubingest/ingest/internal/cache"
	"github.com/youtubingest/ingest/internal/constants"
	"github.com/youtubingest/ingest/internal/util"
	ingesterrors "github.com/youtubingest/ingest/pkg/ingesterrors"
)

// CacheTTLs lets the container override the constants package's defaults
// in tests without touching package-level state.
type CacheTTLs struct {
	ChannelResolution time.Duration
	ChannelMetadata   time.Duration
	PlaylistMetadata  time.Duration
	VideoMetadata     time.Duration
	PaginatedListing  time.Duration
}

func DefaultCacheTTLs() CacheTTLs {
	return CacheTTLs{
		ChannelResolution: constants.CacheTTL.ChannelResolution,
		ChannelMetadata:   constants.CacheTTL.ChannelMetadata,
		PlaylistMetadata:  constants.CacheTTL.PlaylistMetadata,
		VideoMetadata:     constants.CacheTTL.VideoMetadata,
		PaginatedListing:  constants.CacheTTL.PaginatedListing,
	}
}

// Client wraps google.golang.org/api/youtube/v3 with the caching, quota
// accounting, retry, and circuit-breaking behavior spec §4.3 demands.
type Client struct {
	svc    *youtube.Service
	logger *zap.Logger

	breaker *util.CircuitBreaker

	channelResolution cache.Store
	channelMeta       cache.Store
	playlistMeta      cache.Store
	videoMeta         cache.Store
	paginated         cache.Store

	cacheTTLs CacheTTLs
}

// Stores bundles the five named caches the client uses (spec §4.3
// "Caching"); the app container registers them with the Cache Registry.
type Stores struct {
	ChannelResolution cache.Store
	ChannelMetadata   cache.Store
	PlaylistMetadata  cache.Store
	VideoMetadata     cache.Store
	PaginatedListing  cache.Store
}

func NewClient(ctx context.Context, apiKey string, stores Stores, ttls CacheTTLs, logger *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, ingesterrors.NewAPIConfigError("YOUTUBE_API_KEY is required", nil)
	}
	return newClient(ctx, stores, ttls, logger, option.WithAPIKey(apiKey))
}

// NewTestClient builds a Client whose underlying youtube/v3 service talks
// to whatever opts point it at (an httptest.Server's URL via
// option.WithEndpoint/option.WithHTTPClient, typically), bypassing the
// API-key requirement. Exported for other packages' tests that need a
// real Client wired to a fake server rather than a hand-rolled double.
func NewTestClient(ctx context.Context, stores Stores, ttls CacheTTLs, logger *zap.Logger, opts ...option.ClientOption) (*Client, error) {
	return newClient(ctx, stores, ttls, logger, opts...)
}

func newClient(ctx context.Context, stores Stores, ttls CacheTTLs, logger *zap.Logger, opts ...option.ClientOption) (*Client, error) {
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, ingesterrors.NewAPIConfigError("failed to construct youtube client", map[string]any{"cause": err.Error()})
	}

	breaker := util.NewCircuitBreaker(
		constants.CircuitBreakerConfig.FailureThreshold,
		constants.CircuitBreakerConfig.TransientResetTimeout,
		constants.CircuitBreakerConfig.HealthCheckInterval,
		nil,
		logger,
	)

	return &Client{
		svc:               svc,
		logger:            logger,
		breaker:           breaker,
		channelResolution: stores.ChannelResolution,
		channelMeta:       stores.ChannelMetadata,
		playlistMeta:      stores.PlaylistMetadata,
		videoMeta:         stores.VideoMetadata,
		paginated:         stores.PaginatedListing,
		cacheTTLs:         ttls,
	}, nil
}

// GetChannelMetadata returns title and uploads-playlist ID for channelID,
// consulting the channel metadata cache first.
func (c *Client) GetChannelMetadata(ctx context.Context, tracker *QuotaTracker, channelID string) (ChannelInfo, error) {
	key := "meta:" + channelID
	if info, ok := cacheGetAsInfo(c.channelMeta, key); ok {
		return info, nil
	}

	info, err := c.channelByID(ctx, tracker, channelID)
	if err != nil {
		return ChannelInfo{}, err
	}
	c.channelMeta.Put(key, info, c.cacheTTLs.ChannelMetadata)
	return info, nil
}

// GetPlaylistMetadata returns the playlist's title.
func (c *Client) GetPlaylistMetadata(ctx context.Context, tracker *QuotaTracker, playlistID string) (PlaylistInfo, error) {
	key := "playlist:" + playlistID
	if info, ok := cache.GetAs[PlaylistInfo](c.playlistMeta, key); ok {
		return info, nil
	}

	call := c.svc.Playlists.List([]string{"snippet"}).Id(playlistID).Context(ctx)
	var resp *youtube.PlaylistListResponse
	reached, err := c.withBreakerAndRetry(ctx, "playlists.list", func() error {
		r, doErr := call.Do()
		if doErr != nil {
			return classifyAPIError(doErr)
		}
		resp = r
		return nil
	})
	if reached {
		tracker.record(Cost.List)
	}
	if err != nil {
		return PlaylistInfo{}, err
	}
	if resp == nil || len(resp.Items) == 0 {
		return PlaylistInfo{}, ingesterrors.NewResourceNotFound("playlist not found", map[string]any{"playlist_id": playlistID})
	}

	info := PlaylistInfo{Title: resp.Items[0].Snippet.Title}
	c.playlistMeta.Put(key, info, c.cacheTTLs.PlaylistMetadata)
	return info, nil
}

// ListPlaylistVideoIDs pages playlistItems.list in natural (upload) order,
// filtering by publish date in memory since the endpoint accepts no date
// filter (spec §4.3 "Date filtering"). It stops paging once max_items IDs
// are collected or the source signals reverse-chronological items older
// than startDate.
func (c *Client) ListPlaylistVideoIDs(ctx context.Context, tracker *QuotaTracker, playlistID string, startDate, endDate *time.Time, maxItems int) ([]string, error) {
	var ids []string
	pageToken := ""
	sawNewerThanEnd := false

	for len(ids) < maxItems {
		cacheKey := cache.Fingerprint("playlistItems.list", playlistID, pageToken)
		var page *youtube.PlaylistItemListResponse
		if cached, ok := cache.GetAs[*youtube.PlaylistItemListResponse](c.paginated, cacheKey); ok {
			page = cached
		} else {
			call := c.svc.PlaylistItems.List([]string{"snippet"}).PlaylistId(playlistID).MaxResults(50).Context(ctx)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}
			var resp *youtube.PlaylistItemListResponse
			reached, err := c.withBreakerAndRetry(ctx, "playlistItems.list", func() error {
				r, doErr := call.Do()
				if doErr != nil {
					return classifyAPIError(doErr)
				}
				resp = r
				return nil
			})
			if reached {
				tracker.record(Cost.List)
			}
			if err != nil {
				return ids, err
			}
			page = resp
			c.paginated.Put(cacheKey, page, c.cacheTTLs.PaginatedListing)
		}

		stop := false
		for _, item := range page.Items {
			if item.Snippet == nil || item.Snippet.ResourceId == nil {
				continue
			}
			publishedAt, perr := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
			if perr == nil {
				if endDate != nil && publishedAt.After(*endDate) {
					sawNewerThanEnd = true
					continue
				}
				if startDate != nil && publishedAt.Before(*startDate) {
					if sawNewerThanEnd {
						stop = true
						break
					}
					continue
				}
			}
			ids = append(ids, item.Snippet.ResourceId.VideoId)
			if len(ids) >= maxItems {
				break
			}
		}

		if stop || len(ids) >= maxItems || page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	return ids, nil
}

// SearchVideoIDs uses search.list to find videos matching query, paging
// until maxItems IDs are collected.
func (c *Client) SearchVideoIDs(ctx context.Context, tracker *QuotaTracker, query string, startDate, endDate *time.Time, maxItems int) ([]string, error) {
	var ids []string
	pageToken := ""

	for len(ids) < maxItems {
		cacheKey := cache.Fingerprint("search.list", query, pageToken, dateKey(startDate), dateKey(endDate))
		var page *youtube.SearchListResponse
		if cached, ok := cache.GetAs[*youtube.SearchListResponse](c.paginated, cacheKey); ok {
			page = cached
		} else {
			call := c.svc.Search.List([]string{"snippet"}).Q(query).Type("video").Order("date").MaxResults(50).Context(ctx)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}
			if startDate != nil {
				call = call.PublishedAfter(startDate.UTC().Format(time.RFC3339))
			}
			if endDate != nil {
				call = call.PublishedBefore(endDate.UTC().Format(time.RFC3339))
			}

			var resp *youtube.SearchListResponse
			reached, err := c.withBreakerAndRetry(ctx, "search.list", func() error {
				r, doErr := call.Do()
				if doErr != nil {
					return classifyAPIError(doErr)
				}
				resp = r
				return nil
			})
			if reached {
				tracker.record(Cost.Search)
			}
			if err != nil {
				return ids, err
			}
			page = resp
			c.paginated.Put(cacheKey, page, c.cacheTTLs.PaginatedListing)
		}

		for _, item := range page.Items {
			if item.Id == nil || item.Id.VideoId == "" {
				continue
			}
			ids = append(ids, item.Id.VideoId)
			if len(ids) >= maxItems {
				break
			}
		}

		if len(ids) >= maxItems || page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	return ids, nil
}

// GetVideos fetches full video records for videoIDs, batched in groups of
// at most 50 per videos.list call (spec §4.3). Results preserve the input
// order.
func (c *Client) GetVideos(ctx context.Context, tracker *QuotaTracker, videoIDs []string) ([]RawVideo, error) {
	const batchSize = 50
	byID := make(map[string]RawVideo, len(videoIDs))

	for i := 0; i < len(videoIDs); i += batchSize {
		end := i + batchSize
		if end > len(videoIDs) {
			end = len(videoIDs)
		}
		batch := videoIDs[i:end]

		cacheKey := cache.Fingerprint("videos.list", batch...)
		var videos []RawVideo
		if cached, ok := cache.GetAs[[]RawVideo](c.videoMeta, cacheKey); ok {
			videos = cached
		} else {
			call := c.svc.Videos.List([]string{"snippet", "contentDetails", "liveStreamingDetails"}).Id(batch...).Context(ctx)
			var resp *youtube.VideoListResponse
			reached, err := c.withBreakerAndRetry(ctx, "videos.list", func() error {
				r, doErr := call.Do()
				if doErr != nil {
					return classifyAPIError(doErr)
				}
				resp = r
				return nil
			})
			if reached {
				tracker.record(Cost.List)
			}
			if err != nil {
				return nil, err
			}
			videos = make([]RawVideo, 0, len(resp.Items))
			for _, v := range resp.Items {
				videos = append(videos, convertVideo(v))
			}
			c.videoMeta.Put(cacheKey, videos, c.cacheTTLs.VideoMetadata)
		}

		for _, v := range videos {
			byID[v.ID] = v
		}
	}

	ordered := make([]RawVideo, 0, len(videoIDs))
	for _, id := range videoIDs {
		if v, ok := byID[id]; ok {
			ordered = append(ordered, v)
		}
	}
	return ordered, nil
}

func convertVideo(v *youtube.Video) RawVideo {
	rv := RawVideo{ID: v.Id}
	if v.Snippet != nil {
		rv.Title = v.Snippet.Title
		rv.Description = v.Snippet.Description
		rv.ChannelID = v.Snippet.ChannelId
		rv.ChannelTitle = v.Snippet.ChannelTitle
		rv.PublishedAt = v.Snippet.PublishedAt
		rv.Tags = v.Snippet.Tags
		if v.Snippet.LiveBroadcastContent != "" && v.Snippet.LiveBroadcastContent != "none" {
			rv.LiveBroadcast = v.Snippet.LiveBroadcastContent
		}
	}
	if v.ContentDetails != nil {
		rv.DurationSeconds = parseISO8601Duration(v.ContentDetails.Duration)
	}
	return rv
}

func dateKey(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

// withBreakerAndRetry fails fast when the breaker is open, otherwise
// retries fn per spec §4.3 ("Retries and circuit breaker"): transient
// errors are retried with backoff, authoritative errors propagate
// unchanged and record the appropriate breaker failure/cooldown. The
// returned reached flag tells the caller whether fn ever ran, so a
// fast-fail never counts toward quota statistics (spec §5, §8: calls that
// never reach the network must not be billed against the request's quota).
func (c *Client) withBreakerAndRetry(ctx context.Context, op string, fn func() error) (reached bool, err error) {
	if !c.breaker.CanExecute() {
		return false, ingesterrors.NewQuotaExceeded("circuit breaker open", time.Now().Add(constants.CircuitBreakerConfig.QuotaResetTimeout), map[string]any{"op": op})
	}

	err = util.Retry(ctx,
		constants.RetryConfig.MaxAttempts,
		constants.RetryConfig.BaseDelay,
		constants.RetryConfig.MaxDelay,
		constants.RetryConfig.Jitter,
		isRetryable,
		fn,
	)

	switch {
	case err == nil:
		c.breaker.RecordSuccess()
	case ingesterrors.Is(err, ingesterrors.CodeQuotaExceeded):
		c.breaker.RecordFailure(constants.CircuitBreakerConfig.QuotaResetTimeout)
	case ingesterrors.Is(err, ingesterrors.CodeServiceUnavailable):
		c.breaker.RecordFailure(constants.CircuitBreakerConfig.TransientResetTimeout)
	}

	return true, err
}

func isRetryable(err error) bool {
	return ingesterrors.Is(err, ingesterrors.CodeServiceUnavailable)
}

// classifyAPIError maps a googleapi.Error (or network error) into the
// spec §7 taxonomy: 403 quota → QuotaExceeded, 400/404 → authoritative
// (InvalidInput/ResourceNotFound), 5xx/transport → ServiceUnavailable.
func classifyAPIError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 403 && isQuotaError(apiErr):
			return ingesterrors.NewQuotaExceeded(apiErr.Message, nextMidnightPacific(), map[string]any{"status": apiErr.Code})
		case apiErr.Code == 404:
			return ingesterrors.NewResourceNotFound(apiErr.Message, map[string]any{"status": apiErr.Code})
		case apiErr.Code == 400:
			return ingesterrors.NewInvalidInput(apiErr.Message, map[string]any{"status": apiErr.Code})
		case apiErr.Code >= 500:
			return ingesterrors.NewServiceUnavailable(apiErr.Message, constants.CircuitBreakerConfig.TransientResetTimeout, map[string]any{"status": apiErr.Code})
		default:
			return ingesterrors.NewInternal("unexpected youtube api error", err, map[string]any{"status": apiErr.Code})
		}
	}

	return ingesterrors.NewServiceUnavailable(fmt.Sprintf("transport error: %v", err), constants.CircuitBreakerConfig.TransientResetTimeout, nil)
}

func isQuotaError(apiErr *googleapi.Error) bool {
	for _, e := range apiErr.Errors {
		if e.Reason == "quotaExceeded" || e.Reason == "dailyLimitExceeded" || e.Reason == "rateLimitExceeded" {
			return true
		}
	}
	return false
}

func nextMidnightPacific() time.Time {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		return time.Now().Add(24 * time.Hour)
	}
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, loc)
}
