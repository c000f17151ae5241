package transcript

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/youtubingest/ingest/internal/cache"
	"github.com/youtubingest/ingest/internal/constants"
	"github.com/youtubingest/ingest/internal/domain"
)

// Source is the Transcript Source component (spec §4.4): one public
// Fetch operation backed by watch-page scraping, a positive/negative
// cache pair, and a per-host throttle.
type Source struct {
	httpClient *http.Client
	logger     *zap.Logger

	positive cache.Store
	negative cache.Store

	throttle *hostThrottle
}

// Stores bundles the two caches Source uses; the app container registers
// them with the Cache Registry.
type Stores struct {
	Positive cache.Store
	Negative cache.Store
}

func NewSource(stores Stores, concurrency int, minDelay time.Duration, logger *zap.Logger) *Source {
	return &Source{
		httpClient: &http.Client{Timeout: constants.Transcript.HTTPTimeout},
		logger:     logger,
		positive:   stores.Positive,
		negative:   stores.Negative,
		throttle:   newHostThrottle(concurrency, minDelay),
	}
}

// hostThrottle bounds concurrency and enforces a minimum delay between
// successive requests to the transcript backend (spec §4.4
// "Throttling"), grounded on the teacher's semaphore-channel pattern in
// internal/service/youtube.go's GetUpcomingStreams.
type hostThrottle struct {
	sem      chan struct{}
	mu       sync.Mutex
	lastCall time.Time
	minDelay time.Duration
}

func newHostThrottle(concurrency int, minDelay time.Duration) *hostThrottle {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &hostThrottle{sem: make(chan struct{}, concurrency), minDelay: minDelay}
}

func (t *hostThrottle) acquire(ctx context.Context) error {
	select {
	case t.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	t.mu.Lock()
	wait := t.minDelay - time.Since(t.lastCall)
	if wait < 0 {
		wait = 0
	}
	t.lastCall = time.Now().Add(wait)
	t.mu.Unlock()

	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			<-t.sem
			return ctx.Err()
		}
	}
	return nil
}

func (t *hostThrottle) release() { <-t.sem }

// Fetch returns the formatted transcript for videoID at the given
// interval, or nil if no usable transcript exists. Transcript failures
// never propagate as request-fatal errors (spec §7); the caller always
// receives (nil, nil) on a definitive "no transcript" outcome.
func (s *Source) Fetch(ctx context.Context, videoID string, intervalSeconds int, preferredLanguages []string) (*domain.Transcript, error) {
	langKey := strings.Join(preferredLanguages, ",")
	posKey := cache.Fingerprint("transcript", videoID, strconv.Itoa(intervalSeconds), langKey)
	if t, ok := cache.GetAs[domain.Transcript](s.positive, posKey); ok {
		return &t, nil
	}

	negKey := cache.Fingerprint("transcript-negative", videoID, langKey)
	if _, ok := s.negative.Get(negKey); ok {
		return nil, nil
	}

	if err := s.throttle.acquire(ctx); err != nil {
		return nil, err
	}
	tracks, err := listCaptionTracks(ctx, s.httpClient, videoID)
	if err != nil {
		// SPEC_FULL.md §D.2: exactly one immediate retry (no delay) on a
		// transport error, narrower than the API client's full backoff
		// policy (spec §9 flags this as worth reconsidering). A second
		// transport failure is left uncached by classifyAndCache.
		var tlErr *trackListError
		if asTrackListError(err, &tlErr) && tlErr.kind == classifyTransport {
			tracks, err = listCaptionTracks(ctx, s.httpClient, videoID)
		}
	}
	if err != nil {
		s.throttle.release()
		return s.classifyAndCache(negKey, err)
	}

	track, ok := selectTrack(tracks, preferredLanguages)
	if !ok {
		s.throttle.release()
		s.negative.Put(negKey, true, constants.CacheTTL.TranscriptNegative)
		return nil, nil
	}

	cues, err := fetchCues(ctx, s.httpClient, track.BaseURL)
	s.throttle.release()
	if err != nil {
		return s.classifyAndCache(negKey, err)
	}
	if len(cues) == 0 {
		s.negative.Put(negKey, true, constants.CacheTTL.TranscriptNegative)
		return nil, nil
	}

	transcript := domain.Transcript{
		Language:      track.LanguageCode,
		FormattedText: formatCues(cues, intervalSeconds),
	}
	s.positive.Put(posKey, transcript, constants.CacheTTL.TranscriptPositive)
	return &transcript, nil
}

// classifyAndCache distinguishes "no transcripts" and "disabled/region
// blocked" (both negative-cached, per spec §4.4) from a residual
// transport error (logged and not cached). Every outcome returns (nil,
// nil), so the caller sees transcript=null per spec §7.
func (s *Source) classifyAndCache(negKey string, err error) (*domain.Transcript, error) {
	var tlErr *trackListError
	if !asTrackListError(err, &tlErr) {
		s.logger.Warn("transcript fetch failed with unclassified error", zap.Error(err))
		return nil, nil
	}

	switch tlErr.kind {
	case classifyNoTranscripts, classifyDisabledOrRegionBlocked:
		s.negative.Put(negKey, true, constants.CacheTTL.TranscriptNegative)
		return nil, nil
	default:
		s.logger.Debug("transcript transport error, leaving uncached", zap.String("reason", tlErr.msg))
		return nil, nil
	}
}

func asTrackListError(err error, target **trackListError) bool {
	if tlErr, ok := err.(*trackListError); ok {
		*target = tlErr
		return true
	}
	return false
}
