package engine

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/youtubingest/ingest/internal/digest"
	"github.com/youtubingest/ingest/internal/domain"
	"github.com/youtubingest/ingest/internal/normalize"
	"github.com/youtubingest/ingest/internal/token"
	"github.com/youtubingest/ingest/internal/transcript"
	"github.com/youtubingest/ingest/internal/util"
	"github.com/youtubingest/ingest/internal/youtubeapi"
	ingesterrors "github.com/youtubingest/ingest/pkg/ingesterrors"
)

// Config holds the engine's tunables (spec §6 environment inputs).
type Config struct {
	MaxVideosPerRequest int
	EngineConcurrency   int
	RequestDeadline     time.Duration
	PreferredLanguages  []string
	MinDurationSeconds  int64
}

// Engine is the Ingestion Engine component (spec §4.5): one operation,
// ingest(IngestRequest) -> IngestResult, built from the YouTube API
// Client, Transcript Source, and Token Counter.
type Engine struct {
	client      *youtubeapi.Client
	transcripts *transcript.Source
	counter     *token.Counter
	logger      *zap.Logger
	cfg         Config
	dedupe      *dedupeMap
}

func New(client *youtubeapi.Client, transcripts *transcript.Source, counter *token.Counter, cfg Config, logger *zap.Logger) *Engine {
	return &Engine{
		client:      client,
		transcripts: transcripts,
		counter:     counter,
		cfg:         cfg,
		logger:      logger,
		dedupe:      newDedupeMap(),
	}
}

// Ingest runs the full pipeline described in spec §4.5, deduplicating
// concurrent identical requests and enforcing an overall deadline.
func (e *Engine) Ingest(ctx context.Context, req domain.IngestRequest) (domain.IngestResult, error) {
	if err := req.Validate(); err != nil {
		return domain.IngestResult{}, ingesterrors.NewInvalidInput(err.Error(), map[string]any{"url_or_query": req.URLOrQuery})
	}

	fingerprint := req.Fingerprint()
	f, owner := e.dedupe.join(fingerprint)
	if !owner {
		return f.wait()
	}

	result, err := e.runOnce(ctx, req)
	e.dedupe.finish(fingerprint, f, result, err)
	return result, err
}

func (e *Engine) runOnce(ctx context.Context, req domain.IngestRequest) (domain.IngestResult, error) {
	start := time.Now()
	correlationID := uuid.New().String()
	logger := e.logger.With(zap.String("correlation_id", correlationID))

	deadline := e.cfg.RequestDeadline
	if deadline <= 0 {
		deadline = 120 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	tracker := youtubeapi.NewQuotaTracker()

	resolved, videoIDs, err := e.classifyAndResolve(ctx, tracker, req)
	if err != nil {
		return domain.IngestResult{}, wrapDeadline(ctx, err)
	}

	if cap := e.cfg.MaxVideosPerRequest; cap > 0 {
		videoIDs = videoIDs[:util.Min(cap, len(videoIDs))]
	}

	videos, err := e.fetchAndFilter(ctx, tracker, videoIDs, req)
	if err != nil {
		return domain.IngestResult{}, wrapDeadline(ctx, err)
	}

	if resolved.Kind == domain.SourceChannel {
		sortVideosByPublishedDesc(videos)
	}

	if req.IncludeTranscript {
		e.attachTranscripts(ctx, videos, req.TranscriptIntervalSeconds)
	}

	for i := range videos {
		videos[i].Title = normalize.Title(videos[i].Title)
		if req.IncludeDescription {
			videos[i].DescriptionClean = normalize.Description(videos[i].DescriptionRaw)
		}
	}

	digestText := digest.Assemble(resolved.DisplayName, videos, req.IncludeDescription, req.IncludeTranscript)
	tokenCount := e.counter.Count(digestText)

	callCount, quotaUsed := tracker.Snapshot()
	logger.Info("ingest completed",
		zap.String("source_kind", resolved.Kind.String()),
		zap.String("source", util.TruncateString(resolved.DisplayName, 80)),
		zap.Int("video_count", len(videos)),
		zap.Int("api_call_count", callCount),
		zap.Int("api_quota_used", quotaUsed),
	)

	return domain.IngestResult{
		SourceName:       resolved.DisplayName,
		VideoCount:       len(videos),
		DigestText:       digestText,
		TokenCount:       tokenCount,
		Videos:           videos,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		APICallCount:     callCount,
		APIQuotaUsed:     quotaUsed,
		HighQuotaCost:    resolved.HighQuotaCost,
	}, nil
}

// classifyAndResolve runs pipeline stages 1-3: classify, resolve, and
// fetch the ordered video ID list for the resolved source.
func (e *Engine) classifyAndResolve(ctx context.Context, tracker *youtubeapi.QuotaTracker, req domain.IngestRequest) (domain.ResolvedSource, []string, error) {
	c, err := Classify(req.URLOrQuery)
	if err != nil {
		return domain.ResolvedSource{}, nil, err
	}

	switch c.kind {
	case domain.SourceVideo:
		return domain.ResolvedSource{Kind: domain.SourceVideo, CanonicalID: c.videoID, DisplayName: c.videoID}, []string{c.videoID}, nil

	case domain.SourcePlaylist:
		meta, err := e.client.GetPlaylistMetadata(ctx, tracker, c.playlistID)
		if err != nil {
			return domain.ResolvedSource{}, nil, err
		}
		ids, err := e.client.ListPlaylistVideoIDs(ctx, tracker, c.playlistID, req.StartDate, req.EndDate, e.maxItemsOrDefault())
		if err != nil {
			return domain.ResolvedSource{}, nil, err
		}
		return domain.ResolvedSource{Kind: domain.SourcePlaylist, CanonicalID: c.playlistID, DisplayName: meta.Title}, ids, nil

	case domain.SourceChannel:
		info, err := e.client.ResolveChannel(ctx, tracker, c.channelRaw, c.resolveHint)
		if err != nil {
			return domain.ResolvedSource{}, nil, err
		}
		meta, err := e.client.GetChannelMetadata(ctx, tracker, info.ChannelID)
		if err != nil {
			return domain.ResolvedSource{}, nil, err
		}
		ids, err := e.client.ListPlaylistVideoIDs(ctx, tracker, meta.UploadsPlaylistID, req.StartDate, req.EndDate, e.maxItemsOrDefault())
		if err != nil {
			return domain.ResolvedSource{}, nil, err
		}
		return domain.ResolvedSource{Kind: domain.SourceChannel, CanonicalID: info.ChannelID, DisplayName: meta.Title}, ids, nil

	case domain.SourceSearch:
		ids, err := e.client.SearchVideoIDs(ctx, tracker, c.searchQuery, req.StartDate, req.EndDate, e.maxItemsOrDefault())
		if err != nil {
			return domain.ResolvedSource{}, nil, err
		}
		return domain.ResolvedSource{Kind: domain.SourceSearch, CanonicalID: c.searchQuery, DisplayName: c.searchQuery, HighQuotaCost: true}, ids, nil

	default:
		return domain.ResolvedSource{}, nil, ingesterrors.NewInternal("unreachable source kind", nil, nil)
	}
}

func (e *Engine) maxItemsOrDefault() int {
	if e.cfg.MaxVideosPerRequest <= 0 {
		return 200
	}
	return e.cfg.MaxVideosPerRequest
}

// fetchAndFilter implements pipeline stages 4-5: batched metadata fetch
// preserving source order, then date-range and live/upcoming filtering.
func (e *Engine) fetchAndFilter(ctx context.Context, tracker *youtubeapi.QuotaTracker, videoIDs []string, req domain.IngestRequest) ([]domain.VideoRecord, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}

	videoIDs = dedupeVideoIDs(videoIDs)

	raw, err := e.client.GetVideos(ctx, tracker, videoIDs)
	if err != nil {
		return nil, err
	}

	records := make([]domain.VideoRecord, 0, len(raw))
	for i, v := range raw {
		publishedAt, _ := time.Parse(time.RFC3339, v.PublishedAt)

		if req.StartDate != nil && publishedAt.Before(*req.StartDate) {
			continue
		}
		if req.EndDate != nil && publishedAt.After(endOfDay(*req.EndDate)) {
			continue
		}

		rec := domain.VideoRecord{
			ID:              v.ID,
			Title:           v.Title,
			DescriptionRaw:  v.Description,
			ChannelID:       v.ChannelID,
			ChannelTitle:    v.ChannelTitle,
			PublishedAt:     publishedAt,
			DurationSeconds: v.DurationSeconds,
			Tags:            v.Tags,
			OriginIndex:     i,
			LiveBroadcast:   liveBroadcastOrNone(v.LiveBroadcast),
		}
		if rec.IsLiveOrUpcoming() {
			continue
		}
		if e.cfg.MinDurationSeconds > 0 && rec.DurationSeconds < e.cfg.MinDurationSeconds {
			continue
		}

		records = append(records, rec)
	}

	return records, nil
}

// dedupeVideoIDs collapses repeats while preserving first-seen order, so
// no two records ever share an id (spec §3, §8) even when a playlist or
// channel's uploads list legitimately yields the same video twice.
func dedupeVideoIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// sortVideosByPublishedDesc orders channel-sourced videos by published_at
// descending (spec §3's invariant), since the uploads-playlist order
// GetVideos preserves is not guaranteed to match publish-date order
// (premieres, backfilled uploads).
func sortVideosByPublishedDesc(videos []domain.VideoRecord) {
	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].PublishedAt.After(videos[j].PublishedAt)
	})
}

func liveBroadcastOrNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// attachTranscripts runs pipeline stage 6: bounded fan-out transcript
// fetching (spec §5 "Bounded fan-out", default engine concurrency 8),
// reassembled by origin_index so concurrent completion order never
// affects the final videos slice.
func (e *Engine) attachTranscripts(ctx context.Context, videos []domain.VideoRecord, intervalSeconds int) {
	concurrency := e.cfg.EngineConcurrency
	if concurrency <= 0 {
		concurrency = 8
	}

	p := pool.New().WithMaxGoroutines(concurrency)
	results := make([]*domain.Transcript, len(videos))

	for i, v := range videos {
		i, v := i, v
		p.Go(func() {
			t, err := e.transcripts.Fetch(ctx, v.ID, intervalSeconds, e.cfg.PreferredLanguages)
			if err != nil {
				e.logger.Debug("transcript fetch error, demoting to null", zap.String("video_id", v.ID), zap.Error(err))
				return
			}
			results[i] = t
		})
	}
	p.Wait()

	for i := range videos {
		videos[i].Transcript = results[i]
	}
}

func wrapDeadline(ctx context.Context, err error) error {
	if ctx.Err() == context.DeadlineExceeded {
		return ingesterrors.NewTimeout("ingest deadline exceeded", map[string]any{"cause": err.Error()})
	}
	return err
}
