// Package app wires the ingestion core's components into one runnable
// graph, grounded on the teacher's internal/app.Build: a closers slice
// unwound on any construction failure so a partially built container
// never leaks connections.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/youtubingest/ingest/internal/cache"
	"github.com/youtubingest/ingest/internal/config"
	"github.com/youtubingest/ingest/internal/constants"
	"github.com/youtubingest/ingest/internal/engine"
	"github.com/youtubingest/ingest/internal/memmonitor"
	"github.com/youtubingest/ingest/internal/token"
	"github.com/youtubingest/ingest/internal/transcript"
	"github.com/youtubingest/ingest/internal/youtubeapi"
)

// Container bundles every assembled service needed to run one or more
// ingest operations plus the background memory monitor.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Engine  *engine.Engine
	Monitor *memmonitor.Monitor
	Cache   *cache.Registry

	closers []func()
}

// Close releases every resource Build acquired, in reverse order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Build assembles the cache registry, YouTube API client, transcript
// source, token counter, memory monitor, and ingestion engine. All
// heavyweight initialization happens here so that cmd/ingest stays a thin
// driver.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	registry := cache.NewRegistry(logger)

	mirrorCfg := cache.RedisMirrorConfig{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
	newStore := func(name string) cache.Store {
		local := cache.NewLRU(cfg.Cache.DefaultCapacity)
		if mirror := cache.NewRedisMirror(mirrorCfg, local, "ingest:"+name+":", logger); mirror != nil {
			registry.Register(name, mirror)
			closers = append(closers, func() { _ = mirror.Close() })
			return mirror
		}
		registry.Register(name, local)
		return local
	}

	// Registration order is pressure-clear priority (internal/cache/registry.go:
	// transcripts first, search pages next, metadata last, token cache last
	// per spec §9), so a memory-pressure sweep evicts the cheapest-to-
	// reconstruct caches before the quota-expensive metadata lookups.
	transcriptSource := transcript.NewSource(transcript.Stores{
		Positive: newStore("transcript_positive"),
		Negative: newStore("transcript_negative"),
	}, cfg.Engine.TranscriptConcurrency, constants.Transcript.PerHostMinDelay, logger)

	paginatedListing := newStore("paginated_listing")

	ytStores := youtubeapi.Stores{
		PaginatedListing:  paginatedListing,
		ChannelResolution: newStore("channel_resolution"),
		ChannelMetadata:   newStore("channel_metadata"),
		PlaylistMetadata:  newStore("playlist_metadata"),
		VideoMetadata:     newStore("video_metadata"),
	}

	ytClient, err := youtubeapi.NewClient(ctx, cfg.YouTube.APIKey, ytStores, youtubeapi.DefaultCacheTTLs(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube api client: %w", err)
	}

	tokenCounter := token.NewCounter(cfg.Cache.DefaultCapacity, logger)
	registry.Register("token_count", tokenCacheAdapter{tokenCounter})

	eng := engine.New(ytClient, transcriptSource, tokenCounter, engine.Config{
		MaxVideosPerRequest: cfg.Engine.MaxVideosPerRequest,
		EngineConcurrency:   cfg.Engine.EngineConcurrency,
		RequestDeadline:     time.Duration(cfg.Engine.RequestDeadlineSeconds) * time.Second,
		PreferredLanguages:  cfg.Transcript.PreferredLanguages,
	}, logger)

	monitor := memmonitor.New(registry, constants.Memory.SampleInterval, cfg.Memory.HighWaterFraction, cfg.Memory.SoftCapMB, logger)

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Engine:  eng,
		Monitor: monitor,
		Cache:   registry,
		closers: closers,
	}, nil
}

// tokenCacheAdapter lets the token counter's internal LRU participate in
// registry-wide ClearAll/PressureClear sweeps without exposing cache.Store
// methods on *token.Counter itself.
type tokenCacheAdapter struct {
	counter *token.Counter
}

func (a tokenCacheAdapter) Clear() int         { return a.counter.ClearCache() }
func (a tokenCacheAdapter) Size() int          { return a.counter.Stats().Size }
func (a tokenCacheAdapter) Stats() cache.Stats { return a.counter.Stats() }
