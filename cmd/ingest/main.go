package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/youtubingest/ingest/internal/app"
	"github.com/youtubingest/ingest/internal/config"
	"github.com/youtubingest/ingest/internal/domain"
	"github.com/youtubingest/ingest/internal/util"
)

func main() {
	transcriptFlag := flag.Bool("transcript", false, "include transcripts")
	descriptionFlag := flag.Bool("description", true, "include descriptions")
	intervalFlag := flag.Int("interval", 0, "transcript_interval_seconds (0, 10, 20, 30, or 60)")
	startFlag := flag.String("start", "", "start_date (YYYY-MM-DD)")
	endFlag := flag.String("end", "", "end_date (YYYY-MM-DD)")
	jsonFlag := flag.Bool("json", false, "print machine-readable JSON instead of the digest text")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: ingest [flags] <video-url|playlist-url|channel-url|@handle|search query>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	buildCtx, buildCancel := context.WithTimeout(context.Background(), 30*time.Second)
	container, err := app.Build(buildCtx, cfg, logger)
	buildCancel()
	if err != nil {
		logger.Error("failed to assemble ingestion services", zap.Error(err))
		os.Exit(1)
	}
	defer container.Close()

	monitorCtx, monitorCancel := context.WithCancel(context.Background())
	defer monitorCancel()
	go container.Monitor.Run(monitorCtx)

	req, err := buildRequest(flag.Arg(0), *transcriptFlag, *descriptionFlag, *intervalFlag, *startFlag, *endFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid request: %v\n", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Engine.RequestDeadlineSeconds)*time.Second)
	defer cancel()

	result, err := container.Engine.Ingest(ctx, req)
	if err != nil {
		logger.Error("ingest failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "ingest failed: %v\n", err)
		os.Exit(1)
	}

	if *jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
		return
	}

	fmt.Println(result.DigestText)
	fmt.Fprintf(os.Stderr, "\n--- %d videos, %d tokens, %d ms, %d api calls, %d quota units ---\n",
		result.VideoCount, result.TokenCount, result.ProcessingTimeMs, result.APICallCount, result.APIQuotaUsed)
}

func buildRequest(urlOrQuery string, includeTranscript, includeDescription bool, interval int, start, end string) (domain.IngestRequest, error) {
	req := domain.IngestRequest{
		URLOrQuery:                strings.TrimSpace(urlOrQuery),
		IncludeTranscript:         includeTranscript,
		IncludeDescription:        includeDescription,
		TranscriptIntervalSeconds: interval,
	}

	if start != "" {
		t, err := time.Parse("2006-01-02", start)
		if err != nil {
			return domain.IngestRequest{}, fmt.Errorf("invalid -start: %w", err)
		}
		req.StartDate = &t
	}
	if end != "" {
		t, err := time.Parse("2006-01-02", end)
		if err != nil {
			return domain.IngestRequest{}, fmt.Errorf("invalid -end: %w", err)
		}
		req.EndDate = &t
	}

	if err := req.Validate(); err != nil {
		return domain.IngestRequest{}, err
	}
	return req, nil
}
