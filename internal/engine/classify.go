// Package engine implements the Ingestion Engine component (spec §4.5):
// classification, the orchestration pipeline, and in-flight
// deduplication. Grounded on the teacher's internal/command dispatch
// style (an ordered sequence of pattern tests producing a tagged result)
// and internal/service/youtube.go's concurrency-gated fan-out.
package engine

import (
	"regexp"
	"strings"

	"github.com/youtubingest/ingest/internal/domain"
	"github.com/youtubingest/ingest/internal/youtubeapi"
	ingesterrors "github.com/youtubingest/ingest/pkg/ingesterrors"
)

var (
	videoWatchPattern  = regexp.MustCompile(`(?:youtube\.com/watch\?[^#]*\bv=|youtube\.com/embed/|youtube\.com/shorts/)([A-Za-z0-9_-]{11})`)
	videoShortPattern  = regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{11})`)
	listParamPattern   = regexp.MustCompile(`[?&]list=([A-Za-z0-9_-]+)`)
	channelIDPattern   = regexp.MustCompile(`youtube\.com/channel/(UC[0-9A-Za-z_-]{22})`)
	channelHandlePath  = regexp.MustCompile(`youtube\.com/(@[A-Za-z0-9._-]+)`)
	channelCustomPath  = regexp.MustCompile(`youtube\.com/c/([A-Za-z0-9._-]+)`)
	channelUserPath    = regexp.MustCompile(`youtube\.com/user/([A-Za-z0-9._-]+)`)
	urlLikePattern     = regexp.MustCompile(`^(?:[a-z][a-z0-9+.-]*://|www\.)|\.[a-z]{2,}(?:/|$)`)
)

// classification is the outcome of Classify: a source kind plus whatever
// raw identifier/hint the downstream resolver needs.
type classification struct {
	kind domain.SourceKind

	videoID      string
	playlistID   string
	channelRaw   string
	resolveHint  youtubeapi.ResolveHint
	searchQuery  string
}

// Classify applies spec §4.5 stage 1's ordered, total sequence of
// pattern tests to url_or_query, in the order spec §4.5 and the
// GLOSSARY's tagged-union note both specify: video shapes first (most
// specific), then playlist, then channel shapes, then a URL-shaped
// reject, finally free-text search.
func Classify(urlOrQuery string) (classification, error) {
	raw := strings.TrimSpace(urlOrQuery)

	if m := videoWatchPattern.FindStringSubmatch(raw); m != nil {
		return classification{kind: domain.SourceVideo, videoID: m[1]}, nil
	}
	if m := videoShortPattern.FindStringSubmatch(raw); m != nil {
		return classification{kind: domain.SourceVideo, videoID: m[1]}, nil
	}

	if m := listParamPattern.FindStringSubmatch(raw); m != nil {
		return classification{kind: domain.SourcePlaylist, playlistID: m[1]}, nil
	}

	if m := channelIDPattern.FindStringSubmatch(raw); m != nil {
		return classification{kind: domain.SourceChannel, channelRaw: m[1], resolveHint: youtubeapi.HintDirectID}, nil
	}
	if m := channelHandlePath.FindStringSubmatch(raw); m != nil {
		return classification{kind: domain.SourceChannel, channelRaw: m[1], resolveHint: youtubeapi.HintHandle}, nil
	}
	if m := channelCustomPath.FindStringSubmatch(raw); m != nil {
		return classification{kind: domain.SourceChannel, channelRaw: m[1], resolveHint: youtubeapi.HintCustom}, nil
	}
	if m := channelUserPath.FindStringSubmatch(raw); m != nil {
		return classification{kind: domain.SourceChannel, channelRaw: m[1], resolveHint: youtubeapi.HintUser}, nil
	}
	if strings.HasPrefix(raw, "@") && !strings.Contains(raw, "/") {
		return classification{kind: domain.SourceChannel, channelRaw: raw, resolveHint: youtubeapi.HintHandle}, nil
	}

	if urlLikePattern.MatchString(strings.ToLower(raw)) {
		return classification{}, ingesterrors.NewInvalidInput("input looks like a URL but does not match a recognized video, playlist, or channel shape", map[string]any{"input": raw})
	}

	return classification{kind: domain.SourceSearch, searchQuery: raw}, nil
}
