// Package transcript implements the Transcript Source component (spec
// §4.4): watch-page caption-track discovery, timed-text cue fetching,
// language selection, interval-bucketed formatting, and the positive/
// negative caches with per-host throttling. Grounded on other_examples'
// anatolykoptev/go_job youtube_transcript.go and youtube_innertube.go
// (ytInitialPlayerResponse scraping, captionTrack/timedtext shapes),
// adapted from their net/http-regex extraction to goquery (spec's pack
// favors it for HTML parsing) and extended with start/dur cue timing the
// teacher's source never captured, since ytubingest buckets cues by time.
package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const ytInitialPlayerResponseMarker = "ytInitialPlayerResponse = "

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" means auto-generated
}

type playerResponse struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

// classification distinguishes why a video has no usable transcript, used
// by Source to decide whether a failure is negative-cached (no transcripts,
// disabled/region-blocked) or left uncached (transport). The negative-cache
// entry is the same for both negative kinds; it does not record which one
// applied.
type classification int

const (
	classifyTransport classification = iota
	classifyNoTranscripts
	classifyDisabledOrRegionBlocked
)

type trackListError struct {
	kind classification
	msg  string
}

func (e *trackListError) Error() string { return e.msg }

// listCaptionTracks scrapes the watch page HTML for ytInitialPlayerResponse
// and returns its advertised caption tracks.
func listCaptionTracks(ctx context.Context, httpClient *http.Client, videoID string) ([]captionTrack, error) {
	watchURL := "https://www.youtube.com/watch?v=" + videoID

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, watchURL, nil)
	if err != nil {
		return nil, &trackListError{kind: classifyTransport, msg: err.Error()}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Youtubingest/1.0)")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &trackListError{kind: classifyTransport, msg: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, &trackListError{kind: classifyTransport, msg: fmt.Sprintf("watch page status %d", resp.StatusCode)}
	}
	if resp.StatusCode >= 400 {
		return nil, &trackListError{kind: classifyNoTranscripts, msg: fmt.Sprintf("watch page status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 6*1024*1024))
	if err != nil {
		return nil, &trackListError{kind: classifyTransport, msg: err.Error()}
	}

	scriptText, err := extractPlayerResponseScript(body)
	if err != nil {
		return nil, &trackListError{kind: classifyNoTranscripts, msg: err.Error()}
	}

	var pr playerResponse
	if err := json.Unmarshal([]byte(scriptText), &pr); err != nil {
		return nil, &trackListError{kind: classifyNoTranscripts, msg: "malformed player response: " + err.Error()}
	}

	if pr.Captions == nil {
		reason := ""
		if pr.PlayabilityStatus != nil {
			reason = pr.PlayabilityStatus.Reason
		}
		if reason != "" && (strings.Contains(strings.ToLower(reason), "unavailable") || strings.Contains(strings.ToLower(reason), "private") || strings.Contains(strings.ToLower(reason), "region")) {
			return nil, &trackListError{kind: classifyDisabledOrRegionBlocked, msg: reason}
		}
		return nil, &trackListError{kind: classifyNoTranscripts, msg: "no captions advertised"}
	}

	tracks := pr.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, &trackListError{kind: classifyNoTranscripts, msg: "empty caption track list"}
	}
	return tracks, nil
}

// extractPlayerResponseScript finds the inline <script> tag assigning
// ytInitialPlayerResponse and returns just the JSON object text, using
// goquery to walk the parsed document rather than a raw substring scan
// over the whole page.
func extractPlayerResponseScript(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", err
	}

	var found string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		idx := strings.Index(text, ytInitialPlayerResponseMarker)
		if idx < 0 {
			return true
		}
		jsonText := extractBalancedJSON(text[idx+len(ytInitialPlayerResponseMarker):])
		if jsonText != "" {
			found = jsonText
			return false
		}
		return true
	})

	if found == "" {
		return "", errors.New("ytInitialPlayerResponse not found in watch page")
	}
	return found, nil
}

// extractBalancedJSON returns the shortest prefix of s that is a
// brace-balanced JSON object, ignoring braces inside string literals.
func extractBalancedJSON(s string) string {
	depth := 0
	inString := false
	escaped := false
	for i, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
