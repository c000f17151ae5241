package transcript

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
)

// cue is one caption line: a start offset, a duration, and its text (spec
// §4.4 "downloaded as a sequence of cues").
type cue struct {
	StartSeconds    float64
	DurationSeconds float64
	Text            string
}

type timedTextDocument struct {
	Lines []timedTextLine `xml:"text"`
}

type timedTextLine struct {
	Start float64 `xml:"start,attr"`
	Dur   float64 `xml:"dur,attr"`
	Text  string  `xml:",chardata"`
}

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// fetchCues downloads and parses a timedtext XML caption resource.
func fetchCues(ctx context.Context, httpClient *http.Client, baseURL string) ([]cue, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return nil, &trackListError{kind: classifyTransport, msg: err.Error()}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Youtubingest/1.0)")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &trackListError{kind: classifyTransport, msg: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, &trackListError{kind: classifyTransport, msg: fmt.Sprintf("timedtext status %d", resp.StatusCode)}
	}
	if resp.StatusCode >= 400 {
		return nil, &trackListError{kind: classifyNoTranscripts, msg: fmt.Sprintf("timedtext status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2*1024*1024))
	if err != nil {
		return nil, &trackListError{kind: classifyTransport, msg: err.Error()}
	}

	var doc timedTextDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, &trackListError{kind: classifyNoTranscripts, msg: "malformed timedtext xml: " + err.Error()}
	}
	if len(doc.Lines) == 0 {
		return nil, &trackListError{kind: classifyNoTranscripts, msg: "empty timedtext document"}
	}

	cues := make([]cue, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		text := cleanCueText(l.Text)
		if text == "" {
			continue
		}
		cues = append(cues, cue{StartSeconds: l.Start, DurationSeconds: l.Dur, Text: text})
	}
	return cues, nil
}

func cleanCueText(raw string) string {
	s := htmlTagPattern.ReplaceAllString(raw, "")
	s = html.UnescapeString(s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}
