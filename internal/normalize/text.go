// Package normalize implements the Text Normalization component (spec
// §4.7): stripping control characters, promotional boilerplate, and
// standalone emoji lines from descriptions, and cleaning up titles.
// Grounded on the teacher's internal/util/string.go Normalize helper,
// generalized from a single collapse-whitespace pass into the full rule
// set spec §4.7 names.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// zeroWidthAndControl matches zero-width joiners/spaces and C0 control
	// characters other than tab and newline, which survive naive strings.TrimSpace.
	zeroWidthAndControl = regexp.MustCompile(`[\x00-\x08\x0B-\x1F\x7F\x{200B}-\x{200D}\x{FEFF}]`)

	// promoTrailers matches common end-of-description calls to action. Each
	// is anchored to its own line so a legitimate sentence containing
	// "subscribe" mid-paragraph is not touched.
	promoTrailers = []*regexp.Regexp{
		regexp.MustCompile(`(?im)^.*subscribe.*(channel|more videos|notification).*$`),
		regexp.MustCompile(`(?im)^.*(follow|find) (us|me) on.*(instagram|twitter|tiktok|facebook|x\.com).*$`),
		regexp.MustCompile(`(?im)^\s*#\w+(\s+#\w+)*\s*$`),
		regexp.MustCompile(`(?im)^.*use code.*for.*off.*$`),
		regexp.MustCompile(`(?im)^.*as an amazon associate.*$`),
	}

	whitespaceRun   = regexp.MustCompile(`[ \t]+`)
	blankLinesRun   = regexp.MustCompile(`\n{3,}`)
	titleHashtags   = regexp.MustCompile(`(\s*#\w+)+\s*$`)
	titlePipeSuffix = regexp.MustCompile(`\s*\|\s*[^|]+$`)
	urlPattern      = regexp.MustCompile(`https?://\S+`)
)

// Description applies the full normalization pipeline to a raw video
// description: strip zero-width/control characters, drop promotional
// trailer lines and standalone-emoji lines, then collapse whitespace.
// URLs are preserved verbatim wherever they occur.
func Description(raw string) string {
	s := zeroWidthAndControl.ReplaceAllString(raw, "")

	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if isPromotional(line) || isStandaloneEmoji(line) {
			continue
		}
		kept = append(kept, line)
	}
	s = strings.Join(kept, "\n")

	s = whitespaceRun.ReplaceAllString(s, " ")
	s = blankLinesRun.ReplaceAllString(s, "\n\n")

	var out []string
	for _, line := range strings.Split(s, "\n") {
		out = append(out, strings.TrimSpace(line))
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// Title cleans a video title: trailing hashtag clusters, a trailing
// " | Channel Name" suffix, and a single enclosing pair of quotes.
func Title(raw string) string {
	s := zeroWidthAndControl.ReplaceAllString(raw, "")
	s = strings.TrimSpace(s)
	s = titleHashtags.ReplaceAllString(s, "")
	s = titlePipeSuffix.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = unquote(s)
	return strings.TrimSpace(s)
}

func unquote(s string) string {
	pairs := [][2]rune{{'"', '"'}, {'\'', '\''}, {'“', '”'}, {'‘', '’'}}
	r := []rune(s)
	if len(r) < 2 {
		return s
	}
	for _, p := range pairs {
		if r[0] == p[0] && r[len(r)-1] == p[1] {
			return string(r[1 : len(r)-1])
		}
	}
	return s
}

func isPromotional(line string) bool {
	if urlPattern.MatchString(line) {
		return false
	}
	for _, re := range promoTrailers {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// isStandaloneEmoji reports whether a line consists only of emoji and
// whitespace — decorative separator lines that add no content to a digest.
func isStandaloneEmoji(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	sawEmoji := false
	for _, r := range trimmed {
		if unicode.IsSpace(r) {
			continue
		}
		if isEmojiRune(r) {
			sawEmoji = true
			continue
		}
		return false
	}
	return sawEmoji
}

func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case r >= 0x2190 && r <= 0x21FF:
		return true
	case r == 0xFE0F || r == 0x200D:
		return true
	default:
		return false
	}
}
