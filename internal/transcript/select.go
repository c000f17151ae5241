package transcript

import "strings"

// selectTrack implements spec §4.4's selection rule in four passes: a
// manual track in a preferred language (first matching language of
// preferredLanguages wins), then an auto-generated ("asr") track in a
// preferred language, then the first manual track of any language, then
// the first track. A manual track in a later preferred language is
// therefore chosen over an auto-generated one in an earlier language.
//
// SPEC_FULL.md §D.1 resolves the tie-break spec §9 leaves open for
// multiple manual tracks in one preferred-language family (e.g. "en" with
// both "en-US" and "en-GB" present): exact code match first, then a
// no-region-subtag variant (a track whose code has no "-" suffix, e.g.
// plain "en"), then the remaining candidates in the API's returned order.
func selectTrack(tracks []captionTrack, preferredLanguages []string) (captionTrack, bool) {
	if len(tracks) == 0 {
		return captionTrack{}, false
	}

	for _, lang := range preferredLanguages {
		if t, ok := pickForLanguage(tracks, lang, false); ok {
			return t, true
		}
	}
	for _, lang := range preferredLanguages {
		if t, ok := pickForLanguage(tracks, lang, true); ok {
			return t, true
		}
	}

	for _, t := range tracks {
		if t.Kind != "asr" {
			return t, true
		}
	}
	return tracks[0], true
}

// pickForLanguage applies the documented tie-break among all tracks whose
// language code belongs to lang's family (matches lang or lang's primary
// subtag). allowAuto controls whether "asr" (auto-generated) tracks are
// considered at all.
func pickForLanguage(tracks []captionTrack, lang string, allowAuto bool) (captionTrack, bool) {
	family := primarySubtag(lang)

	var exact, noRegion, any []captionTrack
	for _, t := range tracks {
		if !allowAuto && t.Kind == "asr" {
			continue
		}
		if primarySubtag(t.LanguageCode) != family {
			continue
		}
		switch {
		case strings.EqualFold(t.LanguageCode, lang):
			exact = append(exact, t)
		case !strings.Contains(t.LanguageCode, "-"):
			noRegion = append(noRegion, t)
		default:
			any = append(any, t)
		}
	}

	for _, group := range [][]captionTrack{exact, noRegion, any} {
		if len(group) > 0 {
			return group[0], true
		}
	}
	return captionTrack{}, false
}

func primarySubtag(code string) string {
	if idx := strings.Index(code, "-"); idx >= 0 {
		return strings.ToLower(code[:idx])
	}
	return strings.ToLower(code)
}
