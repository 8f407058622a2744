package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

// isoDurationRe matches ISO-8601 style duration tokens like PT1H30M45S.
// YouTube's contentDetails.duration uses this form.
var isoDurationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseLanguage classifies a platform language hint. Substring match on
// "ar"/"arabic" → Arabic, everything else (including no hint) → English.
// Deliberately a heuristic, not a locale parser: hints like "arabic-eg" or
// bare "ar" from snippet metadata are all the upstream platforms provide.
func ParseLanguage(hint string) Language {
	h := strings.ToLower(hint)
	if strings.Contains(h, "ar") || strings.Contains(h, "arabic") {
		return LanguageArabic
	}
	return LanguageEnglish
}

// ParseMediaType classifies a platform media hint. "audio"/"podcast" → audio,
// everything else defaults to video.
func ParseMediaType(hint string) MediaType {
	h := strings.ToLower(hint)
	if strings.Contains(h, "audio") || strings.Contains(h, "podcast") {
		return MediaAudio
	}
	return MediaVideo
}

// ParseDuration converts platform duration metadata to whole seconds.
// Accepts a plain numeric seconds value (negatives clamp to 0) or an ISO-8601
// duration token PT#H#M#S. Total: anything unparseable yields 0 rather than an
// error, since this sits on the boundary between untrusted platform metadata
// and the catalog's numeric model.
func ParseDuration(raw string) int64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	if m := isoDurationRe.FindStringSubmatch(s); m != nil {
		var total int64
		for i, mult := range []int64{3600, 60, 1} {
			if m[i+1] == "" {
				continue
			}
			n, err := strconv.ParseInt(m[i+1], 10, 64)
			if err != nil {
				return 0
			}
			total += n * mult
		}
		return total
	}

	if n, err := strconv.ParseFloat(s, 64); err == nil {
		if n < 0 {
			return 0
		}
		return int64(n)
	}

	return 0
}
