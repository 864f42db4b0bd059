package language

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// words maps English language names seen in file names to ISO 639-1 codes.
var words = map[string]string{
	"vietnamese": "vi",
	"english":    "en",
	"spanish":    "es",
	"french":     "fr",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"japanese":   "ja",
	"korean":     "ko",
	"chinese":    "zh",
	"russian":    "ru",
	"thai":       "th",
	"indonesian": "id",
}

// Normalize converts a language code, BCP 47 tag or English language name
// to its ISO 639-1 code. Unrecognized input returns "".
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if len(code) < 2 {
		return ""
	}
	if iso, ok := words[code]; ok {
		return iso
	}
	tag, err := language.Parse(code)
	if err != nil || tag == language.Und {
		return ""
	}
	base, confidence := tag.Base()
	if confidence != language.Exact {
		return ""
	}
	return base.String()
}

// DisplayName returns the English name for a language code. Empty input
// returns "Unknown"; unrecognized input is returned uppercased.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	iso := Normalize(code)
	if iso == "" {
		return strings.ToUpper(strings.TrimSpace(code))
	}
	if name := display.English.Languages().Name(language.Make(iso)); name != "" {
		return name
	}
	return strings.ToUpper(iso)
}

// FromSource infers the subtitle language from a file path or URL. The
// dotted suffix before the extension wins ("show.vi.srt"); otherwise any
// English language name in the stem is used. Returns "" when nothing matches.
func FromSource(source string) string {
	stem := sourceStem(source)
	if stem == "" {
		return ""
	}
	if idx := strings.LastIndex(stem, "."); idx >= 0 {
		suffix := stem[idx+1:]
		if len(suffix) <= 3 || strings.Contains(suffix, "-") {
			if iso := Normalize(suffix); iso != "" {
				return iso
			}
		}
	}
	for _, token := range strings.FieldsFunc(strings.ToLower(stem), isSeparator) {
		if iso, ok := words[token]; ok {
			return iso
		}
	}
	return ""
}

func sourceStem(source string) string {
	source = strings.TrimSpace(source)
	if u, err := url.Parse(source); err == nil && u.Scheme != "" && u.Host != "" {
		source = u.Path
	}
	base := path.Base(strings.ReplaceAll(source, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

func isSeparator(r rune) bool {
	switch r {
	case '.', '_', '-', ' ', '[', ']', '(', ')':
		return true
	}
	return false
}
