package srt

import (
	"regexp"
	"strings"
)

var adPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)opensubtitles`),
	regexp.MustCompile(`(?i)subtitles? by`),
	regexp.MustCompile(`(?i)synced? and corrected`),
	regexp.MustCompile(`(?i)advertise (your|yours?) product`),
	regexp.MustCompile(`(?i)http(s)?://`),
	regexp.MustCompile(`(?i)\bwww\.`),
	regexp.MustCompile(`(?i)\bsubscene\b`),
	regexp.MustCompile(`(?i)\byts\b`),
	regexp.MustCompile(`(?i)\byify\b`),
}

var markupPattern = regexp.MustCompile(`</?[biu]>|</?font[^>]*>|\{\\[^}]*\}`)

// CleanStats reports the effects of Clean.
type CleanStats struct {
	RemovedCues   int `json:"removedCues"`
	StrippedLines int `json:"strippedLines"`
}

// Clean drops advertisement cues and strips inline markup from the rest.
// When markup was the whole primary line, the secondary line moves up so the
// cue still formats as written. The input slice is not modified.
func Clean(cues []Cue) ([]Cue, CleanStats) {
	var stats CleanStats
	cleaned := make([]Cue, 0, len(cues))
	for _, cue := range cues {
		if IsAdvertisement(cue) {
			stats.RemovedCues++
			continue
		}
		var changed bool
		cue.Primary, changed = stripMarkup(cue.Primary)
		if changed {
			stats.StrippedLines++
		}
		cue.Secondary, changed = stripMarkup(cue.Secondary)
		if changed {
			stats.StrippedLines++
		}
		if cue.Primary == "" {
			cue.Primary, cue.Secondary = cue.Secondary, ""
		}
		cleaned = append(cleaned, cue)
	}
	return cleaned, stats
}

// IsAdvertisement reports whether the cue text looks like a release credit
// or site promotion rather than dialogue.
func IsAdvertisement(cue Cue) bool {
	payload := strings.TrimSpace(strings.ToLower(cue.Primary + " " + cue.Secondary))
	if payload == "" {
		return false
	}
	for _, pattern := range adPatterns {
		if pattern.MatchString(payload) {
			return true
		}
	}
	return false
}

func stripMarkup(line string) (string, bool) {
	stripped := strings.TrimSpace(markupPattern.ReplaceAllString(line, ""))
	return stripped, stripped != line
}
