package srt

import (
	"fmt"
	"math"
	"strings"
)

// DurationToleranceSeconds is how far the last cue may end from the media
// runtime before Validate reports a mismatch.
const DurationToleranceSeconds = 8.0

// Issue codes reported by Validate.
const (
	IssueEmpty            = "empty_subtitle_file"
	IssueNoTimestamps     = "no_valid_timestamps"
	IssueDroppedBlocks    = "dropped_blocks"
	IssueEndBeforeStart   = "end_before_start"
	IssueOverlap          = "overlap"
	IssueDurationMismatch = "duration_mismatch"
)

// Severity ranks a validation issue.
type Severity int

const (
	// SeverityWarning marks a document that is usable with defects.
	SeverityWarning Severity = iota
	// SeverityFatal marks a document with nothing to play.
	SeverityFatal
)

// IssueSeverity classifies an issue string returned by Validate.
func IssueSeverity(issue string) Severity {
	code, _, _ := strings.Cut(issue, ":")
	switch code {
	case IssueEmpty, IssueNoTimestamps:
		return SeverityFatal
	default:
		return SeverityWarning
	}
}

// Validate checks a parse result for format problems. mediaSeconds enables
// the runtime comparison when positive. An empty slice means validation
// passed.
func Validate(result Result, mediaSeconds float64) []string {
	var issues []string

	if result.Blocks == 0 {
		return append(issues, IssueEmpty)
	}
	if dropped := result.Dropped(); dropped > 0 {
		issues = append(issues, fmt.Sprintf("%s: %d of %d", IssueDroppedBlocks, dropped, result.Blocks))
	}
	if len(result.Cues) == 0 {
		return issues
	}

	first, last := Bounds(result.Cues)
	if first == 0 && last == 0 {
		issues = append(issues, IssueNoTimestamps)
	}

	for i, cue := range result.Cues {
		if cue.End < cue.Start {
			issues = append(issues, fmt.Sprintf("%s: id=%d", IssueEndBeforeStart, cue.ID))
		}
		if i > 0 {
			prev := result.Cues[i-1]
			if cue.Start < prev.End && cue.Start >= prev.Start {
				issues = append(issues, fmt.Sprintf("%s: id=%d", IssueOverlap, cue.ID))
			}
		}
	}

	if mediaSeconds > 0 && last > 0 {
		delta := mediaSeconds - last
		if math.Abs(delta) > DurationToleranceSeconds {
			issues = append(issues, fmt.Sprintf("%s: delta=%.1fs", IssueDurationMismatch, delta))
		}
	}

	return issues
}

// Bounds returns the earliest start and latest end across cues. Both are
// zero for an empty slice.
func Bounds(cues []Cue) (float64, float64) {
	if len(cues) == 0 {
		return 0, 0
	}
	first := math.Inf(1)
	var last float64
	for _, cue := range cues {
		if cue.Start < first {
			first = cue.Start
		}
		if cue.End > last {
			last = cue.End
		}
	}
	return first, last
}
