package srt

// Cue is one caption entry. ID is the sequence number exactly as written in
// the source and is never renumbered.
type Cue struct {
	ID        int     `json:"id"`
	Start     float64 `json:"startTime"`
	End       float64 `json:"endTime"`
	Primary   string  `json:"primaryText"`
	Secondary string  `json:"secondaryText"`
}

// Duration returns the cue length in seconds. Inverted cues report zero.
func (c Cue) Duration() float64 {
	if c.End <= c.Start {
		return 0
	}
	return c.End - c.Start
}

// Contains reports whether the playback position falls inside the cue.
func (c Cue) Contains(seconds float64) bool {
	return seconds >= c.Start && seconds < c.End
}

// Text joins the non-empty text lines.
func (c Cue) Text() string {
	switch {
	case c.Primary == "":
		return c.Secondary
	case c.Secondary == "":
		return c.Primary
	default:
		return c.Primary + "\n" + c.Secondary
	}
}

// Reason classifies why a block produced no cue.
type Reason string

const (
	ReasonTooFewLines      Reason = "too_few_lines"
	ReasonMissingSeparator Reason = "missing_separator"
	ReasonInvalidIndex     Reason = "invalid_index"
)

// Diagnostic describes a dropped block.
type Diagnostic struct {
	// Block is the zero-based position of the block in the document.
	Block int `json:"block"`
	// Line is the 1-based document line the block starts on.
	Line   int    `json:"line"`
	Reason Reason `json:"reason"`
	// Text is the first line of the block, kept for log context.
	Text string `json:"text"`
}

// Result is the outcome of ParseDetailed.
type Result struct {
	Cues        []Cue        `json:"cues"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	Blocks      int          `json:"blocks"`
}

// Dropped returns how many blocks produced no cue.
func (r Result) Dropped() int {
	return len(r.Diagnostics)
}

// Clean reports whether every block became a cue.
func (r Result) Clean() bool {
	return len(r.Diagnostics) == 0
}
