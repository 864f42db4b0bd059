package srt

import (
	"strconv"
	"strings"
)

// TimingSeparator splits the start and end timecodes on a timing line.
const TimingSeparator = " --> "

const minBlockLines = 3

// IndexPolicy decides what happens to a block whose index line is not an
// integer.
type IndexPolicy int

const (
	// IndexStrict drops the block with ReasonInvalidIndex.
	IndexStrict IndexPolicy = iota
	// IndexLenient keeps the block and records ID 0.
	IndexLenient
)

// ParseIndexPolicy maps a config value to a policy. Unknown values fall back
// to IndexStrict.
func ParseIndexPolicy(value string) IndexPolicy {
	if strings.EqualFold(strings.TrimSpace(value), "lenient") {
		return IndexLenient
	}
	return IndexStrict
}

func (p IndexPolicy) String() string {
	if p == IndexLenient {
		return "lenient"
	}
	return "strict"
}

// Options tunes ParseDetailed.
type Options struct {
	Index IndexPolicy
}

// Parse converts an SRT document into cues using the default options.
// Unusable blocks are silently omitted.
func Parse(document string) []Cue {
	return ParseDetailed(document, Options{}).Cues
}

// ParseDetailed converts an SRT document into cues and reports every block
// that was dropped.
func ParseDetailed(document string, opts Options) Result {
	blocks := splitBlocks(document)
	result := Result{Cues: make([]Cue, 0, len(blocks)), Blocks: len(blocks)}
	for i, blk := range blocks {
		cue, reason, ok := parseBlock(blk.lines, opts)
		if !ok {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Block:  i,
				Line:   blk.line,
				Reason: reason,
				Text:   strings.TrimSpace(blk.lines[0]),
			})
			continue
		}
		result.Cues = append(result.Cues, cue)
	}
	return result
}

type block struct {
	line  int
	lines []string
}

// splitBlocks groups lines into blocks separated by one or more blank lines.
func splitBlocks(document string) []block {
	normalized := normalizeNewlines(document)
	if strings.TrimSpace(normalized) == "" {
		return nil
	}
	var (
		blocks  []block
		current *block
	)
	for i, line := range strings.Split(normalized, "\n") {
		if strings.TrimSpace(line) == "" {
			current = nil
			continue
		}
		if current == nil {
			blocks = append(blocks, block{line: i + 1})
			current = &blocks[len(blocks)-1]
		}
		current.lines = append(current.lines, line)
	}
	return blocks
}

func normalizeNewlines(value string) string {
	value = strings.TrimPrefix(value, "\ufeff")
	value = strings.ReplaceAll(value, "\r\n", "\n")
	return strings.ReplaceAll(value, "\r", "\n")
}

func parseBlock(lines []string, opts Options) (Cue, Reason, bool) {
	if len(lines) < minBlockLines {
		return Cue{}, ReasonTooFewLines, false
	}

	id, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		if opts.Index != IndexLenient {
			return Cue{}, ReasonInvalidIndex, false
		}
		id = 0
	}

	timing := lines[1]
	if !strings.Contains(timing, TimingSeparator) {
		return Cue{}, ReasonMissingSeparator, false
	}
	fields := strings.Split(timing, TimingSeparator)

	cue := Cue{
		ID:      id,
		Start:   Seconds(timingField(fields[0])),
		End:     Seconds(timingField(fields[1])),
		Primary: strings.TrimSpace(lines[2]),
	}
	if len(lines) > 3 {
		cue.Secondary = strings.TrimSpace(lines[3])
	}
	return cue, "", true
}

// timingField drops trailing position hints such as "X1:40 X2:600".
func timingField(value string) string {
	parts := strings.Fields(value)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}
