package srt

import (
	"bytes"
	"strconv"
)

// Format renders cues as an SRT document. IDs are written as stored; cues
// without text are skipped. A cue with only Secondary set is written with
// that text as its first line, since SRT has no empty text lines.
func Format(cues []Cue) []byte {
	var buf bytes.Buffer
	written := 0
	for _, cue := range cues {
		if cue.Primary == "" && cue.Secondary == "" {
			continue
		}
		if written > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(strconv.Itoa(cue.ID))
		buf.WriteByte('\n')
		buf.WriteString(FormatTimecode(cue.Start))
		buf.WriteString(TimingSeparator)
		buf.WriteString(FormatTimecode(cue.End))
		buf.WriteByte('\n')
		if cue.Primary != "" {
			buf.WriteString(cue.Primary)
			buf.WriteByte('\n')
		}
		if cue.Secondary != "" {
			buf.WriteString(cue.Secondary)
			buf.WriteByte('\n')
		}
		written++
	}
	return buf.Bytes()
}
