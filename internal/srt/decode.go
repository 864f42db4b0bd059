package srt

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var byteOrderMarks = [][]byte{
	{0xEF, 0xBB, 0xBF},
	{0xFE, 0xFF},
	{0xFF, 0xFE},
}

// Decode turns raw subtitle bytes into text. A UTF-8 or UTF-16 byte order
// mark selects the encoding; BOM-less input that is not valid UTF-8 is read
// as Windows-1252, the usual encoding of legacy SRT releases.
func Decode(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	if hasBOM(raw) {
		decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
		text, _, err := transform.Bytes(decoder, raw)
		if err != nil {
			return "", fmt.Errorf("decode subtitle text: %w", err)
		}
		return string(text), nil
	}
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	text, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("decode windows-1252 subtitle text: %w", err)
	}
	return string(text), nil
}

func hasBOM(raw []byte) bool {
	for _, bom := range byteOrderMarks {
		if bytes.HasPrefix(raw, bom) {
			return true
		}
	}
	return false
}
