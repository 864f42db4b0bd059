package srt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Seconds converts an HH:MM:SS,mmm timecode into seconds. Timecodes with
// fewer than four components, or with a component that is not a number,
// convert to zero. Component ranges are not checked, so "00:75:00,000" is
// 4500 seconds.
func Seconds(timecode string) float64 {
	parts := strings.Split(strings.ReplaceAll(strings.TrimSpace(timecode), ",", ":"), ":")
	if len(parts) < 4 {
		return 0
	}
	var values [4]float64
	for i := range values {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		values[i] = v
	}
	return values[0]*3600 + values[1]*60 + values[2] + values[3]/1000
}

// FormatTimecode renders seconds as HH:MM:SS,mmm. Negative values clamp to
// zero.
func FormatTimecode(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int64(math.Round(seconds * 1000))
	ms := total % 1000
	total /= 1000
	s := total % 60
	total /= 60
	m := total % 60
	h := total / 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
