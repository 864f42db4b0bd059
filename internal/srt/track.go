package srt

import "sort"

// Track pairs a parsed cue sequence with playback positions. The cue order
// from the source is preserved; lookups use a start-time index built once.
type Track struct {
	cues  []Cue
	order []int
}

// NewTrack copies cues and indexes them by start time.
func NewTrack(cues []Cue) *Track {
	t := &Track{cues: append([]Cue(nil), cues...)}
	t.order = make([]int, len(t.cues))
	for i := range t.order {
		t.order[i] = i
	}
	sort.SliceStable(t.order, func(a, b int) bool {
		return t.cues[t.order[a]].Start < t.cues[t.order[b]].Start
	})
	return t
}

// Cues returns the cues in source order.
func (t *Track) Cues() []Cue {
	if t == nil {
		return nil
	}
	return append([]Cue(nil), t.cues...)
}

// Len returns the number of cues.
func (t *Track) Len() int {
	if t == nil {
		return 0
	}
	return len(t.cues)
}

// At returns the cue showing at the given position. When cues overlap, the
// one that started most recently wins.
func (t *Track) At(seconds float64) (Cue, bool) {
	if t.Len() == 0 {
		return Cue{}, false
	}
	// first cue starting after the position
	n := sort.Search(len(t.order), func(i int) bool {
		return t.cues[t.order[i]].Start > seconds
	})
	for i := n - 1; i >= 0; i-- {
		cue := t.cues[t.order[i]]
		if cue.Contains(seconds) {
			return cue, true
		}
	}
	return Cue{}, false
}

// Next returns the first cue that starts after the given position.
func (t *Track) Next(seconds float64) (Cue, bool) {
	if t.Len() == 0 {
		return Cue{}, false
	}
	n := sort.Search(len(t.order), func(i int) bool {
		return t.cues[t.order[i]].Start > seconds
	})
	if n >= len(t.order) {
		return Cue{}, false
	}
	return t.cues[t.order[n]], true
}
