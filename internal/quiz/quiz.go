package quiz

import (
	"math/rand/v2"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"subcue/internal/services"
	"subcue/internal/srt"
)

// DefaultMinWords is the smallest sentence worth reordering.
const DefaultMinWords = 3

// Exercise asks the learner to put the shuffled words of a cue back in order.
type Exercise struct {
	CueID    int      `json:"cueId"`
	Start    float64  `json:"startTime"`
	End      float64  `json:"endTime"`
	Prompt   string   `json:"prompt"`
	Words    []string `json:"-"`
	Shuffled []string `json:"shuffled"`
}

// Answer returns the sentence in its original order.
func (e Exercise) Answer() string {
	return strings.Join(e.Words, " ")
}

// Shuffle permutes words in place with Fisher-Yates.
func Shuffle(words []string, rng *rand.Rand) {
	for i := len(words) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		words[i], words[j] = words[j], words[i]
	}
}

// NewExercise builds an exercise from the cue's primary line. The secondary
// line, usually the translation, becomes the prompt. minWords <= 0 uses
// DefaultMinWords.
func NewExercise(cue srt.Cue, rng *rand.Rand, minWords int) (Exercise, error) {
	if minWords <= 0 {
		minWords = DefaultMinWords
	}
	words := Words(cue.Primary)
	if len(words) < minWords {
		return Exercise{}, services.Wrap(services.ErrValidation, "quiz", "build exercise",
			"cue has too few words to reorder", nil)
	}
	shuffled := slices.Clone(words)
	// a few retries avoid handing back the answer unchanged
	for attempt := 0; attempt < 4; attempt++ {
		Shuffle(shuffled, rng)
		if !slices.Equal(shuffled, words) {
			break
		}
	}
	return Exercise{
		CueID:    cue.ID,
		Start:    cue.Start,
		End:      cue.End,
		Prompt:   cue.Secondary,
		Words:    words,
		Shuffled: shuffled,
	}, nil
}

// Words splits text on whitespace and trims surrounding punctuation.
func Words(text string) []string {
	fields := strings.Fields(text)
	words := make([]string, 0, len(fields))
	for _, field := range fields {
		word := strings.TrimFunc(field, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if word != "" {
			words = append(words, word)
		}
	}
	return words
}

// Score is the outcome of Check.
type Score struct {
	Correct   int  `json:"correct"`
	Total     int  `json:"total"`
	Completed bool `json:"completed"`
}

// Check compares an attempt with the answer position by position, ignoring
// case and punctuation.
func Check(ex Exercise, attempt string) Score {
	fold := cases.Fold()
	given := Words(attempt)
	score := Score{Total: len(ex.Words)}
	for i, word := range ex.Words {
		if i >= len(given) {
			break
		}
		if fold.String(word) == fold.String(given[i]) {
			score.Correct++
		}
	}
	score.Completed = score.Correct == score.Total && len(given) == len(ex.Words)
	return score
}

// NewRand returns a deterministic generator for seed. Every value, zero
// included, gives a repeatable sequence.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
