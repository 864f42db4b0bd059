package quiz

import (
	"errors"
	"slices"
	"testing"

	"subcue/internal/services"
	"subcue/internal/srt"
)

func TestShuffleIsPermutation(t *testing.T) {
	words := []string{"a", "b", "c", "d", "e", "f"}
	shuffled := slices.Clone(words)
	Shuffle(shuffled, NewRand(42))

	sorted := slices.Clone(shuffled)
	slices.Sort(sorted)
	if !slices.Equal(sorted, words) {
		t.Fatalf("shuffle lost or duplicated words: %v", shuffled)
	}
}

func TestShuffleDeterministicWithSeed(t *testing.T) {
	a := []string{"one", "two", "three", "four", "five"}
	b := slices.Clone(a)
	Shuffle(a, NewRand(7))
	Shuffle(b, NewRand(7))
	if !slices.Equal(a, b) {
		t.Fatalf("expected identical order for identical seed: %v vs %v", a, b)
	}
}

func TestNewRandZeroSeedIsRepeatable(t *testing.T) {
	a, b := NewRand(0), NewRand(0)
	for i := 0; i < 8; i++ {
		if x, y := a.Uint64(), b.Uint64(); x != y {
			t.Fatalf("draw %d differs for seed 0: %d vs %d", i, x, y)
		}
	}
}

func TestNewExercise(t *testing.T) {
	cue := srt.Cue{ID: 4, Start: 1, End: 3, Primary: "Hôm nay tôi đi học ở trường mới.", Secondary: "Today I go to my new school."}
	ex, err := NewExercise(cue, NewRand(1), 0)
	if err != nil {
		t.Fatalf("NewExercise: %v", err)
	}
	if ex.Answer() != "Hôm nay tôi đi học ở trường mới" {
		t.Fatalf("unexpected answer %q", ex.Answer())
	}
	if ex.Prompt != cue.Secondary || ex.CueID != 4 {
		t.Fatalf("unexpected exercise %+v", ex)
	}
	if slices.Equal(ex.Shuffled, ex.Words) {
		t.Fatalf("expected shuffled order to differ from answer")
	}
}

func TestNewExerciseRejectsShortCue(t *testing.T) {
	_, err := NewExercise(srt.Cue{Primary: "Xin chào"}, NewRand(1), 3)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWordsTrimsPunctuation(t *testing.T) {
	got := Words(`"Xin chào!" — bạn khỏe không?`)
	want := []string{"Xin", "chào", "bạn", "khỏe", "không"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestCheck(t *testing.T) {
	ex := Exercise{Words: []string{"Tôi", "là", "sinh", "viên"}}

	full := Check(ex, "tôi LÀ sinh viên.")
	if !full.Completed || full.Correct != 4 {
		t.Fatalf("expected completed score, got %+v", full)
	}

	partial := Check(ex, "tôi sinh là viên")
	if partial.Completed || partial.Correct != 2 || partial.Total != 4 {
		t.Fatalf("unexpected partial score %+v", partial)
	}

	short := Check(ex, "tôi là")
	if short.Completed || short.Correct != 2 {
		t.Fatalf("unexpected short score %+v", short)
	}
}
