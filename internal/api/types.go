package api

import (
	"subcue/internal/quiz"
	"subcue/internal/srt"
)

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Track describes a cached subtitle document.
type Track struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	Title     string `json:"title,omitempty"`
	Language  string `json:"language,omitempty"`
	Checksum  string `json:"checksum"`
	Size      int64  `json:"size"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// TrackDetail adds parse statistics to a track.
type TrackDetail struct {
	Track
	Cues    int      `json:"cues"`
	Blocks  int      `json:"blocks"`
	Dropped int      `json:"dropped"`
	First   float64  `json:"firstCue"`
	Last    float64  `json:"lastCue"`
	Issues  []string `json:"issues"`
}

// ImportResult reports the outcome of caching a source.
type ImportResult struct {
	Track   TrackDetail `json:"track"`
	Changed bool        `json:"changed"`
}

// CueList is the parsed content of a track.
type CueList struct {
	TrackID     string           `json:"trackId,omitempty"`
	Cues        []srt.Cue        `json:"cues"`
	Diagnostics []srt.Diagnostic `json:"diagnostics,omitempty"`
	Blocks      int              `json:"blocks"`
	Removed     int              `json:"removed,omitempty"`
	Active      *srt.Cue         `json:"active,omitempty"`
	Next        *srt.Cue         `json:"next,omitempty"`
}

// ParseResponse is returned for ad-hoc parse requests.
type ParseResponse struct {
	Cues        []srt.Cue        `json:"cues"`
	Diagnostics []srt.Diagnostic `json:"diagnostics,omitempty"`
	Blocks      int              `json:"blocks"`
	Issues      []string         `json:"issues"`
}

// QuizRequest selects the sentence for a dictation exercise. Text wins over
// TrackID when both are set. Seed is optional; zero is a valid seed.
type QuizRequest struct {
	Text    string  `json:"text,omitempty"`
	TrackID string  `json:"trackId,omitempty"`
	CueID   int     `json:"cueId,omitempty"`
	Seed    *uint64 `json:"seed,omitempty"`
}

// QuizResponse wraps an exercise for transport.
type QuizResponse struct {
	Exercise quiz.Exercise `json:"exercise"`
	Words    int           `json:"words"`
	Seed     uint64        `json:"seed"`
}

// QuizCheckRequest repeats the exercise selection and carries the learner's
// attempt.
type QuizCheckRequest struct {
	QuizRequest
	Attempt string `json:"attempt"`
}

// QuizCheckResponse scores an attempt. Answer is set only when the attempt
// was not fully correct.
type QuizCheckResponse struct {
	CueID  int        `json:"cueId"`
	Score  quiz.Score `json:"score"`
	Answer string     `json:"answer,omitempty"`
}
