package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"subcue/internal/fetch"
	"subcue/internal/services"
	"subcue/internal/srt"
	"subcue/internal/testsupport"
)

func newTestService(t *testing.T, opts ...testsupport.ConfigOption) *TrackService {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	st := testsupport.MustOpenStore(t, cfg)
	return NewTrackServiceFromConfig(cfg, st, nil)
}

func TestImportLocalFile(t *testing.T) {
	svc := newTestService(t)
	path := testsupport.WriteSubtitle(t, "Lesson 01.srt", testsupport.BilingualSRT)

	res, err := svc.Import(context.Background(), path)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if !res.Changed {
		t.Fatal("expected first import to report a change")
	}
	if res.Track.Title != "Lesson 01" {
		t.Fatalf("unexpected title %q", res.Track.Title)
	}
	if res.Track.Cues != 2 || res.Track.Dropped != 0 || res.Track.Last != 6 {
		t.Fatalf("unexpected detail %+v", res.Track)
	}

	again, err := svc.Import(context.Background(), path)
	if err != nil {
		t.Fatalf("Import again: %v", err)
	}
	if again.Changed || again.Track.ID != res.Track.ID {
		t.Fatalf("expected unchanged re-import, got %+v", again)
	}
}

func TestImportRemoteDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-subrip")
		_, _ = w.Write([]byte(testsupport.BilingualSRT))
	}))
	defer srv.Close()

	svc := newTestService(t)
	res, err := svc.Import(context.Background(), srv.URL+"/media/ep2.vi.srt?token=abc")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Track.Title != "ep2.vi" || res.Track.Language != "vi" {
		t.Fatalf("unexpected title %q language %q", res.Track.Title, res.Track.Language)
	}
	if !strings.HasPrefix(res.Track.Source, srv.URL) {
		t.Fatalf("unexpected source %q", res.Track.Source)
	}
}

func TestImportRemoteRejectsLocalSources(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	path := testsupport.WriteSubtitle(t, "private.srt", testsupport.BilingualSRT)

	for _, source := range []string{path, "/no/such/file.srt", "file://" + path, "~/lesson.srt"} {
		if _, err := svc.ImportRemote(ctx, source); !errors.Is(err, services.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", source, err)
		}
	}
	tracks, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tracks) != 0 {
		t.Fatalf("expected nothing cached, got %+v", tracks)
	}
}

func TestImportErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Import(ctx, "  "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty source, got %v", err)
	}
	if _, err := svc.Import(ctx, "/no/such/file.srt"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found for missing file, got %v", err)
	}
	garbage := testsupport.WriteSubtitle(t, "notes.srt", "just some notes\nwithout timing\n")
	if _, err := svc.Import(ctx, garbage); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for document without cues, got %v", err)
	}
}

func TestImportRejectsOversizeFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	svc := NewTrackService(ServiceOptions{Store: st, MaxBytes: 16})

	path := testsupport.WriteSubtitle(t, "big.srt", testsupport.BilingualSRT)
	if _, err := svc.Import(context.Background(), path); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCuesStripsAdsAndLooksUpPlayback(t *testing.T) {
	svc := newTestService(t)
	doc := testsupport.WriteSubtitle(t, "ads.srt", testsupport.BilingualSRT+
		"\n3\n00:00:07,000 --> 00:00:09,000\nSubtitles by www.opensubtitles.org\n")

	res, err := svc.Import(context.Background(), doc)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	at := 2.0
	list, err := svc.Cues(context.Background(), res.Track.ID, CueOptions{At: &at})
	if err != nil {
		t.Fatalf("Cues: %v", err)
	}
	if len(list.Cues) != 2 || list.Removed != 1 {
		t.Fatalf("expected advertisement removed, got %d cues removed=%d", len(list.Cues), list.Removed)
	}
	if list.Active == nil || list.Active.ID != 1 {
		t.Fatalf("expected cue 1 active at 2s, got %+v", list.Active)
	}
	if list.Next == nil || list.Next.ID != 2 {
		t.Fatalf("expected cue 2 next, got %+v", list.Next)
	}

	kept, err := svc.Cues(context.Background(), res.Track.ID, CueOptions{KeepAds: true})
	if err != nil {
		t.Fatalf("Cues keep ads: %v", err)
	}
	if len(kept.Cues) != 3 || kept.Active != nil {
		t.Fatalf("expected all cues without lookup, got %+v", kept)
	}
}

func TestCuesLenientOverride(t *testing.T) {
	svc := newTestService(t)
	body := "x\n00:00:01,000 --> 00:00:02,000\nBroken index\n\n2\n00:00:03,000 --> 00:00:04,000\nFine\n"
	path := testsupport.WriteSubtitle(t, "broken.srt", body)
	res, err := svc.Import(context.Background(), path)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Track.Dropped != 1 {
		t.Fatalf("expected strict import to drop one block, got %d", res.Track.Dropped)
	}

	list, err := svc.Cues(context.Background(), res.Track.ID, CueOptions{Lenient: true})
	if err != nil {
		t.Fatalf("Cues: %v", err)
	}
	if len(list.Cues) != 2 || list.Cues[0].ID != 0 {
		t.Fatalf("expected lenient parse to keep block with id 0, got %+v", list.Cues)
	}
}

func TestDescribeListRemove(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	res, err := svc.Import(ctx, testsupport.WriteSubtitle(t, "a.srt", testsupport.BilingualSRT))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	detail, err := svc.Describe(ctx, res.Track.ID)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if detail.Cues != 2 || detail.First != 1 || len(detail.Issues) != 0 {
		t.Fatalf("unexpected detail %+v", detail)
	}

	tracks, err := svc.List(ctx)
	if err != nil || len(tracks) != 1 {
		t.Fatalf("List: %v (%d tracks)", err, len(tracks))
	}

	if err := svc.Remove(ctx, res.Track.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := svc.Remove(ctx, res.Track.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found on second remove, got %v", err)
	}
	if _, err := svc.Describe(ctx, res.Track.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found after remove, got %v", err)
	}
}

func TestParseText(t *testing.T) {
	svc := NewTrackService(ServiceOptions{})
	resp := svc.ParseText(context.Background(), testsupport.BilingualSRT+"\n3\nno timing here\ntext\n", false)
	if len(resp.Cues) != 2 || resp.Blocks != 3 {
		t.Fatalf("unexpected parse response %+v", resp)
	}
	if len(resp.Diagnostics) != 1 || resp.Diagnostics[0].Reason != srt.ReasonMissingSeparator {
		t.Fatalf("unexpected diagnostics %+v", resp.Diagnostics)
	}
	if len(resp.Issues) != 1 || !strings.HasPrefix(resp.Issues[0], srt.IssueDroppedBlocks) {
		t.Fatalf("unexpected issues %v", resp.Issues)
	}
}

func TestQuizFromTextAndTrack(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Quiz(ctx, QuizRequest{Text: "Tôi đang học tiếng Việt", Seed: seedOf(7)})
	if err != nil {
		t.Fatalf("Quiz text: %v", err)
	}
	if resp.Words != 5 || resp.Exercise.Answer() != "Tôi đang học tiếng Việt" {
		t.Fatalf("unexpected exercise %+v", resp)
	}

	body := "1\n00:00:01,000 --> 00:00:02,000\nHi\n\n2\n00:00:03,000 --> 00:00:05,000\nChúng ta đi ăn nhé\nLet's go eat\n"
	res, err := svc.Import(ctx, testsupport.WriteSubtitle(t, "quiz.srt", body))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	resp, err = svc.Quiz(ctx, QuizRequest{TrackID: res.Track.ID, Seed: seedOf(3)})
	if err != nil {
		t.Fatalf("Quiz track: %v", err)
	}
	if resp.Exercise.CueID != 2 {
		t.Fatalf("expected the only long cue, got %d", resp.Exercise.CueID)
	}
	if _, err := svc.Quiz(ctx, QuizRequest{TrackID: res.Track.ID, CueID: 1}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for short cue, got %v", err)
	}
	if _, err := svc.Quiz(ctx, QuizRequest{TrackID: res.Track.ID, CueID: 9}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found for missing cue, got %v", err)
	}
	if _, err := svc.Quiz(ctx, QuizRequest{}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty request, got %v", err)
	}
}

func seedOf(v uint64) *uint64 { return &v }

func TestQuizZeroSeedIsRepeatable(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	req := QuizRequest{Text: "Mai chúng ta sẽ đi chợ sớm", Seed: seedOf(0)}

	first, err := svc.Quiz(ctx, req)
	if err != nil {
		t.Fatalf("Quiz: %v", err)
	}
	second, err := svc.Quiz(ctx, req)
	if err != nil {
		t.Fatalf("Quiz again: %v", err)
	}
	if first.Seed != 0 || strings.Join(first.Exercise.Shuffled, " ") != strings.Join(second.Exercise.Shuffled, " ") {
		t.Fatalf("expected identical seed-0 exercises, got %v and %v", first.Exercise.Shuffled, second.Exercise.Shuffled)
	}
}

func TestCheckQuizScoresAttempt(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	body := "1\n00:00:01,000 --> 00:00:02,000\nHi\n\n2\n00:00:03,000 --> 00:00:05,000\nChúng ta đi ăn nhé\nLet's go eat\n"
	res, err := svc.Import(ctx, testsupport.WriteSubtitle(t, "check.srt", body))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	issued, err := svc.Quiz(ctx, QuizRequest{TrackID: res.Track.ID})
	if err != nil {
		t.Fatalf("Quiz: %v", err)
	}
	check := QuizCheckRequest{
		QuizRequest: QuizRequest{TrackID: res.Track.ID, Seed: seedOf(issued.Seed)},
		Attempt:     "chúng ta đi ăn nhé!",
	}
	scored, err := svc.CheckQuiz(ctx, check)
	if err != nil {
		t.Fatalf("CheckQuiz: %v", err)
	}
	if scored.CueID != 2 || !scored.Score.Completed || scored.Answer != "" {
		t.Fatalf("expected a completed attempt, got %+v", scored)
	}

	check.Attempt = "ta Chúng đi ăn nhé"
	scored, err = svc.CheckQuiz(ctx, check)
	if err != nil {
		t.Fatalf("CheckQuiz wrong order: %v", err)
	}
	if scored.Score.Completed || scored.Score.Correct != 3 || scored.Answer != "Chúng ta đi ăn nhé" {
		t.Fatalf("unexpected score %+v", scored)
	}

	check.Seed = nil
	if _, err := svc.CheckQuiz(ctx, check); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error without seed, got %v", err)
	}
	check.CueID = 2
	if _, err := svc.CheckQuiz(ctx, check); err != nil {
		t.Fatalf("expected explicit cue to need no seed, got %v", err)
	}
}

func TestTitleFromSource(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{"/subs/Episode 3.vi.srt", "Episode 3.vi"},
		{"https://cdn.example.com/a/b/clip.srt?sig=1", "clip"},
		{"https://cdn.example.com/clip", "clip"},
	}
	for _, tc := range cases {
		if got := titleFromSource(tc.source); got != tc.want {
			t.Fatalf("titleFromSource(%q) = %q, want %q", tc.source, got, tc.want)
		}
	}
}

var _ Fetcher = (*fetch.Client)(nil)

func TestServicePolicyFromConfig(t *testing.T) {
	svc := newTestService(t, testsupport.WithIndexPolicy("lenient"), testsupport.WithoutAdStripping())
	body := "x\n00:00:01,000 --> 00:00:02,000\nSubtitles by someone\n\n2\n00:00:03,000 --> 00:00:04,000\nXin chào\n"
	res, err := svc.Import(context.Background(), testsupport.WriteSubtitle(t, "policy.srt", body))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	list, err := svc.Cues(context.Background(), res.Track.ID, CueOptions{})
	if err != nil {
		t.Fatalf("Cues: %v", err)
	}
	if len(list.Cues) != 2 || list.Removed != 0 || list.Cues[0].ID != 0 {
		t.Fatalf("expected lenient parse without ad stripping, got %+v", list)
	}
}
