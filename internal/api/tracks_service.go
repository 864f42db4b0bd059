package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"subcue/internal/config"
	"subcue/internal/fetch"
	"subcue/internal/language"
	"subcue/internal/logging"
	"subcue/internal/quiz"
	"subcue/internal/services"
	"subcue/internal/srt"
	"subcue/internal/store"
)

const component = "tracks"

// DocumentStore abstracts the document cache used by TrackService.
type DocumentStore interface {
	Put(ctx context.Context, doc store.Document) (*store.Document, bool, error)
	Get(ctx context.Context, id string) (*store.Document, error)
	List(ctx context.Context) ([]store.Document, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Fetcher downloads remote subtitle documents.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) (fetch.Document, error)
}

// ServiceOptions configures a TrackService.
type ServiceOptions struct {
	Store    DocumentStore
	Fetcher  Fetcher
	Index    srt.IndexPolicy
	StripAds bool
	MaxBytes int64
	MinWords int
	Logger   *slog.Logger
}

// CueOptions tunes a Cues read.
type CueOptions struct {
	// At enables playback lookup at the given position in seconds.
	At *float64
	// Lenient keeps blocks with a broken index regardless of the service policy.
	Lenient bool
	// KeepAds disables advertisement cleanup for this read.
	KeepAds bool
}

// TrackService imports subtitle sources and serves their cues.
type TrackService struct {
	store    DocumentStore
	fetcher  Fetcher
	index    srt.IndexPolicy
	stripAds bool
	maxBytes int64
	minWords int
	logger   *slog.Logger
}

// NewTrackService constructs a TrackService.
func NewTrackService(opts ServiceOptions) *TrackService {
	minWords := opts.MinWords
	if minWords <= 0 {
		minWords = quiz.DefaultMinWords
	}
	return &TrackService{
		store:    opts.Store,
		fetcher:  opts.Fetcher,
		index:    opts.Index,
		stripAds: opts.StripAds,
		maxBytes: opts.MaxBytes,
		minWords: minWords,
		logger:   logging.NewComponentLogger(opts.Logger, component),
	}
}

// NewTrackServiceFromConfig wires a TrackService from configuration.
func NewTrackServiceFromConfig(cfg *config.Config, st DocumentStore, logger *slog.Logger) *TrackService {
	fetcher := fetch.New(fetch.Config{
		UserAgent: cfg.Fetch.UserAgent,
		Timeout:   cfg.FetchTimeout(),
		MaxBytes:  cfg.Fetch.MaxBytes,
		Logger:    logger,
	})
	return NewTrackService(ServiceOptions{
		Store:    st,
		Fetcher:  fetcher,
		Index:    srt.ParseIndexPolicy(cfg.Parser.IndexPolicy),
		StripAds: cfg.Parser.StripAds,
		MaxBytes: cfg.Fetch.MaxBytes,
		MinWords: cfg.Quiz.MinWords,
		Logger:   logger,
	})
}

// ParseText parses an SRT document without caching it.
func (s *TrackService) ParseText(ctx context.Context, text string, lenient bool) ParseResponse {
	result := srt.ParseDetailed(text, s.parseOptions(lenient))
	s.logDrops(ctx, "", result)
	return FromResult(result, 0)
}

// Import reads a subtitle document from a URL or local path and caches it.
func (s *TrackService) Import(ctx context.Context, source string) (*ImportResult, error) {
	if s == nil || s.store == nil {
		return nil, services.Wrap(services.ErrConfiguration, component, "import", "document store unavailable", nil)
	}
	ctx = services.WithOperation(ctx, "import")
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, services.Wrap(services.ErrValidation, component, "import", "source is required", nil)
	}

	var (
		text string
		err  error
	)
	if fetch.IsRemote(source) {
		text, err = s.fetchRemote(ctx, source)
	} else {
		source, text, err = s.readLocal(source)
	}
	if err != nil {
		return nil, err
	}

	result := srt.ParseDetailed(text, s.parseOptions(false))
	if len(result.Cues) == 0 {
		return nil, services.Wrap(services.ErrValidation, component, "import",
			fmt.Sprintf("no cues found in %s", source), nil)
	}

	doc, changed, err := s.store.Put(ctx, store.Document{
		Source:   source,
		Title:    titleFromSource(source),
		Language: language.FromSource(source),
		Body:     text,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, component, "import", "cache document", err)
	}
	ctx = services.WithTrackID(ctx, doc.ID)
	s.logDrops(ctx, doc.ID, result)
	s.logger.InfoContext(ctx, "subtitle track cached",
		logging.String(logging.FieldEventType, "track_imported"),
		logging.String("source", source),
		logging.Int("cues", len(result.Cues)),
		logging.Bool("changed", changed),
	)
	return &ImportResult{Track: Detail(FromDocument(doc), result), Changed: changed}, nil
}

// ImportRemote is Import restricted to http(s) sources. Network callers use
// it so a request can never read files from the host.
func (s *TrackService) ImportRemote(ctx context.Context, source string) (*ImportResult, error) {
	if !fetch.IsRemote(source) {
		return nil, services.Wrap(services.ErrValidation, component, "import",
			"source must be an http or https URL", nil)
	}
	return s.Import(ctx, source)
}

// List returns every cached track.
func (s *TrackService) List(ctx context.Context) ([]Track, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	docs, err := s.store.List(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, component, "list", "list documents", err)
	}
	return FromDocuments(docs), nil
}

// Describe returns a track with parse statistics.
func (s *TrackService) Describe(ctx context.Context, id string) (*TrackDetail, error) {
	doc, err := s.lookup(ctx, "describe", id)
	if err != nil {
		return nil, err
	}
	result := srt.ParseDetailed(doc.Body, s.parseOptions(false))
	detail := Detail(FromDocument(doc), result)
	return &detail, nil
}

// Cues parses a cached track and returns its cues.
func (s *TrackService) Cues(ctx context.Context, id string, opts CueOptions) (*CueList, error) {
	doc, err := s.lookup(ctx, "cues", id)
	if err != nil {
		return nil, err
	}
	ctx = services.WithTrackID(ctx, doc.ID)
	result := srt.ParseDetailed(doc.Body, s.parseOptions(opts.Lenient))
	s.logDrops(ctx, doc.ID, result)

	cues := result.Cues
	removed := 0
	if s.stripAds && !opts.KeepAds {
		var stats srt.CleanStats
		cues, stats = srt.Clean(cues)
		removed = stats.RemovedCues
	}

	list := &CueList{
		TrackID:     doc.ID,
		Cues:        cues,
		Diagnostics: result.Diagnostics,
		Blocks:      result.Blocks,
		Removed:     removed,
	}
	if opts.At != nil {
		track := srt.NewTrack(cues)
		if cue, ok := track.At(*opts.At); ok {
			list.Active = &cue
		}
		if cue, ok := track.Next(*opts.At); ok {
			list.Next = &cue
		}
	}
	return list, nil
}

// Remove deletes a cached track.
func (s *TrackService) Remove(ctx context.Context, id string) error {
	if s == nil || s.store == nil {
		return services.Wrap(services.ErrConfiguration, component, "remove", "document store unavailable", nil)
	}
	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		return services.Wrap(services.ErrTransient, component, "remove", "delete document", err)
	}
	if !removed {
		return services.Wrap(services.ErrNotFound, component, "remove", fmt.Sprintf("track %s not found", id), nil)
	}
	s.logger.InfoContext(services.WithTrackID(ctx, id), "subtitle track removed",
		logging.String(logging.FieldEventType, "track_removed"),
	)
	return nil
}

// Quiz builds a word-ordering exercise from free text or a cached cue. A nil
// seed picks a random one; the seed used is returned so the exercise can be
// rebuilt for CheckQuiz.
func (s *TrackService) Quiz(ctx context.Context, req QuizRequest) (*QuizResponse, error) {
	seed := rand.Uint64()
	if req.Seed != nil {
		seed = *req.Seed
	}
	ex, err := s.exercise(ctx, req, seed)
	if err != nil {
		return nil, err
	}
	return &QuizResponse{Exercise: ex, Words: len(ex.Words), Seed: seed}, nil
}

// CheckQuiz rebuilds the exercise described by req and scores the attempt.
// A seed is required when the cue was picked at random.
func (s *TrackService) CheckQuiz(ctx context.Context, req QuizCheckRequest) (*QuizCheckResponse, error) {
	var seed uint64
	if req.Seed != nil {
		seed = *req.Seed
	} else if strings.TrimSpace(req.Text) == "" && req.CueID == 0 {
		return nil, services.Wrap(services.ErrValidation, component, "check quiz",
			"seed is required when the cue was picked at random", nil)
	}
	ex, err := s.exercise(ctx, req.QuizRequest, seed)
	if err != nil {
		return nil, err
	}
	score := quiz.Check(ex, req.Attempt)
	resp := &QuizCheckResponse{CueID: ex.CueID, Score: score}
	if !score.Completed {
		resp.Answer = ex.Answer()
	}
	return resp, nil
}

func (s *TrackService) exercise(ctx context.Context, req QuizRequest, seed uint64) (quiz.Exercise, error) {
	rng := quiz.NewRand(seed)
	if text := strings.TrimSpace(req.Text); text != "" {
		return quiz.NewExercise(srt.Cue{Primary: text}, rng, s.minWords)
	}
	if strings.TrimSpace(req.TrackID) == "" {
		return quiz.Exercise{}, services.Wrap(services.ErrValidation, component, "quiz", "text or trackId is required", nil)
	}
	list, err := s.Cues(ctx, req.TrackID, CueOptions{})
	if err != nil {
		return quiz.Exercise{}, err
	}
	return PickExercise(list.Cues, req.CueID, rng, s.minWords)
}

// PickExercise builds an exercise from the cue with cueID, or from a random
// cue with enough words when cueID is zero.
func PickExercise(cues []srt.Cue, cueID int, rng *rand.Rand, minWords int) (quiz.Exercise, error) {
	if cueID > 0 {
		for _, cue := range cues {
			if cue.ID == cueID {
				return quiz.NewExercise(cue, rng, minWords)
			}
		}
		return quiz.Exercise{}, services.Wrap(services.ErrNotFound, component, "quiz", fmt.Sprintf("cue %d not found", cueID), nil)
	}
	for _, i := range rng.Perm(len(cues)) {
		ex, err := quiz.NewExercise(cues[i], rng, minWords)
		if err == nil {
			return ex, nil
		}
	}
	return quiz.Exercise{}, services.Wrap(services.ErrValidation, component, "quiz",
		fmt.Sprintf("no cue has at least %d words", minWords), nil)
}

func (s *TrackService) lookup(ctx context.Context, operation, id string) (*store.Document, error) {
	if s == nil || s.store == nil {
		return nil, services.Wrap(services.ErrConfiguration, component, operation, "document store unavailable", nil)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, services.Wrap(services.ErrValidation, component, operation, "track id is required", nil)
	}
	doc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, component, operation, "load document", err)
	}
	if doc == nil {
		return nil, services.Wrap(services.ErrNotFound, component, operation, fmt.Sprintf("track %s not found", id), nil)
	}
	return doc, nil
}

func (s *TrackService) fetchRemote(ctx context.Context, source string) (string, error) {
	if s.fetcher == nil {
		return "", services.Wrap(services.ErrConfiguration, component, "import", "fetch client unavailable", nil)
	}
	doc, err := s.fetcher.Get(ctx, source)
	if err != nil {
		return "", err
	}
	return doc.Text, nil
}

func (s *TrackService) readLocal(source string) (string, string, error) {
	path, err := config.ExpandPath(source)
	if err != nil {
		return "", "", services.Wrap(services.ErrValidation, component, "import", "resolve path", err)
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", "", services.Wrap(services.ErrNotFound, component, "import", fmt.Sprintf("file %s not found", path), nil)
	}
	if err != nil {
		return "", "", services.Wrap(services.ErrValidation, component, "import", "open file", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if s.maxBytes > 0 {
		reader = io.LimitReader(f, s.maxBytes+1)
	}
	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", "", services.Wrap(services.ErrTransient, component, "import", "read file", err)
	}
	if s.maxBytes > 0 && int64(len(raw)) > s.maxBytes {
		return "", "", services.Wrap(services.ErrValidation, component, "import",
			fmt.Sprintf("file exceeds %d bytes", s.maxBytes), nil)
	}
	text, err := srt.Decode(raw)
	if err != nil {
		return "", "", services.Wrap(services.ErrValidation, component, "import", "decode file", err)
	}
	return path, text, nil
}

func (s *TrackService) parseOptions(lenient bool) srt.Options {
	if lenient {
		return srt.Options{Index: srt.IndexLenient}
	}
	return srt.Options{Index: s.index}
}

func (s *TrackService) logDrops(ctx context.Context, id string, result srt.Result) {
	if result.Clean() {
		return
	}
	ctx = services.WithTrackID(ctx, id)
	logging.WarnWithContext(ctx, s.logger, "subtitle blocks dropped", "subtitle_blocks_dropped",
		logging.Int("dropped", result.Dropped()),
		logging.Int("blocks", result.Blocks),
		logging.String("first_reason", string(result.Diagnostics[0].Reason)),
		logging.Int("first_line", result.Diagnostics[0].Line),
		logging.String(logging.FieldErrorHint, "check the block numbering and timing lines"),
		logging.String(logging.FieldImpact, "dropped blocks are not shown to the learner"),
	)
}

func titleFromSource(source string) string {
	base := source
	if fetch.IsRemote(source) {
		if idx := strings.LastIndex(source, "/"); idx >= 0 {
			base = source[idx+1:]
		}
		if idx := strings.IndexAny(base, "?#"); idx >= 0 {
			base = base[:idx]
		}
	} else {
		base = filepath.Base(source)
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
