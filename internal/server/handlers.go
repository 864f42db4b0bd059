package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"subcue/internal/api"
	"subcue/internal/logging"
	"subcue/internal/services"
	"subcue/internal/srt"
)

// TrackListResponse wraps the cached track listing.
type TrackListResponse struct {
	Tracks []api.Track `json:"tracks"`
}

// ImportRequest names the source to cache.
type ImportRequest struct {
	Source string `json:"source"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	raw, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	text, err := srt.Decode(raw)
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "server", "parse", "decode body", err))
		return
	}
	query := r.URL.Query()
	mediaSeconds, err := optionalFloat(query.Get("mediaSeconds"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := s.svc.ParseText(r.Context(), text, queryBool(query.Get("lenient")))
	if mediaSeconds != nil {
		resp.Issues = api.FromResult(srt.Result{Cues: resp.Cues, Diagnostics: resp.Diagnostics, Blocks: resp.Blocks}, *mediaSeconds).Issues
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListTracks(w http.ResponseWriter, r *http.Request) {
	tracks, err := s.svc.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if tracks == nil {
		tracks = []api.Track{}
	}
	s.writeJSON(w, http.StatusOK, TrackListResponse{Tracks: tracks})
}

func (s *Server) handleImportTrack(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.ImportRemote(r.Context(), req.Source)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if res.Changed {
		status = http.StatusCreated
	}
	s.writeJSON(w, status, res)
}

func (s *Server) handleDescribeTrack(w http.ResponseWriter, r *http.Request) {
	detail, err := s.svc.Describe(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleTrackCues(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	at, err := optionalFloat(query.Get("at"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	list, err := s.svc.Cues(r.Context(), r.PathValue("id"), api.CueOptions{
		At:      at,
		Lenient: queryBool(query.Get("lenient")),
		KeepAds: queryBool(query.Get("keepAds")),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleRemoveTrack(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Remove(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	var req api.QuizRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := s.svc.Quiz(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQuizCheck(w http.ResponseWriter, r *http.Request) {
	var req api.QuizCheckRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := s.svc.CheckQuiz(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body := r.Body
	if s.maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.maxBytes)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, services.Wrap(services.ErrValidation, "server", "read body", "request body too large", nil)
		}
		return nil, services.Wrap(services.ErrValidation, "server", "read body", "", err)
	}
	return raw, nil
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return services.Wrap(services.ErrValidation, "server", "decode request", "content type must be application/json", nil)
	}
	raw, err := s.readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return services.Wrap(services.ErrValidation, "server", "decode request", "invalid JSON body", err)
	}
	return nil
}

func optionalFloat(value string) (*float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "server", "query", "invalid number "+strconv.Quote(value), nil)
	}
	return &parsed, nil
}

func queryBool(value string) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && parsed
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(payload); err != nil {
		s.logger.Warn("api response encode failed", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := services.HTTPStatus(err)
	resp := errorResponse{Error: err.Error()}
	if id, ok := services.RequestIDFromContext(r.Context()); ok {
		resp.RequestID = id
	}
	if status >= http.StatusInternalServerError {
		logging.ErrorWithContext(r.Context(), s.logger, "api request failed", "api_request_failed",
			logging.String("path", r.URL.Path),
			logging.Error(err),
		)
	}
	s.writeJSON(w, status, resp)
}
