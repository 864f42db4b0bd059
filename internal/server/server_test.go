package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"subcue/internal/api"
	"subcue/internal/config"
	"subcue/internal/testsupport"
)

func newTestServer(t *testing.T, opts ...testsupport.ConfigOption) (*Server, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	st := testsupport.MustOpenStore(t, cfg)
	srv, err := New(cfg, api.NewTrackServiceFromConfig(cfg, st, nil), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv, cfg
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestParseEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	w := doRequest(t, srv.Handler(), http.MethodPost, "/api/parse", testsupport.BilingualSRT)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected request id header")
	}
	var resp api.ParseResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Cues) != 2 || resp.Cues[0].Primary != "Xin chào" || resp.Cues[1].Secondary != "Goodbye" {
		t.Fatalf("unexpected cues %+v", resp.Cues)
	}
	if !strings.Contains(w.Body.String(), `"startTime":1`) {
		t.Fatalf("expected player field names in %s", w.Body.String())
	}
}

func TestParseEndpointMediaSecondsAndBadQuery(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	w := doRequest(t, h, http.MethodPost, "/api/parse?mediaSeconds=120", testsupport.BilingualSRT)
	var resp api.ParseResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Issues) != 1 || !strings.HasPrefix(resp.Issues[0], "duration_mismatch") {
		t.Fatalf("expected duration mismatch issue, got %v", resp.Issues)
	}

	w = doRequest(t, h, http.MethodPost, "/api/parse?mediaSeconds=abc", testsupport.BilingualSRT)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad number, got %d", w.Code)
	}
}

func serveSubtitle(t *testing.T, body string) string {
	t.Helper()
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-subrip")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(remote.Close)
	return remote.URL + "/lesson.srt"
}

func TestTrackLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	payload, _ := json.Marshal(ImportRequest{Source: serveSubtitle(t, testsupport.BilingualSRT)})
	w := doRequest(t, h, http.MethodPost, "/api/tracks", string(payload))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}
	var imported api.ImportResult
	if err := json.Unmarshal(w.Body.Bytes(), &imported); err != nil {
		t.Fatalf("decode import: %v", err)
	}
	id := imported.Track.ID

	w = doRequest(t, h, http.MethodPost, "/api/tracks", string(payload))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on unchanged re-import, got %d", w.Code)
	}

	w = doRequest(t, h, http.MethodGet, "/api/tracks", "")
	var list TrackListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Tracks) != 1 || list.Tracks[0].ID != id {
		t.Fatalf("unexpected track list %+v", list)
	}

	w = doRequest(t, h, http.MethodGet, "/api/tracks/"+id, "")
	if w.Code != http.StatusOK {
		t.Fatalf("describe: expected 200, got %d", w.Code)
	}

	w = doRequest(t, h, http.MethodGet, "/api/tracks/"+id+"/cues?at=4.5", "")
	var cues api.CueList
	if err := json.Unmarshal(w.Body.Bytes(), &cues); err != nil {
		t.Fatalf("decode cues: %v", err)
	}
	if len(cues.Cues) != 2 || cues.Active == nil || cues.Active.ID != 2 || cues.Next != nil {
		t.Fatalf("unexpected cue list %+v", cues)
	}

	w = doRequest(t, h, http.MethodDelete, "/api/tracks/"+id, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
	w = doRequest(t, h, http.MethodGet, "/api/tracks/"+id, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestCuesEndpointForCachedDocument(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	doc := testsupport.PutDocument(t, st, "/subs/cached.srt", testsupport.BilingualSRT)
	srv, err := New(cfg, api.NewTrackServiceFromConfig(cfg, st, nil), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	w := doRequest(t, srv.Handler(), http.MethodGet, "/api/tracks/"+doc.ID+"/cues?at=nope", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad position, got %d", w.Code)
	}
	w = doRequest(t, srv.Handler(), http.MethodGet, "/api/tracks/"+doc.ID+"/cues", "")
	var list api.CueList
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode cues: %v", err)
	}
	if list.TrackID != doc.ID || len(list.Cues) != 2 || list.Active != nil {
		t.Fatalf("unexpected cue list %+v", list)
	}
}

func TestImportRejectsLocalPaths(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()
	existing := testsupport.WriteSubtitle(t, "private.srt", testsupport.BilingualSRT)

	for _, source := range []string{existing, existing + ".missing", "file://" + existing} {
		payload, _ := json.Marshal(ImportRequest{Source: source})
		w := doRequest(t, h, http.MethodPost, "/api/tracks", string(payload))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d: %s", source, w.Code, w.Body.String())
		}
	}

	w := doRequest(t, h, http.MethodGet, "/api/tracks", "")
	var list TrackListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Tracks) != 0 {
		t.Fatalf("expected nothing cached, got %+v", list.Tracks)
	}
}

func TestJSONEndpointsRequireJSONContentType(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()
	payload, _ := json.Marshal(ImportRequest{Source: serveSubtitle(t, testsupport.BilingualSRT)})

	for _, target := range []string{"/api/tracks", "/api/quiz"} {
		req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "text/plain")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 for text/plain, got %d", target, w.Code)
		}
	}
}

func TestImportRejectsInvalidJSON(t *testing.T) {
	srv, _ := newTestServer(t)
	w := doRequest(t, srv.Handler(), http.MethodPost, "/api/tracks", "{not json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp.Error == "" || resp.RequestID == "" {
		t.Fatalf("expected error message and request id, got %+v", resp)
	}
}

func TestQuizEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	w := doRequest(t, srv.Handler(), http.MethodPost, "/api/quiz", `{"text":"Tôi thích uống cà phê","seed":42}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp api.QuizResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode quiz: %v", err)
	}
	if resp.Words != 5 || len(resp.Exercise.Shuffled) != 5 {
		t.Fatalf("unexpected quiz response %+v", resp)
	}

	w = doRequest(t, srv.Handler(), http.MethodPost, "/api/quiz", `{"text":"Chào"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short sentence, got %d", w.Code)
	}
}

func TestQuizCheckEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	w := doRequest(t, h, http.MethodPost, "/api/quiz", `{"text":"Tôi thích uống cà phê","seed":0}`)
	var issued api.QuizResponse
	if err := json.Unmarshal(w.Body.Bytes(), &issued); err != nil {
		t.Fatalf("decode quiz: %v", err)
	}
	if issued.Seed != 0 {
		t.Fatalf("expected seed 0 echoed, got %d", issued.Seed)
	}

	w = doRequest(t, h, http.MethodPost, "/api/quiz/check", `{"text":"Tôi thích uống cà phê","seed":0,"attempt":"tôi thích uống cà phê"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var checked api.QuizCheckResponse
	if err := json.Unmarshal(w.Body.Bytes(), &checked); err != nil {
		t.Fatalf("decode check: %v", err)
	}
	if !checked.Score.Completed || checked.Score.Total != 5 {
		t.Fatalf("unexpected score %+v", checked)
	}

	w = doRequest(t, h, http.MethodPost, "/api/quiz/check", `{"text":"Tôi thích uống cà phê","attempt":"cà phê"}`)
	if err := json.Unmarshal(w.Body.Bytes(), &checked); err != nil {
		t.Fatalf("decode check: %v", err)
	}
	if checked.Score.Completed || checked.Answer != "Tôi thích uống cà phê" {
		t.Fatalf("expected answer for a wrong attempt, got %+v", checked)
	}
}

func TestAuthRequiresBearerToken(t *testing.T) {
	srv, _ := newTestServer(t, testsupport.WithAPIToken("s3cret"))
	h := srv.Handler()

	w := doRequest(t, h, http.MethodGet, "/api/tracks", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/tracks", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}

	w = doRequest(t, h, http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected health to skip auth, got %d", w.Code)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	srv, _ := newTestServer(t)
	const inbound = "7d444840-9dc0-11d1-b245-5ffdce74fad2"
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(requestIDHeader, inbound)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != inbound {
		t.Fatalf("expected inbound request id echoed, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(requestIDHeader, "not-a-uuid")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got == "not-a-uuid" || got == "" {
		t.Fatalf("expected generated request id, got %q", got)
	}
}

func TestParseRejectsOversizeBody(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.maxBytes = 8
	w := doRequest(t, srv.Handler(), http.MethodPost, "/api/parse", testsupport.BilingualSRT)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversize body, got %d", w.Code)
	}
}

func TestStartServesAndHoldsLock(t *testing.T) {
	srv, cfg := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer srv.Stop()

	resp, err := http.Post("http://"+srv.Addr()+"/api/parse", "application/x-subrip", bytes.NewBufferString(testsupport.BilingualSRT))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from live server, got %d", resp.StatusCode)
	}

	st := testsupport.MustOpenStore(t, cfg)
	second, err := New(cfg, api.NewTrackServiceFromConfig(cfg, st, nil), nil)
	if err != nil {
		t.Fatalf("New second: %v", err)
	}
	if err := second.Start(ctx); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}
