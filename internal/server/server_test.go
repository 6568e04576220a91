package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agenthands/factcheck/internal/config"
	"github.com/agenthands/factcheck/internal/core"
	"github.com/agenthands/factcheck/internal/core/model"
	"github.com/agenthands/factcheck/internal/llm"
	"github.com/agenthands/factcheck/internal/metrics"
	"github.com/agenthands/factcheck/internal/wiki"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const supportedArgs = `{"verdict":"Supported","explanation":"Evidence [0] confirms it.","confidence":0.9,"relevant_citations":[0]}`

func newTestServer(t *testing.T, retriever wiki.Retriever, synth *MockLLM, transcriber *MockTranscriber) *gin.Engine {
	t.Helper()
	return newServer(t, retriever, synth, transcriber).SetupRouter()
}

func newServer(t *testing.T, retriever wiki.Retriever, synth *MockLLM, transcriber *MockTranscriber) *Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	v, err := core.NewVerifier(retriever, synth, &MockLLM{}, config.Default(), m, zap.NewNop())
	require.NoError(t, err)

	s := &Server{Verifier: v, Metrics: m, Gatherer: reg, logger: zap.NewNop()}
	if transcriber != nil {
		s.Transcriber = transcriber
	}
	return s
}

func solarRetriever() *MockRetriever {
	return &MockRetriever{
		Hits:     []model.SearchHit{{Title: "Solar System", Snippet: "The Earth orbits", PageID: 123}},
		Contents: map[int64]string{123: "The Solar System is the Sun and the objects that orbit it."},
	}
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestPreflight(t *testing.T) {
	r := newTestServer(t, solarRetriever(), &MockLLM{}, nil)

	req := httptest.NewRequest(http.MethodOptions, VerifyClaimPath, nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "authorization, content-type, apikey, x-client-info")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	allowed := strings.ToLower(w.Header().Get("Access-Control-Allow-Headers"))
	for _, h := range []string{"authorization", "x-client-info", "apikey", "content-type"} {
		assert.Contains(t, allowed, h)
	}
}

func TestPreflightWithoutOrigin(t *testing.T) {
	r := newTestServer(t, solarRetriever(), &MockLLM{}, nil)

	req := httptest.NewRequest(http.MethodOptions, TranscribePath, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestVerifyClaim(t *testing.T) {
	r := newTestServer(t, solarRetriever(), &MockLLM{Arguments: supportedArgs}, nil)

	w := postJSON(r, VerifyClaimPath, `{"claim":"The Earth orbits the Sun","language":"en"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	var res model.VerificationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "The Earth orbits the Sun", res.Transcript)
	assert.Equal(t, model.VerdictSupported, res.Verdict)
	assert.Equal(t, 0.9, res.Confidence)
	require.Len(t, res.Citations, 1)
	assert.Equal(t, "https://en.wikipedia.org/?curid=123", res.Citations[0].URL)
}

func TestVerifyClaimDefaultsLanguage(t *testing.T) {
	r := newTestServer(t, solarRetriever(), &MockLLM{Arguments: supportedArgs}, nil)

	w := postJSON(r, VerifyClaimPath, `{"claim":"The Earth orbits the Sun"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "https://en.wikipedia.org/?curid=123")
}

func TestVerifyClaimBadRequests(t *testing.T) {
	r := newTestServer(t, solarRetriever(), &MockLLM{Arguments: supportedArgs}, nil)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing claim", `{}`, "No claim provided"},
		{"blank claim", `{"claim":"   "}`, "No claim provided"},
		{"malformed json", `{"claim":`, "Invalid request"},
		{"bad language", `{"claim":"x","language":"en.evil.com/"}`, "Invalid request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(r, VerifyClaimPath, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, errorBody(t, w))
		})
	}
}

func TestVerifyClaimUpstreamFailures(t *testing.T) {
	tests := []struct {
		name      string
		retriever *MockRetriever
		synth     *MockLLM
	}{
		{
			name:      "search failure",
			retriever: &MockRetriever{SearchErr: fmt.Errorf("%w: status 500", model.ErrRetrieval)},
			synth:     &MockLLM{Arguments: supportedArgs},
		},
		{
			name:      "model failure",
			retriever: solarRetriever(),
			synth:     &MockLLM{ToolErr: &llm.StatusError{StatusCode: 429, Err: fmt.Errorf("rate limited")}},
		},
		{
			name:      "citation out of range",
			retriever: solarRetriever(),
			synth:     &MockLLM{Arguments: `{"verdict":"Supported","explanation":"x","confidence":0.5,"relevant_citations":[4]}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestServer(t, tt.retriever, tt.synth, nil)
			w := postJSON(r, VerifyClaimPath, `{"claim":"The Earth orbits the Sun"}`)
			assert.Equal(t, http.StatusBadGateway, w.Code)
			assert.NotEmpty(t, errorBody(t, w))
		})
	}
}

func TestVerifyClaimTimeout(t *testing.T) {
	stalled := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(stalled.Close)

	wikiCfg := config.Default().Wikipedia
	wikiCfg.Endpoint = stalled.URL + "/{lang}/w/api.php"

	tests := []struct {
		name      string
		retriever wiki.Retriever
		synth     *MockLLM
	}{
		{
			name:      "slow search",
			retriever: wiki.NewClient(wikiCfg, zap.NewNop()),
			synth:     &MockLLM{Arguments: supportedArgs},
		},
		{
			name:      "slow model",
			retriever: solarRetriever(),
			synth:     &MockLLM{ToolErr: fmt.Errorf("create chat completion: %w", context.DeadlineExceeded)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newServer(t, tt.retriever, tt.synth, nil)
			s.RequestTimeout = 50 * time.Millisecond

			w := postJSON(s.SetupRouter(), VerifyClaimPath, `{"claim":"The Earth orbits the Sun"}`)

			assert.Equal(t, http.StatusGatewayTimeout, w.Code)
			assert.Equal(t, "Verification timed out", errorBody(t, w))
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	r := newTestServer(t, solarRetriever(), &MockLLM{}, nil)

	req := httptest.NewRequest(http.MethodGet, VerifyClaimPath, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "Method not allowed", errorBody(t, w))
}

func TestRequestIDPropagated(t *testing.T) {
	r := newTestServer(t, solarRetriever(), &MockLLM{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "5b6f1c4e-8a43-4bb4-9d1e-3f0e5c1d2a77")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5b6f1c4e-8a43-4bb4-9d1e-3f0e5c1d2a77", w.Header().Get(requestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestServer(t, solarRetriever(), &MockLLM{Arguments: supportedArgs}, nil)
	postJSON(r, VerifyClaimPath, `{"claim":"The Earth orbits the Sun"}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "factcheck_")
}

func audioRequest(t *testing.T, withAudio bool, language string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if withAudio {
		fw, err := mw.CreateFormFile("audio", "recording.webm")
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake-audio"))
		require.NoError(t, err)
	}
	if language != "" {
		require.NoError(t, mw.WriteField("language", language))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, TranscribePath, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestTranscribe(t *testing.T) {
	tr := &MockTranscriber{Text: "The Earth orbits the Sun"}
	r := newTestServer(t, solarRetriever(), &MockLLM{}, tr)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, audioRequest(t, true, "fr"))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"text":"The Earth orbits the Sun","language":"fr"}`, w.Body.String())
	assert.Equal(t, "recording.webm", tr.Filename)
	assert.Equal(t, []byte("fake-audio"), tr.Audio)
}

func TestTranscribeDefaultsLanguage(t *testing.T) {
	tr := &MockTranscriber{Text: "hello"}
	r := newTestServer(t, solarRetriever(), &MockLLM{}, tr)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, audioRequest(t, true, ""))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "en", tr.Language)
}

func TestTranscribeMissingAudio(t *testing.T) {
	r := newTestServer(t, solarRetriever(), &MockLLM{}, &MockTranscriber{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, audioRequest(t, false, "en"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No audio file provided", errorBody(t, w))
}

func TestTranscribeUpstreamFailure(t *testing.T) {
	tr := &MockTranscriber{Err: &llm.StatusError{StatusCode: 401, Err: fmt.Errorf("bad key")}}
	r := newTestServer(t, solarRetriever(), &MockLLM{}, tr)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, audioRequest(t, true, "en"))

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestTranscribeDisabled(t *testing.T) {
	r := newTestServer(t, solarRetriever(), &MockLLM{}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, audioRequest(t, true, "en"))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestVerifyErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrEmptyClaim, http.StatusBadRequest},
		{fmt.Errorf("%w: %q", core.ErrInvalidLanguage, "x.y"), http.StatusBadRequest},
		{fmt.Errorf("search: %w: %w", model.ErrRetrieval, context.DeadlineExceeded), http.StatusGatewayTimeout},
		{fmt.Errorf("synthesize: %w: %w", model.ErrSynthesis, context.DeadlineExceeded), http.StatusGatewayTimeout},
		{fmt.Errorf("search: %w: status 500", model.ErrRetrieval), http.StatusBadGateway},
		{model.ErrMapping, http.StatusBadGateway},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		status, msg := verifyErrorStatus(tt.err)
		assert.Equal(t, tt.want, status, tt.err.Error())
		assert.NotEmpty(t, msg)
	}
}
