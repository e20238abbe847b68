package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/aletheia/internal/broadcast"
	"github.com/ppiankov/aletheia/internal/logger"
	"github.com/ppiankov/aletheia/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAnalyzer struct {
	mu   sync.Mutex
	reqs []model.AnalysisRequest
}

func (s *stubAnalyzer) Run(_ context.Context, req model.AnalysisRequest) model.AnalysisResult {
	s.mu.Lock()
	s.reqs = append(s.reqs, req)
	s.mu.Unlock()
	return model.AnalysisResult{
		Status:             model.StatusCompleted,
		Verdict:            model.VerdictUnknown,
		Evidence:           []model.EvidenceItem{},
		Sentiment:          model.NeutralSentiment(),
		InputType:          req.Kind,
		AnalyzedTextLength: len(req.PayloadString("text")),
	}
}

type stubRecords struct {
	records  []model.AnalysisRecord
	err      error
	gotLimit int
	gotSkip  int
}

func (s *stubRecords) List(_ context.Context, limit, skip int) ([]model.AnalysisRecord, error) {
	s.gotLimit, s.gotSkip = limit, skip
	return s.records, s.err
}

func newTestServer(t *testing.T, records RecordLister) (*Server, *stubAnalyzer, *broadcast.Hub) {
	t.Helper()
	hub := broadcast.NewHub()
	log := logger.NewTestLogger(t)
	analyzer := &stubAnalyzer{}
	srv := New(Options{
		Config:      model.ServerConfig{StaticDir: ""},
		Analyzer:    analyzer,
		Records:     records,
		Hub:         hub,
		Broadcaster: broadcast.New(hub, log),
		Logger:      log,
	})
	return srv, analyzer, hub
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestQuery_Success(t *testing.T) {
	srv, analyzer, _ := newTestServer(t, nil)

	w := do(t, srv.Handler(), http.MethodPost, "/api/v1/query", `{"type":"text","payload":{"text":"Vaccines cause X"}}`)

	require.Equal(t, http.StatusOK, w.Code)
	var result model.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, model.StatusCompleted, result.Status)
	assert.Equal(t, model.KindText, result.InputType)
	assert.Equal(t, 16, result.AnalyzedTextLength)

	require.Len(t, analyzer.reqs, 1)
	assert.Equal(t, "Vaccines cause X", analyzer.reqs[0].PayloadString("text"))
}

func TestQuery_ResponseShape(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)

	w := do(t, srv.Handler(), http.MethodPost, "/api/v1/query", `{"type":"text","payload":{"text":"x"}}`)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	for _, key := range []string{"status", "summary", "verdict", "confidence", "reasoning", "evidence", "sentiment", "input_type", "analyzed_text_length"} {
		assert.Contains(t, raw, key)
	}
	sentiment := raw["sentiment"].(map[string]interface{})
	assert.Equal(t, []interface{}{map[string]interface{}{"label": "NEUTRAL", "score": 0.5}}, sentiment["raw"])
}

func TestQuery_Invalid(t *testing.T) {
	srv, analyzer, _ := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"type":`},
		{"missing type", `{"payload":{"text":"x"}}`},
		{"null type", `{"type":null,"payload":{"text":"x"}}`},
		{"missing payload", `{"type":"text"}`},
		{"payload not an object", `{"type":"text","payload":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv.Handler(), http.MethodPost, "/api/v1/query", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Contains(t, w.Body.String(), `"detail"`)
		})
	}
	assert.Empty(t, analyzer.reqs)
}

func TestQuery_UnknownKindIsAccepted(t *testing.T) {
	srv, analyzer, _ := newTestServer(t, nil)

	for _, body := range []string{
		`{"type":"audio","payload":{}}`,
		`{"type":"","payload":{}}`,
	} {
		w := do(t, srv.Handler(), http.MethodPost, "/api/v1/query", body)
		assert.Equal(t, http.StatusOK, w.Code, body)
	}

	require.Len(t, analyzer.reqs, 2)
	assert.Equal(t, model.InputKind(""), analyzer.reqs[1].Kind)
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)

	w := do(t, srv.Handler(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRecords(t *testing.T) {
	records := &stubRecords{records: []model.AnalysisRecord{{ID: "r1", InputType: model.KindURL}}}
	srv, _, _ := newTestServer(t, records)

	w := do(t, srv.Handler(), http.MethodGet, "/api/v1/records?limit=5&skip=2", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, records.gotLimit)
	assert.Equal(t, 2, records.gotSkip)

	var body struct {
		Records []model.AnalysisRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Records, 1)
	assert.Equal(t, "r1", body.Records[0].ID)
}

func TestRecords_Errors(t *testing.T) {
	srv, _, _ := newTestServer(t, &stubRecords{err: errors.New("db down")})

	assert.Equal(t, http.StatusUnprocessableEntity, do(t, srv.Handler(), http.MethodGet, "/api/v1/records?limit=abc", "").Code)
	assert.Equal(t, http.StatusInternalServerError, do(t, srv.Handler(), http.MethodGet, "/api/v1/records", "").Code)
}

func TestRecords_NotConfigured(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)

	w := do(t, srv.Handler(), http.MethodGet, "/api/v1/records", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"records":[]}`, w.Body.String())
}

func TestCORS(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/query", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)

	w := do(t, srv.Handler(), http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "aletheia_observers")
}

func TestStaticMount(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>hi</h1>"), 0o644))

	srv := New(Options{Config: model.ServerConfig{StaticDir: dir}, Analyzer: &stubAnalyzer{}})

	w := do(t, srv.Handler(), http.MethodGet, "/static/index.html", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hi")
}

func TestThreatStream_ReceivesLogEvents(t *testing.T) {
	srv, _, hub := newTestServer(t, nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/threats"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	require.Eventually(t, func() bool { return hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Post(ts.URL+"/api/v1/query", "application/json", strings.NewReader(`{"type":"text","payload":{"text":"x"}}`))
	require.NoError(t, err)
	_ = resp.Body.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var env struct {
		Type    string                 `json:"type"`
		Payload map[string]interface{} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(msg, &env))
	assert.Equal(t, "log", env.Type)
	assert.Equal(t, "Received query", env.Payload["message"])
	assert.Equal(t, "INFO", env.Payload["level"])
	assert.Equal(t, "text", env.Payload["type"])
}

func TestThreatStream_DisconnectRemovesObserver(t *testing.T) {
	srv, _, hub := newTestServer(t, nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/threats"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	_ = conn.Close()

	assert.Eventually(t, func() bool { return hub.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestWSObserver_SendAfterClose(t *testing.T) {
	obs := &wsObserver{send: make(chan []byte, 1)}

	require.NoError(t, obs.Send([]byte("a")))
	assert.ErrorIs(t, obs.Send([]byte("b")), errObserverSlow)

	obs.Close()
	obs.Close()
	assert.ErrorIs(t, obs.Send([]byte("c")), errObserverClosed)
}
