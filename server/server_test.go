package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stratgen/generator"
	"stratgen/progress"
	"stratgen/store"
)

type testEnv struct {
	srv  *httptest.Server
	mock *generator.MockLLM
	st   *store.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mock := &generator.MockLLM{}
	agent, err := generator.NewAgent(mock, nil)
	require.NoError(t, err)

	st, err := store.Open(filepath.Join(t.TempDir(), "stratgen.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	s, err := New(agent, st, progress.NewMemoryStore(0), nil)
	require.NoError(t, err)

	srv := httptest.NewServer(s.Routes())
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, mock: mock, st: st}
}

func (e *testEnv) postJSON(t *testing.T, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(e.srv.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func (e *testEnv) getJSON(t *testing.T, path string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(e.srv.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestGenerateRejectsEmptyPrompt(t *testing.T) {
	e := newTestEnv(t)
	resp, out := e.postJSON(t, "/api/generate", map[string]string{"prompt": "  "})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "error", out["status"])
	assert.Equal(t, 0, e.mock.Calls, "validation failures never reach the provider")
}

func TestGenerateSuccessTracksProgress(t *testing.T) {
	e := newTestEnv(t)
	e.mock.Output = "generated text"

	resp, out := e.postJSON(t, "/api/generate", map[string]string{"prompt": "p"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", out["status"])
	assert.Equal(t, "generated text", out["text"])

	requestID, _ := out["requestId"].(string)
	require.NotEmpty(t, requestID)

	progResp, progOut := e.getJSON(t, "/api/progress?requestId="+requestID)
	require.Equal(t, http.StatusOK, progResp.StatusCode)
	assert.Equal(t, progress.StatusCompleted, progOut["status"])
	assert.Equal(t, float64(100), progOut["progress"])
}

func TestGenerateOverloadedProviderReturns503(t *testing.T) {
	e := newTestEnv(t)
	e.mock.Err = &generator.GenError{
		Code:      generator.ErrProviderOverloaded,
		Message:   "gemini api error (503): model overloaded",
		Retryable: true,
	}

	resp, out := e.postJSON(t, "/api/generate", map[string]string{"prompt": "p"})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "error", out["status"])
	// Sanitized message, but still classifiable by the retrying client.
	assert.Contains(t, out["error"], "overloaded")
	assert.NotContains(t, out["error"], "gemini api error")
}

func TestGenerateOpaqueFailureSanitized(t *testing.T) {
	e := newTestEnv(t)
	e.mock.Err = generator.NewGenError(generator.ErrCompletionFailed, "secret internal detail")

	resp, out := e.postJSON(t, "/api/generate", map[string]string{"prompt": "p"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, out["error"], "secret internal detail")
}

func TestProgressUnknownRequest(t *testing.T) {
	e := newTestEnv(t)
	resp, out := e.getJSON(t, "/api/progress?requestId=unknown")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "error", out["status"])
}

func TestProgressMissingRequestID(t *testing.T) {
	e := newTestEnv(t)
	resp, _ := e.getJSON(t, "/api/progress")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func saveStrategy(t *testing.T, e *testEnv) string {
	t.Helper()
	resp, out := e.postJSON(t, "/api/strategies", map[string]string{
		"name":           "Sarah's Fitness Strategy",
		"user_id":        "user-1",
		"business_type":  "Fitness",
		"objectives":     "Grow 25%",
		"audience":       "Adults 30-55",
		"matrix_content": "# AUDIENCE TARGETING MATRIX FOR FITNESS\n\n| a | b | c |\n|---|---|---|\n| x | y | z |",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, _ := out["data"].(map[string]any)
	id, _ := data["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestStrategySaveFetchExport(t *testing.T) {
	e := newTestEnv(t)
	id := saveStrategy(t, e)

	resp, out := e.getJSON(t, "/api/strategies/"+id)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, _ := out["data"].(map[string]any)
	assert.Equal(t, "Sarah's Fitness Strategy", data["name"])

	listResp, listOut := e.getJSON(t, "/api/strategies?user_id=user-1")
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	assert.Len(t, listOut["data"], 1)

	htmlResp, err := http.Get(e.srv.URL + "/api/strategies/" + id + "/export")
	require.NoError(t, err)
	defer htmlResp.Body.Close()
	require.Equal(t, http.StatusOK, htmlResp.StatusCode)
	assert.Contains(t, htmlResp.Header.Get("Content-Type"), "text/html")
}

func TestStrategySaveRequiresNameAndContent(t *testing.T) {
	e := newTestEnv(t)
	resp, _ := e.postJSON(t, "/api/strategies", map[string]string{"name": "no content"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSocialPostGenerateValidation(t *testing.T) {
	e := newTestEnv(t)

	resp, _ := e.postJSON(t, "/api/social-posts/generate", map[string]string{"post_type": "Instagram"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = e.postJSON(t, "/api/social-posts/generate", map[string]string{"strategy_id": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = e.postJSON(t, "/api/social-posts/generate", map[string]string{
		"strategy_id": "missing", "post_type": "Instagram",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSocialPostGenerateUsesHistory(t *testing.T) {
	e := newTestEnv(t)
	strategyID := saveStrategy(t, e)

	// Seed a prior post, then generate with the echoing mock so the
	// built prompt (including the do-not-repeat section) is visible.
	resp, _ := e.postJSON(t, "/api/social-posts", map[string]string{
		"strategy_id": strategyID,
		"post_type":   "Instagram",
		"post_text":   "previous-post-text",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	genResp, out := e.postJSON(t, "/api/social-posts/generate", map[string]string{
		"strategy_id": strategyID,
		"post_type":   "Instagram",
	})
	require.Equal(t, http.StatusOK, genResp.StatusCode)
	assert.Equal(t, "success", out["status"])
	text, _ := out["text"].(string)
	assert.Contains(t, text, "previous-post-text")
	assert.Contains(t, text, "PREVIOUS POSTS (DO NOT REPEAT THESE):")
}

func TestSocialPostListByStrategy(t *testing.T) {
	e := newTestEnv(t)
	strategyID := saveStrategy(t, e)

	for _, txt := range []string{"one", "two"} {
		resp, _ := e.postJSON(t, "/api/social-posts", map[string]string{
			"strategy_id": strategyID,
			"post_type":   "Twitter",
			"post_text":   txt,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, out := e.getJSON(t, "/api/social-posts?strategy_id="+strategyID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, out["data"], 2)
}

func TestSessionProposeAndRevise(t *testing.T) {
	e := newTestEnv(t)
	e.mock.Output = "# AUDIENCE TARGETING MATRIX FOR FITNESS\n\nFirst draft."

	resp, out := e.postJSON(t, "/api/sessions", map[string]string{
		"name":          "Sarah",
		"business_type": "Fitness",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sessionID, _ := out["session_id"].(string)
	require.NotEmpty(t, sessionID)

	e.mock.Output = "# AUDIENCE TARGETING MATRIX FOR FITNESS\n\nRevised draft."
	revResp, revOut := e.postJSON(t, "/api/sessions/"+sessionID, map[string]string{
		"feedback": "Focus more on seniors",
	})
	require.Equal(t, http.StatusOK, revResp.StatusCode)
	draft, _ := revOut["draft"].(map[string]any)
	assert.Contains(t, draft["Markdown"], "Revised draft.")

	emptyResp, _ := e.postJSON(t, "/api/sessions/"+sessionID, map[string]string{"feedback": " "})
	assert.Equal(t, http.StatusBadRequest, emptyResp.StatusCode)

	missingResp, _ := e.getJSON(t, "/api/sessions/nope")
	assert.Equal(t, http.StatusNotFound, missingResp.StatusCode)
}
