package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pichimail/spark-ui-designer/internal/core"
	"github.com/pichimail/spark-ui-designer/internal/llm"
	"github.com/pichimail/spark-ui-designer/internal/pipeline"
	"github.com/pichimail/spark-ui-designer/internal/store"
	"github.com/pichimail/spark-ui-designer/pkg/schema"
)

func newTestServer(client llm.Client) (*Server, *store.Store, *store.History) {
	st := store.New(nil)
	hist := store.NewHistory()
	logger := core.NewSilentLogger()
	pipe := pipeline.New(client, st, hist, logger)
	return New(st, hist, pipe, logger), st, hist
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) stateResponse {
	t.Helper()
	var state stateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	return state
}

func seedSession(st *store.Store, id string) schema.Session {
	sess := schema.Session{
		ID:     id,
		Prompt: "prompt " + id,
		Artifacts: []schema.Artifact{
			{ID: id + "-a", StyleName: "One", HTML: "<p>1</p>", Status: schema.StatusComplete},
			{ID: id + "-b", StyleName: "Two", HTML: "<p>2</p>", Status: schema.StatusComplete},
			{ID: id + "-c", StyleName: "Three", HTML: "<p>3</p>", Status: schema.StatusComplete},
		},
	}
	st.Append(sess)
	return sess
}

func TestHandleGenerate(t *testing.T) {
	client := &llm.MockClient{Response: `["A","B","C"]`, Chunks: []string{"<p>x</p>"}}
	s, st, _ := newTestServer(client)

	rec := doJSON(t, s, http.MethodPost, "/api/generate", map[string]string{"prompt": "a widget"})
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["session_id"])

	// The session is already visible with three placeholders.
	sess, ok := st.Session(resp["session_id"])
	require.True(t, ok)
	assert.Len(t, sess.Artifacts, 3)
}

func TestHandleGenerate_Validation(t *testing.T) {
	s, _, _ := newTestServer(&llm.MockClient{})

	rec := doJSON(t, s, http.MethodPost, "/api/generate", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGenerate_MissingAPIKey(t *testing.T) {
	s, _, _ := newTestServer(nil)

	rec := doJSON(t, s, http.MethodPost, "/api/generate", map[string]string{"prompt": "a widget"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleState(t *testing.T) {
	s, st, _ := newTestServer(nil)
	seedSession(st, "SES-1")

	state := decodeState(t, doJSON(t, s, http.MethodGet, "/api/state", nil))
	assert.Len(t, state.Sessions, 1)
	assert.Equal(t, 0, state.CurrentSessionIndex)
	assert.Nil(t, state.FocusedArtifact)
	assert.False(t, state.CanUndo)
}

func TestHandleNavigate_RecordsSessionSteps(t *testing.T) {
	s, st, hist := newTestServer(nil)
	seedSession(st, "SES-1")
	seedSession(st, "SES-2")

	state := decodeState(t, doJSON(t, s, http.MethodPost, "/api/navigate", map[string]string{"direction": "previous"}))
	assert.Equal(t, 0, state.CurrentSessionIndex)
	assert.True(t, hist.CanUndo())

	// Boundary steps are no-ops and not recorded.
	rec := doJSON(t, s, http.MethodPost, "/api/navigate", map[string]string{"direction": "previous"})
	state = decodeState(t, rec)
	assert.Equal(t, 0, state.CurrentSessionIndex)

	// Undo returns to the pre-navigation cursor.
	state = decodeState(t, doJSON(t, s, http.MethodPost, "/api/undo", nil))
	assert.Equal(t, 1, state.CurrentSessionIndex)
}

func TestHandleNavigate_FocusedStepsNotRecorded(t *testing.T) {
	s, st, hist := newTestServer(nil)
	seedSession(st, "SES-1")

	zero := 0
	doJSON(t, s, http.MethodPost, "/api/focus", map[string]*int{"index": &zero})

	state := decodeState(t, doJSON(t, s, http.MethodPost, "/api/navigate", map[string]string{"direction": "next"}))
	require.NotNil(t, state.FocusedArtifact)
	assert.Equal(t, 1, *state.FocusedArtifact)
	assert.False(t, hist.CanUndo())
}

func TestHandleUndoRedo_EmptyAreNoOps(t *testing.T) {
	s, st, _ := newTestServer(nil)
	seedSession(st, "SES-1")

	state := decodeState(t, doJSON(t, s, http.MethodPost, "/api/undo", nil))
	assert.Len(t, state.Sessions, 1)

	state = decodeState(t, doJSON(t, s, http.MethodPost, "/api/redo", nil))
	assert.Len(t, state.Sessions, 1)
}

func TestHandleApplyVariation(t *testing.T) {
	s, st, hist := newTestServer(nil)
	sess := seedSession(st, "SES-1")

	rec := doJSON(t, s, http.MethodPost, "/api/apply-variation", map[string]string{
		"session_id":  sess.ID,
		"artifact_id": sess.Artifacts[1].ID,
		"name":        "Re-imagined",
		"html":        "<div>new</div>",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	got, _ := st.Session(sess.ID)
	assert.Equal(t, "<div>new</div>", got.Artifacts[1].HTML)
	assert.Equal(t, "Re-imagined", got.Artifacts[1].StyleName)

	// Applying a variation is an undoable action.
	require.True(t, hist.CanUndo())
	state := decodeState(t, doJSON(t, s, http.MethodPost, "/api/undo", nil))
	assert.Equal(t, "<p>2</p>", state.Sessions[0].Artifacts[1].HTML)
}

func TestHandleVariations_StreamsSSE(t *testing.T) {
	client := &llm.MockClient{Chunks: []string{
		`{"name":"Glass","html":"<div>glass</div>"}`,
		`{"name":"Neon","html":"<div>neon</div>"}`,
	}}
	s, st, _ := newTestServer(client)
	sess := seedSession(st, "SES-1")

	rec := doJSON(t, s, http.MethodPost, "/api/variations", map[string]string{
		"session_id":  sess.ID,
		"artifact_id": sess.Artifacts[0].ID,
	})

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Equal(t, 2, strings.Count(body, "event: variation\n"))
	assert.Contains(t, body, `"name":"Glass"`)
	assert.Contains(t, body, "event: done\n")
}

func TestHandleVariations_UnknownArtifact(t *testing.T) {
	s, _, _ := newTestServer(&llm.MockClient{})

	rec := doJSON(t, s, http.MethodPost, "/api/variations", map[string]string{
		"session_id":  "SES-missing",
		"artifact_id": "ART-missing",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleExportArtifact(t *testing.T) {
	s, st, _ := newTestServer(nil)
	sess := seedSession(st, "SES-1")

	req := httptest.NewRequest(http.MethodGet, "/api/export/artifact?session="+sess.ID+"&artifact="+sess.Artifacts[0].ID, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<p>1</p>")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<!DOCTYPE html>"))
}

func TestHandleExportSession(t *testing.T) {
	s, st, _ := newTestServer(nil)
	sess := seedSession(st, "SES-1")

	req := httptest.NewRequest(http.MethodGet, "/api/export/session?session="+sess.ID, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	// Zip magic bytes.
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestHandleEvents_InitialSnapshotAndUpdates(t *testing.T) {
	s, st, _ := newTestServer(nil)
	seedSession(st, "SES-1")

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/events")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, string) {
		var event string
		var data strings.Builder
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			if line == "" {
				return event, data.String()
			}
			if after, ok := strings.CutPrefix(line, "event: "); ok {
				event = after
			}
			if after, ok := strings.CutPrefix(line, "data: "); ok {
				data.WriteString(after)
			}
		}
	}

	// Initial snapshot.
	event, data := readEvent()
	assert.Equal(t, "state", event)
	var state stateResponse
	require.NoError(t, json.Unmarshal([]byte(data), &state))
	assert.Len(t, state.Sessions, 1)

	// A mutation produces a follow-up event.
	go func() {
		time.Sleep(10 * time.Millisecond)
		seedSession(st, "SES-2")
	}()
	event, data = readEvent()
	assert.Equal(t, "state", event)
	require.NoError(t, json.Unmarshal([]byte(data), &state))
	assert.Len(t, state.Sessions, 2)
}
