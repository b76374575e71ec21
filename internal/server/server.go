// Package server exposes the HTTP+SSE surface the browser front-end
// consumes. Handlers never surface blocking errors for generation
// failures; those degrade to error-state artifacts inside the state JSON.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pichimail/spark-ui-designer/internal/core"
	"github.com/pichimail/spark-ui-designer/internal/export"
	"github.com/pichimail/spark-ui-designer/internal/llm"
	"github.com/pichimail/spark-ui-designer/internal/pipeline"
	"github.com/pichimail/spark-ui-designer/internal/store"
	"github.com/pichimail/spark-ui-designer/pkg/schema"
)

// Server wires the store, history and pipeline behind an HTTP mux.
type Server struct {
	store   *store.Store
	history *store.History
	pipe    *pipeline.Pipeline
	logger  core.Logger
	mux     *http.ServeMux
}

// New creates a server and registers its routes.
func New(st *store.Store, hist *store.History, pipe *pipeline.Pipeline, logger core.Logger) *Server {
	s := &Server{
		store:   st,
		history: hist,
		pipe:    pipe,
		logger:  logger.With("component", "server"),
		mux:     http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /api/generate", s.handleGenerate)
	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("POST /api/navigate", s.handleNavigate)
	s.mux.HandleFunc("POST /api/focus", s.handleFocus)
	s.mux.HandleFunc("POST /api/undo", s.handleUndo)
	s.mux.HandleFunc("POST /api/redo", s.handleRedo)
	s.mux.HandleFunc("POST /api/variations", s.handleVariations)
	s.mux.HandleFunc("POST /api/apply-variation", s.handleApplyVariation)
	s.mux.HandleFunc("GET /api/export/artifact", s.handleExportArtifact)
	s.mux.HandleFunc("GET /api/export/session", s.handleExportSession)
	s.mux.HandleFunc("GET /api/events", s.handleEvents)

	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// stateResponse is the canonical state payload.
type stateResponse struct {
	Sessions            []schema.Session `json:"sessions"`
	CurrentSessionIndex int              `json:"current_session_index"`
	FocusedArtifact     *int             `json:"focused_artifact"`
	CanUndo             bool             `json:"can_undo"`
	CanRedo             bool             `json:"can_redo"`
}

func (s *Server) state() stateResponse {
	snap := s.store.Snapshot()
	return stateResponse{
		Sessions:            snap.Sessions,
		CurrentSessionIndex: snap.CurrentSessionIndex,
		FocusedArtifact:     s.store.FocusedArtifact(),
		CanUndo:             s.history.CanUndo(),
		CanRedo:             s.history.CanRedo(),
	}
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	sess, _, err := s.pipe.Generate(r.Context(), req.Prompt)
	if err != nil {
		if llm.IsConfigError(err) {
			s.logger.Error("generation unavailable", "error", err)
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		s.logger.Error("generation failed to start", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to start generation")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"session_id": sess.ID})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Session-level steps are history-logged with the pre-action state;
	// stepping the artifact focus is not.
	pre := s.store.Snapshot()
	var sessionStep bool
	switch req.Direction {
	case "next":
		sessionStep = s.store.Next()
	case "previous":
		sessionStep = s.store.Previous()
	default:
		writeError(w, http.StatusBadRequest, "direction must be next or previous")
		return
	}
	if sessionStep {
		s.history.Record(pre)
	}

	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index *int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.store.SetFocusedArtifact(req.Index)
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	if prev, ok := s.history.Undo(s.store.Snapshot()); ok {
		s.store.Restore(prev)
	}
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	if next, ok := s.history.Redo(s.store.Snapshot()); ok {
		s.store.Restore(next)
	}
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleVariations(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID  string `json:"session_id"`
		ArtifactID string `json:"artifact_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	art, ok := s.findArtifact(req.SessionID, req.ArtifactID)
	if !ok {
		writeError(w, http.StatusNotFound, "artifact not found")
		return
	}

	sse, err := newSSEWriter(w)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	err = s.pipe.Variations(r.Context(), art.HTML, func(v schema.ComponentVariation) {
		if err := sse.writeEvent("variation", v); err != nil {
			s.logger.Debug("variation subscriber gone", "error", err)
		}
	})
	if err != nil {
		// The stream is already open; deliver the failure in-band.
		_ = sse.writeEvent("error", map[string]string{"message": err.Error()})
		return
	}
	_ = sse.writeEvent("done", map[string]string{})
}

func (s *Server) handleApplyVariation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID  string `json:"session_id"`
		ArtifactID string `json:"artifact_id"`
		Name       string `json:"name"`
		HTML       string `json:"html"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.HTML == "" {
		writeError(w, http.StatusBadRequest, "html is required")
		return
	}

	if _, ok := s.findArtifact(req.SessionID, req.ArtifactID); !ok {
		writeError(w, http.StatusNotFound, "artifact not found")
		return
	}

	s.history.Record(s.store.Snapshot())
	status := schema.StatusComplete
	patch := store.ArtifactPatch{HTML: &req.HTML, Status: &status}
	if req.Name != "" {
		patch.StyleName = &req.Name
	}
	s.store.UpdateArtifact(req.SessionID, req.ArtifactID, patch)

	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleExportArtifact(w http.ResponseWriter, r *http.Request) {
	art, ok := s.findArtifact(r.URL.Query().Get("session"), r.URL.Query().Get("artifact"))
	if !ok {
		writeError(w, http.StatusNotFound, "artifact not found")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "component.html"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.StandaloneHTML(art))
}

func (s *Server) handleExportSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.store.Session(r.URL.Query().Get("session"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	archive, err := export.SessionArchive(sess)
	if err != nil {
		s.logger.Error("session export failed", "session_id", sess.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sess.ID+".zip"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

// handleEvents streams every store change to the client as an SSE feed.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sse, err := newSSEWriter(w)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	updates, cancel := s.store.Subscribe()
	defer cancel()

	// Initial snapshot so the client renders immediately.
	if err := sse.writeEvent("state", s.state()); err != nil {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-updates:
			if err := sse.writeEvent("state", s.state()); err != nil {
				return
			}
		}
	}
}

func (s *Server) findArtifact(sessionID, artifactID string) (schema.Artifact, bool) {
	sess, ok := s.store.Session(sessionID)
	if !ok {
		return schema.Artifact{}, false
	}
	for _, art := range sess.Artifacts {
		if art.ID == artifactID {
			return art, true
		}
	}
	return schema.Artifact{}, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
