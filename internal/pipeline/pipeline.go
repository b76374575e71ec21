// Package pipeline orchestrates generation: one style-naming call followed
// by a fan-out of three concurrent artifact body streams, plus the
// on-demand variations flow for a focused artifact.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/pichimail/spark-ui-designer/internal/core"
	"github.com/pichimail/spark-ui-designer/internal/jsonstream"
	"github.com/pichimail/spark-ui-designer/internal/llm"
	"github.com/pichimail/spark-ui-designer/internal/store"
	"github.com/pichimail/spark-ui-designer/pkg/schema"
)

// fallbackStyleNames substitute for the style-naming call whenever it
// fails or returns fewer than three usable names.
var fallbackStyleNames = [schema.ArtifactsPerSession]string{
	"Minimalist", "Playful", "Professional",
}

// Pipeline drives generation against the session store. A nil client means
// the instance is unconfigured: generation operations fail up front with a
// configuration error and leave all state untouched.
type Pipeline struct {
	client  llm.Client
	store   *store.Store
	history *store.History
	logger  core.Logger
}

// New creates a pipeline.
func New(client llm.Client, st *store.Store, hist *store.History, logger core.Logger) *Pipeline {
	return &Pipeline{
		client:  client,
		store:   st,
		history: hist,
		logger:  logger.With("component", "pipeline"),
	}
}

// Generate records history, creates a session with three placeholder
// artifacts and returns it immediately; style naming and the three body
// streams continue on background goroutines. The done channel closes once
// every artifact reaches a terminal status. Generations are never
// cancelled by later submissions: each stream is keyed to its own
// session/artifact IDs and cannot touch anything else.
func (p *Pipeline) Generate(ctx context.Context, prompt string) (schema.Session, <-chan struct{}, error) {
	if p.client == nil {
		return schema.Session{}, nil, llm.NewConfigError("GEMINI_API_KEY is not set")
	}

	sess, err := newSession(prompt)
	if err != nil {
		return schema.Session{}, nil, fmt.Errorf("create session: %w", err)
	}

	p.history.Record(p.store.Snapshot())
	p.store.Append(sess)

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.run(ctx, sess, prompt)
	}()

	return sess, done, nil
}

func (p *Pipeline) run(ctx context.Context, sess schema.Session, prompt string) {
	names := p.styleNames(ctx, prompt)

	// Rewrite the placeholders in place; artifact identity is preserved.
	for i := range sess.Artifacts {
		name := names[i]
		p.store.UpdateArtifact(sess.ID, sess.Artifacts[i].ID, store.ArtifactPatch{StyleName: &name})
	}

	// Fan out the three body streams. The barrier is all-complete: one
	// stream's failure is converted to an error-state artifact and never
	// aborts its siblings.
	var wg sync.WaitGroup
	for i := range sess.Artifacts {
		wg.Add(1)
		go func(artifactID, styleName string) {
			defer wg.Done()
			p.generateArtifact(ctx, sess.ID, artifactID, prompt, styleName)
		}(sess.Artifacts[i].ID, names[i])
	}
	wg.Wait()

	p.logger.Info("generation finished", "session_id", sess.ID)
}

// styleNames asks the model for three persona names. Any failure, short
// list or oversized list coerces to exactly three names.
func (p *Pipeline) styleNames(ctx context.Context, prompt string) [schema.ArtifactsPerSession]string {
	names := fallbackStyleNames

	text, err := p.client.GenerateText(ctx, llm.BuildStyleNamesPrompt(prompt))
	if err != nil {
		p.logger.Warn("style naming failed, using fallback names", "error", err)
		return names
	}

	raw, ok := jsonstream.ExtractArray(text)
	if !ok {
		p.logger.Warn("no JSON array in style naming response, using fallback names")
		return names
	}

	var parsed []string
	if err := json.Unmarshal(raw, &parsed); err != nil {
		p.logger.Warn("style naming response malformed, using fallback names", "error", err)
		return names
	}

	for i := 0; i < schema.ArtifactsPerSession && i < len(parsed); i++ {
		if parsed[i] != "" {
			names[i] = parsed[i]
		}
	}
	return names
}

// generateArtifact streams one artifact body, appending every fragment to
// the store as it arrives so the preview updates live.
func (p *Pipeline) generateArtifact(ctx context.Context, sessionID, artifactID, prompt, styleName string) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("artifact generation panicked", "artifact_id", artifactID, "panic", r)
			p.failArtifact(sessionID, artifactID, fmt.Errorf("%v", r))
		}
	}()

	var body string
	err := p.client.GenerateTextStream(ctx, llm.BuildArtifactPrompt(prompt, styleName), func(text string) error {
		body += text
		p.store.UpdateArtifact(sessionID, artifactID, store.ArtifactPatch{AppendHTML: &text})
		return nil
	})
	if err != nil {
		p.logger.Warn("artifact generation failed", "artifact_id", artifactID, "error", err)
		p.failArtifact(sessionID, artifactID, err)
		return
	}

	final := llm.CleanCodeFences(body)
	status := schema.StatusComplete
	if final == "" {
		status = schema.StatusError
		final = errorHTML(fmt.Errorf("the model returned no content"))
	}
	p.store.UpdateArtifact(sessionID, artifactID, store.ArtifactPatch{HTML: &final, Status: &status})
}

// failArtifact puts one artifact into its terminal error state without
// touching its siblings.
func (p *Pipeline) failArtifact(sessionID, artifactID string, cause error) {
	html := errorHTML(cause)
	status := schema.StatusError
	p.store.UpdateArtifact(sessionID, artifactID, store.ArtifactPatch{HTML: &html, Status: &status})
}

// errorHTML renders an inline error message shown in place of the preview.
func errorHTML(cause error) string {
	return fmt.Sprintf(`<div style="padding:2rem;font-family:sans-serif;color:#b91c1c">Generation failed: %v</div>`, cause)
}

// newSession allocates a session with three placeholder artifacts. The
// session exists, at full length, before any model response arrives.
func newSession(prompt string) (schema.Session, error) {
	id, err := schema.NewSessionID()
	if err != nil {
		return schema.Session{}, err
	}

	sess := schema.Session{
		ID:        id,
		Prompt:    prompt,
		Timestamp: time.Now().UnixMilli(),
		Artifacts: make([]schema.Artifact, schema.ArtifactsPerSession),
	}
	for i := range sess.Artifacts {
		artID, err := schema.NewArtifactID()
		if err != nil {
			return schema.Session{}, err
		}
		sess.Artifacts[i] = schema.Artifact{
			ID:        artID,
			StyleName: schema.PlaceholderStyleName,
			Status:    schema.StatusStreaming,
		}
	}
	return sess, nil
}
