package schema

// ArtifactStatus describes the lifecycle state of a generated artifact.
type ArtifactStatus string

const (
	// StatusStreaming means the artifact's HTML is still growing.
	StatusStreaming ArtifactStatus = "streaming"

	// StatusComplete means generation finished with non-empty content.
	StatusComplete ArtifactStatus = "complete"

	// StatusError means generation failed; HTML holds an inline error message.
	StatusError ArtifactStatus = "error"
)

// ArtifactsPerSession is the fixed number of artifacts a session holds.
// Sessions are never created with more or fewer.
const ArtifactsPerSession = 3

// PlaceholderStyleName is shown on each artifact until style naming resolves.
const PlaceholderStyleName = "Analyzing request..."

// Artifact is one generated UI component candidate (a self-contained
// HTML/CSS/JS bundle) belonging to a session. Its ID is stable for its
// lifetime; HTML grows monotonically while streaming and is replaced once
// on the transition to a terminal status.
type Artifact struct {
	ID        string         `json:"id"`
	StyleName string         `json:"style_name"`
	HTML      string         `json:"html"`
	Status    ArtifactStatus `json:"status"`
}

// Session is one user prompt and its three resulting artifacts.
type Session struct {
	ID        string     `json:"id"`
	Prompt    string     `json:"prompt"`
	Timestamp int64      `json:"timestamp"` // unix milliseconds
	Artifacts []Artifact `json:"artifacts"`
}

// ComponentVariation is an alternate re-imagining of a single artifact.
// Variations are ephemeral: streamed to the client, never persisted.
type ComponentVariation struct {
	Name string `json:"name"`
	HTML string `json:"html"`
}

// AppState is the unit of undo/redo: the full session list plus the
// current-session cursor. CurrentSessionIndex is -1 when no sessions exist.
type AppState struct {
	Sessions            []Session `json:"sessions"`
	CurrentSessionIndex int       `json:"current_session_index"`
}

// NewAppState creates an empty application state.
func NewAppState() AppState {
	return AppState{
		Sessions:            []Session{},
		CurrentSessionIndex: -1,
	}
}

// Clone creates a deep copy of the session, including its artifacts.
func (s Session) Clone() Session {
	clone := s
	clone.Artifacts = make([]Artifact, len(s.Artifacts))
	copy(clone.Artifacts, s.Artifacts)
	return clone
}

// Clone creates a deep copy of the state. History snapshots must own
// independent copies: mutating a live artifact after a snapshot was taken
// must not change the snapshot.
func (st AppState) Clone() AppState {
	clone := AppState{
		Sessions:            make([]Session, len(st.Sessions)),
		CurrentSessionIndex: st.CurrentSessionIndex,
	}
	for i, sess := range st.Sessions {
		clone.Sessions[i] = sess.Clone()
	}
	return clone
}

// CloneSessions deep-copies a session slice.
func CloneSessions(sessions []Session) []Session {
	out := make([]Session, len(sessions))
	for i, sess := range sessions {
		out[i] = sess.Clone()
	}
	return out
}
