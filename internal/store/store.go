// Package store holds the authoritative in-memory application state: the
// session table, the navigation cursors, and the undo/redo history.
package store

import (
	"sync"

	"github.com/pichimail/spark-ui-designer/pkg/schema"
)

// ArtifactPatch describes a partial update to one artifact. Nil fields are
// left untouched. AppendHTML concatenates onto the current HTML; HTML
// replaces it outright (post-processing on completion).
type ArtifactPatch struct {
	StyleName  *string
	HTML       *string
	AppendHTML *string
	Status     *schema.ArtifactStatus
}

// Store owns all sessions and artifacts. Every read hands out deep copies
// and every write replaces whole values, so no snapshot or caller ever
// shares mutable substructure with the live state. Concurrent generation
// goroutines address their targets by stable session/artifact IDs, never
// by position, so a stream racing a navigation can only touch its own
// records.
type Store struct {
	mu      sync.Mutex
	state   schema.AppState
	focused *int // nil = grid view of the current session

	onChange func(sessions []schema.Session)
	subs     map[int]chan schema.AppState
	nextSub  int
}

// New creates a store seeded with previously persisted sessions. The
// current-session cursor points at the newest session, or -1 when empty.
func New(sessions []schema.Session) *Store {
	state := schema.NewAppState()
	if len(sessions) > 0 {
		state.Sessions = schema.CloneSessions(sessions)
		state.CurrentSessionIndex = len(sessions) - 1
	}
	return &Store{
		state: state,
		subs:  make(map[int]chan schema.AppState),
	}
}

// OnChange registers a hook invoked (with a deep copy of the sessions)
// after every mutation. Used to mirror state into persistence.
func (s *Store) OnChange(fn func(sessions []schema.Session)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Subscribe returns a channel receiving a state snapshot after each
// mutation, plus a cancel function. Slow subscribers drop snapshots rather
// than block mutations.
func (s *Store) Subscribe() (<-chan schema.AppState, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan schema.AppState, 8)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// notifyLocked fans the current state out to the change hook and all
// subscribers. Callers hold s.mu.
func (s *Store) notifyLocked() {
	snapshot := s.state.Clone()
	if s.onChange != nil {
		s.onChange(snapshot.Sessions)
	}
	for _, ch := range s.subs {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() schema.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Restore replaces the live state wholesale (undo/redo target) and resets
// the artifact focus, which is view state outside the snapshot unit.
func (s *Store) Restore(state schema.AppState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Clone()
	s.focused = nil
	s.notifyLocked()
}

// Append adds a session and moves the session cursor to it.
func (s *Store) Append(sess schema.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Sessions = append(s.state.Sessions, sess.Clone())
	s.state.CurrentSessionIndex = len(s.state.Sessions) - 1
	s.focused = nil
	s.notifyLocked()
}

// CurrentSession returns a copy of the session under the cursor.
func (s *Store) CurrentSession() (schema.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.CurrentSessionIndex < 0 || s.state.CurrentSessionIndex >= len(s.state.Sessions) {
		return schema.Session{}, false
	}
	return s.state.Sessions[s.state.CurrentSessionIndex].Clone(), true
}

// Session returns a copy of the session with the given ID.
func (s *Store) Session(sessionID string) (schema.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Sessions {
		if s.state.Sessions[i].ID == sessionID {
			return s.state.Sessions[i].Clone(), true
		}
	}
	return schema.Session{}, false
}

// SetCurrentIndex moves the session cursor. Out-of-range values are
// ignored so the cursor invariant always holds.
func (s *Store) SetCurrentIndex(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.state.Sessions) {
		return
	}
	s.state.CurrentSessionIndex = i
	s.focused = nil
	s.notifyLocked()
}

// UpdateArtifact applies a patch to one artifact, addressed by session and
// artifact ID. Unknown IDs are a silent no-op: a stream whose session was
// removed by an undo simply stops having an effect.
func (s *Store) UpdateArtifact(sessionID, artifactID string, patch ArtifactPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for si := range s.state.Sessions {
		if s.state.Sessions[si].ID != sessionID {
			continue
		}
		for ai := range s.state.Sessions[si].Artifacts {
			art := &s.state.Sessions[si].Artifacts[ai]
			if art.ID != artifactID {
				continue
			}
			if patch.StyleName != nil {
				art.StyleName = *patch.StyleName
			}
			if patch.AppendHTML != nil {
				art.HTML += *patch.AppendHTML
			}
			if patch.HTML != nil {
				art.HTML = *patch.HTML
			}
			if patch.Status != nil {
				art.Status = *patch.Status
			}
			s.notifyLocked()
			return
		}
		return
	}
}

// SetFocusedArtifact sets the artifact focus cursor. nil returns to the
// grid view. Out-of-range indices are ignored.
func (s *Store) SetFocusedArtifact(i *int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i != nil {
		cur, ok := s.currentLocked()
		if !ok || *i < 0 || *i >= len(cur.Artifacts) {
			return
		}
		v := *i
		s.focused = &v
	} else {
		s.focused = nil
	}
	s.notifyLocked()
}

// FocusedArtifact returns the focus cursor (nil = grid view).
func (s *Store) FocusedArtifact() *int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.focused == nil {
		return nil
	}
	v := *s.focused
	return &v
}

// Next advances whichever cursor is active: the artifact focus when an
// artifact is focused, otherwise the session cursor. Reports whether a
// session-level step happened, which is what history-logs navigation.
func (s *Store) Next() (sessionStep bool) {
	return s.step(1)
}

// Previous steps the active cursor backwards.
func (s *Store) Previous() (sessionStep bool) {
	return s.step(-1)
}

func (s *Store) step(delta int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.focused != nil {
		cur, ok := s.currentLocked()
		if !ok {
			return false
		}
		next := *s.focused + delta
		if next < 0 || next >= len(cur.Artifacts) {
			return false
		}
		s.focused = &next
		s.notifyLocked()
		return false
	}

	next := s.state.CurrentSessionIndex + delta
	if next < 0 || next >= len(s.state.Sessions) {
		return false
	}
	s.state.CurrentSessionIndex = next
	s.notifyLocked()
	return true
}

func (s *Store) currentLocked() (*schema.Session, bool) {
	if s.state.CurrentSessionIndex < 0 || s.state.CurrentSessionIndex >= len(s.state.Sessions) {
		return nil, false
	}
	return &s.state.Sessions[s.state.CurrentSessionIndex], true
}
