// Package persist mirrors the in-memory session store to disk. Persistence
// is best-effort: the in-memory state is authoritative and a failed write
// never blocks or corrupts it.
package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pichimail/spark-ui-designer/pkg/schema"
)

const sessionsFile = "sessions.json"

// Bridge serializes the session list to a single JSON file in the data
// directory. Writes go to a temp file first and are renamed into place so
// a crash mid-write never leaves a truncated file behind.
type Bridge struct {
	dataDir string
}

// NewBridge creates a bridge rooted at dataDir, creating the directory if
// needed.
func NewBridge(dataDir string) (*Bridge, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Bridge{dataDir: dataDir}, nil
}

// Load reads the persisted session list. A missing file or a parse failure
// yields an empty list, not an error: stale or corrupt persistence must
// never prevent startup.
func (b *Bridge) Load() []schema.Session {
	data, err := os.ReadFile(filepath.Join(b.dataDir, sessionsFile))
	if err != nil {
		return nil
	}

	var sessions []schema.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil
	}
	return sessions
}

// Save writes the session list, atomically replacing the previous file.
func (b *Bridge) Save(sessions []schema.Session) error {
	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sessions: %w", err)
	}

	path := filepath.Join(b.dataDir, sessionsFile)
	tmp, err := os.CreateTemp(b.dataDir, sessionsFile+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace sessions file: %w", err)
	}
	return nil
}
