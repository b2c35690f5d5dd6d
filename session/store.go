package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
)

// ErrSessionNotFound is returned when no file exists for a session ID.
var ErrSessionNotFound = errors.New("session not found")

// Store persists one JSON file per session under <dir>/sessions.
type Store struct {
	dir string
}

// NewStore creates the sessions directory under the cache dir.
func NewStore(cacheDir string) (*Store, error) {
	dir := filepath.Join(cacheDir, "sessions")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create sessions dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (st *Store) path(sessionID string) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("session ID must be a non-empty string")
	}
	// Session IDs become file names; refuse anything that could escape the dir.
	if strings.ContainsAny(sessionID, "/\\") || strings.Contains(sessionID, "..") {
		return "", fmt.Errorf("invalid session ID %q", sessionID)
	}
	return filepath.Join(st.dir, sessionID+".json"), nil
}

// Save writes the session's full state to its file.
func (st *Store) Save(sess *TastingSession) error {
	path, err := st.path(sess.ID)
	if err != nil {
		return err
	}

	data, err := sonic.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write session %s: %w", sess.ID, err)
	}
	return nil
}

// Load reads a session back from disk.
func (st *Store) Load(sessionID string) (*TastingSession, error) {
	path, err := st.path(sessionID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("read session %s: %w", sessionID, err)
	}

	var sess TastingSession
	if err := sonic.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	if sess.Evaluations == nil {
		sess.Evaluations = make(map[string]*BeerEvaluation)
	}
	if sess.Preferences == nil {
		sess.Preferences = make(map[string]any)
	}
	return &sess, nil
}

// Delete removes a session file. Missing files are not an error.
func (st *Store) Delete(sessionID string) error {
	path, err := st.path(sessionID)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}
