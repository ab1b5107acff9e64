package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"booklib/pkg/models"
)

const (
	keyToken    = "token"
	keyRole     = "role"
	keyUsername = "username"
)

// Store is a small string key-value store. The two instances used by the
// client are the persistent store (survives reboots) and the session-scoped
// store (lives in the OS temp dir and is cleared between sessions).
type Store interface {
	Get(key string) string
	WriteAll(values map[string]string) error
	Clear() error
}

// FileStore keeps its values as a JSON object in a single file. Every Get
// re-reads the file, so writes from other processes become visible on the
// next read.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (fs *FileStore) load() map[string]string {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		return nil
	}
	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil
	}
	return values
}

func (fs *FileStore) Get(key string) string {
	return fs.load()[key]
}

func (fs *FileStore) WriteAll(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(fs.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return os.WriteFile(fs.path, data, 0o600)
}

func (fs *FileStore) Clear() error {
	err := os.Remove(fs.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Stores resolves the current session with persistent-then-session
// precedence and keeps the invariant that at most one of the two stores
// holds a live session at a time.
type Stores struct {
	persistent Store
	session    Store
}

func New(persistent, session Store) *Stores {
	return &Stores{persistent: persistent, session: session}
}

// Write clears the non-chosen store first, then writes the token, role and
// username to the chosen one.
func (s *Stores) Write(sess models.Session, persistent bool) error {
	target, other := s.session, s.persistent
	if persistent {
		target, other = s.persistent, s.session
	}
	if err := other.Clear(); err != nil {
		return err
	}
	return target.WriteAll(map[string]string{
		keyToken:    sess.Token,
		keyRole:     sess.Role,
		keyUsername: sess.Username,
	})
}

// Read checks the persistent store first and falls back to the
// session-scoped store. The second return value is false when neither store
// holds a token.
func (s *Stores) Read() (models.Session, bool) {
	for _, st := range []Store{s.persistent, s.session} {
		if token := st.Get(keyToken); token != "" {
			return models.Session{
				Token:    token,
				Role:     st.Get(keyRole),
				Username: st.Get(keyUsername),
			}, true
		}
	}
	return models.Session{}, false
}

// Clear removes the session from both stores unconditionally. Used on logout.
func (s *Stores) Clear() error {
	if err := s.persistent.Clear(); err != nil {
		return err
	}
	return s.session.Clear()
}

// DefaultPersistentPath is the "remember me" store location.
func DefaultPersistentPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "booklib", "credentials.json"), nil
}

// DefaultSessionPath lives in the temp dir, which the OS wipes between
// sessions. Keyed by uid so shared machines do not collide.
func DefaultSessionPath() string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("booklib-session-%d.json", os.Getuid()))
}
