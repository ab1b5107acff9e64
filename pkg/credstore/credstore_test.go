package credstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"booklib/pkg/models"
)

func setupStores(t *testing.T) *Stores {
	dir := t.TempDir()
	persistent := NewFileStore(filepath.Join(dir, "credentials.json"))
	session := NewFileStore(filepath.Join(dir, "session.json"))
	return New(persistent, session)
}

func TestWritePersistentThenRead(t *testing.T) {
	s := setupStores(t)

	sess := models.Session{Token: "tok-1", Role: models.RoleUser, Username: "alice"}
	err := s.Write(sess, true)
	assert.NoError(t, err)

	got, ok := s.Read()
	assert.True(t, ok)
	assert.Equal(t, sess, got)

	// the session-scoped store must be empty after a persistent write
	assert.Empty(t, s.session.Get("token"))
}

func TestWriteSessionScopedThenRead(t *testing.T) {
	s := setupStores(t)

	sess := models.Session{Token: "tok-2", Role: models.RoleAdmin, Username: "bob"}
	err := s.Write(sess, false)
	assert.NoError(t, err)

	got, ok := s.Read()
	assert.True(t, ok)
	assert.Equal(t, sess, got)

	assert.Empty(t, s.persistent.Get("token"))
}

func TestPersistentTakesPrecedence(t *testing.T) {
	s := setupStores(t)

	// write both stores directly to simulate a stale leftover
	err := s.session.WriteAll(map[string]string{"token": "stale", "role": models.RoleUser, "username": "old"})
	assert.NoError(t, err)
	err = s.persistent.WriteAll(map[string]string{"token": "fresh", "role": models.RoleAdmin, "username": "new"})
	assert.NoError(t, err)

	got, ok := s.Read()
	assert.True(t, ok)
	assert.Equal(t, "fresh", got.Token)
	assert.Equal(t, models.RoleAdmin, got.Role)
	assert.Equal(t, "new", got.Username)
}

func TestWriteClearsOtherStore(t *testing.T) {
	s := setupStores(t)

	assert.NoError(t, s.Write(models.Session{Token: "a", Role: models.RoleUser, Username: "u"}, true))
	assert.NoError(t, s.Write(models.Session{Token: "b", Role: models.RoleUser, Username: "u"}, false))

	assert.Empty(t, s.persistent.Get("token"))
	got, ok := s.Read()
	assert.True(t, ok)
	assert.Equal(t, "b", got.Token)
}

func TestClear(t *testing.T) {
	s := setupStores(t)

	assert.NoError(t, s.Write(models.Session{Token: "tok", Role: models.RoleUser, Username: "u"}, true))
	assert.NoError(t, s.Clear())

	_, ok := s.Read()
	assert.False(t, ok)

	// clearing an already-empty pair must not fail
	assert.NoError(t, s.Clear())
}

func TestReadEmpty(t *testing.T) {
	s := setupStores(t)
	_, ok := s.Read()
	assert.False(t, ok)
}
