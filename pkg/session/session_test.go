package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"booklib/pkg/credstore"
	"booklib/pkg/models"
)

func setup(t *testing.T) (*credstore.Stores, *Manager) {
	dir := t.TempDir()
	stores := credstore.New(
		credstore.NewFileStore(filepath.Join(dir, "credentials.json")),
		credstore.NewFileStore(filepath.Join(dir, "session.json")),
	)
	return stores, NewManager(stores)
}

func TestCurrentLoggedOut(t *testing.T) {
	_, m := setup(t)
	view := m.Current()
	assert.False(t, view.LoggedIn)
	assert.False(t, view.IsAdmin())
	assert.Empty(t, m.Token())
}

func TestCurrentAfterLogin(t *testing.T) {
	stores, m := setup(t)

	err := stores.Write(models.Session{Token: "tok", Role: models.RoleAdmin, Username: "alice"}, false)
	assert.NoError(t, err)

	view := m.Current()
	assert.True(t, view.LoggedIn)
	assert.True(t, view.IsAdmin())
	assert.Equal(t, "alice", view.Username)
	assert.Equal(t, "tok", m.Token())
}

func TestNotifyPublishesChange(t *testing.T) {
	stores, m := setup(t)
	ch := m.Subscribe()

	assert.NoError(t, stores.Write(models.Session{Token: "tok", Role: models.RoleUser, Username: "bob"}, true))
	m.Notify()

	select {
	case view := <-ch:
		assert.True(t, view.LoggedIn)
		assert.Equal(t, "bob", view.Username)
	case <-time.After(time.Second):
		t.Fatal("no notification received")
	}
}

func TestNotifySkipsUnchanged(t *testing.T) {
	_, m := setup(t)
	ch := m.Subscribe()

	m.Notify()
	m.Notify()

	select {
	case view := <-ch:
		t.Fatalf("unexpected notification: %+v", view)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatchSeesExternalWrite(t *testing.T) {
	stores, m := setup(t)
	ch := m.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Watch(ctx, 10*time.Millisecond)

	// simulate another process writing the shared stores
	assert.NoError(t, stores.Write(models.Session{Token: "tok", Role: models.RoleUser, Username: "carol"}, true))

	select {
	case view := <-ch:
		assert.True(t, view.LoggedIn)
		assert.Equal(t, "carol", view.Username)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not pick up the external write")
	}
}
