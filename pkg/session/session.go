package session

import (
	"context"
	"sync"
	"time"

	"booklib/pkg/credstore"
	"booklib/pkg/models"
)

// View is what navigation and command guards consume: a boolean plus the
// cached role and username. It is always derived live from the stores,
// never cached as validity -- a stale token only surfaces when the backend
// rejects a request.
type View struct {
	LoggedIn bool
	Role     string
	Username string
}

func (v View) IsAdmin() bool {
	return v.LoggedIn && v.Role == models.RoleAdmin
}

// Manager is the single source of truth for session state. All consumers
// read through it instead of touching the two stores directly, and can
// subscribe to change notifications (the cross-process analogue of a
// storage event is covered by Watch).
type Manager struct {
	stores *credstore.Stores

	mu   sync.Mutex
	subs []chan View
	last View
}

func NewManager(stores *credstore.Stores) *Manager {
	m := &Manager{stores: stores}
	m.last = m.derive()
	return m
}

func (m *Manager) derive() View {
	sess, ok := m.stores.Read()
	if !ok {
		return View{}
	}
	return View{LoggedIn: true, Role: sess.Role, Username: sess.Username}
}

// Current performs one read of the stores and derives the view.
func (m *Manager) Current() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = m.derive()
	return m.last
}

// Token returns the raw bearer token, empty when logged out.
func (m *Manager) Token() string {
	sess, ok := m.stores.Read()
	if !ok {
		return ""
	}
	return sess.Token
}

// Subscribe returns a channel that receives the new view after each
// detected change. Delivery is best-effort: a subscriber that is not
// draining its channel misses intermediate updates.
func (m *Manager) Subscribe() <-chan View {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan View, 1)
	m.subs = append(m.subs, ch)
	return ch
}

// Notify re-derives the view and publishes it to subscribers when it
// changed. Called after in-process writes (login, logout) and by Watch.
func (m *Manager) Notify() {
	m.mu.Lock()
	defer m.mu.Unlock()
	view := m.derive()
	if view == m.last {
		return
	}
	m.last = view
	for _, ch := range m.subs {
		select {
		case ch <- view:
		default:
		}
	}
}

// Watch polls the stores on a fixed interval until ctx is done, notifying
// subscribers when another process changed the session underneath us.
func (m *Manager) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Notify()
		}
	}
}
