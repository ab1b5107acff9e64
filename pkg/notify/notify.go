package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

// Notification is a user-facing message with an auto-dismiss deadline,
// the way a rejected rental surfaces as a timed toast.
type Notification struct {
	ID        string
	Level     Level
	Message   string
	PostedAt  time.Time
	DismissAt time.Time
}

// Center holds pending notifications. Expired entries are dropped lazily
// whenever the list is read.
type Center struct {
	items []*Notification
	mu    sync.Mutex
}

func NewCenter() *Center {
	return &Center{
		items: make([]*Notification, 0),
	}
}

// Push adds a notification that auto-dismisses after ttl.
func (c *Center) Push(level Level, message string, ttl time.Duration) *Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	n := &Notification{
		ID:        uuid.New().String(),
		Level:     level,
		Message:   message,
		PostedAt:  now,
		DismissAt: now.Add(ttl),
	}
	c.items = append(c.items, n)
	return n
}

// Active returns the notifications whose dismiss deadline has not passed,
// dropping the expired ones.
func (c *Center) Active() []*Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	kept := c.items[:0]
	for _, n := range c.items {
		if n.DismissAt.After(now) {
			kept = append(kept, n)
		}
	}
	c.items = kept

	result := make([]*Notification, len(c.items))
	copy(result, c.items)
	return result
}

// Dismiss removes a notification before its deadline.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

func (c *Center) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
