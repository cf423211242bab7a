// Package notify keeps transient notifications that dismiss themselves.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a notice stays visible
const DefaultTTL = 5 * time.Second

// Level is the notification severity
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Notice is a single notification
type Notice struct {
	ID      string
	Level   Level
	Message string
	Created time.Time
}

type entry struct {
	notice Notice
	timer  *time.Timer
}

// Center holds the live notices of one widget
type Center struct {
	ttl time.Duration

	mu      sync.Mutex
	entries []*entry
	closed  bool
}

// NewCenter creates a center whose notices expire after ttl.
// A non-positive ttl falls back to DefaultTTL.
func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{ttl: ttl}
}

// Push adds a notice and schedules its removal
func (c *Center) Push(level Level, message string) Notice {
	n := Notice{
		ID:      uuid.NewString(),
		Level:   level,
		Message: message,
		Created: time.Now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return n
	}

	e := &entry{notice: n}
	e.timer = time.AfterFunc(c.ttl, func() { c.Dismiss(n.ID) })
	c.entries = append(c.entries, e)

	return n
}

// Error is shorthand for Push(LevelError, message)
func (c *Center) Error(message string) Notice {
	return c.Push(LevelError, message)
}

// Active returns the live notices, oldest first
func (c *Center) Active() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Notice, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.notice)
	}
	return out
}

// Dismiss removes a notice. Unknown ids are ignored.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, e := range c.entries {
		if e.notice.ID == id {
			e.timer.Stop()
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return
		}
	}
}

// Close drops every notice and stops their timers
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		e.timer.Stop()
	}
	c.entries = nil
	c.closed = true
}
