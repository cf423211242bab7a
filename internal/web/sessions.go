package web

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/logger"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/widget"
)

// WidgetFactory builds the widget for a new session
type WidgetFactory func() (*widget.Widget, error)

// SessionHooks is notified when sessions open and close
type SessionHooks interface {
	SessionOpened()
	SessionClosed()
}

type nopHooks struct{}

func (nopHooks) SessionOpened() {}
func (nopHooks) SessionClosed() {}

// Registry maps session ids to their widget
type Registry struct {
	factory WidgetFactory
	idle    time.Duration
	hooks   SessionHooks
	now     func() time.Time

	mu      sync.Mutex
	widgets map[string]*widget.Widget
}

// NewRegistry creates an empty registry. Widgets idle for longer than
// idle are closed by Sweep.
func NewRegistry(factory WidgetFactory, idle time.Duration, hooks SessionHooks) *Registry {
	if hooks == nil {
		hooks = nopHooks{}
	}
	return &Registry{
		factory: factory,
		idle:    idle,
		hooks:   hooks,
		now:     time.Now,
		widgets: make(map[string]*widget.Widget),
	}
}

// Get returns the widget of a live session
func (r *Registry) Get(id string) (*widget.Widget, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.widgets[id]
	return w, ok
}

// Create opens a new session
func (r *Registry) Create() (string, *widget.Widget, error) {
	w, err := r.factory()
	if err != nil {
		return "", nil, err
	}
	id := uuid.NewString()

	r.mu.Lock()
	r.widgets[id] = w
	r.mu.Unlock()

	r.hooks.SessionOpened()
	logger.Info("Opened session %s", id)
	return id, w, nil
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.widgets)
}

// Sweep closes the widgets idle for longer than the idle timeout
func (r *Registry) Sweep(ctx context.Context) int {
	cutoff := r.now().Add(-r.idle)

	r.mu.Lock()
	var expired []*widget.Widget
	for id, w := range r.widgets {
		if w.LastActive().Before(cutoff) {
			expired = append(expired, w)
			delete(r.widgets, id)
			logger.Debug("Session %s expired", id)
		}
	}
	r.mu.Unlock()

	for _, w := range expired {
		r.close(ctx, w)
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Sweep(ctx); n > 0 {
				logger.Info("Closed %d idle sessions", n)
			}
		}
	}
}

// Close closes every session
func (r *Registry) Close(ctx context.Context) {
	r.mu.Lock()
	widgets := r.widgets
	r.widgets = make(map[string]*widget.Widget)
	r.mu.Unlock()

	for _, w := range widgets {
		r.close(ctx, w)
	}
}

func (r *Registry) close(ctx context.Context, w *widget.Widget) {
	if err := w.Close(ctx); err != nil {
		logger.Warn("Failed to close widget: %v", err)
	}
	r.hooks.SessionClosed()
}
