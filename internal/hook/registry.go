// Package hook routes browser lifecycle notifications to controller handlers.
package hook

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/gyaneshwarpardhi/pipetree/internal/event"
	"github.com/gyaneshwarpardhi/pipetree/internal/metrics"
)

// Handler is the interface all lifecycle handlers must satisfy.
type Handler interface {
	// Kind returns the notification kind this handler listens to.
	Kind() event.Kind
	// Handle reacts to a notification.
	Handle(ev *event.Event) error
}

// Registry maps notification kinds to their handlers. Several handlers may
// listen to the same kind; they run in registration order.
type Registry struct {
	mu       sync.RWMutex
	handlers map[event.Kind][]Handler
	logger   *slog.Logger
}

// NewRegistry creates an empty Registry. logger may be nil.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{handlers: make(map[event.Kind][]Handler), logger: logger}
}

// Register adds a handler.
func (r *Registry) Register(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[h.Kind()] = append(r.handlers[h.Kind()], h)
}

// Handlers returns the handlers registered for kind.
func (r *Registry) Handlers(kind event.Kind) []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Handler(nil), r.handlers[kind]...)
}

// Kinds returns all kinds with at least one handler, sorted.
func (r *Registry) Kinds() []event.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]event.Kind, 0, len(r.handlers))
	for k := range r.handlers {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Fire runs every handler for ev.Kind synchronously. Handler errors are
// logged and counted, never returned.
func (r *Registry) Fire(ev *event.Event) {
	handlers := r.Handlers(ev.Kind)
	if len(handlers) == 0 {
		metrics.HooksFired.WithLabelValues(string(ev.Kind), "unhandled").Inc()
		return
	}
	for _, h := range handlers {
		if err := h.Handle(ev); err != nil {
			metrics.HooksFired.WithLabelValues(string(ev.Kind), "error").Inc()
			r.logger.Warn("lifecycle handler failed", "kind", ev.Kind, "node", ev.NodeID, "event", ev.ID, "err", err)
			continue
		}
		metrics.HooksFired.WithLabelValues(string(ev.Kind), "success").Inc()
	}
}
