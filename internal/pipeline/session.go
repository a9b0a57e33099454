// Package pipeline synchronizes an external visualization pipeline graph with a
// flat tree model a browser widget can render, and applies the widget's
// selection, visibility and delete gestures back onto the graph.
package pipeline

import (
	"log/slog"

	"github.com/google/uuid"
)

// SourcesGroup is the proxy group holding pipeline sources and filters.
const SourcesGroup = "sources"

// Proxy is a live node handle owned by the external graph service.
type Proxy interface {
	ID() int64
	GlobalID() string
	Name() string
	// Inputs returns the proxies connected to this node's input, in port order.
	Inputs() []Proxy
}

// View is an opaque render view handle.
type View interface {
	GlobalID() string
}

// Representation is the display counterpart of a proxy within a view.
type Representation interface {
	GlobalID() string
	Visibility() int
	SetVisibility(v int)
}

// Backend is the external graph service. Implementations serialize their own
// mutations; the engine performs no locking.
type Backend interface {
	ProxiesInGroup(group string) []Proxy
	ProxyByID(id int64) (Proxy, bool)
	ActiveView() View
	// Representation returns the representation of p in v, creating it if needed.
	Representation(p Proxy, v View) Representation
	ActiveSource() (Proxy, bool)
	// SetActiveSource makes p the single active source; nil clears it.
	SetActiveSource(p Proxy)
}

// Session is the connection context every engine operation runs against.
// A Session without a Backend behaves as a detached "no pipeline" state.
type Session struct {
	ID      uuid.UUID
	Backend Backend
	Logger  *slog.Logger
}

// NewSession binds a backend to a fresh session. logger may be nil.
func NewSession(b Backend, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.New()
	return &Session{
		ID:      id,
		Backend: b,
		Logger:  logger.With("session", id.String()),
	}
}

func (s *Session) attached() bool {
	return s != nil && s.Backend != nil
}

func (s *Session) log() *slog.Logger {
	if s == nil || s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
