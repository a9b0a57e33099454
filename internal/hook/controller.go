package hook

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gyaneshwarpardhi/pipetree/internal/event"
)

// Remover deletes a proxy from the pipeline service.
type Remover interface {
	Remove(id int64) error
}

// Updater re-synchronizes the browser state.
type Updater interface {
	Update()
}

// DeleteHandler removes the requested proxy and refreshes the browser.
// The service refuses to remove a proxy that still feeds another one.
type DeleteHandler struct {
	graph  Remover
	view   Updater
	logger *slog.Logger
}

func NewDeleteHandler(graph Remover, view Updater, logger *slog.Logger) *DeleteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeleteHandler{graph: graph, view: view, logger: logger}
}

func (h *DeleteHandler) Kind() event.Kind { return event.KindDeleteRequested }

func (h *DeleteHandler) Handle(ev *event.Event) error {
	id, err := strconv.ParseInt(strings.TrimSpace(ev.NodeID), 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("delete: invalid node id %q", ev.NodeID)
	}
	if err := h.graph.Remove(id); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	h.logger.Info("proxy deleted", "id", id, "event", ev.ID)
	h.view.Update()
	return nil
}

// RefreshHandler re-runs a full browser update on a notification kind.
type RefreshHandler struct {
	kind event.Kind
	view Updater
}

func NewRefreshHandler(kind event.Kind, view Updater) *RefreshHandler {
	return &RefreshHandler{kind: kind, view: view}
}

func (h *RefreshHandler) Kind() event.Kind { return h.kind }

func (h *RefreshHandler) Handle(ev *event.Event) error {
	h.view.Update()
	return nil
}

// LogHandler records notifications at debug level.
type LogHandler struct {
	kind   event.Kind
	logger *slog.Logger
}

func NewLogHandler(kind event.Kind, logger *slog.Logger) *LogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogHandler{kind: kind, logger: logger}
}

func (h *LogHandler) Kind() event.Kind { return h.kind }

func (h *LogHandler) Handle(ev *event.Event) error {
	h.logger.Debug("lifecycle", "kind", ev.Kind, "node", ev.NodeID, "session", ev.SessionID)
	return nil
}

// RegisterDefaults wires the standard controller: deletes go to graph,
// data changes refresh view, active changes are logged.
func RegisterDefaults(r *Registry, graph Remover, view Updater, logger *slog.Logger) {
	r.Register(NewDeleteHandler(graph, view, logger))
	r.Register(NewRefreshHandler(event.KindDataChanged, view))
	r.Register(NewLogHandler(event.KindActiveChanged, logger))
}
