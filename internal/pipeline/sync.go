package pipeline

import (
	"github.com/gyaneshwarpardhi/pipetree/internal/event"
)

// Hooks receives lifecycle notifications for the controller layer.
type Hooks interface {
	Fire(ev *event.Event)
}

// ActiveIDs reads the backend's active source as a zero- or one-element list.
func ActiveIDs(sess *Session) []string {
	actives := []string{}
	if !sess.attached() {
		return actives
	}
	if p, ok := sess.Backend.ActiveSource(); ok && p != nil {
		actives = append(actives, p.GlobalID())
	}
	return actives
}

// Synchronizer bridges selection and visibility between the tree widget and
// the backend. It is not safe for concurrent use.
type Synchronizer struct {
	sess    *Session
	hooks   Hooks
	actives []string
}

// NewSynchronizer creates a Synchronizer. hooks may be nil.
func NewSynchronizer(sess *Session, hooks Hooks) *Synchronizer {
	return &Synchronizer{sess: sess, hooks: hooks, actives: []string{}}
}

// Selection returns a copy of the current selection state.
func (s *Synchronizer) Selection() []string {
	return append([]string{}, s.actives...)
}

// UpdateActive re-reads the backend's active source into the selection state.
func (s *Synchronizer) UpdateActive() {
	s.actives = ActiveIDs(s.sess)
}

// OnActiveChanged makes the first of ids the active source, or clears the
// active source when ids is empty or does not resolve. The selection is then
// re-read from the backend rather than copied from ids.
func (s *Synchronizer) OnActiveChanged(ids []string) {
	if !s.sess.attached() {
		return
	}
	var proxy Proxy
	if len(ids) > 0 {
		if p, ok := Resolve(s.sess, ids[0]); ok {
			proxy = p
		}
	}
	s.sess.Backend.SetActiveSource(proxy)
	s.UpdateActive()
	s.fire(event.KindActiveChanged, "")
}

// OnVisibilityChanged shows or hides the representation of id in the active
// view. An id that does not resolve is ignored and fires nothing.
func (s *Synchronizer) OnVisibilityChanged(id string, visible bool) {
	p, ok := Resolve(s.sess, id)
	if !ok {
		return
	}
	BindingFor(s.sess, p).SetVisible(visible)
	s.fire(event.KindDataChanged, id)
}

// OnAction dispatches a record action. Deletion itself belongs to the
// controller; the synchronizer only forwards the raw id.
func (s *Synchronizer) OnAction(id string, action Action) {
	if !s.sess.attached() {
		return
	}
	switch action {
	case ActionDelete:
		s.fire(event.KindDeleteRequested, id)
	default:
		s.sess.log().Debug("ignoring unknown action", "id", id, "action", int(action))
	}
}

func (s *Synchronizer) fire(kind event.Kind, nodeID string) {
	if s.hooks == nil {
		return
	}
	s.hooks.Fire(event.New(kind, s.sess.ID.String(), nodeID))
}
