package pipeline

// Binding pairs a proxy with its representation in the active view.
type Binding struct {
	rep Representation
}

// BindingFor fetches the representation of p in the session's active view.
// The backend creates one when none exists yet, so this is not a pure read.
func BindingFor(sess *Session, p Proxy) Binding {
	view := sess.Backend.ActiveView()
	return Binding{rep: sess.Backend.Representation(p, view)}
}

func (b Binding) ID() string      { return b.rep.GlobalID() }
func (b Binding) Visibility() int { return b.rep.Visibility() }
func (b Binding) Visible() bool   { return b.rep.Visibility() != 0 }

// SetVisible writes 1 or 0 to the representation's visibility.
func (b Binding) SetVisible(visible bool) {
	v := 0
	if visible {
		v = 1
	}
	b.rep.SetVisibility(v)
}
