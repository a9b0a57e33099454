package pipeline

import (
	"github.com/gyaneshwarpardhi/pipetree/internal/metrics"
)

// State is the synchronized state handed to the presentation layer.
type State struct {
	Sources []Record          `json:"pipeline_sources"`
	Actives []string          `json:"pipeline_actives"`
	Actions map[string]string `json:"pipeline_actions"`
}

// Browser is the pipeline facade: one Update call to rebuild the tree and
// selection, plus the three gesture handlers the tree widget binds to.
// It is not safe for concurrent use; callers serialize access.
type Browser struct {
	sess    *Session
	sync    *Synchronizer
	icons   map[Action]string
	sources []Record
}

// Option configures a Browser.
type Option func(*Browser)

// WithActionIcon sets the icon advertised for an action.
func WithActionIcon(a Action, icon string) Option {
	return func(b *Browser) { b.icons[a] = icon }
}

// NewBrowser creates a Browser over sess. hooks may be nil.
func NewBrowser(sess *Session, hooks Hooks, opts ...Option) *Browser {
	b := &Browser{
		sess:    sess,
		sync:    NewSynchronizer(sess, hooks),
		icons:   map[Action]string{ActionDelete: "mdi-delete"},
		sources: []Record{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Session returns the session the browser operates on.
func (b *Browser) Session() *Session { return b.sess }

// Update rebuilds the tree records and then the selection state.
func (b *Browser) Update() {
	b.UpdateSources()
	b.UpdateActive()
}

// UpdateSources rebuilds only the tree records.
func (b *Browser) UpdateSources() {
	b.sources = Flatten(b.sess)
	metrics.UpdatePasses.Inc()
	metrics.RecordsEmitted.Set(float64(len(b.sources)))
}

// UpdateActive rebuilds only the selection state.
func (b *Browser) UpdateActive() { b.sync.UpdateActive() }

func (b *Browser) OnActiveChanged(ids []string) { b.sync.OnActiveChanged(ids) }

func (b *Browser) OnVisibilityChanged(id string, visible bool) {
	b.sync.OnVisibilityChanged(id, visible)
}

func (b *Browser) OnAction(id string, action Action) { b.sync.OnAction(id, action) }

// Sources returns a copy of the records from the last pass.
func (b *Browser) Sources() []Record { return cloneRecords(b.sources) }

// Actives returns a copy of the selection state.
func (b *Browser) Actives() []string { return b.sync.Selection() }

// State snapshots everything the presentation layer renders.
func (b *Browser) State() State {
	actions := make(map[string]string, len(b.icons))
	for a, icon := range b.icons {
		actions[a.String()] = icon
	}
	return State{
		Sources: b.Sources(),
		Actives: b.Actives(),
		Actions: actions,
	}
}
