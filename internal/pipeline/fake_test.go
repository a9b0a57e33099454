package pipeline_test

import (
	"strconv"

	"github.com/gyaneshwarpardhi/pipetree/internal/event"
	"github.com/gyaneshwarpardhi/pipetree/internal/pipeline"
)

type fakeProxy struct {
	id     int64
	name   string
	inputs []*fakeProxy
}

func (p *fakeProxy) ID() int64        { return p.id }
func (p *fakeProxy) GlobalID() string { return strconv.FormatInt(p.id, 10) }
func (p *fakeProxy) Name() string     { return p.name }
func (p *fakeProxy) Inputs() []pipeline.Proxy {
	out := make([]pipeline.Proxy, 0, len(p.inputs))
	for _, in := range p.inputs {
		out = append(out, in)
	}
	return out
}

type fakeView struct{}

func (fakeView) GlobalID() string { return "100" }

type fakeRep struct {
	id  string
	vis int
}

func (r *fakeRep) GlobalID() string    { return r.id }
func (r *fakeRep) Visibility() int     { return r.vis }
func (r *fakeRep) SetVisibility(v int) { r.vis = v }

// fakeBackend keeps proxies in insertion order. rejectActive makes
// SetActiveSource a no-op, like a service refusing the selection.
type fakeBackend struct {
	proxies      []*fakeProxy
	reps         map[int64]*fakeRep
	active       *fakeProxy
	rejectActive bool
	repCreates   int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{reps: make(map[int64]*fakeRep)}
}

func (b *fakeBackend) add(id int64, name string, inputs ...*fakeProxy) *fakeProxy {
	p := &fakeProxy{id: id, name: name, inputs: inputs}
	b.proxies = append(b.proxies, p)
	return p
}

func (b *fakeBackend) ProxiesInGroup(group string) []pipeline.Proxy {
	if group != pipeline.SourcesGroup {
		return nil
	}
	out := make([]pipeline.Proxy, 0, len(b.proxies))
	for _, p := range b.proxies {
		out = append(out, p)
	}
	return out
}

func (b *fakeBackend) ProxyByID(id int64) (pipeline.Proxy, bool) {
	for _, p := range b.proxies {
		if p.id == id {
			return p, true
		}
	}
	return nil, false
}

func (b *fakeBackend) ActiveView() pipeline.View { return fakeView{} }

func (b *fakeBackend) Representation(p pipeline.Proxy, v pipeline.View) pipeline.Representation {
	rep, ok := b.reps[p.ID()]
	if !ok {
		b.repCreates++
		rep = &fakeRep{id: "rep" + p.GlobalID(), vis: 1}
		b.reps[p.ID()] = rep
	}
	return rep
}

func (b *fakeBackend) ActiveSource() (pipeline.Proxy, bool) {
	if b.active == nil {
		return nil, false
	}
	return b.active, true
}

func (b *fakeBackend) SetActiveSource(p pipeline.Proxy) {
	if b.rejectActive {
		return
	}
	if p == nil {
		b.active = nil
		return
	}
	b.active = p.(*fakeProxy)
}

type recordingHooks struct {
	events []*event.Event
}

func (h *recordingHooks) Fire(ev *event.Event) { h.events = append(h.events, ev) }

func (h *recordingHooks) kinds() []event.Kind {
	out := make([]event.Kind, 0, len(h.events))
	for _, ev := range h.events {
		out = append(out, ev.Kind)
	}
	return out
}
