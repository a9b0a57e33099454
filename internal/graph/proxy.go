package graph

import (
	"strconv"

	"github.com/gyaneshwarpardhi/pipetree/internal/pipeline"
)

// Proxy is a pipeline node owned by a Service.
type Proxy struct {
	svc    *Service
	id     int64
	name   string
	group  string
	inputs []int64
}

func (p *Proxy) ID() int64        { return p.id }
func (p *Proxy) GlobalID() string { return strconv.FormatInt(p.id, 10) }
func (p *Proxy) Name() string     { return p.name }
func (p *Proxy) Group() string    { return p.group }

// Inputs resolves the input connections live from the owning service.
func (p *Proxy) Inputs() []pipeline.Proxy {
	p.svc.mu.RLock()
	defer p.svc.mu.RUnlock()
	out := make([]pipeline.Proxy, 0, len(p.inputs))
	for _, id := range p.inputs {
		if in, ok := p.svc.proxies[id]; ok {
			out = append(out, in)
		}
	}
	return out
}

// View is a render view.
type View struct {
	id   int64
	name string
}

func (v *View) ID() int64        { return v.id }
func (v *View) GlobalID() string { return strconv.FormatInt(v.id, 10) }
func (v *View) Name() string     { return v.name }

// Representation is the display of one proxy in one view.
type Representation struct {
	svc        *Service
	id         int64
	visibility int
}

func (r *Representation) GlobalID() string { return strconv.FormatInt(r.id, 10) }

func (r *Representation) Visibility() int {
	r.svc.mu.RLock()
	defer r.svc.mu.RUnlock()
	return r.visibility
}

func (r *Representation) SetVisibility(v int) {
	r.svc.mu.Lock()
	defer r.svc.mu.Unlock()
	r.visibility = v
}
