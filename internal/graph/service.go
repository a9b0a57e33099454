// Package graph is an in-memory visualization pipeline service: proxies
// grouped by role, their input connections, render views and per-view
// representations, and the single active source.
package graph

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gyaneshwarpardhi/pipetree/internal/pipeline"
)

const (
	GroupSources = pipeline.SourcesGroup
	GroupViews   = "views"
)

var (
	ErrNotFound = errors.New("graph: proxy not found")
	ErrInUse    = errors.New("graph: proxy is an input of another proxy")
)

type repKey struct {
	proxy int64
	view  int64
}

// Service holds the pipeline. All methods are safe for concurrent use.
// Ids are never reused, even across Reset, so stale ids from a client stop
// resolving instead of aliasing new proxies.
type Service struct {
	mu         sync.RWMutex
	nextID     int64
	proxies    map[int64]*Proxy
	groups     map[string][]int64 // group → ids in registration order
	views      map[int64]*View
	reps       map[repKey]*Representation
	activeView *View
	active     *Proxy
}

// NewService creates a service with one render view, which is active.
func NewService() *Service {
	s := &Service{nextID: 1}
	s.init()
	s.activeView = s.addViewLocked("RenderView1")
	return s
}

func (s *Service) init() {
	s.proxies = make(map[int64]*Proxy)
	s.groups = make(map[string][]int64)
	s.views = make(map[int64]*View)
	s.reps = make(map[repKey]*Representation)
	s.active = nil
}

func (s *Service) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// AddSource registers a proxy in the sources group with the given inputs.
func (s *Service) AddSource(name string, inputs ...int64) (*Proxy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, in := range inputs {
		if _, ok := s.proxies[in]; !ok {
			return nil, fmt.Errorf("add %q: input %d: %w", name, in, ErrNotFound)
		}
	}
	p := &Proxy{svc: s, id: s.allocID(), name: name, group: GroupSources}
	p.inputs = append(p.inputs, inputs...)
	s.proxies[p.id] = p
	s.groups[GroupSources] = append(s.groups[GroupSources], p.id)
	return p, nil
}

// SetInputs replaces the input connections of proxy id.
func (s *Service) SetInputs(id int64, inputs ...int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proxies[id]
	if !ok {
		return fmt.Errorf("set inputs of %d: %w", id, ErrNotFound)
	}
	for _, in := range inputs {
		if _, ok := s.proxies[in]; !ok {
			return fmt.Errorf("set inputs of %d: input %d: %w", id, in, ErrNotFound)
		}
	}
	p.inputs = append([]int64(nil), inputs...)
	return nil
}

// Remove deletes a proxy together with its representations. A proxy that
// still feeds another proxy cannot be removed.
func (s *Service) Remove(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proxies[id]
	if !ok {
		return fmt.Errorf("remove %d: %w", id, ErrNotFound)
	}
	if consumers := s.consumersLocked(id); len(consumers) > 0 {
		return fmt.Errorf("remove %d (used by %v): %w", id, consumers, ErrInUse)
	}
	delete(s.proxies, id)
	ids := s.groups[p.group]
	for i, gid := range ids {
		if gid == id {
			s.groups[p.group] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	for k := range s.reps {
		if k.proxy == id {
			delete(s.reps, k)
		}
	}
	if s.active == p {
		s.active = nil
	}
	return nil
}

// Consumers returns the ids of proxies that list id among their inputs.
func (s *Service) Consumers(id int64) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.consumersLocked(id)
}

func (s *Service) consumersLocked(id int64) []int64 {
	var out []int64
	for _, cid := range s.groups[GroupSources] {
		for _, in := range s.proxies[cid].inputs {
			if in == id {
				out = append(out, cid)
				break
			}
		}
	}
	return out
}

// AddView registers a render view. It does not become active.
func (s *Service) AddView(name string) *View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addViewLocked(name)
}

func (s *Service) addViewLocked(name string) *View {
	v := &View{id: s.allocID(), name: name}
	s.views[v.id] = v
	s.groups[GroupViews] = append(s.groups[GroupViews], v.id)
	return v
}

// SetActiveView switches the active view.
func (s *Service) SetActiveView(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.views[id]
	if !ok {
		return fmt.Errorf("set active view %d: %w", id, ErrNotFound)
	}
	s.activeView = v
	return nil
}

// Reset drops every proxy and representation, keeping views and the id counter.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	views, viewIDs, active := s.views, s.groups[GroupViews], s.activeView
	s.init()
	s.views = views
	s.groups[GroupViews] = viewIDs
	s.activeView = active
}

// Len returns the number of proxies in the sources group.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.groups[GroupSources])
}

// ProxiesInGroup implements pipeline.Backend.
func (s *Service) ProxiesInGroup(group string) []pipeline.Proxy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.groups[group]
	out := make([]pipeline.Proxy, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.proxies[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// ProxyByID implements pipeline.Backend.
func (s *Service) ProxyByID(id int64) (pipeline.Proxy, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.proxies[id]
	if !ok {
		return nil, false
	}
	return p, true
}

// ActiveView implements pipeline.Backend.
func (s *Service) ActiveView() pipeline.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.activeView == nil {
		return nil
	}
	return s.activeView
}

// Representation implements pipeline.Backend. New representations start visible.
func (s *Service) Representation(p pipeline.Proxy, v pipeline.View) pipeline.Representation {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := repKey{proxy: p.ID()}
	if view, ok := v.(*View); ok && view != nil {
		key.view = view.id
	}
	rep, ok := s.reps[key]
	if !ok {
		rep = &Representation{svc: s, id: s.allocID(), visibility: 1}
		s.reps[key] = rep
	}
	return rep
}

// ActiveSource implements pipeline.Backend.
func (s *Service) ActiveSource() (pipeline.Proxy, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return nil, false
	}
	return s.active, true
}

// SetActiveSource implements pipeline.Backend. Proxies this service does not
// own clear the active source.
func (s *Service) SetActiveSource(p pipeline.Proxy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = nil
	if p == nil {
		return
	}
	if own, ok := s.proxies[p.ID()]; ok {
		s.active = own
	}
}

var _ pipeline.Backend = (*Service)(nil)
