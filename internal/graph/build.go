package graph

import (
	"fmt"

	"github.com/gyaneshwarpardhi/pipetree/internal/config"
)

// Build creates a Service seeded from a validated PipelineConfig.
// It returns the service and the id assigned to each source key.
func Build(cfg *config.PipelineConfig) (*Service, map[string]int64, error) {
	s := NewService()
	ids, err := s.Load(cfg.Sources)
	if err != nil {
		return nil, nil, err
	}
	return s, ids, nil
}

// Load replaces the service's proxies with sources. Inputs are registered
// before their consumers; otherwise file order is kept.
func (s *Service) Load(sources []config.Source) (map[string]int64, error) {
	byKey := make(map[string]config.Source, len(sources))
	for _, src := range sources {
		byKey[src.Key] = src
	}

	s.Reset()
	ids := make(map[string]int64, len(sources))
	visiting := make(map[string]bool)

	var add func(key string) error
	add = func(key string) error {
		if _, ok := ids[key]; ok {
			return nil
		}
		src, ok := byKey[key]
		if !ok {
			return fmt.Errorf("unknown source key %q", key)
		}
		if visiting[key] {
			return fmt.Errorf("source %s: input cycle", key)
		}
		visiting[key] = true
		inputs := make([]int64, 0, len(src.Inputs))
		for _, in := range src.Inputs {
			if err := add(in); err != nil {
				return fmt.Errorf("source %s: %w", key, err)
			}
			inputs = append(inputs, ids[in])
		}
		visiting[key] = false

		p, err := s.AddSource(src.DisplayName(), inputs...)
		if err != nil {
			return fmt.Errorf("source %s: %w", key, err)
		}
		ids[key] = p.ID()
		if !src.IsVisible() {
			s.Representation(p, s.ActiveView()).SetVisibility(0)
		}
		return nil
	}

	for _, src := range sources {
		if err := add(src.Key); err != nil {
			s.Reset()
			return nil, err
		}
	}
	return ids, nil
}
