package config

import (
	"fmt"
	"strings"
)

// Validate checks the config for:
//   - Required fields and non-negative tunables
//   - Duplicate source keys
//   - Inputs that reference unknown keys
//   - Cycles in the input graph
func Validate(cfg *PipelineConfig) error {
	if cfg.Version == "" {
		return fmt.Errorf("config: version is required")
	}
	var errs []string
	if cfg.Server.QueueDepth < 0 {
		errs = append(errs, "server.queue_depth must not be negative")
	}
	if cfg.Server.CommandTimeoutMs < 0 {
		errs = append(errs, "server.command_timeout_ms must not be negative")
	}

	keys := make(map[string]int, len(cfg.Sources)) // key → index
	for i, src := range cfg.Sources {
		if src.Key == "" {
			errs = append(errs, fmt.Sprintf("sources[%d]: key is required", i))
			continue
		}
		if prev, ok := keys[src.Key]; ok {
			errs = append(errs, fmt.Sprintf("duplicate key %q (first seen at sources[%d], again at sources[%d])", src.Key, prev, i))
			continue
		}
		keys[src.Key] = i
	}
	for _, src := range cfg.Sources {
		for j, in := range src.Inputs {
			if _, ok := keys[in]; !ok {
				errs = append(errs, fmt.Sprintf("source %s: inputs[%d] references unknown key %q", src.Key, j, in))
			}
		}
	}
	if len(errs) == 0 {
		if cycle := findCycle(cfg.Sources); cycle != nil {
			errs = append(errs, fmt.Sprintf("input cycle: %s", strings.Join(cycle, " -> ")))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// findCycle returns the first input cycle found, as a closed path of keys.
func findCycle(sources []Source) []string {
	inputs := make(map[string][]string, len(sources))
	for _, src := range sources {
		inputs[src.Key] = src.Inputs
	}
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(sources))
	var stack []string
	var visit func(key string) []string
	visit = func(key string) []string {
		switch state[key] {
		case visiting:
			for i, k := range stack {
				if k == key {
					return append(append([]string{}, stack[i:]...), key)
				}
			}
		case done:
			return nil
		}
		state[key] = visiting
		stack = append(stack, key)
		for _, in := range inputs[key] {
			if c := visit(in); c != nil {
				return c
			}
		}
		stack = stack[:len(stack)-1]
		state[key] = done
		return nil
	}
	for _, src := range sources {
		if c := visit(src.Key); c != nil {
			return c
		}
	}
	return nil
}
