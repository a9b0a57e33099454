package pipeline

import "fmt"

// Action is a per-record gesture the tree widget may offer.
type Action int

const (
	ActionNone Action = iota
	ActionDelete
)

var actionNames = map[Action]string{
	ActionDelete: "delete",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "none"
}

// MarshalText encodes the action by name.
func (a Action) MarshalText() ([]byte, error) {
	name, ok := actionNames[a]
	if !ok {
		return nil, fmt.Errorf("pipeline: cannot encode action %d", int(a))
	}
	return []byte(name), nil
}

// UnmarshalText decodes a known action name.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, ok := ParseAction(string(text))
	if !ok {
		return fmt.Errorf("pipeline: unknown action %q", text)
	}
	*a = parsed
	return nil
}

// ParseAction maps a UI action name to an Action. Unknown names report false.
func ParseAction(name string) (Action, bool) {
	for a, n := range actionNames {
		if n == name {
			return a, true
		}
	}
	return ActionNone, false
}
