package pipeline

import (
	"encoding/json"
	"strconv"
)

// RootID is the parent sentinel of nodes without inputs.
const RootID = "0"

// Record is one row of the flattened pipeline tree. Records live for a single
// synchronization pass and are matched across passes by ID, never by position.
type Record struct {
	ID     string
	Name   string
	Parent string
	// ExtraParents holds inputs 1..n-1 of a multi-input node; the wire form
	// names them parent_1, parent_2, ...
	ExtraParents []string
	MultiParent  int
	Rep          string
	Visible      bool
	Actions      []Action
}

// Deletable reports whether the record offers the delete action.
func (r Record) Deletable() bool {
	for _, a := range r.Actions {
		if a == ActionDelete {
			return true
		}
	}
	return false
}

// Parents returns the primary parent followed by any extra parents.
func (r Record) Parents() []string {
	out := make([]string, 0, 1+len(r.ExtraParents))
	out = append(out, r.Parent)
	return append(out, r.ExtraParents...)
}

// MarshalJSON emits the flat shape the tree widget consumes.
func (r Record) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{
		"id":      r.ID,
		"name":    r.Name,
		"parent":  r.Parent,
		"rep":     r.Rep,
		"visible": boolToInt(r.Visible),
	}
	if r.MultiParent > 1 {
		m["multiparent"] = r.MultiParent
		for i, p := range r.ExtraParents {
			m["parent_"+strconv.Itoa(i+1)] = p
		}
	}
	if len(r.Actions) > 0 {
		m["actions"] = r.Actions
	}
	return json.Marshal(m)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func cloneRecords(in []Record) []Record {
	out := make([]Record, len(in))
	for i, r := range in {
		r.ExtraParents = append([]string(nil), r.ExtraParents...)
		r.Actions = append([]Action(nil), r.Actions...)
		out[i] = r
	}
	return out
}
