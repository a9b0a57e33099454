package pipeline

// Flatten walks the sources group of the session's backend and returns one
// record per proxy, in the backend's iteration order.
//
// Only primary parents are removed from the leaf set: a node referenced solely
// as a secondary input of a fan-in node keeps its delete action.
// A detached session yields an empty, non-nil slice.
func Flatten(sess *Session) []Record {
	records := []Record{}
	if !sess.attached() {
		return records
	}

	proxies := sess.Backend.ProxiesInGroup(SourcesGroup)
	leaves := make(map[string]struct{}, len(proxies))
	for _, p := range proxies {
		leaves[p.GlobalID()] = struct{}{}
	}
	index := make(map[string]int, len(proxies))

	for _, p := range proxies {
		b := BindingFor(sess, p)
		rec := Record{
			ID:      p.GlobalID(),
			Name:    p.Name(),
			Parent:  RootID,
			Rep:     b.ID(),
			Visible: b.Visible(),
		}

		inputs := p.Inputs()
		switch {
		case len(inputs) > 1:
			rec.MultiParent = len(inputs)
			rec.Parent = inputs[0].GlobalID()
			rec.ExtraParents = make([]string, 0, len(inputs)-1)
			for _, in := range inputs[1:] {
				rec.ExtraParents = append(rec.ExtraParents, in.GlobalID())
			}
		case len(inputs) == 1:
			rec.Parent = inputs[0].GlobalID()
		}

		index[rec.ID] = len(records)
		records = append(records, rec)
		delete(leaves, rec.Parent)
	}

	for id := range leaves {
		records[index[id]].Actions = []Action{ActionDelete}
	}
	return records
}
