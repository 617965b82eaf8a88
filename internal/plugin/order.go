package plugin

// visitMark is the traversal state of a plugin during ordering.
type visitMark int

const (
	unvisited visitMark = iota
	visiting
	visited
)

// Order computes an initialization order for a batch of descriptors
// such that every plugin appears after all of its in-batch
// dependencies, using depth-first topological sort.
//
// Dependencies that name plugins outside the batch are skipped: bulk
// loading is best-effort and the strict check belongs to the
// single-install path. Candidates are visited in the order given, so
// plugins nobody depends on keep their discovery position relative to
// each other. A duplicate name keeps its first occurrence.
//
// A dependency cycle fails the whole batch with ErrCyclicDependency,
// naming the plugin at which the cycle was detected.
func Order(candidates []*Descriptor) ([]*Descriptor, error) {
	byName := make(map[string]*Descriptor, len(candidates))
	for _, d := range candidates {
		if _, ok := byName[d.Name]; !ok {
			byName[d.Name] = d
		}
	}

	marks := make(map[string]visitMark, len(candidates))
	ordered := make([]*Descriptor, 0, len(candidates))

	var visit func(d *Descriptor) error
	visit = func(d *Descriptor) error {
		switch marks[d.Name] {
		case visiting:
			return newError(ErrCyclicDependency, d.Name, nil)
		case visited:
			return nil
		}

		marks[d.Name] = visiting
		for _, dep := range d.Dependencies {
			next, ok := byName[dep]
			if !ok {
				continue // not in batch; best-effort
			}
			if err := visit(next); err != nil {
				return err
			}
		}
		marks[d.Name] = visited
		ordered = append(ordered, d)
		return nil
	}

	for _, d := range candidates {
		if byName[d.Name] != d {
			continue // duplicate name, first occurrence wins
		}
		if err := visit(d); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}
