package workspace

import (
	"slices"
	"sync"
)

// Edge states that From includes or references To.
type Edge struct {
	From string
	To   string
}

// relation is the include/bibliography graph of one edge set. It holds
// only URIs so that it can outlive the generation that built it.
type relation struct {
	edges     []Edge
	forward   map[string][]string
	backlinks map[string][]string

	mu       sync.Mutex
	closures map[string]map[string]struct{}
}

func newRelation(edges []Edge) *relation {
	r := &relation{
		edges:     edges,
		forward:   make(map[string][]string),
		backlinks: make(map[string][]string),
		closures:  make(map[string]map[string]struct{}),
	}
	for _, e := range edges {
		r.forward[e.From] = append(r.forward[e.From], e.To)
		r.backlinks[e.To] = append(r.backlinks[e.To], e.From)
	}
	return r
}

func (r *relation) sameEdges(edges []Edge) bool {
	return slices.Equal(r.edges, edges)
}

// closure returns every URI reachable from uri along edges in either
// direction, uri included.
func (r *relation) closure(uri string) map[string]struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if set, ok := r.closures[uri]; ok {
		return set
	}

	set := map[string]struct{}{uri: {}}
	queue := []string{uri}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, neighbours := range [][]string{r.forward[current], r.backlinks[current]} {
			for _, next := range neighbours {
				if _, seen := set[next]; !seen {
					set[next] = struct{}{}
					queue = append(queue, next)
				}
			}
		}
	}

	// Every member shares the same component.
	for member := range set {
		r.closures[member] = set
	}
	return set
}
