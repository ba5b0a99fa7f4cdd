// Package semantic partitions scored operations into tag-derived groups so
// that chunks stay topically coherent.
package semantic

import "github.com/specmint/specmint/types"

// DefaultGroup receives operations whose descriptor carries no tags.
const DefaultGroup = "default"

// Groups is an ordered partition of scored operations. Order reflects the
// first occurrence of each group key in the input; it is not sorted further.
type Groups struct {
	keys    []string
	members map[string][]types.ScoredOperation
}

// Group partitions operations by the first tag of the underlying descriptor.
func Group(ops []types.ScoredOperation) *Groups {
	g := &Groups{members: make(map[string][]types.ScoredOperation)}
	for _, op := range ops {
		key := op.Descriptor.PrimaryTag()
		if _, ok := g.members[key]; !ok {
			g.keys = append(g.keys, key)
		}
		g.members[key] = append(g.members[key], op)
	}
	return g
}

// Keys returns the group labels in first-occurrence order.
func (g *Groups) Keys() []string { return g.keys }

// Members returns the operations belonging to key, in input order.
func (g *Groups) Members(key string) []types.ScoredOperation { return g.members[key] }

// Len returns the number of distinct groups.
func (g *Groups) Len() int { return len(g.keys) }
