package resolve

import (
	"sort"
)

// Index maps normalized keys to library items.
// It is never mutated after NewIndex returns and may be shared between goroutines.
type Index struct {
	keys       []string
	items      map[string]Item
	names      []string
	collisions []Collision
	shadowed   []Item
	unkeyed    []Item
}

// NewIndex builds the key index for a library snapshot.
//
// Items are visited by (Priority, Name), so the first source defining a key wins
// and, inside a source, the lexicographically first original name wins. Same-source
// clashes are recorded as collisions; items hidden by a higher-priority source are
// recorded as shadowed. Names that normalize to nothing cannot be matched and
// are set aside as unkeyed.
func NewIndex(items []Item) *Index {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority < sorted[j].Priority
		}
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].Handle < sorted[j].Handle
	})

	idx := &Index{items: make(map[string]Item, len(sorted))}
	collisionAt := make(map[string]int)

	for _, item := range sorted {
		idx.names = append(idx.names, item.Name)

		key := Normalize(item.Name)
		if key == "" {
			idx.unkeyed = append(idx.unkeyed, item)
			continue
		}
		kept, exists := idx.items[key]
		if !exists {
			idx.items[key] = item
			idx.keys = append(idx.keys, key)
			continue
		}

		if kept.Priority != item.Priority {
			idx.shadowed = append(idx.shadowed, item)
			continue
		}

		pos, seen := collisionAt[key]
		if !seen {
			pos = len(idx.collisions)
			collisionAt[key] = pos
			idx.collisions = append(idx.collisions, Collision{Key: key, Kept: kept})
		}
		idx.collisions[pos].Dropped = append(idx.collisions[pos].Dropped, item)
	}

	sort.Strings(idx.keys)
	sort.Strings(idx.names)
	return idx
}

// Len returns the number of distinct keys.
func (x *Index) Len() int {
	return len(x.keys)
}

// Keys returns the sorted normalized keys.
func (x *Index) Keys() []string {
	return append([]string(nil), x.keys...)
}

// Names returns every original library name, sorted, including dropped ones.
func (x *Index) Names() []string {
	return append([]string(nil), x.names...)
}

// Lookup returns the item stored under a normalized key.
func (x *Index) Lookup(key string) (Item, bool) {
	item, ok := x.items[key]
	return item, ok
}

// Items returns the indexed items ordered by key.
func (x *Index) Items() []Item {
	out := make([]Item, 0, len(x.keys))
	for _, k := range x.keys {
		out = append(out, x.items[k])
	}
	return out
}

// Collisions returns the same-source name collisions found while indexing.
func (x *Index) Collisions() []Collision {
	return append([]Collision(nil), x.collisions...)
}

// Shadowed returns items hidden by a higher-priority source.
func (x *Index) Shadowed() []Item {
	return append([]Item(nil), x.shadowed...)
}

// Unkeyed returns items whose names have no letters or digits.
func (x *Index) Unkeyed() []Item {
	return append([]Item(nil), x.unkeyed...)
}

// Err returns a *CollisionError when collisions were found, nil otherwise.
func (x *Index) Err() error {
	if len(x.collisions) == 0 {
		return nil
	}
	return &CollisionError{Collisions: x.Collisions()}
}

// Nearest returns up to n library keys closest to key by edit distance.
// Ties are ordered by original library name.
func (x *Index) Nearest(key string, n int) []Candidate {
	if n <= 0 || len(x.keys) == 0 {
		return nil
	}

	candidates := make([]Candidate, 0, len(x.keys))
	for _, k := range x.keys {
		d := Levenshtein(key, k)
		candidates = append(candidates, Candidate{
			Item:     x.items[k],
			Key:      k,
			Distance: d,
			Score:    1.0 - float64(d)/float64(max(len(key), len(k), 1)),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Distance != candidates[j].Distance {
			return candidates[i].Distance < candidates[j].Distance
		}
		return candidates[i].Item.Name < candidates[j].Item.Name
	})

	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}
