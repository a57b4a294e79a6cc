package resolve

import (
	"fmt"
)

// scoreEpsilon absorbs float rounding so a score equal to the threshold counts as fuzzy.
const scoreEpsilon = 1e-9

// Resolver maps manifest entries to library items.
// It holds no mutable state; Resolve may be called concurrently.
type Resolver struct {
	index     *Index
	threshold float64
}

// New creates a resolver over an index with the given fuzzy threshold.
func New(index *Index, threshold float64) (*Resolver, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidThreshold, threshold)
	}
	if index == nil {
		index = NewIndex(nil)
	}
	return &Resolver{index: index, threshold: threshold}, nil
}

// Index returns the index the resolver searches.
func (r *Resolver) Index() *Index {
	return r.index
}

// Threshold returns the fuzzy threshold.
func (r *Resolver) Threshold() float64 {
	return r.threshold
}

// Resolve returns one result per entry, in entry order.
// An empty entry list yields an empty, non-nil result list.
func (r *Resolver) Resolve(entries []string) []Result {
	results := make([]Result, 0, len(entries))
	for _, e := range entries {
		results = append(results, r.ResolveOne(e))
	}
	return results
}

// ResolveOne resolves a single manifest entry.
func (r *Resolver) ResolveOne(entry string) Result {
	key := Normalize(entry)
	res := Result{Entry: entry, Key: key, Kind: NoMatch}
	if key == "" {
		return res
	}

	if item, ok := r.index.Lookup(key); ok {
		res.Kind = Exact
		res.Item = &item
		res.Score = 1.0
		return res
	}

	best, score, found := r.best(key)
	if !found {
		return res
	}

	res.Score = score
	if score+scoreEpsilon >= r.threshold {
		res.Kind = Fuzzy
		res.Item = &best
	} else {
		res.Candidate = &best
	}
	return res
}

// best scans every key for the highest similarity. Ties prefer the longest common
// prefix with the entry key, then the lexicographically first library name.
func (r *Resolver) best(key string) (Item, float64, bool) {
	var (
		bestItem   Item
		bestScore  = -1.0
		bestPrefix = -1
		found      bool
	)

	for _, k := range r.index.keys {
		item := r.index.items[k]
		score := Similarity(key, k)
		prefix := commonPrefix(key, k)

		switch {
		case !found, score > bestScore+scoreEpsilon:
		case score < bestScore-scoreEpsilon:
			continue
		case prefix > bestPrefix:
		case prefix < bestPrefix:
			continue
		case item.Name < bestItem.Name:
		default:
			continue
		}

		bestItem, bestScore, bestPrefix, found = item, score, prefix, true
	}

	return bestItem, bestScore, found
}

// Resolve builds an index over items and resolves entries against it.
// Collisions found while indexing are returned alongside the results.
func Resolve(entries []string, items []Item, threshold float64) ([]Result, []Collision, error) {
	idx := NewIndex(items)
	r, err := New(idx, threshold)
	if err != nil {
		return nil, nil, err
	}
	return r.Resolve(entries), idx.Collisions(), nil
}
