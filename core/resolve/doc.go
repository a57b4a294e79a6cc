// Package resolve maps manifest entries to library documents by name.
//
// Names are compared through a normalized key (see Normalize). An entry whose key
// is present in the library index resolves exactly; otherwise every library key is
// scored with a normalized Levenshtein similarity and the best candidate is
// reported as a fuzzy match when it reaches the threshold, or as no match.
//
// # Index
//
// NewIndex builds the key index once per resolution. Items carry the priority of
// the source that listed them, so searching several libraries is a matter of
// passing all their items: the first source that defines a key wins. Two names in
// the same source that normalize identically are a collision; the lexicographically
// first name is kept and the collision is reported through Collisions and Err.
//
// # Usage
//
//	idx := resolve.NewIndex(items)
//	r, err := resolve.New(idx, resolve.DefaultThreshold)
//	results := r.Resolve([]string{"executive summary", "risk_assessment"})
//
// Resolution is a pure function of the entries, the index and the threshold.
package resolve
