package resolve

// Levenshtein returns the edit distance between two normalized keys.
// Keys are ASCII after normalization, so the distance is computed over bytes.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Keep a as the shorter string so the rows stay small.
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j
		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[i] = min(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// Similarity scores two keys in [0,1]: 1 - distance / max(len(a), len(b), 1).
// It is symmetric and reaches 1.0 only for identical keys.
func Similarity(a, b string) float64 {
	longest := max(len(a), len(b), 1)
	return 1.0 - float64(Levenshtein(a, b))/float64(longest)
}

// commonPrefix returns the length of the shared prefix of a and b.
func commonPrefix(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
