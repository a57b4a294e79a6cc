package resolve

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultThreshold is the minimum similarity for a fuzzy match.
const DefaultThreshold = 0.6

var (
	// ErrInvalidThreshold is returned when a threshold lies outside [0,1].
	ErrInvalidThreshold = errors.New("fuzzy threshold must be within [0,1]")
	// ErrNameCollision marks two library items of one source sharing a normalized key.
	ErrNameCollision = errors.New("library name collision")
)

// Item is a library document addressable by name.
type Item struct {
	// Name is the file name without extension, as listed by the source.
	Name string `json:"name"`
	// Handle locates the content inside its source (a path or an object key).
	Handle string `json:"handle"`
	// Source is the name of the library source that listed the item.
	Source string `json:"source"`
	// Priority orders sources; a lower value wins when two sources share a key.
	Priority int `json:"priority"`
}

// Kind classifies a match result.
type Kind int

const (
	// NoMatch means no library item is similar enough.
	NoMatch Kind = iota
	// Exact means the entry normalizes to an index key.
	Exact
	// Fuzzy means the best candidate scored at or above the threshold.
	Fuzzy
)

func (k Kind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Fuzzy:
		return "fuzzy"
	default:
		return "no_match"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "exact":
		*k = Exact
	case "fuzzy":
		*k = Fuzzy
	case "no_match":
		*k = NoMatch
	default:
		return fmt.Errorf("unknown match kind %q", text)
	}
	return nil
}

// Result is the resolution outcome for one manifest entry.
type Result struct {
	// Entry is the raw manifest text.
	Entry string `json:"entry"`
	// Key is the normalized entry.
	Key string `json:"key"`
	// Kind is exact, fuzzy or no_match.
	Kind Kind `json:"kind"`
	// Item is the resolved library item; nil for NoMatch.
	Item *Item `json:"item,omitempty"`
	// Candidate is the best item below the threshold; only set for NoMatch.
	Candidate *Item `json:"candidate,omitempty"`
	// Score is 1 for exact matches and the best similarity otherwise.
	Score float64 `json:"score"`
}

// Resolved reports whether the entry maps to a library item.
func (r Result) Resolved() bool {
	return r.Kind != NoMatch && r.Item != nil
}

// Collision records library items of one source that normalize to the same key.
type Collision struct {
	Key     string `json:"key"`
	Kept    Item   `json:"kept"`
	Dropped []Item `json:"dropped"`
}

// CollisionError surfaces library name collisions to callers that treat them as fatal.
type CollisionError struct {
	Collisions []Collision
}

func (e *CollisionError) Error() string {
	parts := make([]string, 0, len(e.Collisions))
	for _, c := range e.Collisions {
		names := make([]string, 0, len(c.Dropped)+1)
		names = append(names, c.Kept.Name)
		for _, d := range c.Dropped {
			names = append(names, d.Name)
		}
		parts = append(parts, fmt.Sprintf("%q <- %s", c.Key, strings.Join(names, ", ")))
	}
	return fmt.Sprintf("%s: %s", ErrNameCollision, strings.Join(parts, "; "))
}

func (e *CollisionError) Unwrap() error {
	return ErrNameCollision
}

// Candidate is a library key ranked by distance from a normalized entry.
type Candidate struct {
	Item     Item    `json:"item"`
	Key      string  `json:"key"`
	Distance int     `json:"distance"`
	Score    float64 `json:"score"`
}
