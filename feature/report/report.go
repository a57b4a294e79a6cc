package report

import (
	"errors"
	"fmt"
	"strings"

	"doc-composer/core/resolve"
)

var (
	// ErrUnresolved marks a summary with entries that matched nothing.
	ErrUnresolved = errors.New("unresolved manifest entries")
	// ErrNotClean marks a summary with fuzzy matches or library collisions.
	ErrNotClean = errors.New("resolution needs review")
)

// DefaultSuggestions is how many nearest library names are listed for a miss.
const DefaultSuggestions = 3

// Entry is one manifest entry with its resolution.
type Entry struct {
	// Position is the 1-based manifest position.
	Position int `json:"position"`
	resolve.Result
	// Suggestions are the nearest library items, set for NoMatch entries only.
	Suggestions []resolve.Candidate `json:"suggestions,omitempty"`
}

// Summary is the reportable outcome of one resolution.
type Summary struct {
	Total   int `json:"total"`
	Exact   int `json:"exact"`
	Fuzzy   int `json:"fuzzy"`
	NoMatch int `json:"no_match"`

	Entries []Entry `json:"entries"`
	// Library lists every original library name so callers can offer alternatives.
	Library    []string            `json:"library"`
	Collisions []resolve.Collision `json:"collisions,omitempty"`
	Shadowed   []resolve.Item      `json:"shadowed,omitempty"`
}

// Build summarizes results. suggestions <= 0 uses DefaultSuggestions.
// A nil index yields a summary without suggestions or library listing.
func Build(results []resolve.Result, index *resolve.Index, suggestions int) Summary {
	if suggestions <= 0 {
		suggestions = DefaultSuggestions
	}

	s := Summary{
		Total:   len(results),
		Entries: make([]Entry, 0, len(results)),
		Library: []string{},
	}
	if index != nil {
		s.Library = index.Names()
		s.Collisions = index.Collisions()
		s.Shadowed = index.Shadowed()
	}

	for i, r := range results {
		e := Entry{Position: i + 1, Result: r}
		switch r.Kind {
		case resolve.Exact:
			s.Exact++
		case resolve.Fuzzy:
			s.Fuzzy++
		default:
			s.NoMatch++
			if index != nil {
				e.Suggestions = index.Nearest(r.Key, suggestions)
			}
		}
		s.Entries = append(s.Entries, e)
	}
	return s
}

// Unresolved returns the NoMatch entries in manifest order.
func (s Summary) Unresolved() []Entry {
	return s.filter(resolve.NoMatch)
}

// NeedsConfirmation returns the Fuzzy entries in manifest order.
func (s Summary) NeedsConfirmation() []Entry {
	return s.filter(resolve.Fuzzy)
}

func (s Summary) filter(kind resolve.Kind) []Entry {
	var out []Entry
	for _, e := range s.Entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Clean reports whether every entry matched exactly and the library has no collisions.
func (s Summary) Clean() bool {
	return s.Fuzzy == 0 && s.NoMatch == 0 && len(s.Collisions) == 0
}

// Err turns the summary into an exit status. Unresolved entries always fail;
// strict also fails on anything short of Clean.
func (s Summary) Err(strict bool) error {
	if missing := s.Unresolved(); len(missing) > 0 {
		quoted := make([]string, len(missing))
		for i, e := range missing {
			quoted[i] = fmt.Sprintf("%q", e.Entry)
		}
		return fmt.Errorf("%w: %s", ErrUnresolved, strings.Join(quoted, ", "))
	}
	if strict && !s.Clean() {
		return fmt.Errorf("%w: %d fuzzy, %d collisions", ErrNotClean, s.Fuzzy, len(s.Collisions))
	}
	return nil
}
