package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ErrEmptyManifest is returned by Validate when a manifest yields no entries.
var ErrEmptyManifest = errors.New("no documents found in manifest; use - or * for bullet points")

var bulletLine = regexp.MustCompile(`^\s*[-*]\s+(.+)$`)

const (
	commentOpen  = "<!--"
	commentClose = "-->"
)

// Parse returns the trimmed bullet entries of a manifest in document order.
// Entries are not deduplicated.
func Parse(text string) []string {
	entries := make([]string, 0)
	inComment := false

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		var visible string
		visible, inComment = stripComments(line, inComment)

		m := bulletLine.FindStringSubmatch(visible)
		if m == nil {
			continue
		}
		if entry := strings.TrimSpace(m[1]); entry != "" {
			entries = append(entries, entry)
		}
	}

	return entries
}

// stripComments removes HTML comment spans from a line, tracking comments that
// continue across lines.
func stripComments(line string, inComment bool) (string, bool) {
	var b strings.Builder
	rest := line
	for rest != "" {
		if inComment {
			end := strings.Index(rest, commentClose)
			if end < 0 {
				return b.String(), true
			}
			rest = rest[end+len(commentClose):]
			inComment = false
			continue
		}
		start := strings.Index(rest, commentOpen)
		if start < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:start])
		rest = rest[start+len(commentOpen):]
		inComment = true
	}
	return b.String(), inComment
}

// ParseFile reads and parses a manifest file.
func ParseFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	return Parse(string(data)), nil
}

// Validate rejects manifests without entries.
func Validate(entries []string) error {
	if len(entries) == 0 {
		return ErrEmptyManifest
	}
	return nil
}
