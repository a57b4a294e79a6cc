package report

import (
	"fmt"
	"io"
	"strings"

	"doc-composer/core/resolve"

	"github.com/charmbracelet/lipgloss"
)

// Options controls rendering.
type Options struct {
	// Color enables terminal styling. The writer's color profile still applies.
	Color bool
	// ShowLibrary lists the library even when every entry resolved.
	ShowLibrary bool
}

type styles struct {
	heading lipgloss.Style
	exact   lipgloss.Style
	fuzzy   lipgloss.Style
	miss    lipgloss.Style
	muted   lipgloss.Style
	warn    lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain}
	}
	r := lipgloss.NewRenderer(w)
	return styles{
		heading: r.NewStyle().Bold(true),
		exact:   r.NewStyle().Foreground(lipgloss.Color("#8BC34A")),
		fuzzy:   r.NewStyle().Foreground(lipgloss.Color("#FFC107")),
		miss:    r.NewStyle().Foreground(lipgloss.Color("#e53935")),
		muted:   r.NewStyle().Faint(true),
		warn:    r.NewStyle().Foreground(lipgloss.Color("#FFC107")).Bold(true),
	}
}

// Percent formats a similarity score.
func Percent(score float64) string {
	return fmt.Sprintf("%.0f%%", score*100)
}

// Render writes the human-readable summary.
func Render(w io.Writer, s Summary, opts Options) error {
	st := newStyles(w, opts.Color)
	var b strings.Builder

	b.WriteString(st.heading.Render(fmt.Sprintf("Matching %d manifest entries against %d library documents", s.Total, len(s.Library))))
	b.WriteString("\n\n")

	for _, e := range s.Entries {
		switch e.Kind {
		case resolve.Exact:
			fmt.Fprintf(&b, "  %s '%s' → %s\n", st.exact.Render("✓"), e.Entry, e.Item.Name)
		case resolve.Fuzzy:
			fmt.Fprintf(&b, "  %s '%s' → %s %s\n", st.fuzzy.Render("≈"), e.Entry, e.Item.Name,
				st.muted.Render("("+Percent(e.Score)+")"))
		default:
			line := fmt.Sprintf("  %s '%s': no match", st.miss.Render("✗"), e.Entry)
			if e.Candidate != nil {
				line += " " + st.muted.Render(fmt.Sprintf("(closest %s at %s)", e.Candidate.Name, Percent(e.Score)))
			}
			b.WriteString(line + "\n")
			if len(e.Suggestions) > 0 {
				names := make([]string, 0, len(e.Suggestions))
				for _, c := range e.Suggestions {
					names = append(names, c.Item.Name)
				}
				fmt.Fprintf(&b, "      did you mean: %s\n", strings.Join(names, ", "))
			}
		}
	}

	fmt.Fprintf(&b, "\n%s %s exact, %s fuzzy, %s no match\n",
		st.heading.Render("Summary:"),
		st.exact.Render(fmt.Sprint(s.Exact)),
		st.fuzzy.Render(fmt.Sprint(s.Fuzzy)),
		st.miss.Render(fmt.Sprint(s.NoMatch)),
	)

	writeCollisions(&b, st, s.Collisions)

	if s.NoMatch > 0 || opts.ShowLibrary {
		b.WriteString("\n" + st.heading.Render("Available documents:") + "\n")
		if len(s.Library) == 0 {
			b.WriteString("  (library is empty)\n")
		}
		for _, name := range s.Library {
			fmt.Fprintf(&b, "  - %s\n", name)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeCollisions(b *strings.Builder, st styles, collisions []resolve.Collision) {
	if len(collisions) == 0 {
		return
	}
	b.WriteString("\n" + st.warn.Render("Library name collisions:") + "\n")
	for _, c := range collisions {
		dropped := make([]string, 0, len(c.Dropped))
		for _, d := range c.Dropped {
			dropped = append(dropped, d.Name)
		}
		fmt.Fprintf(b, "  ! %s: using %s, ignoring %s\n", c.Key, c.Kept.Name, strings.Join(dropped, ", "))
	}
}
