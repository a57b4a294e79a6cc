package report

import (
	"fmt"
	"io"
	"strings"

	"doc-composer/core/resolve"

	"github.com/charmbracelet/lipgloss"
)

// Table renders rows as aligned columns.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// NewTable creates a table with the given title and headers.
func NewTable(title string, headers ...string) *Table {
	return &Table{Title: title, Headers: headers, Rows: make([][]string, 0)}
}

// AddRow adds a row. Missing cells render empty; extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Render writes the table. An empty table writes only its title.
func (t *Table) Render(w io.Writer, opts Options) error {
	st := newStyles(w, opts.Color)
	var b strings.Builder

	if t.Title != "" {
		b.WriteString(st.heading.Render(t.Title) + "\n")
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	line := func(cells []string, style lipgloss.Style) {
		b.WriteString(" ")
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if i == len(widths)-1 {
				b.WriteString(" " + style.Render(cell))
				break
			}
			pad := widths[i] - lipgloss.Width(cell)
			b.WriteString(" " + style.Render(cell) + strings.Repeat(" ", pad) + " " + st.muted.Render("|"))
		}
		b.WriteString("\n")
	}

	if len(t.Rows) > 0 {
		line(t.Headers, st.heading)
		for _, row := range t.Rows {
			line(row, lipgloss.NewStyle())
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderLibrary lists the indexed library items with their sources,
// followed by collisions and items hidden by higher priority sources.
func RenderLibrary(w io.Writer, index *resolve.Index, opts Options) error {
	st := newStyles(w, opts.Color)

	t := NewTable(fmt.Sprintf("Library: %d documents", index.Len()), "Name", "Key", "Source")
	for _, item := range index.Items() {
		t.AddRow(item.Name, resolve.Normalize(item.Name), item.Source)
	}
	if err := t.Render(w, opts); err != nil {
		return err
	}

	var b strings.Builder
	writeCollisions(&b, st, index.Collisions())
	if shadowed := index.Shadowed(); len(shadowed) > 0 {
		b.WriteString("\n" + st.heading.Render("Shadowed by a higher priority source:") + "\n")
		for _, item := range shadowed {
			fmt.Fprintf(&b, "  - %s (%s)\n", item.Name, item.Source)
		}
	}
	if unkeyed := index.Unkeyed(); len(unkeyed) > 0 {
		b.WriteString("\n" + st.heading.Render("Ignored, name has no letters or digits:") + "\n")
		for _, item := range unkeyed {
			fmt.Fprintf(&b, "  - %s (%s)\n", item.Name, item.Source)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
