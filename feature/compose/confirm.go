package compose

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"doc-composer/core/resolve"
	"doc-composer/feature/report"
)

// Confirmer decides whether a fuzzy match may be used.
// It is asked once per Fuzzy result, in manifest order.
type Confirmer interface {
	Confirm(ctx context.Context, result resolve.Result) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(ctx context.Context, result resolve.Result) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, result resolve.Result) (bool, error) {
	return f(ctx, result)
}

var (
	// AutoAccept accepts every fuzzy match.
	AutoAccept Confirmer = ConfirmFunc(func(context.Context, resolve.Result) (bool, error) { return true, nil })
	// RejectAll rejects every fuzzy match.
	RejectAll Confirmer = ConfirmFunc(func(context.Context, resolve.Result) (bool, error) { return false, nil })
)

// Prompt asks a person on a terminal.
type Prompt struct {
	out     io.Writer
	scanner *bufio.Scanner
}

// NewPrompt reads answers from in and writes questions to out.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{out: out, scanner: bufio.NewScanner(in)}
}

// Confirm asks whether to use the fuzzy candidate. Anything but y or yes,
// including end of input, is a rejection.
func (p *Prompt) Confirm(ctx context.Context, result resolve.Result) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if result.Item == nil {
		return false, nil
	}

	fmt.Fprintf(p.out, "Use %s for '%s' (%s confidence)? [y/N]: ", result.Item.Name, result.Entry, report.Percent(result.Score))
	if !p.scanner.Scan() {
		fmt.Fprintln(p.out)
		return false, p.scanner.Err()
	}

	switch strings.ToLower(strings.TrimSpace(p.scanner.Text())) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
