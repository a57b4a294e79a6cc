package library

import (
	"context"
	"fmt"
	"io"
	"time"

	"doc-composer/core/resolve"

	"golang.org/x/sync/errgroup"
)

// Library searches several sources in declared priority order.
type Library struct {
	sources []Source
	byName  map[string]Source
}

// New creates a library. The first source has the highest priority.
func New(sources ...Source) *Library {
	l := &Library{byName: make(map[string]Source, len(sources))}
	for _, s := range sources {
		if _, dup := l.byName[s.Name()]; dup {
			continue
		}
		l.sources = append(l.sources, s)
		l.byName[s.Name()] = s
	}
	return l
}

// Sources returns the sources in priority order.
func (l *Library) Sources() []Source {
	return append([]Source(nil), l.sources...)
}

// Snapshot is an immutable listing of the library at one point in time.
type Snapshot struct {
	// Items holds every listed item, tagged with its source priority.
	Items []resolve.Item
	// Index is the key index built over Items.
	Index *resolve.Index
	// Built is when the snapshot was taken.
	Built time.Time
}

// Load lists all sources concurrently and indexes the result.
func (l *Library) Load(ctx context.Context) (*Snapshot, error) {
	listed := make([][]resolve.Item, len(l.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range l.sources {
		g.Go(func() error {
			items, err := src.List(gctx)
			if err != nil {
				return fmt.Errorf("source %s: %w", src.Name(), err)
			}
			for j := range items {
				items[j].Source = src.Name()
				items[j].Priority = i
			}
			listed[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []resolve.Item
	for _, items := range listed {
		all = append(all, items...)
	}

	return &Snapshot{
		Items: all,
		Index: resolve.NewIndex(all),
		Built: time.Now(),
	}, nil
}

// Open returns the content of an item through the source that listed it.
func (l *Library) Open(ctx context.Context, item resolve.Item) (io.ReadCloser, error) {
	src, ok := l.byName[item.Source]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, item.Source)
	}
	return src.Open(ctx, item)
}
