package compose

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"doc-composer/core/docx"
	"doc-composer/core/library"
	"doc-composer/core/manifest"
	"doc-composer/core/resolve"
	"doc-composer/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// OnReject is the policy applied when a fuzzy match is rejected.
type OnReject string

const (
	// RejectSkip drops the rejected entry and carries on.
	RejectSkip OnReject = "skip"
	// RejectAbort stops the whole run.
	RejectAbort OnReject = "abort"
)

// Collision policies.
const (
	CollisionPreferFirst = "prefer-first"
	CollisionError       = "error"
)

// pageWorkers bounds concurrent page downloads.
const pageWorkers = 4

var (
	// ErrUnresolved marks a run stopped by entries without a library match.
	ErrUnresolved = errors.New("unresolved manifest entries")
	// ErrFuzzyRejected marks a run aborted because a fuzzy match was rejected.
	ErrFuzzyRejected = errors.New("fuzzy match rejected")
	// ErrNothingToCompose is returned when no entry is left to assemble.
	ErrNothingToCompose = errors.New("no valid documents to compose")
	// ErrNoMaster is returned when no master template is given or configured.
	ErrNoMaster = errors.New("no master template configured")
)

// UnresolvedError lists the entries that failed to resolve.
type UnresolvedError struct {
	Entries []string
}

func (e *UnresolvedError) Error() string {
	quoted := make([]string, 0, len(e.Entries))
	for _, entry := range e.Entries {
		quoted = append(quoted, fmt.Sprintf("%q", entry))
	}
	return fmt.Sprintf("%s: %s", ErrUnresolved, strings.Join(quoted, ", "))
}

func (e *UnresolvedError) Unwrap() error {
	return ErrUnresolved
}

// Options configures a composition run.
type Options struct {
	Threshold        float64
	Interactive      bool
	OnReject         OnReject
	FailOnUnresolved bool
	CollisionPolicy  string
	// Master is the default master template location, a path or s3:// URL.
	Master string
}

// Service resolves manifests against the library and assembles documents.
type Service struct {
	cache  *library.Cache
	client storage.Client
	bucket string
	logger *zap.Logger
	opts   Options
}

// NewService creates a compose service. client may be nil when no bucket is used.
func NewService(cache *library.Cache, client storage.Client, bucket string, logger *zap.Logger, opts Options) *Service {
	return &Service{
		cache:  cache,
		client: client,
		bucket: bucket,
		logger: logger,
		opts:   opts,
	}
}

// Options returns the service options.
func (s *Service) Options() Options {
	return s.opts
}

// With returns a copy of the service using opts.
func (s *Service) With(opts Options) *Service {
	c := *s
	c.opts = opts
	return &c
}

// Snapshot returns the current library snapshot.
func (s *Service) Snapshot(ctx context.Context) (*library.Snapshot, error) {
	return s.cache.Get(ctx)
}

// Plan is a resolved manifest.
type Plan struct {
	Entries  []string
	Results  []resolve.Result
	Snapshot *library.Snapshot
}

// Plan parses manifest text and resolves its entries.
func (s *Service) Plan(ctx context.Context, text string) (*Plan, error) {
	return s.PlanEntries(ctx, manifest.Parse(text))
}

// PlanEntries resolves already parsed entries.
func (s *Service) PlanEntries(ctx context.Context, entries []string) (*Plan, error) {
	if err := manifest.Validate(entries); err != nil {
		return nil, err
	}

	snap, err := s.cache.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load library: %w", err)
	}
	return s.PlanWith(snap, entries)
}

// PlanWith resolves entries against a given snapshot. It does no I/O.
func (s *Service) PlanWith(snap *library.Snapshot, entries []string) (*Plan, error) {
	if err := manifest.Validate(entries); err != nil {
		return nil, err
	}

	if err := snap.Index.Err(); err != nil {
		if s.opts.CollisionPolicy == CollisionError {
			return nil, err
		}
		for _, c := range snap.Index.Collisions() {
			dropped := make([]string, 0, len(c.Dropped))
			for _, d := range c.Dropped {
				dropped = append(dropped, d.Name)
			}
			s.logger.Warn("Library name collision",
				zap.String("key", c.Key),
				zap.String("kept", c.Kept.Name),
				zap.Strings("dropped", dropped),
			)
		}
	}

	r, err := resolve.New(snap.Index, s.opts.Threshold)
	if err != nil {
		return nil, err
	}
	results := r.Resolve(entries)

	var exact, fuzzy, missing int
	for _, res := range results {
		switch res.Kind {
		case resolve.Exact:
			exact++
		case resolve.Fuzzy:
			fuzzy++
		default:
			missing++
		}
	}
	s.logger.Info("Manifest resolved",
		zap.Int("entries", len(entries)),
		zap.Int("exact", exact),
		zap.Int("fuzzy", fuzzy),
		zap.Int("no_match", missing),
	)

	return &Plan{Entries: entries, Results: results, Snapshot: snap}, nil
}

// Select applies confirmation and the unresolved policy, returning the
// results to assemble in manifest order.
//
// Fuzzy results are auto-accepted when the service is not interactive.
// An interactive service without a confirmer rejects them.
func (s *Service) Select(ctx context.Context, plan *Plan, confirmer Confirmer) ([]resolve.Result, error) {
	if !s.opts.Interactive {
		confirmer = AutoAccept
	} else if confirmer == nil {
		confirmer = RejectAll
	}

	var (
		selected []resolve.Result
		missing  []string
	)
	for _, res := range plan.Results {
		switch res.Kind {
		case resolve.Exact:
			selected = append(selected, res)
		case resolve.Fuzzy:
			ok, err := confirmer.Confirm(ctx, res)
			if err != nil {
				return nil, fmt.Errorf("confirmation failed: %w", err)
			}
			if !ok {
				if s.opts.OnReject == RejectAbort {
					return nil, fmt.Errorf("%w: %q -> %s", ErrFuzzyRejected, res.Entry, res.Item.Name)
				}
				s.logger.Info("Fuzzy match rejected, skipping entry",
					zap.String("entry", res.Entry),
					zap.String("candidate", res.Item.Name),
				)
				continue
			}
			selected = append(selected, res)
		default:
			missing = append(missing, res.Entry)
		}
	}

	if len(missing) > 0 {
		if s.opts.FailOnUnresolved {
			return nil, &UnresolvedError{Entries: missing}
		}
		s.logger.Warn("Skipping unresolved entries", zap.Strings("entries", missing))
	}
	if len(selected) == 0 {
		return nil, ErrNothingToCompose
	}
	return selected, nil
}

// Assemble merges the selected library documents onto the master template
// and writes the result to w.
func (s *Service) Assemble(ctx context.Context, selected []resolve.Result, master string, w io.Writer) (*docx.MergeReport, error) {
	if len(selected) == 0 {
		return nil, ErrNothingToCompose
	}

	masterDoc, err := s.OpenMaster(ctx, master)
	if err != nil {
		return nil, err
	}

	pages := make([]*docx.Document, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pageWorkers)
	for i, res := range selected {
		g.Go(func() error {
			doc, err := s.openPage(gctx, *res.Item)
			if err != nil {
				return fmt.Errorf("%s: %w", res.Item.Name, err)
			}
			pages[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, res := range selected {
		s.logger.Debug("Merging page", zap.String("name", res.Item.Name), zap.String("source", res.Item.Source))
	}
	merged, err := docx.Merge(masterDoc, pages)
	if err != nil {
		return nil, fmt.Errorf("failed to merge documents: %w", err)
	}
	for _, warning := range merged.Warnings {
		s.logger.Warn("Merge warning", zap.String("detail", warning))
	}

	if err := masterDoc.Write(w); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}
	return merged, nil
}

func (s *Service) openPage(ctx context.Context, item resolve.Item) (*docx.Document, error) {
	rc, err := s.cache.Library().Open(ctx, item)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return docx.Read(rc)
}

// OpenMaster loads a master template from a path or an s3:// location.
// An empty location falls back to the configured master.
func (s *Service) OpenMaster(ctx context.Context, location string) (*docx.Document, error) {
	if location == "" {
		location = s.opts.Master
	}
	if location == "" {
		return nil, ErrNoMaster
	}

	if bucket, key, ok := storage.ParseLocation(location); ok {
		if s.client == nil {
			return nil, fmt.Errorf("master %s: storage is not configured", location)
		}
		obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to download master %s: %w", location, err)
		}
		defer obj.Close()
		doc, err := docx.Read(obj)
		if err != nil {
			return nil, fmt.Errorf("master %s: %w", location, err)
		}
		return doc, nil
	}

	return docx.OpenFile(location)
}

// Request describes one composition.
type Request struct {
	Manifest string
	// Master overrides the configured master template.
	Master string
	// Output is the file to write. Empty writes to Writer instead.
	Output    string
	Writer    io.Writer
	Confirmer Confirmer
}

// Outcome reports a composition. Plan is set as soon as resolution succeeded,
// even when a later stage failed.
type Outcome struct {
	Plan     *Plan
	Selected []resolve.Result
	Merge    *docx.MergeReport
	Output   string
	Size     int64
}

// Compose runs every stage: resolve, confirm, assemble and write.
func (s *Service) Compose(ctx context.Context, req Request) (*Outcome, error) {
	plan, err := s.Plan(ctx, req.Manifest)
	if err != nil {
		return nil, err
	}
	return s.Complete(ctx, plan, req)
}

// Complete runs the stages after planning. req.Manifest is ignored.
func (s *Service) Complete(ctx context.Context, plan *Plan, req Request) (*Outcome, error) {
	out := &Outcome{Plan: plan, Output: req.Output}

	var err error
	out.Selected, err = s.Select(ctx, plan, req.Confirmer)
	if err != nil {
		return out, err
	}

	var buf bytes.Buffer
	out.Merge, err = s.Assemble(ctx, out.Selected, req.Master, &buf)
	if err != nil {
		return out, err
	}
	out.Size = int64(buf.Len())

	if req.Output == "" {
		if req.Writer == nil {
			return out, errors.New("no output destination")
		}
		if _, err := buf.WriteTo(req.Writer); err != nil {
			return out, fmt.Errorf("failed to write document: %w", err)
		}
		return out, nil
	}

	if err := writeFile(req.Output, buf.Bytes()); err != nil {
		return out, err
	}
	info, err := os.Stat(req.Output)
	if err != nil {
		return out, fmt.Errorf("failed to verify output: %w", err)
	}
	out.Size = info.Size()
	s.logger.Info("Document composed",
		zap.String("output", req.Output),
		zap.Int("pages", out.Merge.Pages),
		zap.Int64("bytes", out.Size),
	)
	return out, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Upload stores a composed document in the bucket and returns its location.
// An empty key generates one under composed/.
func (s *Service) Upload(ctx context.Context, key string, data []byte) (string, error) {
	if s.client == nil {
		return "", errors.New("storage is not configured")
	}
	if key == "" {
		key = "composed/" + uuid.NewString() + ".docx"
	}
	if err := storage.EnsureBucket(ctx, s.client, s.bucket, ""); err != nil {
		return "", err
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: docx.MediaType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	loc := storage.Location(s.bucket, key)
	s.logger.Info("Document uploaded", zap.String("location", loc), zap.Int("bytes", len(data)))
	return loc, nil
}
