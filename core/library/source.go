package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"doc-composer/core/resolve"
	"doc-composer/core/storage"

	"github.com/minio/minio-go/v7"
)

// DefaultExtension is the document type the library holds.
const DefaultExtension = ".docx"

// ErrUnknownSource is returned when an item names a source the library does not have.
var ErrUnknownSource = errors.New("unknown library source")

// Source is a collection of named documents.
type Source interface {
	// Name identifies the source; it is stored on every item it lists.
	Name() string
	// List returns the documents currently available.
	List(ctx context.Context) ([]resolve.Item, error)
	// Open returns the content of an item previously listed by this source.
	Open(ctx context.Context, item resolve.Item) (io.ReadCloser, error)
}

// matchesExtension reports whether a file name carries ext, ignoring case.
func matchesExtension(name, ext string) bool {
	return strings.EqualFold(filepath.Ext(name), ext)
}

// stem strips the directory and extension from a file name.
func stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DirSource lists documents in a single directory (not recursive).
type DirSource struct {
	Root      string
	Extension string
}

// NewDirSource creates a directory source for the given root.
func NewDirSource(root, ext string) *DirSource {
	if ext == "" {
		ext = DefaultExtension
	}
	return &DirSource{Root: filepath.Clean(root), Extension: ext}
}

// Name returns "dir:<root>".
func (s *DirSource) Name() string {
	return "dir:" + s.Root
}

// List returns the documents in the directory, skipping hidden files and Word lock files.
func (s *DirSource) List(ctx context.Context) ([]resolve.Item, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, fmt.Errorf("library directory not found: %s: %w", s.Root, err)
	}

	var items []resolve.Item
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			continue
		}
		if !matchesExtension(name, s.Extension) {
			continue
		}
		items = append(items, resolve.Item{
			Name:   stem(name),
			Handle: filepath.Join(s.Root, name),
			Source: s.Name(),
		})
	}
	return items, nil
}

// Open opens the document file.
func (s *DirSource) Open(_ context.Context, item resolve.Item) (io.ReadCloser, error) {
	f, err := os.Open(item.Handle)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", item.Handle, err)
	}
	return f, nil
}

// BucketSource lists documents stored under a prefix of an object storage bucket.
type BucketSource struct {
	Client    storage.Client
	Bucket    string
	Prefix    string
	Extension string
}

// NewBucketSource creates a bucket source.
func NewBucketSource(client storage.Client, bucket, prefix, ext string) *BucketSource {
	if ext == "" {
		ext = DefaultExtension
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &BucketSource{Client: client, Bucket: bucket, Prefix: prefix, Extension: ext}
}

// Name returns "s3://<bucket>/<prefix>".
func (s *BucketSource) Name() string {
	return storage.Location(s.Bucket, s.Prefix)
}

// List returns the documents directly under the prefix.
func (s *BucketSource) List(ctx context.Context) ([]resolve.Item, error) {
	exists, err := s.Client.BucketExists(ctx, s.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", s.Bucket)
	}

	opts := minio.ListObjectsOptions{
		Prefix:    s.Prefix,
		Recursive: false,
	}

	var items []resolve.Item
	for obj := range s.Client.ListObjects(ctx, s.Bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", s.Name(), obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") || !matchesExtension(obj.Key, s.Extension) {
			continue
		}
		items = append(items, resolve.Item{
			Name:   stem(obj.Key),
			Handle: obj.Key,
			Source: s.Name(),
		})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Handle < items[j].Handle })
	return items, nil
}

// Open downloads the object.
func (s *BucketSource) Open(ctx context.Context, item resolve.Item) (io.ReadCloser, error) {
	obj, err := s.Client.GetObject(ctx, s.Bucket, item.Handle, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", storage.Location(s.Bucket, item.Handle), err)
	}
	return obj, nil
}
