// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a simplified interface for the operations the
// composer needs: listing library documents, downloading pages and templates, and
// uploading composed output. This abstraction supports both AWS S3 and self-hosted MinIO.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Operations
//
//   - BucketExists: Verifies access to the target bucket.
//   - MakeBucket: Creates a new bucket; see EnsureBucket.
//   - PutObject: Uploads content (with size and options).
//   - GetObject: Retrieves content as a stream.
//   - ListObjects: Lists objects in a bucket (supports prefix/recursive).
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	err = storage.EnsureBucket(ctx, client, "documents", "")
//
// # Locations
//
// Templates and catalog entries may point into a bucket with an s3:// location:
//
//	bucket, key, ok := storage.ParseLocation("s3://documents/templates/corporate.docx")
package storage
