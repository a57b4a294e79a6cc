// Package mocks holds testify doubles for the storage package.
package mocks

import (
	"context"
	"io"

	"doc-composer/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/mock"
)

var _ storage.Client = (*Client)(nil)

// Client records storage calls. Unstubbed ListObjects and GetObject
// results fall back to an empty listing and a nil reader.
type Client struct {
	mock.Mock
}

// NewClient returns a Client whose expectations are asserted when t ends.
func NewClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *Client {
	c := new(Client)
	c.Test(t)
	t.Cleanup(func() { c.AssertExpectations(t) })
	return c
}

func (m *Client) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *Client) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return m.Called(ctx, bucketName, opts).Error(0)
}

func (m *Client) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, opts)
	info, _ := args.Get(0).(minio.UploadInfo)
	return info, args.Error(1)
}

func (m *Client) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	args := m.Called(ctx, bucketName, objectName, opts)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

func (m *Client) ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	args := m.Called(ctx, bucketName, opts)
	if ch, ok := args.Get(0).(<-chan minio.ObjectInfo); ok {
		return ch
	}
	ch := make(chan minio.ObjectInfo)
	close(ch)
	return ch
}
