// Package blobstore abstracts binary attachment storage. The production
// implementation is backed by an S3-compatible object store; the interface
// keeps services testable without one.
package blobstore

import (
	"context"
	"io"
)

// Object is a readable blob together with its stored metadata.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Store persists opaque blobs under generated keys.
type Store interface {
	Put(ctx context.Context, key string, contentType string, size int64, body io.Reader) error
	Get(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
}
