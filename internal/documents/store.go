package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	ErrNoSource         = errors.New("no document source provided")
	ErrBucketNotFound   = errors.New("bucket not found")
	ErrPayloadTooLarge  = errors.New("document exceeds the size limit")
	ErrPermissionDenied = errors.New("bucket policy rejected the write")
)

// Store transfers document bytes into a named bucket under a caller-chosen
// key, overwriting any existing object.
type Store interface {
	Put(ctx context.Context, bucket, key string, src io.Reader) error
}

// DiskStore keeps each bucket as a directory under root. Buckets are fixed at
// construction; writing to an unknown bucket is a misconfiguration, not a
// create-on-demand.
type DiskStore struct {
	root     string
	buckets  map[string]bool
	maxBytes int64
}

// NewDiskStore creates the bucket directories and returns a store capped at
// maxSizeMB per object.
func NewDiskStore(root string, buckets []string, maxSizeMB int64) (*DiskStore, error) {
	known := make(map[string]bool, len(buckets))
	for _, b := range buckets {
		if err := os.MkdirAll(filepath.Join(root, b), 0755); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", b, err)
		}
		known[b] = true
	}
	return &DiskStore{root: root, buckets: known, maxBytes: maxSizeMB * 1024 * 1024}, nil
}

// Put writes the object, replacing any previous object under the same key.
func (s *DiskStore) Put(ctx context.Context, bucket, key string, src io.Reader) error {
	if !s.buckets[bucket] {
		return ErrBucketNotFound
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(s.root, bucket, key)
	dst, err := os.Create(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return ErrPermissionDenied
		}
		return fmt.Errorf("create object: %w", err)
	}
	defer dst.Close()

	// Read one byte past the cap to detect oversize payloads.
	n, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("transfer object: %w", err)
	}
	if n > s.maxBytes {
		os.Remove(path)
		return ErrPayloadTooLarge
	}
	return nil
}
