// Package objectstore wraps the S3-compatible object store behind the
// small read-only surface the ingestion framework needs.
package objectstore

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jgrantham/inlet/internal/config"
)

// ErrNotFound is returned when a key does not exist in the bucket.
var ErrNotFound = errors.New("object not found")

// ObjectMeta describes one listed object.
type ObjectMeta struct {
	Key          string
	LastModified time.Time
	Size         int64
}

// Gateway exposes list/stat/stream operations over a fixed bucket. It has
// no knowledge of ingestion semantics and performs no retries; transient
// errors propagate to the caller.
type Gateway struct {
	client *minio.Client
	bucket string
}

// New builds a gateway from configuration.
func New(cfg config.ObjectStoreConfig) (*Gateway, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}
	return &Gateway{client: client, bucket: cfg.Bucket}, nil
}

// ListObjects returns metadata for every object under prefix. An empty
// prefix listing is an empty slice, not an error.
func (g *Gateway) ListObjects(ctx context.Context, prefix string) ([]ObjectMeta, error) {
	var objects []ObjectMeta
	for info := range g.client.ListObjects(ctx, g.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if info.Err != nil {
			return nil, fmt.Errorf("failed to list objects under %s: %w", prefix, info.Err)
		}
		objects = append(objects, ObjectMeta{
			Key:          info.Key,
			LastModified: info.LastModified,
			Size:         info.Size,
		})
	}
	return objects, nil
}

// MostRecentObjectKey returns the key with the newest LastModified under
// prefix, or "" when the prefix is empty.
func (g *Gateway) MostRecentObjectKey(ctx context.Context, prefix string) (string, error) {
	objects, err := g.ListObjects(ctx, prefix)
	if err != nil {
		return "", err
	}

	var key string
	var newest time.Time
	for _, obj := range objects {
		if key == "" || obj.LastModified.After(newest) {
			key = obj.Key
			newest = obj.LastModified
		}
	}
	return key, nil
}

// LastModified returns the store-reported last-modified time of a key.
func (g *Gateway) LastModified(ctx context.Context, key string) (time.Time, error) {
	info, err := g.client.StatObject(ctx, g.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return time.Time{}, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return time.Time{}, fmt.Errorf("failed to stat %s: %w", key, err)
	}
	return info.LastModified, nil
}

// Open returns a stream over the object's bytes. Keys ending in .gz are
// transparently decompressed; Close releases both readers. The caller
// must close the stream on every exit path.
func (g *Gateway) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := g.client.GetObject(ctx, g.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", key, err)
	}

	if !strings.HasSuffix(key, ".gz") {
		return obj, nil
	}

	// GetObject defers the request to the first read, so the gzip header
	// read below is also where a missing key surfaces.
	gz, err := gzip.NewReader(obj)
	if err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to open gzip stream for %s: %w", key, err)
	}
	return &gzipReadCloser{gz: gz, src: obj}, nil
}

type gzipReadCloser struct {
	gz  *gzip.Reader
	src io.Closer
}

func (r *gzipReadCloser) Read(p []byte) (int, error) { return r.gz.Read(p) }

func (r *gzipReadCloser) Close() error {
	gzErr := r.gz.Close()
	srcErr := r.src.Close()
	if gzErr != nil {
		return gzErr
	}
	return srcErr
}
