// Package blob abstracts the hosted object storage the image pipeline
// publishes to. Buckets are public-read; objects resolve to stable URLs.
package blob

import "context"

// Object is one file to publish.
type Object struct {
	Bucket       string
	Path         string
	Data         []byte
	ContentType  string
	CacheControl string
}

// Store is the minimal blob storage contract the pipeline needs.
type Store interface {
	// Put uploads the object, overwriting any existing file at its path,
	// and returns the public URL.
	Put(ctx context.Context, obj Object) (string, error)

	// Remove deletes the listed paths from a bucket. Missing paths are not
	// an error.
	Remove(ctx context.Context, bucket string, paths []string) error

	// URL resolves the public URL for a path without a round trip.
	URL(bucket, path string) string
}
