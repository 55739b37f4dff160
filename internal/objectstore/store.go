// Package objectstore keeps reader assets (dictionaries) in a NATS JetStream object store.
package objectstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
)

// Store implements core.ObjectStore on a JetStream object store bucket.
type Store struct {
	bucket string
	store  nats.ObjectStore
}

// Open binds to bucketName, creating the bucket on first use.
func Open(jetstreamContext nats.JetStreamContext, bucketName string) (*Store, error) {
	store, err := jetstreamContext.ObjectStore(bucketName)
	if err == nil {
		return &Store{bucket: bucketName, store: store}, nil
	}

	if !errors.Is(err, nats.ErrBucketNotFound) && !errors.Is(err, nats.ErrStreamNotFound) {
		return nil, fmt.Errorf("failed to bind to object store bucket '%s': %w", bucketName, err)
	}

	store, err = jetstreamContext.CreateObjectStore(&nats.ObjectStoreConfig{
		Bucket:      bucketName,
		Description: "Reader dictionaries.",
		TTL:         0,
		MaxBytes:    0,
		Storage:     nats.FileStorage,
		Replicas:    1,
		Placement:   nil,
		Metadata:    nil,
		Compression: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store bucket '%s': %w", bucketName, err)
	}

	return &Store{bucket: bucketName, store: store}, nil
}

// Download reads an object.
func (s *Store) Download(ctx context.Context, key string) ([]byte, error) {
	data, err := s.store.GetBytes(key, nats.Context(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get object '%s' from bucket '%s': %w", key, s.bucket, err)
	}

	return data, nil
}

// Upload writes an object, replacing any previous version.
func (s *Store) Upload(ctx context.Context, key string, data []byte) error {
	_, err := s.store.PutBytes(key, data, nats.Context(ctx))
	if err != nil {
		return fmt.Errorf("failed to put object '%s' to bucket '%s': %w", key, s.bucket, err)
	}

	return nil
}
