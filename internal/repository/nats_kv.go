package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// jetStreamKV is the slice of jetstream.KeyValue the bucket needs.
type jetStreamKV interface {
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Update(ctx context.Context, key string, value []byte, revision uint64) (uint64, error)
}

// JetStreamKVBucket adapts a NATS JetStream key/value bucket to KVBucket.
type JetStreamKVBucket struct {
	kv jetStreamKV
}

func NewJetStreamKVBucket(kv jetStreamKV) *JetStreamKVBucket {
	return &JetStreamKVBucket{kv: kv}
}

// OpenJetStreamKVBucket binds to (creating if needed) the named bucket on nc.
// Only the latest value per key is kept.
func OpenJetStreamKVBucket(ctx context.Context, nc *nats.Conn, bucket string) (*JetStreamKVBucket, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("get jetstream: %w", err)
	}
	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "issue display order per project",
		History:     1,
	})
	if err != nil {
		return nil, fmt.Errorf("open kv bucket %s: %w", bucket, err)
	}
	return NewJetStreamKVBucket(kv), nil
}

func (b *JetStreamKVBucket) Get(ctx context.Context, key string) (*KVEntry, error) {
	entry, err := b.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) || errors.Is(err, jetstream.ErrKeyDeleted) {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return &KVEntry{Key: key, Value: entry.Value(), Revision: entry.Revision()}, nil
}

// Create writes key only if it has no value yet. An expected revision of 0
// tells the server the subject must be empty.
func (b *JetStreamKVBucket) Create(ctx context.Context, key string, value []byte) (uint64, error) {
	rev, err := b.kv.Update(ctx, key, value, 0)
	if err != nil {
		return 0, mapJetStreamWriteErr(key, err)
	}
	return rev, nil
}

func (b *JetStreamKVBucket) Update(ctx context.Context, key string, value []byte, lastRevision uint64) (uint64, error) {
	rev, err := b.kv.Update(ctx, key, value, lastRevision)
	if err != nil {
		return 0, mapJetStreamWriteErr(key, err)
	}
	return rev, nil
}

func mapJetStreamWriteErr(key string, err error) error {
	var apiErr *jetstream.APIError
	if errors.Is(err, jetstream.ErrKeyExists) ||
		(errors.As(err, &apiErr) && apiErr.ErrorCode == jetstream.JSErrCodeStreamWrongLastSequence) {
		return fmt.Errorf("%w: %s: %v", ErrRevisionConflict, key, err)
	}
	return fmt.Errorf("put %s: %w", key, err)
}
