package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/db"
)

var (
	ErrKeyNotFound      = errors.New("key not found")
	ErrRevisionConflict = errors.New("revision conflict")
)

// KVEntry is a stored value and the revision it was written at.
type KVEntry struct {
	Key      string
	Value    []byte
	Revision uint64
}

// KVBucket is a key/value bucket with optimistic concurrency. Create fails
// with ErrRevisionConflict when the key exists; Update fails with it when the
// stored revision is not lastRevision.
type KVBucket interface {
	Get(ctx context.Context, key string) (*KVEntry, error)
	Create(ctx context.Context, key string, value []byte) (uint64, error)
	Update(ctx context.Context, key string, value []byte, lastRevision uint64) (uint64, error)
}

// SQLiteKVBucket stores a bucket in the kv_entries table. Each write bumps the
// row's revision by one, starting at 1.
type SQLiteKVBucket struct {
	db     db.DBTX
	bucket string
}

func NewSQLiteKVBucket(db db.DBTX, bucket string) *SQLiteKVBucket {
	return &SQLiteKVBucket{db: db, bucket: bucket}
}

func (b *SQLiteKVBucket) Get(ctx context.Context, key string) (*KVEntry, error) {
	e := KVEntry{Key: key}
	row := b.db.QueryRowContext(ctx,
		`SELECT value, revision FROM kv_entries WHERE bucket = ? AND key = ?`, b.bucket, key)
	if err := row.Scan(&e.Value, &e.Revision); err != nil {
		return nil, notFoundOr(err, ErrKeyNotFound, key, "kv entry")
	}
	return &e, nil
}

func (b *SQLiteKVBucket) Create(ctx context.Context, key string, value []byte) (uint64, error) {
	res, err := b.db.ExecContext(ctx,
		`INSERT INTO kv_entries (bucket, key, value, revision, updated_at) VALUES (?, ?, ?, 1, ?)
		ON CONFLICT(bucket, key) DO NOTHING`,
		b.bucket, key, value, nowUTC())
	if err != nil {
		return 0, fmt.Errorf("creating kv entry %s: %w", key, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, fmt.Errorf("%w: %s already exists", ErrRevisionConflict, key)
	}
	return 1, nil
}

func (b *SQLiteKVBucket) Update(ctx context.Context, key string, value []byte, lastRevision uint64) (uint64, error) {
	res, err := b.db.ExecContext(ctx,
		`UPDATE kv_entries SET value = ?, revision = revision + 1, updated_at = ?
		WHERE bucket = ? AND key = ? AND revision = ?`,
		value, nowUTC(), b.bucket, key, lastRevision)
	if err != nil {
		return 0, fmt.Errorf("updating kv entry %s: %w", key, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, fmt.Errorf("%w: %s is not at revision %d", ErrRevisionConflict, key, lastRevision)
	}
	return lastRevision + 1, nil
}
