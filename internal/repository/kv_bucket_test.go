package repository

import (
	"context"
	"testing"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteKVBucket_CreateGetUpdate(t *testing.T) {
	db := testutil.NewTestDB(t)
	b := NewSQLiteKVBucket(db, "order")
	ctx := context.Background()

	_, err := b.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	rev, err := b.Create(ctx, "k", []byte(`{"v":1}`))
	require.NoError(t, err)
	assert.EqualValues(t, 1, rev)

	e, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, string(e.Value))
	assert.EqualValues(t, 1, e.Revision)

	rev, err = b.Update(ctx, "k", []byte(`{"v":2}`), 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, rev)

	e, err = b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(e.Value))
}

func TestSQLiteKVBucket_Conflicts(t *testing.T) {
	db := testutil.NewTestDB(t)
	b := NewSQLiteKVBucket(db, "order")
	ctx := context.Background()

	_, err := b.Create(ctx, "k", []byte("a"))
	require.NoError(t, err)

	_, err = b.Create(ctx, "k", []byte("b"))
	assert.ErrorIs(t, err, ErrRevisionConflict, "create on an existing key")

	_, err = b.Update(ctx, "k", []byte("c"), 7)
	assert.ErrorIs(t, err, ErrRevisionConflict, "stale revision")

	_, err = b.Update(ctx, "missing", []byte("c"), 1)
	assert.ErrorIs(t, err, ErrRevisionConflict, "update of a key that was never created")

	e, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "a", string(e.Value), "failed writes leave the value alone")
}

func TestSQLiteKVBucket_BucketsAreIsolated(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	one := NewSQLiteKVBucket(db, "one")
	two := NewSQLiteKVBucket(db, "two")

	_, err := one.Create(ctx, "k", []byte("1"))
	require.NoError(t, err)
	_, err = two.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	_, err = two.Create(ctx, "k", []byte("2"))
	assert.NoError(t, err)
}
