package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	_, err = database.Exec(`CREATE TABLE uow_test (id TEXT PRIMARY KEY, val TEXT)`)
	require.NoError(t, err)

	return database, db.NewSQLiteUnitOfWork(database)
}

func insert(id, val string) func(ctx context.Context, tx db.DBTX) error {
	return func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO uow_test (id, val) VALUES (?, ?)`, id, val)
		return err
	}
}

func count(t *testing.T, database *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM uow_test`).Scan(&n))
	return n
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	database, uow := openTestDB(t)

	require.NoError(t, uow.WithinTx(context.Background(), insert("k1", "v1")))

	var val string
	require.NoError(t, database.QueryRow(`SELECT val FROM uow_test WHERE id = ?`, "k1").Scan(&val))
	assert.Equal(t, "v1", val)
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	database, uow := openTestDB(t)
	boom := errors.New("deliberate failure")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		require.NoError(t, insert("k2", "v2")(ctx, tx))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, count(t, database))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database, uow := openTestDB(t)

	assert.PanicsWithValue(t, "boom", func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insert("k3", "v3")(ctx, tx)
			panic("boom")
		})
	})
	assert.Equal(t, 0, count(t, database))
}

func TestWithinTx_CancelledContextDoesNotCommit(t *testing.T) {
	database, uow := openTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())

	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		require.NoError(t, insert("k4", "v4")(ctx, tx))
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, count(t, database))
}

func TestWithinTx_SequentialTransactionsReuseTheConnection(t *testing.T) {
	database, uow := openTestDB(t)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, uow.WithinTx(context.Background(), insert(id, id)))
	}
	assert.Equal(t, 3, count(t, database))
}
