package testutil

import (
	"context"
	"database/sql"
	"regexp"
	"strings"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/db"
)

var writeTarget = regexp.MustCompile(`(?is)^\s*(?:INSERT\s+INTO|UPDATE|DELETE\s+FROM)\s+([a-z_]+)`)

// FailingTableUoW runs every transaction through the production unit of work
// but fails writes to one table. The first Allow writes to Table go through;
// the next one returns Err. Reads and writes to other tables pass through.
type FailingTableUoW struct {
	inner db.UnitOfWork
	Table string
	Allow int
	Err   error
}

func NewFailingTableUoW(database *sql.DB, table string, allow int, err error) *FailingTableUoW {
	return &FailingTableUoW{inner: db.NewSQLiteUnitOfWork(database), Table: table, Allow: allow, Err: err}
}

func (u *FailingTableUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return u.inner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingTableTx{DBTX: tx, uow: u})
	})
}

// Counts are per transaction.
type failingTableTx struct {
	db.DBTX
	uow    *FailingTableUoW
	writes int
}

func (f *failingTableTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if m := writeTarget.FindStringSubmatch(query); m != nil && strings.EqualFold(m[1], f.uow.Table) {
		f.writes++
		if f.writes > f.uow.Allow {
			return nil, f.uow.Err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
