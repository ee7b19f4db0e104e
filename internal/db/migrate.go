package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS members (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		user_id    TEXT NOT NULL,
		position   TEXT NOT NULL DEFAULT 'MEMBER'
		           CHECK(position IN ('LEADER','MEMBER')),
		created_at TEXT NOT NULL,
		UNIQUE (project_id, user_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_members_user ON members(user_id)`,

	`CREATE TABLE IF NOT EXISTS releases (
		id            TEXT PRIMARY KEY,
		project_id    TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		title         TEXT NOT NULL DEFAULT '',
		content       TEXT NOT NULL DEFAULT '',
		summary       TEXT NOT NULL DEFAULT '',
		version       TEXT NOT NULL,
		deploy_status TEXT NOT NULL DEFAULT 'PLANNING'
		              CHECK(deploy_status IN ('PLANNING','DEPLOYED','DENIED')),
		deploy_date   TEXT,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL,
		UNIQUE (project_id, version)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_releases_project ON releases(project_id)`,

	`CREATE TABLE IF NOT EXISTS approvals (
		id         TEXT PRIMARY KEY,
		release_id TEXT NOT NULL REFERENCES releases(id) ON DELETE CASCADE,
		member_id  TEXT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
		approval   TEXT NOT NULL DEFAULT 'PENDING'
		           CHECK(approval IN ('PENDING','YES','NO')),
		updated_at TEXT NOT NULL,
		UNIQUE (release_id, member_id)
	)`,

	`CREATE TABLE IF NOT EXISTS issues (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		content     TEXT NOT NULL DEFAULT '',
		life_cycle  TEXT NOT NULL DEFAULT 'NOT_STARTED'
		            CHECK(life_cycle IN ('NOT_STARTED','IN_PROGRESS','DONE')),
		release_id  TEXT REFERENCES releases(id) ON DELETE SET NULL,
		assignee_id TEXT REFERENCES members(id) ON DELETE SET NULL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_issues_project ON issues(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_issues_release ON issues(release_id)`,

	// Release graph coordinates
	`ALTER TABLE releases ADD COLUMN coord_x REAL NOT NULL DEFAULT 0`,
	`ALTER TABLE releases ADD COLUMN coord_y REAL NOT NULL DEFAULT 0`,

	`CREATE TABLE IF NOT EXISTS opinions (
		id         TEXT PRIMARY KEY,
		release_id TEXT NOT NULL REFERENCES releases(id) ON DELETE CASCADE,
		member_id  TEXT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
		body       TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_opinions_release ON opinions(release_id)`,

	// Revisioned key/value rows backing the local order-record bucket.
	`CREATE TABLE IF NOT EXISTS kv_entries (
		bucket     TEXT NOT NULL,
		key        TEXT NOT NULL,
		value      BLOB NOT NULL,
		revision   INTEGER NOT NULL CHECK(revision > 0),
		updated_at TEXT NOT NULL,
		PRIMARY KEY (bucket, key)
	)`,
}
