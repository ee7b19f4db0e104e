package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

const ts = "2025-01-01T00:00:00Z"

// seedProject inserts a project with a leader and one planning release.
func seedProject(t *testing.T, db *sql.DB) {
	t.Helper()
	stmts := []string{
		`INSERT INTO projects (id, name, created_at, updated_at) VALUES ('p1', 'Test', '` + ts + `', '` + ts + `')`,
		`INSERT INTO members (id, project_id, user_id, position, created_at) VALUES ('m1', 'p1', 'u1', 'LEADER', '` + ts + `')`,
		`INSERT INTO releases (id, project_id, version, created_at, updated_at) VALUES ('r1', 'p1', '1.0.0', '` + ts + `', '` + ts + `')`,
	}
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// Run migrations a second time; should succeed without error.
	err := Migrate(db)
	require.NoError(t, err)

	err = Migrate(db)
	require.NoError(t, err)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"projects", "members", "releases", "approvals", "issues", "opinions", "kv_entries"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_members_user",
		"idx_releases_project",
		"idx_issues_project",
		"idx_issues_release",
		"idx_opinions_release",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk)
	require.NoError(t, err)
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestMigrate_WALModeRequested(t *testing.T) {
	// In-memory SQLite uses "memory" journal mode; WAL only applies to file DBs.
	db := openTestDB(t)

	var mode string
	err := db.QueryRow(`PRAGMA journal_mode`).Scan(&mode)
	require.NoError(t, err)
	assert.Equal(t, "memory", mode)
}

func TestMigrate_ReleaseVersionUniquePerProject(t *testing.T) {
	db := openTestDB(t)
	seedProject(t, db)

	_, err := db.Exec(`INSERT INTO releases (id, project_id, version, created_at, updated_at)
		VALUES ('r2', 'p1', '1.0.0', ?, ?)`, ts, ts)
	assert.Error(t, err, "duplicate version inside a project should violate the unique constraint")

	_, err = db.Exec(`INSERT INTO projects (id, name, created_at, updated_at) VALUES ('p2', 'Other', ?, ?)`, ts, ts)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO releases (id, project_id, version, created_at, updated_at)
		VALUES ('r3', 'p2', '1.0.0', ?, ?)`, ts, ts)
	assert.NoError(t, err, "the same version in another project is fine")
}

func TestMigrate_ReleaseDefaults(t *testing.T) {
	db := openTestDB(t)
	seedProject(t, db)

	var status string
	var x, y float64
	var deployDate sql.NullString
	err := db.QueryRow(`SELECT deploy_status, deploy_date, coord_x, coord_y FROM releases WHERE id = 'r1'`).
		Scan(&status, &deployDate, &x, &y)
	require.NoError(t, err)
	assert.Equal(t, "PLANNING", status)
	assert.False(t, deployDate.Valid)
	assert.Zero(t, x)
	assert.Zero(t, y)
}

func TestMigrate_CheckConstraints(t *testing.T) {
	db := openTestDB(t)
	seedProject(t, db)

	_, err := db.Exec(`UPDATE releases SET deploy_status = 'SHIPPED' WHERE id = 'r1'`)
	assert.Error(t, err, "unknown deploy status should be rejected")

	_, err = db.Exec(`INSERT INTO members (id, project_id, user_id, position, created_at) VALUES ('m2', 'p1', 'u2', 'OWNER', ?)`, ts)
	assert.Error(t, err, "unknown position should be rejected")

	_, err = db.Exec(`INSERT INTO issues (id, project_id, title, life_cycle, created_at, updated_at)
		VALUES ('i1', 'p1', 'Bug', 'BLOCKED', ?, ?)`, ts, ts)
	assert.Error(t, err, "unknown lifecycle should be rejected")

	_, err = db.Exec(`INSERT INTO approvals (id, release_id, member_id, approval, updated_at) VALUES ('a1', 'r1', 'm1', 'MAYBE', ?)`, ts)
	assert.Error(t, err, "unknown approval value should be rejected")
}

func TestMigrate_ApprovalUniquePerReleaseMember(t *testing.T) {
	db := openTestDB(t)
	seedProject(t, db)

	_, err := db.Exec(`INSERT INTO approvals (id, release_id, member_id, updated_at) VALUES ('a1', 'r1', 'm1', ?)`, ts)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO approvals (id, release_id, member_id, updated_at) VALUES ('a2', 'r1', 'm1', ?)`, ts)
	assert.Error(t, err)
}

func TestMigrate_ReleaseDeleteCascades(t *testing.T) {
	db := openTestDB(t)
	seedProject(t, db)

	_, err := db.Exec(`INSERT INTO approvals (id, release_id, member_id, updated_at) VALUES ('a1', 'r1', 'm1', ?)`, ts)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO opinions (id, release_id, member_id, body, created_at) VALUES ('o1', 'r1', 'm1', 'ship it', ?)`, ts)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO issues (id, project_id, title, life_cycle, release_id, created_at, updated_at)
		VALUES ('i1', 'p1', 'Bug', 'DONE', 'r1', ?, ?)`, ts, ts)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM releases WHERE id = 'r1'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM approvals`).Scan(&n))
	assert.Zero(t, n, "approvals cascade with their release")
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM opinions`).Scan(&n))
	assert.Zero(t, n, "opinions cascade with their release")

	var releaseID sql.NullString
	require.NoError(t, db.QueryRow(`SELECT release_id FROM issues WHERE id = 'i1'`).Scan(&releaseID))
	assert.False(t, releaseID.Valid, "issue survives with its link cleared")
}

func TestMigrate_KVRevisionMustBePositive(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO kv_entries (bucket, key, value, revision, updated_at) VALUES ('b', 'k', x'7b7d', 0, ?)`, ts)
	assert.Error(t, err)
	_, err = db.Exec(`INSERT INTO kv_entries (bucket, key, value, revision, updated_at) VALUES ('b', 'k', x'7b7d', 1, ?)`, ts)
	assert.NoError(t, err)
}
