package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/db"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
)

// SQLiteReleaseRepo implements ReleaseRepo using a SQLite database.
type SQLiteReleaseRepo struct {
	db db.DBTX
}

func NewSQLiteReleaseRepo(db db.DBTX) *SQLiteReleaseRepo {
	return &SQLiteReleaseRepo{db: db}
}

const releaseColumns = `id, project_id, title, content, summary, version, deploy_status, deploy_date,
	coord_x, coord_y, created_at, updated_at`

func (r *SQLiteReleaseRepo) Create(ctx context.Context, rel *domain.Release) error {
	query := `INSERT INTO releases (` + releaseColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rel.ID,
		rel.ProjectID,
		rel.Title,
		rel.Content,
		rel.Summary,
		rel.Version,
		string(rel.DeployStatus),
		nullableTimeToString(rel.DeployDate, time.RFC3339),
		rel.X,
		rel.Y,
		formatTime(rel.CreatedAt),
		formatTime(rel.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting release: %w", err)
	}
	return nil
}

func (r *SQLiteReleaseRepo) GetByID(ctx context.Context, id string) (*domain.Release, error) {
	query := `SELECT ` + releaseColumns + ` FROM releases WHERE id = ?`
	rel, err := scanRelease(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, domain.ErrReleaseNotFound, id, "release")
	}
	return rel, nil
}

// ListByProject returns the project's releases in insertion order. Callers
// that need version order sort with domain.SortVersions semantics.
func (r *SQLiteReleaseRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Release, error) {
	query := `SELECT ` + releaseColumns + ` FROM releases WHERE project_id = ? ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing releases: %w", err)
	}
	defer rows.Close()

	var releases []*domain.Release
	for rows.Next() {
		rel, err := scanRelease(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning release row: %w", err)
		}
		releases = append(releases, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating releases: %w", err)
	}
	return releases, nil
}

func (r *SQLiteReleaseRepo) Update(ctx context.Context, rel *domain.Release) error {
	query := `UPDATE releases SET title = ?, content = ?, summary = ?, version = ?, deploy_status = ?,
		deploy_date = ?, coord_x = ?, coord_y = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		rel.Title,
		rel.Content,
		rel.Summary,
		rel.Version,
		string(rel.DeployStatus),
		nullableTimeToString(rel.DeployDate, time.RFC3339),
		rel.X,
		rel.Y,
		formatTime(rel.UpdatedAt),
		rel.ID,
	)
	if err != nil {
		return fmt.Errorf("updating release: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrReleaseNotFound, rel.ID)
	}
	return nil
}

func (r *SQLiteReleaseRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM releases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting release: %w", err)
	}
	return nil
}

func scanRelease(s rowScanner) (*domain.Release, error) {
	var rel domain.Release
	var status, createdAtStr, updatedAtStr string
	var deployDate sql.NullString

	err := s.Scan(
		&rel.ID, &rel.ProjectID, &rel.Title, &rel.Content, &rel.Summary,
		&rel.Version, &status, &deployDate,
		&rel.X, &rel.Y,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	rel.DeployStatus = domain.DeployStatus(status)
	rel.DeployDate = parseNullableTime(deployDate, time.RFC3339)
	if rel.CreatedAt, err = parseTime("created_at", createdAtStr); err != nil {
		return nil, err
	}
	if rel.UpdatedAt, err = parseTime("updated_at", updatedAtStr); err != nil {
		return nil, err
	}
	return &rel, nil
}
