package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/db"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
)

// SQLiteIssueRepo implements IssueRepo using a SQLite database.
type SQLiteIssueRepo struct {
	db db.DBTX
}

func NewSQLiteIssueRepo(db db.DBTX) *SQLiteIssueRepo {
	return &SQLiteIssueRepo{db: db}
}

const issueColumns = `id, project_id, title, content, life_cycle, release_id, assignee_id, created_at, updated_at`

func (r *SQLiteIssueRepo) Create(ctx context.Context, i *domain.Issue) error {
	query := `INSERT INTO issues (` + issueColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		i.ID,
		i.ProjectID,
		i.Title,
		i.Content,
		string(i.LifeCycle),
		nullableStringToValue(i.ReleaseID),
		nullableStringToValue(i.AssigneeID),
		formatTime(i.CreatedAt),
		formatTime(i.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting issue: %w", err)
	}
	return nil
}

func (r *SQLiteIssueRepo) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE id = ?`
	i, err := scanIssue(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, domain.ErrIssueNotFound, id, "issue")
	}
	return i, nil
}

func (r *SQLiteIssueRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE project_id = ? ORDER BY rowid`
	return r.list(ctx, query, projectID)
}

func (r *SQLiteIssueRepo) ListByRelease(ctx context.Context, releaseID string) ([]*domain.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE release_id = ? ORDER BY rowid`
	return r.list(ctx, query, releaseID)
}

func (r *SQLiteIssueRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Issue, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing issues: %w", err)
	}
	defer rows.Close()

	var issues []*domain.Issue
	for rows.Next() {
		i, err := scanIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning issue row: %w", err)
		}
		issues = append(issues, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating issues: %w", err)
	}
	return issues, nil
}

func (r *SQLiteIssueRepo) Update(ctx context.Context, i *domain.Issue) error {
	query := `UPDATE issues SET title = ?, content = ?, life_cycle = ?, release_id = ?, assignee_id = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		i.Title,
		i.Content,
		string(i.LifeCycle),
		nullableStringToValue(i.ReleaseID),
		nullableStringToValue(i.AssigneeID),
		formatTime(i.UpdatedAt),
		i.ID,
	)
	if err != nil {
		return fmt.Errorf("updating issue: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrIssueNotFound, i.ID)
	}
	return nil
}

func (r *SQLiteIssueRepo) UnlinkRelease(ctx context.Context, releaseID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE issues SET release_id = NULL, updated_at = ? WHERE release_id = ?`, nowUTC(), releaseID)
	if err != nil {
		return 0, fmt.Errorf("unlinking issues: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting unlinked issues: %w", err)
	}
	return n, nil
}

func (r *SQLiteIssueRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM issues WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting issue: %w", err)
	}
	return nil
}

func scanIssue(s rowScanner) (*domain.Issue, error) {
	var i domain.Issue
	var lifeCycle, createdAtStr, updatedAtStr string
	var releaseID, assigneeID sql.NullString

	err := s.Scan(
		&i.ID, &i.ProjectID, &i.Title, &i.Content, &lifeCycle,
		&releaseID, &assigneeID,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	i.LifeCycle = domain.LifeCycle(lifeCycle)
	i.ReleaseID = stringPtr(releaseID)
	i.AssigneeID = stringPtr(assigneeID)
	if i.CreatedAt, err = parseTime("created_at", createdAtStr); err != nil {
		return nil, err
	}
	if i.UpdatedAt, err = parseTime("updated_at", updatedAtStr); err != nil {
		return nil, err
	}
	return &i, nil
}
