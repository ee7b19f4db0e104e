package repository

import (
	"context"
	"fmt"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/db"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
)

// SQLiteOpinionRepo implements OpinionRepo using a SQLite database.
type SQLiteOpinionRepo struct {
	db db.DBTX
}

func NewSQLiteOpinionRepo(db db.DBTX) *SQLiteOpinionRepo {
	return &SQLiteOpinionRepo{db: db}
}

const opinionColumns = `id, release_id, member_id, body, created_at`

func (r *SQLiteOpinionRepo) Create(ctx context.Context, o *domain.Opinion) error {
	query := `INSERT INTO opinions (` + opinionColumns + `) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, o.ID, o.ReleaseID, o.MemberID, o.Body, formatTime(o.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting opinion: %w", err)
	}
	return nil
}

func (r *SQLiteOpinionRepo) GetByID(ctx context.Context, id string) (*domain.Opinion, error) {
	query := `SELECT ` + opinionColumns + ` FROM opinions WHERE id = ?`
	o, err := scanOpinion(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, domain.ErrOpinionNotFound, id, "opinion")
	}
	return o, nil
}

func (r *SQLiteOpinionRepo) ListByRelease(ctx context.Context, releaseID string) ([]*domain.Opinion, error) {
	query := `SELECT ` + opinionColumns + ` FROM opinions WHERE release_id = ? ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query, releaseID)
	if err != nil {
		return nil, fmt.Errorf("listing opinions: %w", err)
	}
	defer rows.Close()

	var opinions []*domain.Opinion
	for rows.Next() {
		o, err := scanOpinion(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning opinion row: %w", err)
		}
		opinions = append(opinions, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating opinions: %w", err)
	}
	return opinions, nil
}

func (r *SQLiteOpinionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM opinions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting opinion: %w", err)
	}
	return nil
}

func scanOpinion(s rowScanner) (*domain.Opinion, error) {
	var o domain.Opinion
	var createdAtStr string
	if err := s.Scan(&o.ID, &o.ReleaseID, &o.MemberID, &o.Body, &createdAtStr); err != nil {
		return nil, err
	}
	var err error
	if o.CreatedAt, err = parseTime("created_at", createdAtStr); err != nil {
		return nil, err
	}
	return &o, nil
}
