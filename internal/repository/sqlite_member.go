package repository

import (
	"context"
	"fmt"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/db"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
)

// SQLiteMemberRepo implements MemberRepo using a SQLite database.
type SQLiteMemberRepo struct {
	db db.DBTX
}

func NewSQLiteMemberRepo(db db.DBTX) *SQLiteMemberRepo {
	return &SQLiteMemberRepo{db: db}
}

const memberColumns = `id, project_id, user_id, position, created_at`

func (r *SQLiteMemberRepo) Create(ctx context.Context, m *domain.Member) error {
	query := `INSERT INTO members (` + memberColumns + `) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.ProjectID, m.UserID, string(m.Position), formatTime(m.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting member: %w", err)
	}
	return nil
}

func (r *SQLiteMemberRepo) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = ?`
	m, err := scanMember(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, domain.ErrMemberNotFound, id, "member")
	}
	return m, nil
}

func (r *SQLiteMemberRepo) GetByProjectAndUser(ctx context.Context, projectID, userID string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE project_id = ? AND user_id = ?`
	m, err := scanMember(r.db.QueryRowContext(ctx, query, projectID, userID))
	if err != nil {
		return nil, notFoundOr(err, domain.ErrMemberNotFound, fmt.Sprintf("user %s in project %s", userID, projectID), "member")
	}
	return m, nil
}

func (r *SQLiteMemberRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE project_id = ? ORDER BY created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	var members []*domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning member row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating members: %w", err)
	}
	return members, nil
}

func (r *SQLiteMemberRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}
	return nil
}

func scanMember(s rowScanner) (*domain.Member, error) {
	var m domain.Member
	var position, createdAtStr string
	if err := s.Scan(&m.ID, &m.ProjectID, &m.UserID, &position, &createdAtStr); err != nil {
		return nil, err
	}
	m.Position = domain.Position(position)

	var err error
	if m.CreatedAt, err = parseTime("created_at", createdAtStr); err != nil {
		return nil, err
	}
	return &m, nil
}
