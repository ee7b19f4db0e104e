package repository

import (
	"context"
	"fmt"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/db"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
)

// SQLiteApprovalRepo implements ApprovalRepo using a SQLite database.
type SQLiteApprovalRepo struct {
	db db.DBTX
}

func NewSQLiteApprovalRepo(db db.DBTX) *SQLiteApprovalRepo {
	return &SQLiteApprovalRepo{db: db}
}

const approvalColumns = `id, release_id, member_id, approval, updated_at`

func (r *SQLiteApprovalRepo) Create(ctx context.Context, a *domain.Approval) error {
	query := `INSERT INTO approvals (` + approvalColumns + `) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.ReleaseID, a.MemberID, string(a.Value), formatTime(a.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting approval: %w", err)
	}
	return nil
}

// Upsert keeps the existing row id when the member already has an approval
// on the release.
func (r *SQLiteApprovalRepo) Upsert(ctx context.Context, a *domain.Approval) error {
	query := `INSERT INTO approvals (` + approvalColumns + `) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(release_id, member_id) DO UPDATE
		SET approval = excluded.approval, updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.ReleaseID, a.MemberID, string(a.Value), formatTime(a.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upserting approval: %w", err)
	}
	return nil
}

func (r *SQLiteApprovalRepo) GetByReleaseAndMember(ctx context.Context, releaseID, memberID string) (*domain.Approval, error) {
	query := `SELECT ` + approvalColumns + ` FROM approvals WHERE release_id = ? AND member_id = ?`
	a, err := scanApproval(r.db.QueryRowContext(ctx, query, releaseID, memberID))
	if err != nil {
		return nil, notFoundOr(err, domain.ErrApprovalNotFound,
			fmt.Sprintf("member %s on release %s", memberID, releaseID), "approval")
	}
	return a, nil
}

func (r *SQLiteApprovalRepo) ListByRelease(ctx context.Context, releaseID string) ([]*domain.Approval, error) {
	query := `SELECT a.id, a.release_id, a.member_id, a.approval, a.updated_at
		FROM approvals a JOIN members m ON m.id = a.member_id
		WHERE a.release_id = ?
		ORDER BY m.created_at, m.rowid`
	rows, err := r.db.QueryContext(ctx, query, releaseID)
	if err != nil {
		return nil, fmt.Errorf("listing approvals: %w", err)
	}
	defer rows.Close()

	var approvals []*domain.Approval
	for rows.Next() {
		a, err := scanApproval(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning approval row: %w", err)
		}
		approvals = append(approvals, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating approvals: %w", err)
	}
	return approvals, nil
}

func (r *SQLiteApprovalRepo) DeleteByRelease(ctx context.Context, releaseID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM approvals WHERE release_id = ?`, releaseID)
	if err != nil {
		return fmt.Errorf("deleting approvals: %w", err)
	}
	return nil
}

func scanApproval(s rowScanner) (*domain.Approval, error) {
	var a domain.Approval
	var value, updatedAtStr string
	if err := s.Scan(&a.ID, &a.ReleaseID, &a.MemberID, &value, &updatedAtStr); err != nil {
		return nil, err
	}
	a.Value = domain.ApprovalValue(value)

	var err error
	if a.UpdatedAt, err = parseTime("updated_at", updatedAtStr); err != nil {
		return nil, err
	}
	return &a, nil
}
