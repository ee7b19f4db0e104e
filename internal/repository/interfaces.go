package repository

import (
	"context"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/kanban"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type MemberRepo interface {
	Create(ctx context.Context, m *domain.Member) error
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	GetByProjectAndUser(ctx context.Context, projectID, userID string) (*domain.Member, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Member, error)
	Delete(ctx context.Context, id string) error
}

type ReleaseRepo interface {
	Create(ctx context.Context, r *domain.Release) error
	GetByID(ctx context.Context, id string) (*domain.Release, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Release, error)
	Update(ctx context.Context, r *domain.Release) error
	Delete(ctx context.Context, id string) error
}

type ApprovalRepo interface {
	Create(ctx context.Context, a *domain.Approval) error
	// Upsert records the member's vote, creating the row if it is missing.
	Upsert(ctx context.Context, a *domain.Approval) error
	GetByReleaseAndMember(ctx context.Context, releaseID, memberID string) (*domain.Approval, error)
	ListByRelease(ctx context.Context, releaseID string) ([]*domain.Approval, error)
	DeleteByRelease(ctx context.Context, releaseID string) error
}

type IssueRepo interface {
	Create(ctx context.Context, i *domain.Issue) error
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	// ListByProject returns issues in natural store order (insertion order).
	ListByProject(ctx context.Context, projectID string) ([]*domain.Issue, error)
	ListByRelease(ctx context.Context, releaseID string) ([]*domain.Issue, error)
	Update(ctx context.Context, i *domain.Issue) error
	// UnlinkRelease clears release_id on every issue linked to releaseID.
	UnlinkRelease(ctx context.Context, releaseID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type OpinionRepo interface {
	Create(ctx context.Context, o *domain.Opinion) error
	GetByID(ctx context.Context, id string) (*domain.Opinion, error)
	ListByRelease(ctx context.Context, releaseID string) ([]*domain.Opinion, error)
	Delete(ctx context.Context, id string) error
}

// SeedFunc builds the starting board when a project has no stored order yet.
type SeedFunc func(ctx context.Context) (*kanban.Board, error)

// OrderStore keeps one kanban.Board per project in a key/value bucket.
type OrderStore interface {
	// Load returns the stored board, or nil when the project has none.
	Load(ctx context.Context, projectID string) (*kanban.Board, error)
	// Apply runs mutate against the latest stored board and saves the result,
	// retrying when another writer got there first. seed supplies the board
	// when nothing is stored; a nil seed starts from an empty board.
	Apply(ctx context.Context, projectID string, seed SeedFunc, mutate func(*kanban.Board) error) (*kanban.Board, error)
}
