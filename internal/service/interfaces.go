package service

import (
	"context"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/contract"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
)

// Every method takes the calling user's id; the service resolves it to a
// project member before doing anything else.

type ProjectService interface {
	// Create makes a project and seats the caller as its leader.
	Create(ctx context.Context, callerUserID, name, description string) (*domain.Project, error)
	GetByID(ctx context.Context, callerUserID, projectID string) (*domain.Project, error)
	AddMember(ctx context.Context, callerUserID, projectID, userID string) (*domain.Member, error)
	RemoveMember(ctx context.Context, callerUserID, projectID, userID string) error
	ListMembers(ctx context.Context, callerUserID, projectID string) ([]*domain.Member, error)
}

type ReleaseService interface {
	Create(ctx context.Context, callerUserID, projectID string, req contract.CreateReleaseRequest) (*domain.Release, error)
	Update(ctx context.Context, callerUserID, releaseID string, req contract.UpdateReleaseRequest) (*domain.Release, error)
	Delete(ctx context.Context, callerUserID, releaseID string) error
	Get(ctx context.Context, callerUserID, releaseID string) (*contract.ReleaseView, error)
	// List returns the project's releases in ascending version order.
	List(ctx context.Context, callerUserID, projectID string) ([]*domain.Release, error)
	MoveOnGraph(ctx context.Context, callerUserID, releaseID string, x, y float64) (*domain.Release, error)
	AddOpinion(ctx context.Context, callerUserID, releaseID, body string) (*domain.Opinion, error)
	DeleteOpinion(ctx context.Context, callerUserID, opinionID string) error
}

type ApprovalService interface {
	// Vote records the caller's approval and applies its side effect. It
	// returns the release's ledger after the vote.
	Vote(ctx context.Context, callerUserID, releaseID string, value domain.ApprovalValue) ([]contract.ApprovalView, error)
	List(ctx context.Context, callerUserID, releaseID string) ([]contract.ApprovalView, error)
}

type IssueService interface {
	Create(ctx context.Context, callerUserID, projectID string, req contract.CreateIssueRequest) (*domain.Issue, error)
	Update(ctx context.Context, callerUserID, issueID string, req contract.UpdateIssueRequest) (*domain.Issue, error)
	Delete(ctx context.Context, callerUserID, issueID string) error
	// Reorder moves the issue to index within destLifeCycle on the board and
	// persists the lifecycle. Replaying the same call is safe.
	Reorder(ctx context.Context, callerUserID, issueID string, destLifeCycle domain.LifeCycle, destIndex int) error
	ListOrdered(ctx context.Context, callerUserID, projectID string) (contract.Board, error)
}
