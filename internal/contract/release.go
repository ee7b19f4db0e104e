package contract

import (
	"time"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
)

// CreateReleaseRequest carries the fields a leader supplies for a new release.
// BumpKind is MAJOR, MINOR or PATCH in any case.
type CreateReleaseRequest struct {
	Title    string
	Content  string
	Summary  string
	BumpKind string
	IssueIDs []string
	X        float64
	Y        float64
}

// UpdateReleaseRequest edits a release. Nil fields keep their current value.
// IssueIDs always replaces the linked set; pass the current ids to keep them.
type UpdateReleaseRequest struct {
	Version      *string
	Title        *string
	Content      *string
	Summary      *string
	DeployStatus *domain.DeployStatus
	IssueIDs     []string
}

// ReleaseView is a release with everything hanging off it.
type ReleaseView struct {
	Release   *domain.Release
	Issues    []IssueView
	Approvals []ApprovalView
	Opinions  []OpinionView
}

// ApprovalView is one row of a release's approval ledger.
type ApprovalView struct {
	MemberID  string
	UserID    string
	Position  domain.Position
	Value     domain.ApprovalValue
	UpdatedAt time.Time
}

type OpinionView struct {
	ID        string
	MemberID  string
	UserID    string
	Body      string
	CreatedAt time.Time
}

func NewCreateReleaseRequest(title, bumpKind string) CreateReleaseRequest {
	return CreateReleaseRequest{Title: title, BumpKind: bumpKind}
}

// ChangesStatus reports whether the request asks for a deploy status other than current.
func (r UpdateReleaseRequest) ChangesStatus(current domain.DeployStatus) bool {
	return r.DeployStatus != nil && *r.DeployStatus != current
}
