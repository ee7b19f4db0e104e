package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
)

func NewTestProject(name string) *domain.Project {
	now := time.Now().UTC()
	return &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Member options
type MemberOption func(*domain.Member)

func AsLeader() MemberOption {
	return func(m *domain.Member) {
		m.Position = domain.PositionLeader
	}
}

func NewTestMember(projectID, userID string, opts ...MemberOption) *domain.Member {
	m := &domain.Member{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		UserID:    userID,
		Position:  domain.PositionMember,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Release options
type ReleaseOption func(*domain.Release)

func WithDeployStatus(s domain.DeployStatus) ReleaseOption {
	return func(r *domain.Release) {
		r.DeployStatus = s
		if s == domain.DeployDeployed && r.DeployDate == nil {
			d := r.CreatedAt
			r.DeployDate = &d
		}
	}
}

func Deployed() ReleaseOption {
	return WithDeployStatus(domain.DeployDeployed)
}

func WithReleaseTitle(title string) ReleaseOption {
	return func(r *domain.Release) {
		r.Title = title
	}
}

func WithCoordinates(x, y float64) ReleaseOption {
	return func(r *domain.Release) {
		r.X, r.Y = x, y
	}
}

func NewTestRelease(projectID, version string, opts ...ReleaseOption) *domain.Release {
	now := time.Now().UTC()
	r := &domain.Release{
		ID:           uuid.New().String(),
		ProjectID:    projectID,
		Title:        "Release " + version,
		Version:      version,
		DeployStatus: domain.DeployPlanning,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func NewTestApproval(releaseID, memberID string, value domain.ApprovalValue) *domain.Approval {
	return &domain.Approval{
		ID:        uuid.New().String(),
		ReleaseID: releaseID,
		MemberID:  memberID,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
}

// Issue options
type IssueOption func(*domain.Issue)

func WithLifeCycle(lc domain.LifeCycle) IssueOption {
	return func(i *domain.Issue) {
		i.LifeCycle = lc
	}
}

func Done() IssueOption {
	return WithLifeCycle(domain.LifeCycleDone)
}

func LinkedTo(releaseID string) IssueOption {
	return func(i *domain.Issue) {
		i.ReleaseID = &releaseID
		i.LifeCycle = domain.LifeCycleDone
	}
}

func AssignedTo(memberID string) IssueOption {
	return func(i *domain.Issue) {
		i.AssigneeID = &memberID
	}
}

func NewTestIssue(projectID, title string, opts ...IssueOption) *domain.Issue {
	now := time.Now().UTC()
	i := &domain.Issue{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		LifeCycle: domain.LifeCycleNotStarted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func NewTestOpinion(releaseID, memberID, body string) *domain.Opinion {
	return &domain.Opinion{
		ID:        uuid.New().String(),
		ReleaseID: releaseID,
		MemberID:  memberID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
}
