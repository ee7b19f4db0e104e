package contract

import "github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"

// CreateIssueRequest describes a new issue. LifeCycle defaults to NOT_STARTED;
// AssigneeUserID, when set, must belong to a project member.
type CreateIssueRequest struct {
	Title          string
	Content        string
	AssigneeUserID string
	LifeCycle      domain.LifeCycle
}

// UpdateIssueRequest edits an issue's text and assignee. Nil fields are kept;
// an empty AssigneeUserID clears the assignee.
type UpdateIssueRequest struct {
	Title          *string
	Content        *string
	AssigneeUserID *string
}

// IssueView is an issue as it appears on the board.
type IssueView struct {
	ID             string
	Title          string
	Content        string
	LifeCycle      domain.LifeCycle
	ReleaseID      string
	AssigneeID     string
	AssigneeUserID string
	// Deployed is true when the linked release is DEPLOYED.
	Deployed bool
	// Index is the issue's position within its lifecycle column.
	Index int
}

// Board is a project's issues grouped by lifecycle, each column in display order.
type Board map[domain.LifeCycle][]IssueView

func NewCreateIssueRequest(title string) CreateIssueRequest {
	return CreateIssueRequest{
		Title:     title,
		LifeCycle: domain.LifeCycleNotStarted,
	}
}

// EffectiveLifeCycle is the requested lifecycle, or NOT_STARTED when unset.
func (r CreateIssueRequest) EffectiveLifeCycle() domain.LifeCycle {
	if r.LifeCycle == "" {
		return domain.LifeCycleNotStarted
	}
	return r.LifeCycle
}
