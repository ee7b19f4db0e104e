package domain

import (
	"fmt"
	"time"
)

type Issue struct {
	ID         string
	ProjectID  string
	Title      string
	Content    string
	LifeCycle  LifeCycle
	ReleaseID  *string
	AssigneeID *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (i *Issue) IsLinked() bool {
	return i.ReleaseID != nil && *i.ReleaseID != ""
}

// LinkTo attaches the issue to a release. The issue must be DONE and unlinked.
func (i *Issue) LinkTo(releaseID string, now time.Time) error {
	if i.IsLinked() {
		return fmt.Errorf("%w: issue %s is linked to release %s", ErrIssueAlreadyLinked, i.ID, *i.ReleaseID)
	}
	if i.LifeCycle != LifeCycleDone {
		return fmt.Errorf("%w: issue %s is %s", ErrIssueNotDone, i.ID, i.LifeCycle)
	}
	i.ReleaseID = &releaseID
	i.UpdatedAt = now
	return nil
}

func (i *Issue) Unlink(now time.Time) {
	i.ReleaseID = nil
	i.UpdatedAt = now
}

// ChangeLifeCycle moves the issue to another column. A linked issue keeps its lifecycle.
func (i *Issue) ChangeLifeCycle(lc LifeCycle, now time.Time) error {
	if !lc.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidLifeCycle, lc)
	}
	if lc == i.LifeCycle {
		return nil
	}
	if i.IsLinked() {
		return fmt.Errorf("%w: issue %s", ErrLinkedIssueImmutable, i.ID)
	}
	i.LifeCycle = lc
	i.UpdatedAt = now
	return nil
}
