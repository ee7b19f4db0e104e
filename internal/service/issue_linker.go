package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/repository"
)

// issueLinker attaches issues to a release inside the caller's transaction.
type issueLinker struct {
	issues repository.IssueRepo
}

// connect links every issue in issueIDs to rel. Repeated ids count once. The
// first ineligible issue aborts with its error; earlier links are left to the
// transaction rollback.
func (l issueLinker) connect(ctx context.Context, rel *domain.Release, issueIDs []string, now time.Time) ([]*domain.Issue, error) {
	seen := make(map[string]bool, len(issueIDs))
	linked := make([]*domain.Issue, 0, len(issueIDs))
	for _, id := range issueIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		is, err := l.issues.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if is.ProjectID != rel.ProjectID {
			return nil, fmt.Errorf("%w: %s is not in project %s", domain.ErrIssueNotFound, id, rel.ProjectID)
		}
		if err := is.LinkTo(rel.ID, now); err != nil {
			return nil, err
		}
		if err := l.issues.Update(ctx, is); err != nil {
			return nil, err
		}
		linked = append(linked, is)
	}
	return linked, nil
}

// disconnectAll unlinks every issue currently linked to releaseID.
func (l issueLinker) disconnectAll(ctx context.Context, releaseID string) error {
	if _, err := l.issues.UnlinkRelease(ctx, releaseID); err != nil {
		return fmt.Errorf("unlinking issues from release %s: %w", releaseID, err)
	}
	return nil
}

// replace makes issueIDs the release's exact linked set.
func (l issueLinker) replace(ctx context.Context, rel *domain.Release, issueIDs []string, now time.Time) ([]*domain.Issue, error) {
	if err := l.disconnectAll(ctx, rel.ID); err != nil {
		return nil, err
	}
	return l.connect(ctx, rel, issueIDs, now)
}
