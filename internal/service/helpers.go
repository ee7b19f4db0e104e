package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/contract"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/db"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/identity"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/notify"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/repository"
)

// txRepos are the repositories bound to one transaction.
type txRepos struct {
	projects  repository.ProjectRepo
	members   repository.MemberRepo
	releases  repository.ReleaseRepo
	approvals repository.ApprovalRepo
	issues    repository.IssueRepo
	opinions  repository.OpinionRepo
	identity  identity.Provider
}

func reposFor(tx db.DBTX, ids identity.Factory) txRepos {
	if ids == nil {
		ids = identity.SQLiteFactory
	}
	return txRepos{
		projects:  repository.NewSQLiteProjectRepo(tx),
		members:   repository.NewSQLiteMemberRepo(tx),
		releases:  repository.NewSQLiteReleaseRepo(tx),
		approvals: repository.NewSQLiteApprovalRepo(tx),
		issues:    repository.NewSQLiteIssueRepo(tx),
		opinions:  repository.NewSQLiteOpinionRepo(tx),
		identity:  ids(tx),
	}
}

// versionsOf returns the version strings of rs in the same order.
func versionsOf(rs []*domain.Release) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Version)
	}
	return out
}

// withoutRelease returns rs minus the release with the given id.
func withoutRelease(rs []*domain.Release, id string) []*domain.Release {
	out := make([]*domain.Release, 0, len(rs))
	for _, r := range rs {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

// sortReleasesByVersion sorts rs ascending by numeric version.
func sortReleasesByVersion(rs []*domain.Release) error {
	parsed := make(map[string]domain.Version, len(rs))
	for _, r := range rs {
		v, err := r.ParsedVersion()
		if err != nil {
			return fmt.Errorf("release %s: %w", r.ID, err)
		}
		parsed[r.ID] = v
	}
	sort.SliceStable(rs, func(i, j int) bool { return parsed[rs[i].ID].Less(parsed[rs[j].ID]) })
	return nil
}

func userIDsOf(members []*domain.Member) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		out = append(out, m.UserID)
	}
	return out
}

func membersByID(members []*domain.Member) map[string]*domain.Member {
	out := make(map[string]*domain.Member, len(members))
	for _, m := range members {
		out[m.ID] = m
	}
	return out
}

// releaseNote builds a notification about rel addressed to recipients. at is
// when the triggering action happened, which need not touch rel.
func releaseNote(kind notify.Kind, rel *domain.Release, actorUserID string, recipients []string, at time.Time) notify.Notification {
	return notify.Notification{
		Kind:        kind,
		ProjectID:   rel.ProjectID,
		ReleaseID:   rel.ID,
		Version:     rel.Version,
		ActorUserID: actorUserID,
		Recipients:  recipients,
		OccurredAt:  at,
	}
}

// approvalViews joins the ledger with member details.
func approvalViews(ledger []*domain.Approval, members map[string]*domain.Member) []contract.ApprovalView {
	out := make([]contract.ApprovalView, 0, len(ledger))
	for _, a := range ledger {
		v := contract.ApprovalView{MemberID: a.MemberID, Value: a.Value, UpdatedAt: a.UpdatedAt}
		if m, ok := members[a.MemberID]; ok {
			v.UserID = m.UserID
			v.Position = m.Position
		}
		out = append(out, v)
	}
	return out
}

func issueView(is *domain.Issue, members map[string]*domain.Member, deployed map[string]bool) contract.IssueView {
	v := contract.IssueView{
		ID:        is.ID,
		Title:     is.Title,
		Content:   is.Content,
		LifeCycle: is.LifeCycle,
	}
	if is.ReleaseID != nil {
		v.ReleaseID = *is.ReleaseID
		v.Deployed = deployed[*is.ReleaseID]
	}
	if is.AssigneeID != nil {
		v.AssigneeID = *is.AssigneeID
		if m, ok := members[*is.AssigneeID]; ok {
			v.AssigneeUserID = m.UserID
		}
	}
	return v
}

// resolveMember resolves the caller for a release operation. A caller with no
// seat in the release's project is reported as unauthorized for it.
func resolveMember(ctx context.Context, p identity.Provider, userID string, rel *domain.Release) (*domain.Member, error) {
	m, err := p.ResolveCallerMember(ctx, userID, rel.ProjectID)
	if errors.Is(err, domain.ErrMemberNotFound) {
		return nil, fmt.Errorf("%w: user %s, release %s", domain.ErrUnauthorizedRelease, userID, rel.ID)
	}
	return m, err
}
