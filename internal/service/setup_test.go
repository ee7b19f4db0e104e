package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/contract"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/db"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/identity"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/notify"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/repository"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/testutil"
)

const (
	leader = "alice"
	member = "bob"
)

type harness struct {
	db        *sql.DB
	uow       db.UnitOfWork
	notifier  *testutil.RecordingNotifier
	orders    *repository.KVOrderStore
	projects  ProjectService
	releases  ReleaseService
	approvals ApprovalService
	issues    IssueService
}

func newHarness(t *testing.T, observers ...UseCaseObserver) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	return newHarnessWithUoW(t, database, testutil.NewTestUoW(database), observers...)
}

func newHarnessWithUoW(t *testing.T, database *sql.DB, uow db.UnitOfWork, observers ...UseCaseObserver) *harness {
	t.Helper()
	notifier := &testutil.RecordingNotifier{}
	dispatcher := notify.NewDispatcher(notifier, nil)
	orders := repository.NewKVOrderStore(repository.NewSQLiteKVBucket(database, "issue-order"))
	return &harness{
		db:        database,
		uow:       uow,
		notifier:  notifier,
		orders:    orders,
		projects:  NewProjectService(uow, identity.SQLiteFactory, observers...),
		releases:  NewReleaseService(uow, identity.SQLiteFactory, dispatcher, observers...),
		approvals: NewApprovalService(uow, identity.SQLiteFactory, dispatcher, observers...),
		issues:    NewIssueService(uow, identity.SQLiteFactory, orders, nil, observers...),
	}
}

// project creates a project led by alice with bob as a member.
func (h *harness) project(t *testing.T) *domain.Project {
	t.Helper()
	ctx := context.Background()
	p, err := h.projects.Create(ctx, leader, "Momentum", "")
	require.NoError(t, err)
	_, err = h.projects.AddMember(ctx, leader, p.ID, member)
	require.NoError(t, err)
	return p
}

func (h *harness) release(t *testing.T, projectID, bump string, issueIDs ...string) *domain.Release {
	t.Helper()
	req := contract.NewCreateReleaseRequest("r", bump)
	req.IssueIDs = issueIDs
	rel, err := h.releases.Create(context.Background(), leader, projectID, req)
	require.NoError(t, err)
	return rel
}

// insertRelease writes a release row directly, bypassing allocation.
func (h *harness) insertRelease(t *testing.T, projectID, version string, opts ...testutil.ReleaseOption) *domain.Release {
	t.Helper()
	rel := testutil.NewTestRelease(projectID, version, opts...)
	require.NoError(t, repository.NewSQLiteReleaseRepo(h.db).Create(context.Background(), rel))
	return rel
}

func (h *harness) issue(t *testing.T, projectID, title string, lc domain.LifeCycle) *domain.Issue {
	t.Helper()
	req := contract.NewCreateIssueRequest(title)
	req.LifeCycle = lc
	is, err := h.issues.Create(context.Background(), leader, projectID, req)
	require.NoError(t, err)
	return is
}

func (h *harness) getRelease(t *testing.T, id string) *domain.Release {
	t.Helper()
	rel, err := repository.NewSQLiteReleaseRepo(h.db).GetByID(context.Background(), id)
	require.NoError(t, err)
	return rel
}

func (h *harness) getIssue(t *testing.T, id string) *domain.Issue {
	t.Helper()
	is, err := repository.NewSQLiteIssueRepo(h.db).GetByID(context.Background(), id)
	require.NoError(t, err)
	return is
}

func (h *harness) vote(t *testing.T, userID, releaseID string, v domain.ApprovalValue) {
	t.Helper()
	_, err := h.approvals.Vote(context.Background(), userID, releaseID, v)
	require.NoError(t, err)
}

func strPtr(s string) *string { return &s }

func statusPtr(s domain.DeployStatus) *domain.DeployStatus { return &s }

func issueIDs(views []contract.IssueView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.ID)
	}
	return out
}
