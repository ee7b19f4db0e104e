package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/contract"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/notify"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/repository"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/testutil"
)

func TestReleaseService_Create_FirstReleaseIsInitial(t *testing.T) {
	h := newHarness(t)
	p := h.project(t)

	rel := h.release(t, p.ID, "minor")
	assert.Equal(t, "1.0.0", rel.Version)
	assert.Equal(t, domain.DeployPlanning, rel.DeployStatus)
	assert.Nil(t, rel.DeployDate)

	view, err := h.releases.Get(context.Background(), member, rel.ID)
	require.NoError(t, err)
	require.Len(t, view.Approvals, 2, "one PENDING approval per member")
	for _, a := range view.Approvals {
		assert.Equal(t, domain.ApprovalPending, a.Value)
	}
	assert.Equal(t, leader, view.Approvals[0].UserID)
	assert.Equal(t, domain.PositionLeader, view.Approvals[0].Position)
}

func TestReleaseService_Create_AllocatesFromLatest(t *testing.T) {
	h := newHarness(t)
	p := h.project(t)

	assert.Equal(t, "1.0.0", h.release(t, p.ID, "PATCH").Version)
	assert.Equal(t, "1.0.1", h.release(t, p.ID, "PATCH").Version)
	assert.Equal(t, "1.1.0", h.release(t, p.ID, "minor").Version)
	assert.Equal(t, "2.0.0", h.release(t, p.ID, "Major").Version)
}

// Scenario B: MAJOR on a project whose latest is 2.3.1 yields 3.0.0.
func TestReleaseService_Create_MajorAfter231(t *testing.T) {
	h := newHarness(t)
	p := h.project(t)
	for _, v := range []string{"1.0.0", "2.0.0", "2.1.0", "2.2.0", "2.3.0", "2.3.1"} {
		h.insertRelease(t, p.ID, v, testutil.Deployed())
	}

	rel := h.release(t, p.ID, "MAJOR")
	assert.Equal(t, "3.0.0", rel.Version)
}

func TestReleaseService_Create_Rejections(t *testing.T) {
	h := newHarness(t)
	p := h.project(t)
	ctx := context.Background()

	_, err := h.releases.Create(ctx, member, p.ID, contract.NewCreateReleaseRequest("r", "MINOR"))
	assert.ErrorIs(t, err, domain.ErrNotProjectLeader)

	_, err = h.releases.Create(ctx, "mallory", p.ID, contract.NewCreateReleaseRequest("r", "MINOR"))
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)

	_, err = h.releases.Create(ctx, leader, p.ID, contract.NewCreateReleaseRequest("r", "HOTFIX"))
	assert.ErrorIs(t, err, domain.ErrInvalidVersionBumpKind)

	_, err = h.releases.Create(ctx, leader, "nope", contract.NewCreateReleaseRequest("r", "MINOR"))
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)

	assert.Empty(t, h.notifier.Sent())
}

func TestReleaseService_Create_LinksIssuesAndNotifies(t *testing.T) {
	h := newHarness(t)
	p := h.project(t)
	a := h.issue(t, p.ID, "a", domain.LifeCycleDone)
	b := h.issue(t, p.ID, "b", domain.LifeCycleDone)

	rel := h.release(t, p.ID, "MINOR", a.ID, b.ID, a.ID)

	for _, id := range []string{a.ID, b.ID} {
		is := h.getIssue(t, id)
		require.NotNil(t, is.ReleaseID)
		assert.Equal(t, rel.ID, *is.ReleaseID)
	}

	sent := h.notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, notify.KindReleaseCreated, sent[0].Kind)
	assert.Equal(t, rel.Version, sent[0].Version)
	assert.ElementsMatch(t, []string{leader, member}, sent[0].Recipients)
}

func TestReleaseService_Create_IneligibleIssueAbortsEverything(t *testing.T) {
	h := newHarness(t)
	p := h.project(t)
	done := h.issue(t, p.ID, "done", domain.LifeCycleDone)
	open := h.issue(t, p.ID, "open", domain.LifeCycleInProgress)
	ctx := context.Background()

	req := contract.NewCreateReleaseRequest("r", "MINOR")
	req.IssueIDs = []string{done.ID, open.ID}
	_, err := h.releases.Create(ctx, leader, p.ID, req)
	assert.ErrorIs(t, err, domain.ErrIssueNotDone)

	list, err := h.releases.List(ctx, leader, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list, "release insert rolled back")
	assert.False(t, h.getIssue(t, done.ID).IsLinked(), "earlier link rolled back")
	assert.Empty(t, h.notifier.Sent(), "nothing sent for a rolled back create")
}

func TestReleaseService_Create_IssueFromOtherProjectIsNotFound(t *testing.T) {
	h := newHarness(t)
	p := h.project(t)
	other := h.project(t)
	foreign := h.issue(t, other.ID, "foreign", domain.LifeCycleDone)

	req := contract.NewCreateReleaseRequest("r", "MINOR")
	req.IssueIDs = []string{foreign.ID}
	_, err := h.releases.Create(context.Background(), leader, p.ID, req)
	assert.ErrorIs(t, err, domain.ErrIssueNotFound)
}

// Scenario D: a DONE unlinked issue connects; once linked it does not.
func TestReleaseService_Create_AlreadyLinkedIssue(t *testing.T) {
	h := newHarness(t)
	p := h.project(t)
	is := h.issue(t, p.ID, "x", domain.LifeCycleDone)

	h.release(t, p.ID, "MINOR", is.ID)

	req := contract.NewCreateReleaseRequest("r", "MINOR")
	req.IssueIDs = []string{is.ID}
	_, err := h.releases.Create(context.Background(), leader, p.ID, req)
	assert.ErrorIs(t, err, domain.ErrIssueAlreadyLinked)
}

// Scenario A: 1.0.0 DEPLOYED, 1.1.0 PLANNING. 1.1.0 -> 2.0.0 is fine while
// 1.1.0 is the latest and fails once 1.2.0 exists.
func TestReleaseService_Update_VersionEdit(t *testing.T) {
	t.Run("latest can jump major", func(t *testing.T) {
		h := newHarness(t)
		p := h.project(t)
		h.insertRelease(t, p.ID, "1.0.0", testutil.Deployed())
		rel := h.insertRelease(t, p.ID, "1.1.0")

		got, err := h.releases.Update(context.Background(), leader, rel.ID, contract.UpdateReleaseRequest{Version: strPtr("2.0.0")})
		require.NoError(t, err)
		assert.Equal(t, "2.0.0", got.Version)
		assert.Equal(t, "2.0.0", h.getRelease(t, rel.ID).Version)
	})

	t.Run("skipping a version fails", func(t *testing.T) {
		h := newHarness(t)
		p := h.project(t)
		h.insertRelease(t, p.ID, "1.0.0", testutil.Deployed())
		rel := h.insertRelease(t, p.ID, "1.1.0")
		h.insertRelease(t, p.ID, "1.2.0")

		_, err := h.releases.Update(context.Background(), leader, rel.ID, contract.UpdateReleaseRequest{Version: strPtr("2.0.0")})
		assert.ErrorIs(t, err, domain.ErrInvalidReleaseVersion)
		assert.Equal(t, "1.1.0", h.getRelease(t, rel.ID).Version)
	})

	t.Run("duplicate", func(t *testing.T) {
		h := newHarness(t)
		p := h.project(t)
		h.insertRelease(t, p.ID, "1.0.0")
		rel := h.insertRelease(t, p.ID, "1.1.0")

		_, err := h.releases.Update(context.Background(), leader, rel.ID, contract.UpdateReleaseRequest{Version: strPtr("1.0.0")})
		assert.ErrorIs(t, err, domain.ErrDuplicateVersion)
	})

	t.Run("initial is immutable", func(t *testing.T) {
		h := newHarness(t)
		p := h.project(t)
		root := h.insertRelease(t, p.ID, "1.0.0")

		_, err := h.releases.Update(context.Background(), leader, root.ID, contract.UpdateReleaseRequest{Version: strPtr("2.0.0")})
		assert.ErrorIs(t, err, domain.ErrInitialVersionImmutable)
	})

	t.Run("cannot slide beneath a deployed release", func(t *testing.T) {
		h := newHarness(t)
		p := h.project(t)
		h.insertRelease(t, p.ID, "1.0.0", testutil.Deployed())
		h.insertRelease(t, p.ID, "1.1.0", testutil.Deployed())
		rel := h.insertRelease(t, p.ID, "1.2.0")

		_, err := h.releases.Update(context.Background(), leader, rel.ID, contract.UpdateReleaseRequest{Version: strPtr("1.0.1")})
		assert.ErrorIs(t, err, domain.ErrLaterReleaseAlreadyDeployed)
		assert.Equal(t, "1.2.0", h.getRelease(t, rel.ID).Version)
	})
}

func TestReleaseService_Update_FieldsAndIssueReplace(t *testing.T) {
	h := newHarness(t)
	p := h.project(t)
	a := h.issue(t, p.ID, "a", domain.LifeCycleDone)
	b := h.issue(t, p.ID, "b", domain.LifeCycleDone)
	rel := h.release(t, p.ID, "MINOR", a.ID)

	got, err := h.releases.Update(context.Background(), leader, rel.ID, contract.UpdateReleaseRequest{
		Title:    strPtr("Spring"),
		Summary:  strPtr("bug fixes"),
		IssueIDs: []string{b.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Spring", got.Title)
	assert.Equal(t, "bug fixes", got.Summary)
	assert.Equal(t, rel.Content, got.Content, "nil field kept")

	assert.False(t, h.getIssue(t, a.ID).IsLinked(), "replaced, not merged")
	assert.True(t, h.getIssue(t, b.ID).IsLinked())
}

func TestReleaseService_Update_KeepingSameIssuesIsAllowed(t *testing.T) {
	h := newHarness(t)
	p := h.project(t)
	a := h.issue(t, p.ID, "a", domain.LifeCycleDone)
	rel := h.release(t, p.ID, "MINOR", a.ID)

	_, err := h.releases.Update(context.Background(), leader, rel.ID, contract.UpdateReleaseRequest{IssueIDs: []string{a.ID}})
	require.NoError(t, err)
	assert.True(t, h.getIssue(t, a.ID).IsLinked())
}

func TestReleaseService_Update_Deploy(t *testing.T) {
	h := newHarness(t)
	p := h.project(t)
	first := h.release(t, p.ID, "MINOR")
	second := h.release(t, p.ID, "MINOR")
	ctx := context.Background()
	h.notifier.Reset()

	_, err := h.releases.Update(ctx, leader, second.ID, contract.UpdateReleaseRequest{DeployStatus: statusPtr(domain.DeployDeployed)})
	assert.ErrorIs(t, err, domain.ErrEarlierReleaseNotDeployed)
	assert.Equal(t, domain.DeployPlanning, h.getRelease(t, second.ID).DeployStatus)

	got, err := h.releases.Update(ctx, leader, first.ID, contract.UpdateReleaseRequest{DeployStatus: statusPtr(domain.DeployDeployed)})
	require.NoError(t, err)
	assert.Equal(t, domain.DeployDeployed, got.DeployStatus)
	assert.NotNil(t, got.DeployDate)
	assert.Equal(t, []notify.Kind{notify.KindReleaseDeployed}, h.notifier.Kinds())

	_, err = h.releases.Update(ctx, leader, first.ID, contract.UpdateReleaseRequest{Title: strPtr("late edit")})
	assert.ErrorIs(t, err, domain.ErrDeployedReleaseImmutable)
}

func TestReleaseService_Update_DeniedCanReturnToPlanning(t *testing.T) {
	h := newHarness(t)
	p := h.project(t)
	rel := h.release(t, p.ID, "MINOR")
	ctx := context.Background()

	got, err := h.releases.Update(ctx, leader, rel.ID, contract.UpdateReleaseRequest{DeployStatus: statusPtr(domain.DeployDenied)})
	require.NoError(t, err)
	assert.Equal(t, domain.DeployDenied, got.DeployStatus)

	got, err = h.releases.Update(ctx, leader, rel.ID, contract.UpdateReleaseRequest{DeployStatus: statusPtr(domain.DeployPlanning)})
	require.NoError(t, err)
	assert.Equal(t, domain.DeployPlanning, got.DeployStatus)
	assert.Nil(t, got.DeployDate)
}

func TestReleaseService_Update_RequiresLeader(t *testing.T) {
	h := newHarness(t)
	p := h.project(t)
	rel := h.release(t, p.ID, "MINOR")

	_, err := h.releases.Update(context.Background(), member, rel.ID, contract.UpdateReleaseRequest{Title: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotProjectLeader)
}

func TestReleaseService_Delete(t *testing.T) {
	h := newHarness(t)
	p := h.project(t)
	is := h.issue(t, p.ID, "a", domain.LifeCycleDone)
	h.release(t, p.ID, "MINOR")
	latest := h.release(t, p.ID, "MINOR", is.ID)
	ctx := context.Background()

	_, err := h.releases.AddOpinion(ctx, member, latest.ID, "looks good")
	require.NoError(t, err)

	require.NoError(t, h.releases.Delete(ctx, leader, latest.ID))

	_, err = repository.NewSQLiteReleaseRepo(h.db).GetByID(ctx, latest.ID)
	assert.ErrorIs(t, err, domain.ErrReleaseNotFound)
	assert.False(t, h.getIssue(t, is.ID).IsLinked())

	ledger, err := repository.NewSQLiteApprovalRepo(h.db).ListByRelease(ctx, latest.ID)
	require.NoError(t, err)
	assert.Empty(t, ledger)
	opinions, err := repository.NewSQLiteOpinionRepo(h.db).ListByRelease(ctx, latest.ID)
	require.NoError(t, err)
	assert.Empty(t, opinions)
}

// Scenario E: the root cannot go while 1.1.0 still exists.
func TestReleaseService_Delete_RootNotPrunable(t *testing.T) {
	h := newHarness(t)
	p := h.project(t)
	root := h.release(t, p.ID, "MINOR")
	h.release(t, p.ID, "MINOR")

	err := h.releases.Delete(context.Background(), leader, root.ID)
	assert.ErrorIs(t, err, domain.ErrReleaseNotPrunable)
	assert.Equal(t, "1.0.0", h.getRelease(t, root.ID).Version)
}

func TestReleaseService_Delete_MiddleNotPrunable(t *testing.T) {
	h := newHarness(t)
	p := h.project(t)
	h.release(t, p.ID, "MINOR")        // 1.0.0
	mid := h.release(t, p.ID, "MINOR") // 1.1.0
	h.release(t, p.ID, "PATCH")        // 1.1.1

	err := h.releases.Delete(context.Background(), leader, mid.ID)
	assert.ErrorIs(t, err, domain.ErrReleaseNotPrunable)
}

func TestReleaseService_Delete_LoneRootIsPrunable(t *testing.T) {
	h := newHarness(t)
	p := h.project(t)
	root := h.release(t, p.ID, "MINOR")

	require.NoError(t, h.releases.Delete(context.Background(), leader, root.ID))
}

func TestReleaseService_Delete_Rejections(t *testing.T) {
	h := newHarness(t)
	p := h.project(t)
	h.insertRelease(t, p.ID, "1.0.0", testutil.Deployed())
	planning := h.insertRelease(t, p.ID, "1.1.0")
	h.insertRelease(t, p.ID, "1.1.1", testutil.Deployed())
	ctx := context.Background()

	assert.ErrorIs(t, h.releases.Delete(ctx, leader, planning.ID), domain.ErrLaterReleaseAlreadyDeployed)

	deployed := h.insertRelease(t, p.ID, "1.2.0", testutil.Deployed())
	assert.ErrorIs(t, h.releases.Delete(ctx, leader, deployed.ID), domain.ErrDeployedReleaseImmutable)

	assert.ErrorIs(t, h.releases.Delete(ctx, member, planning.ID), domain.ErrNotProjectLeader)
	assert.ErrorIs(t, h.releases.Delete(ctx, leader, "nope"), domain.ErrReleaseNotFound)
}

func TestReleaseService_Create_RollsBackOnApprovalWriteFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	setup := newHarnessWithUoW(t, database, testutil.NewTestUoW(database))
	p := setup.project(t)

	// The second member's approval fails after the release row and the first approval landed.
	failing := newHarnessWithUoW(t, database, testutil.NewFailingTableUoW(database, "approvals", 1, assert.AnError))
	_, err := failing.releases.Create(ctx, leader, p.ID, contract.NewCreateReleaseRequest("r", "MINOR"))
	assert.ErrorIs(t, err, assert.AnError)

	list, err := setup.releases.List(ctx, leader, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, failing.notifier.Sent())
}

func TestReleaseService_List_SortedByVersion(t *testing.T) {
	h := newHarness(t)
	p := h.project(t)
	for _, v := range []string{"1.10.0", "1.2.0", "1.0.0", "2.0.0", "1.1.0"} {
		h.insertRelease(t, p.ID, v)
	}

	list, err := h.releases.List(context.Background(), member, p.ID)
	require.NoError(t, err)
	var got []string
	for _, r := range list {
		got = append(got, r.Version)
	}
	assert.Equal(t, []string{"1.0.0", "1.1.0", "1.2.0", "1.10.0", "2.0.0"}, got)

	_, err = h.releases.List(context.Background(), "mallory", p.ID)
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
}

func TestReleaseService_Get_UnauthorizedOutsider(t *testing.T) {
	h := newHarness(t)
	p := h.project(t)
	rel := h.release(t, p.ID, "MINOR")

	_, err := h.releases.Get(context.Background(), "mallory", rel.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRelease)
}

func TestReleaseService_MoveOnGraph_AllowedWhenDeployed(t *testing.T) {
	h := newHarness(t)
	p := h.project(t)
	rel := h.insertRelease(t, p.ID, "1.0.0", testutil.Deployed())

	got, err := h.releases.MoveOnGraph(context.Background(), member, rel.ID, 12.5, -3)
	require.NoError(t, err)
	assert.Equal(t, 12.5, got.X)

	stored := h.getRelease(t, rel.ID)
	assert.Equal(t, 12.5, stored.X)
	assert.Equal(t, -3.0, stored.Y)
	assert.Equal(t, domain.DeployDeployed, stored.DeployStatus)
}

func TestReleaseService_Opinions(t *testing.T) {
	h := newHarness(t)
	p := h.project(t)
	rel := h.insertRelease(t, p.ID, "1.0.0", testutil.Deployed())
	ctx := context.Background()

	_, err := h.releases.AddOpinion(ctx, member, rel.ID, "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyOpinion)

	op, err := h.releases.AddOpinion(ctx, member, rel.ID, " ship it ")
	require.NoError(t, err)
	assert.Equal(t, "ship it", op.Body)

	view, err := h.releases.Get(ctx, leader, rel.ID)
	require.NoError(t, err)
	require.Len(t, view.Opinions, 1)
	assert.Equal(t, member, view.Opinions[0].UserID)

	assert.ErrorIs(t, h.releases.DeleteOpinion(ctx, leader, op.ID), domain.ErrOpinionNotOwned)
	require.NoError(t, h.releases.DeleteOpinion(ctx, member, op.ID))
	assert.ErrorIs(t, h.releases.DeleteOpinion(ctx, member, op.ID), domain.ErrOpinionNotFound)
}
