package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/contract"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
)

func TestFormatReleaseList_Empty(t *testing.T) {
	assert.Contains(t, stripANSI(FormatReleaseList(nil)), "No releases yet")
}

func TestFormatReleaseList_KeepsOrderAndShowsStatus(t *testing.T) {
	deployedAt := time.Now().Add(-2 * time.Hour)
	out := stripANSI(FormatReleaseList([]*domain.Release{
		{ID: "r1", Version: "1.0.0", Title: "Launch", DeployStatus: domain.DeployDeployed, DeployDate: &deployedAt},
		{ID: "r2", Version: "1.1.0", Title: "Polish", DeployStatus: domain.DeployPlanning},
	}))

	assert.Less(t, strings.Index(out, "1.0.0"), strings.Index(out, "1.1.0"))
	assert.Contains(t, out, "● DEPLOYED")
	assert.Contains(t, out, "● PLANNING")
	assert.Contains(t, out, "2h ago")
}

func TestFormatRelease(t *testing.T) {
	now := time.Now()
	view := &contract.ReleaseView{
		Release: &domain.Release{
			ID: "rel-1", Version: "2.0.0", Title: "Big one", Summary: "new graph",
			DeployStatus: domain.DeployDenied, X: 10, Y: -4.5,
		},
		Issues: []contract.IssueView{{ID: "iss-1", Title: "Fix login"}},
		Approvals: []contract.ApprovalView{
			{UserID: "alice", Position: domain.PositionLeader, Value: domain.ApprovalNo, UpdatedAt: now},
			{UserID: "bob", Position: domain.PositionMember, Value: domain.ApprovalYes, UpdatedAt: now},
		},
		Opinions: []contract.OpinionView{{ID: "op-1", UserID: "bob", Body: "ship it", CreatedAt: now}},
	}

	out := stripANSI(FormatRelease(view))

	assert.Contains(t, out, "v2.0.0  Big one")
	assert.Contains(t, out, "● DENIED")
	assert.Contains(t, out, "(10, -4.5)")
	assert.Contains(t, out, "new graph")
	assert.Contains(t, out, "ISSUES (1)")
	assert.Contains(t, out, "Fix login")
	assert.Contains(t, out, "alice (leader)")
	assert.Contains(t, out, "✘ NO")
	assert.Contains(t, out, "1/2 approved")
	assert.Contains(t, out, "OPINIONS (1)")
	assert.Contains(t, out, "ship it")
}

func TestFormatRelease_NoIssuesNoOpinions(t *testing.T) {
	out := stripANSI(FormatRelease(&contract.ReleaseView{
		Release: &domain.Release{ID: "r", Version: "1.0.0", DeployStatus: domain.DeployPlanning},
	}))
	assert.Contains(t, out, "none linked")
	assert.Contains(t, out, "no members")
	assert.NotContains(t, out, "OPINIONS")
}

func TestFormatApprovals_Unanimous(t *testing.T) {
	out := stripANSI(FormatApprovals([]contract.ApprovalView{
		{UserID: "alice", Position: domain.PositionLeader, Value: domain.ApprovalYes},
		{UserID: "bob", Position: domain.PositionMember, Value: domain.ApprovalYes},
	}))
	assert.Contains(t, out, "2/2 approved")
	assert.Equal(t, 2, strings.Count(out, "✔ YES"))
}
