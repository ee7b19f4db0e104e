package domain

import "time"

// Approval is one member's vote on one release.
type Approval struct {
	ID        string
	ReleaseID string
	MemberID  string
	Value     ApprovalValue
	UpdatedAt time.Time
}

// Unanimous reports whether every approval is YES. An empty ledger is not unanimous.
func Unanimous(approvals []*Approval) bool {
	if len(approvals) == 0 {
		return false
	}
	for _, a := range approvals {
		if a.Value != ApprovalYes {
			return false
		}
	}
	return true
}

// VoteEffect is what must happen after a vote is recorded.
type VoteEffect int

const (
	EffectNone VoteEffect = iota
	// EffectDeploy: the leader approved; deploy if the ledger and history allow it.
	EffectDeploy
	// EffectAnnounceDenial: the leader rejected; tell everyone, status unchanged.
	EffectAnnounceDenial
	// EffectRequestDecision: a member approved; ask the leader to decide.
	EffectRequestDecision
)

func (e VoteEffect) String() string {
	switch e {
	case EffectDeploy:
		return "deploy"
	case EffectAnnounceDenial:
		return "announce_denial"
	case EffectRequestDecision:
		return "request_decision"
	default:
		return "none"
	}
}

// VoteEffectFor maps (position, vote) to its side effect.
func VoteEffectFor(position Position, value ApprovalValue) VoteEffect {
	switch {
	case position == PositionLeader && value == ApprovalYes:
		return EffectDeploy
	case position == PositionLeader && value == ApprovalNo:
		return EffectAnnounceDenial
	case position == PositionMember && value == ApprovalYes:
		return EffectRequestDecision
	default:
		return EffectNone
	}
}
