package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/contract"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/db"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/identity"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/notify"
)

type approvalService struct {
	uow        db.UnitOfWork
	identity   identity.Factory
	dispatcher *notify.Dispatcher
	observer   UseCaseObserver
}

func NewApprovalService(
	uow db.UnitOfWork,
	ids identity.Factory,
	dispatcher *notify.Dispatcher,
	observers ...UseCaseObserver,
) ApprovalService {
	return &approvalService{
		uow:        uow,
		identity:   ids,
		dispatcher: dispatcher,
		observer:   useCaseObserverOrNoop(observers),
	}
}

// Vote upserts the caller's approval and applies the side effect for their
// position. The vote and any deploy happen in one transaction, so a rejected
// deploy also discards the vote.
func (s *approvalService) Vote(ctx context.Context, callerUserID, releaseID string, value domain.ApprovalValue) (views []contract.ApprovalView, err error) {
	ctx, uc := beginUseCase(ctx, s.observer, "approval.vote", map[string]any{
		"release_id": releaseID,
		"value":      string(value),
	})
	defer func() { uc.end(err) }()

	if value, err = domain.ParseApprovalValue(string(value)); err != nil {
		return nil, err
	}

	var outbox notify.Outbox
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx, s.identity)

		rel, err := r.releases.GetByID(ctx, releaseID)
		if err != nil {
			return err
		}
		if rel.IsDeployed() {
			return fmt.Errorf("%w: %s", domain.ErrReleaseAlreadyDeployed, rel.Version)
		}
		voter, err := resolveMember(ctx, r.identity, callerUserID, rel)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		ballot, err := r.approvals.GetByReleaseAndMember(ctx, rel.ID, voter.ID)
		switch {
		case errors.Is(err, domain.ErrApprovalNotFound):
			ballot = &domain.Approval{ID: uuid.New().String(), ReleaseID: rel.ID, MemberID: voter.ID}
		case err != nil:
			return err
		default:
			uc.set("previous", string(ballot.Value))
		}
		ballot.Value = value
		ballot.UpdatedAt = now
		if err := r.approvals.Upsert(ctx, ballot); err != nil {
			return err
		}

		members, err := r.members.ListByProject(ctx, rel.ProjectID)
		if err != nil {
			return err
		}
		ledger, err := r.approvals.ListByRelease(ctx, rel.ID)
		if err != nil {
			return err
		}

		effect := domain.VoteEffectFor(voter.Position, value)
		uc.set("effect", effect.String())
		switch effect {
		case domain.EffectDeploy:
			if !domain.Unanimous(ledger) {
				return fmt.Errorf("%w: release %s", domain.ErrDisapprovedMemberExists, rel.Version)
			}
			all, err := r.releases.ListByProject(ctx, rel.ProjectID)
			if err != nil {
				return err
			}
			if err := requireEarlierDeployed(withoutRelease(all, rel.ID), rel); err != nil {
				return err
			}
			if err := rel.TransitionTo(domain.DeployDeployed, now); err != nil {
				return err
			}
			if err := r.releases.Update(ctx, rel); err != nil {
				return err
			}
			outbox.Add(releaseNote(notify.KindReleaseDeployed, rel, callerUserID, userIDsOf(members), now))

		case domain.EffectAnnounceDenial:
			outbox.Add(releaseNote(notify.KindReleaseDenied, rel, callerUserID, userIDsOf(members), now))

		case domain.EffectRequestDecision:
			if leader := domain.FindLeader(members); leader != nil {
				outbox.Add(releaseNote(notify.KindDecisionRequested, rel, callerUserID, []string{leader.UserID}, now))
			}
		}

		views = approvalViews(ledger, membersByID(members))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(ctx, outbox.Drain()...)
	return views, nil
}

func (s *approvalService) List(ctx context.Context, callerUserID, releaseID string) ([]contract.ApprovalView, error) {
	var views []contract.ApprovalView
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx, s.identity)

		rel, err := r.releases.GetByID(ctx, releaseID)
		if err != nil {
			return err
		}
		if _, err := resolveMember(ctx, r.identity, callerUserID, rel); err != nil {
			return err
		}
		members, err := r.members.ListByProject(ctx, rel.ProjectID)
		if err != nil {
			return err
		}
		ledger, err := r.approvals.ListByRelease(ctx, rel.ID)
		if err != nil {
			return err
		}
		views = approvalViews(ledger, membersByID(members))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}
