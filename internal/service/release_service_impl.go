package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/contract"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/db"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/identity"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/notify"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/versioning"
)

type releaseService struct {
	uow        db.UnitOfWork
	identity   identity.Factory
	dispatcher *notify.Dispatcher
	observer   UseCaseObserver
}

func NewReleaseService(
	uow db.UnitOfWork,
	ids identity.Factory,
	dispatcher *notify.Dispatcher,
	observers ...UseCaseObserver,
) ReleaseService {
	return &releaseService{
		uow:        uow,
		identity:   ids,
		dispatcher: dispatcher,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *releaseService) Create(ctx context.Context, callerUserID, projectID string, req contract.CreateReleaseRequest) (rel *domain.Release, err error) {
	ctx, uc := beginUseCase(ctx, s.observer, "release.create", map[string]any{
		"project_id": projectID,
		"bump":       req.BumpKind,
		"issues":     len(req.IssueIDs),
	})
	defer func() { uc.end(err) }()

	var outbox notify.Outbox
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx, s.identity)

		if _, err := r.projects.GetByID(ctx, projectID); err != nil {
			return err
		}
		if _, err := identity.ResolveLeader(ctx, r.identity, callerUserID, projectID); err != nil {
			return err
		}

		existing, err := r.releases.ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		version, err := versioning.AllocateVersion(versionsOf(existing), req.BumpKind)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		rel = &domain.Release{
			ID:           uuid.New().String(),
			ProjectID:    projectID,
			Title:        req.Title,
			Content:      req.Content,
			Summary:      req.Summary,
			Version:      version,
			DeployStatus: domain.DeployPlanning,
			X:            req.X,
			Y:            req.Y,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := r.releases.Create(ctx, rel); err != nil {
			return err
		}

		if _, err := (issueLinker{issues: r.issues}).connect(ctx, rel, req.IssueIDs, now); err != nil {
			return err
		}

		members, err := r.members.ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		for _, m := range members {
			a := &domain.Approval{
				ID:        uuid.New().String(),
				ReleaseID: rel.ID,
				MemberID:  m.ID,
				Value:     domain.ApprovalPending,
				UpdatedAt: now,
			}
			if err := r.approvals.Create(ctx, a); err != nil {
				return err
			}
		}

		outbox.Add(releaseNote(notify.KindReleaseCreated, rel, callerUserID, userIDsOf(members), now))
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.set("version", rel.Version)
	s.dispatcher.Dispatch(ctx, outbox.Drain()...)
	return rel, nil
}

func (s *releaseService) Update(ctx context.Context, callerUserID, releaseID string, req contract.UpdateReleaseRequest) (rel *domain.Release, err error) {
	ctx, uc := beginUseCase(ctx, s.observer, "release.update", map[string]any{"release_id": releaseID})
	defer func() { uc.end(err) }()

	var outbox notify.Outbox
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx, s.identity)

		rel, err = r.releases.GetByID(ctx, releaseID)
		if err != nil {
			return err
		}
		if _, err := identity.ResolveLeader(ctx, r.identity, callerUserID, rel.ProjectID); err != nil {
			return err
		}
		if err := rel.RequireMutable(); err != nil {
			return err
		}

		all, err := r.releases.ListByProject(ctx, rel.ProjectID)
		if err != nil {
			return err
		}

		if req.Version != nil && *req.Version != rel.Version {
			if err := versioning.ValidateVersionEdit(rel.Version, *req.Version, versionsOf(all)); err != nil {
				return err
			}
			if err := requireNoLaterDeployed(withoutRelease(all, rel.ID), *req.Version); err != nil {
				return err
			}
			rel.Version = *req.Version
		}

		if req.DeployStatus != nil && *req.DeployStatus == domain.DeployDeployed {
			if err := requireEarlierDeployed(withoutRelease(all, rel.ID), rel); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		rel.Title = domain.StringFromPtrWithDefault(rel.Title, req.Title)
		rel.Content = domain.StringFromPtrWithDefault(rel.Content, req.Content)
		rel.Summary = domain.StringFromPtrWithDefault(rel.Summary, req.Summary)
		rel.UpdatedAt = now

		deploying := req.ChangesStatus(rel.DeployStatus) && *req.DeployStatus == domain.DeployDeployed
		if req.DeployStatus != nil {
			if err := rel.TransitionTo(*req.DeployStatus, now); err != nil {
				return err
			}
		}

		if err := r.releases.Update(ctx, rel); err != nil {
			return err
		}
		if _, err := (issueLinker{issues: r.issues}).replace(ctx, rel, req.IssueIDs, now); err != nil {
			return err
		}

		if deploying {
			members, err := r.members.ListByProject(ctx, rel.ProjectID)
			if err != nil {
				return err
			}
			outbox.Add(releaseNote(notify.KindReleaseDeployed, rel, callerUserID, userIDsOf(members), now))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.set("version", rel.Version)
	uc.set("deploy_status", string(rel.DeployStatus))
	s.dispatcher.Dispatch(ctx, outbox.Drain()...)
	return rel, nil
}

// requireEarlierDeployed fails unless every release in others with a lower
// version than rel is DEPLOYED.
func requireEarlierDeployed(others []*domain.Release, rel *domain.Release) error {
	v, err := rel.ParsedVersion()
	if err != nil {
		return err
	}
	earlier, err := domain.ReleasesBefore(others, v)
	if err != nil {
		return err
	}
	if !domain.AllDeployed(earlier) {
		return fmt.Errorf("%w: %s", domain.ErrEarlierReleaseNotDeployed, rel.Version)
	}
	return nil
}

// requireNoLaterDeployed fails when any release in others above version is
// already DEPLOYED.
func requireNoLaterDeployed(others []*domain.Release, version string) error {
	v, err := domain.ParseVersion(version)
	if err != nil {
		return err
	}
	later, err := domain.ReleasesAfter(others, v)
	if err != nil {
		return err
	}
	if domain.AnyDeployed(later) {
		return fmt.Errorf("%w: after %s", domain.ErrLaterReleaseAlreadyDeployed, version)
	}
	return nil
}

func (s *releaseService) Delete(ctx context.Context, callerUserID, releaseID string) (err error) {
	ctx, uc := beginUseCase(ctx, s.observer, "release.delete", map[string]any{"release_id": releaseID})
	defer func() { uc.end(err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx, s.identity)

		rel, err := r.releases.GetByID(ctx, releaseID)
		if err != nil {
			return err
		}
		if _, err := identity.ResolveLeader(ctx, r.identity, callerUserID, rel.ProjectID); err != nil {
			return err
		}
		if err := rel.RequireMutable(); err != nil {
			return err
		}

		all, err := r.releases.ListByProject(ctx, rel.ProjectID)
		if err != nil {
			return err
		}
		v, err := rel.ParsedVersion()
		if err != nil {
			return err
		}
		if err := requireNoLaterDeployed(all, rel.Version); err != nil {
			return err
		}
		versions, err := domain.ParseVersions(versionsOf(all))
		if err != nil {
			return err
		}
		if err := versioning.CheckPrunable(v, versions); err != nil {
			return err
		}

		if err := r.approvals.DeleteByRelease(ctx, rel.ID); err != nil {
			return err
		}
		if err := (issueLinker{issues: r.issues}).disconnectAll(ctx, rel.ID); err != nil {
			return err
		}
		uc.set("version", rel.Version)
		return r.releases.Delete(ctx, rel.ID)
	})
}

func (s *releaseService) Get(ctx context.Context, callerUserID, releaseID string) (*contract.ReleaseView, error) {
	var view *contract.ReleaseView
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
		byID := membersByID(members)

		issues, err := r.issues.ListByRelease(ctx, rel.ID)
		if err != nil {
			return err
		}
		ledger, err := r.approvals.ListByRelease(ctx, rel.ID)
		if err != nil {
			return err
		}
		opinions, err := r.opinions.ListByRelease(ctx, rel.ID)
		if err != nil {
			return err
		}

		view = &contract.ReleaseView{
			Release:   rel,
			Issues:    make([]contract.IssueView, 0, len(issues)),
			Approvals: approvalViews(ledger, byID),
			Opinions:  make([]contract.OpinionView, 0, len(opinions)),
		}
		deployed := map[string]bool{rel.ID: rel.IsDeployed()}
		for i, is := range issues {
			iv := issueView(is, byID, deployed)
			iv.Index = i
			view.Issues = append(view.Issues, iv)
		}
		for _, o := range opinions {
			ov := contract.OpinionView{ID: o.ID, MemberID: o.MemberID, Body: o.Body, CreatedAt: o.CreatedAt}
			if m, ok := byID[o.MemberID]; ok {
				ov.UserID = m.UserID
			}
			view.Opinions = append(view.Opinions, ov)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *releaseService) List(ctx context.Context, callerUserID, projectID string) ([]*domain.Release, error) {
	var out []*domain.Release
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx, s.identity)

		if _, err := r.identity.ResolveCallerMember(ctx, callerUserID, projectID); err != nil {
			return err
		}
		rs, err := r.releases.ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		if err := sortReleasesByVersion(rs); err != nil {
			return err
		}
		out = rs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *releaseService) MoveOnGraph(ctx context.Context, callerUserID, releaseID string, x, y float64) (rel *domain.Release, err error) {
	ctx, uc := beginUseCase(ctx, s.observer, "release.move", map[string]any{"release_id": releaseID})
	defer func() { uc.end(err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx, s.identity)

		rel, err = r.releases.GetByID(ctx, releaseID)
		if err != nil {
			return err
		}
		if _, err := resolveMember(ctx, r.identity, callerUserID, rel); err != nil {
			return err
		}
		rel.MoveTo(x, y, time.Now().UTC())
		return r.releases.Update(ctx, rel)
	})
	if err != nil {
		return nil, err
	}
	return rel, nil
}

func (s *releaseService) AddOpinion(ctx context.Context, callerUserID, releaseID, body string) (op *domain.Opinion, err error) {
	ctx, uc := beginUseCase(ctx, s.observer, "opinion.add", map[string]any{"release_id": releaseID})
	defer func() { uc.end(err) }()

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, domain.ErrEmptyOpinion
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx, s.identity)

		rel, err := r.releases.GetByID(ctx, releaseID)
		if err != nil {
			return err
		}
		m, err := resolveMember(ctx, r.identity, callerUserID, rel)
		if err != nil {
			return err
		}
		op = &domain.Opinion{
			ID:        uuid.New().String(),
			ReleaseID: rel.ID,
			MemberID:  m.ID,
			Body:      body,
			CreatedAt: time.Now().UTC(),
		}
		return r.opinions.Create(ctx, op)
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

func (s *releaseService) DeleteOpinion(ctx context.Context, callerUserID, opinionID string) (err error) {
	ctx, uc := beginUseCase(ctx, s.observer, "opinion.delete", map[string]any{"opinion_id": opinionID})
	defer func() { uc.end(err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx, s.identity)

		op, err := r.opinions.GetByID(ctx, opinionID)
		if err != nil {
			return err
		}
		rel, err := r.releases.GetByID(ctx, op.ReleaseID)
		if err != nil {
			return err
		}
		m, err := resolveMember(ctx, r.identity, callerUserID, rel)
		if err != nil {
			return err
		}
		if op.MemberID != m.ID {
			return fmt.Errorf("%w: opinion %s", domain.ErrOpinionNotOwned, op.ID)
		}
		return r.opinions.Delete(ctx, op.ID)
	})
}
