package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/db"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/identity"
)

type projectService struct {
	uow      db.UnitOfWork
	identity identity.Factory
	observer UseCaseObserver
}

func NewProjectService(uow db.UnitOfWork, ids identity.Factory, observers ...UseCaseObserver) ProjectService {
	return &projectService{uow: uow, identity: ids, observer: useCaseObserverOrNoop(observers)}
}

func (s *projectService) Create(ctx context.Context, callerUserID, name, description string) (p *domain.Project, err error) {
	ctx, uc := beginUseCase(ctx, s.observer, "project.create", nil)
	defer func() { uc.end(err) }()

	if strings.TrimSpace(callerUserID) == "" {
		return nil, fmt.Errorf("%w: no caller given", domain.ErrMemberNotFound)
	}
	now := time.Now().UTC()
	p = &domain.Project{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(name),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err = p.Validate(); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx, s.identity)
		if err := r.projects.Create(ctx, p); err != nil {
			return err
		}
		return r.members.Create(ctx, &domain.Member{
			ID:        uuid.New().String(),
			ProjectID: p.ID,
			UserID:    callerUserID,
			Position:  domain.PositionLeader,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.set("project_id", p.ID)
	return p, nil
}

func (s *projectService) GetByID(ctx context.Context, callerUserID, projectID string) (*domain.Project, error) {
	var p *domain.Project
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx, s.identity)
		var err error
		if p, err = r.projects.GetByID(ctx, projectID); err != nil {
			return err
		}
		_, err = r.identity.ResolveCallerMember(ctx, callerUserID, projectID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// AddMember seats userID in the project and gives them a PENDING approval on
// every existing release.
func (s *projectService) AddMember(ctx context.Context, callerUserID, projectID, userID string) (m *domain.Member, err error) {
	ctx, uc := beginUseCase(ctx, s.observer, "project.add_member", map[string]any{"project_id": projectID})
	defer func() { uc.end(err) }()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrEmptyUserID
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx, s.identity)

		if _, err := r.projects.GetByID(ctx, projectID); err != nil {
			return err
		}
		if _, err := identity.ResolveLeader(ctx, r.identity, callerUserID, projectID); err != nil {
			return err
		}
		_, err := r.members.GetByProjectAndUser(ctx, projectID, userID)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s", domain.ErrMemberExists, userID)
		case !errors.Is(err, domain.ErrMemberNotFound):
			return err
		}

		now := time.Now().UTC()
		m = &domain.Member{
			ID:        uuid.New().String(),
			ProjectID: projectID,
			UserID:    userID,
			Position:  domain.PositionMember,
			CreatedAt: now,
		}
		if err := r.members.Create(ctx, m); err != nil {
			return err
		}

		releases, err := r.releases.ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		for _, rel := range releases {
			if err := r.approvals.Create(ctx, &domain.Approval{
				ID:        uuid.New().String(),
				ReleaseID: rel.ID,
				MemberID:  m.ID,
				Value:     domain.ApprovalPending,
				UpdatedAt: now,
			}); err != nil {
				return err
			}
		}
		uc.set("releases", len(releases))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// RemoveMember drops a non-leader member. Their approvals go with them and
// issues assigned to them become unassigned.
func (s *projectService) RemoveMember(ctx context.Context, callerUserID, projectID, userID string) (err error) {
	ctx, uc := beginUseCase(ctx, s.observer, "project.remove_member", map[string]any{"project_id": projectID})
	defer func() { uc.end(err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx, s.identity)

		if _, err := identity.ResolveLeader(ctx, r.identity, callerUserID, projectID); err != nil {
			return err
		}
		target, err := r.members.GetByProjectAndUser(ctx, projectID, userID)
		if err != nil {
			return err
		}
		if target.IsLeader() {
			return fmt.Errorf("%w: %s", domain.ErrLeaderNotRemovable, userID)
		}
		return r.members.Delete(ctx, target.ID)
	})
}

func (s *projectService) ListMembers(ctx context.Context, callerUserID, projectID string) ([]*domain.Member, error) {
	var out []*domain.Member
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx, s.identity)
		if _, err := r.identity.ResolveCallerMember(ctx, callerUserID, projectID); err != nil {
			return err
		}
		var err error
		out, err = r.members.ListByProject(ctx, projectID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
