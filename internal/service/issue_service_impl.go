package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/contract"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/db"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/identity"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/kanban"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/repository"
)

// issueService writes issue rows through the unit of work and the board
// through the order store. The two are separate stores: the board is written
// after the issue transaction commits, and every board write is replayable.
type issueService struct {
	uow      db.UnitOfWork
	identity identity.Factory
	orders   repository.OrderStore
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewIssueService(
	uow db.UnitOfWork,
	ids identity.Factory,
	orders repository.OrderStore,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) IssueService {
	if logger == nil {
		logger = slog.Default()
	}
	return &issueService{
		uow:      uow,
		identity: ids,
		orders:   orders,
		logger:   logger,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *issueService) Create(ctx context.Context, callerUserID, projectID string, req contract.CreateIssueRequest) (is *domain.Issue, err error) {
	ctx, uc := beginUseCase(ctx, s.observer, "issue.create", map[string]any{"project_id": projectID})
	defer func() { uc.end(err) }()

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}
	lc := req.EffectiveLifeCycle()
	if !lc.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidLifeCycle, lc)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx, s.identity)

		if _, err := r.projects.GetByID(ctx, projectID); err != nil {
			return err
		}
		if _, err := r.identity.ResolveCallerMember(ctx, callerUserID, projectID); err != nil {
			return err
		}

		now := time.Now().UTC()
		is = &domain.Issue{
			ID:        uuid.New().String(),
			ProjectID: projectID,
			Title:     title,
			Content:   req.Content,
			LifeCycle: lc,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if req.AssigneeUserID != "" {
			assignee, err := r.members.GetByProjectAndUser(ctx, projectID, req.AssigneeUserID)
			if err != nil {
				return err
			}
			is.AssigneeID = &assignee.ID
		}
		return r.issues.Create(ctx, is)
	})
	if err != nil {
		return nil, err
	}
	uc.set("issue_id", is.ID)

	// The row is committed; a board the issue is missing from still lists it
	// after the placed issues, and the next reorder of it repairs the record.
	if _, orderErr := s.orders.Apply(ctx, projectID, s.seed(projectID), func(b *kanban.Board) error {
		return b.Insert(is.ID, lc)
	}); orderErr != nil {
		s.logger.WarnContext(ctx, "issue order not updated",
			"project_id", projectID,
			"issue_id", is.ID,
			"error", orderErr,
		)
	}
	return is, nil
}

func (s *issueService) Update(ctx context.Context, callerUserID, issueID string, req contract.UpdateIssueRequest) (is *domain.Issue, err error) {
	ctx, uc := beginUseCase(ctx, s.observer, "issue.update", map[string]any{"issue_id": issueID})
	defer func() { uc.end(err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx, s.identity)

		is, err = r.issues.GetByID(ctx, issueID)
		if err != nil {
			return err
		}
		if _, err := r.identity.ResolveCallerMember(ctx, callerUserID, is.ProjectID); err != nil {
			return err
		}

		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			if title == "" {
				return domain.ErrEmptyTitle
			}
			is.Title = title
		}
		is.Content = domain.StringFromPtrWithDefault(is.Content, req.Content)
		if req.AssigneeUserID != nil {
			if *req.AssigneeUserID == "" {
				is.AssigneeID = nil
			} else {
				assignee, err := r.members.GetByProjectAndUser(ctx, is.ProjectID, *req.AssigneeUserID)
				if err != nil {
					return err
				}
				is.AssigneeID = &assignee.ID
			}
		}
		is.UpdatedAt = time.Now().UTC()
		return r.issues.Update(ctx, is)
	})
	if err != nil {
		return nil, err
	}
	return is, nil
}

func (s *issueService) Delete(ctx context.Context, callerUserID, issueID string) (err error) {
	ctx, uc := beginUseCase(ctx, s.observer, "issue.delete", map[string]any{"issue_id": issueID})
	defer func() { uc.end(err) }()

	var projectID string
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx, s.identity)

		is, err := r.issues.GetByID(ctx, issueID)
		if err != nil {
			return err
		}
		if _, err := r.identity.ResolveCallerMember(ctx, callerUserID, is.ProjectID); err != nil {
			return err
		}
		if is.IsLinked() {
			return fmt.Errorf("%w: issue %s", domain.ErrLinkedIssueImmutable, is.ID)
		}
		projectID = is.ProjectID
		return r.issues.Delete(ctx, is.ID)
	})
	if err != nil {
		return err
	}

	// The row is gone either way; a leftover entry is dropped by the next reorder.
	if orderErr := s.unplace(ctx, projectID, issueID); orderErr != nil {
		s.logger.WarnContext(ctx, "issue order not updated",
			"project_id", projectID,
			"issue_id", issueID,
			"error", orderErr,
		)
	}
	return nil
}

func (s *issueService) unplace(ctx context.Context, projectID, issueID string) error {
	board, err := s.orders.Load(ctx, projectID)
	if err != nil || board == nil {
		return err
	}
	if _, _, placed := board.Position(issueID); !placed {
		return nil
	}
	_, err = s.orders.Apply(ctx, projectID, nil, func(b *kanban.Board) error {
		b.Remove(issueID)
		return nil
	})
	return err
}

// Reorder validates against the issue row, moves the issue on the board, then
// persists its lifecycle. Each step converges when replayed, so a caller that
// sees an error can retry the whole call.
func (s *issueService) Reorder(ctx context.Context, callerUserID, issueID string, destLifeCycle domain.LifeCycle, destIndex int) (err error) {
	ctx, uc := beginUseCase(ctx, s.observer, "issue.reorder", map[string]any{
		"issue_id":   issueID,
		"life_cycle": string(destLifeCycle),
		"index":      destIndex,
	})
	defer func() { uc.end(err) }()

	if !destLifeCycle.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidLifeCycle, destLifeCycle)
	}
	if destIndex < 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidOrderIndex, destIndex)
	}

	var (
		projectID string
		live      = map[string]bool{}
	)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx, s.identity)

		is, err := r.issues.GetByID(ctx, issueID)
		if err != nil {
			return err
		}
		if _, err := r.identity.ResolveCallerMember(ctx, callerUserID, is.ProjectID); err != nil {
			return err
		}
		if is.IsLinked() && is.LifeCycle != destLifeCycle {
			return fmt.Errorf("%w: issue %s", domain.ErrLinkedIssueImmutable, is.ID)
		}
		projectID = is.ProjectID

		all, err := r.issues.ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		for _, other := range all {
			live[other.ID] = true
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Ids of deleted issues are dropped first so destIndex counts only what
	// the board shows.
	if _, err = s.orders.Apply(ctx, projectID, s.seed(projectID), func(b *kanban.Board) error {
		if n := b.Retain(func(id string) bool { return live[id] }); n > 0 {
			s.logger.DebugContext(ctx, "dropped stale issue order entries", "project_id", projectID, "count", n)
		}
		return b.Move(issueID, destLifeCycle, destIndex)
	}); err != nil {
		return fmt.Errorf("saving issue order: %w", err)
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		issues := repository.NewSQLiteIssueRepo(tx)
		is, err := issues.GetByID(ctx, issueID)
		if err != nil {
			return err
		}
		if is.LifeCycle == destLifeCycle {
			return nil
		}
		if err := is.ChangeLifeCycle(destLifeCycle, time.Now().UTC()); err != nil {
			return err
		}
		return issues.Update(ctx, is)
	})
}

func (s *issueService) ListOrdered(ctx context.Context, callerUserID, projectID string) (contract.Board, error) {
	var (
		issues   []*domain.Issue
		members  []*domain.Member
		deployed = map[string]bool{}
	)
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx, s.identity)

		if _, err := r.identity.ResolveCallerMember(ctx, callerUserID, projectID); err != nil {
			return err
		}
		var err error
		if issues, err = r.issues.ListByProject(ctx, projectID); err != nil {
			return err
		}
		if members, err = r.members.ListByProject(ctx, projectID); err != nil {
			return err
		}
		releases, err := r.releases.ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		for _, rel := range releases {
			deployed[rel.ID] = rel.IsDeployed()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	board, err := s.orders.Load(ctx, projectID)
	if err != nil {
		return nil, err
	}

	byID := membersByID(members)
	out := make(contract.Board, len(domain.LifeCycles))
	for lc, column := range board.Arrange(issues) {
		views := make([]contract.IssueView, 0, len(column))
		for i, is := range column {
			v := issueView(is, byID, deployed)
			v.Index = i
			views = append(views, v)
		}
		out[lc] = views
	}
	return out, nil
}

// seed rebuilds the board from natural store order when none is stored.
func (s *issueService) seed(projectID string) repository.SeedFunc {
	return func(ctx context.Context) (*kanban.Board, error) {
		var issues []*domain.Issue
		err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			var err error
			issues, err = repository.NewSQLiteIssueRepo(tx).ListByProject(ctx, projectID)
			return err
		})
		if err != nil {
			return nil, err
		}
		return kanban.Seed(projectID, issues), nil
	}
}
