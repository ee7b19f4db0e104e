// Package identity resolves a calling user to their seat in a project.
package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/db"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/repository"
)

// Provider maps a user id to the member record for one project. It returns
// domain.ErrMemberNotFound when the user has no seat there.
type Provider interface {
	ResolveCallerMember(ctx context.Context, userID, projectID string) (*domain.Member, error)
}

// Factory binds a Provider to a transaction so lookups see uncommitted writes.
type Factory func(tx db.DBTX) Provider

// SQLiteFactory resolves callers through the members table.
func SQLiteFactory(tx db.DBTX) Provider {
	return NewMemberProvider(repository.NewSQLiteMemberRepo(tx))
}

type MemberProvider struct {
	members repository.MemberRepo
}

func NewMemberProvider(members repository.MemberRepo) *MemberProvider {
	return &MemberProvider{members: members}
}

func (p *MemberProvider) ResolveCallerMember(ctx context.Context, userID, projectID string) (*domain.Member, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: no caller given", domain.ErrMemberNotFound)
	}
	m, err := p.members.GetByProjectAndUser(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ResolveLeader resolves the caller and requires them to lead the project.
func ResolveLeader(ctx context.Context, p Provider, userID, projectID string) (*domain.Member, error) {
	m, err := p.ResolveCallerMember(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if err := m.RequireLeader(); err != nil {
		return nil, err
	}
	return m, nil
}
