package domain

import (
	"fmt"
	"strings"
	"time"
)

type Project struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the fields a caller controls.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("project name is required")
	}
	return nil
}

// Member is a user's seat in one project.
type Member struct {
	ID        string
	ProjectID string
	UserID    string
	Position  Position
	CreatedAt time.Time
}

func (m *Member) IsLeader() bool {
	return m.Position == PositionLeader
}

// RequireLeader returns ErrNotProjectLeader unless m leads the project.
func (m *Member) RequireLeader() error {
	if !m.IsLeader() {
		return fmt.Errorf("%w: member %s is %s", ErrNotProjectLeader, m.ID, m.Position)
	}
	return nil
}

// FindLeader returns the single LEADER among members, or nil.
func FindLeader(members []*Member) *Member {
	for _, m := range members {
		if m.IsLeader() {
			return m
		}
	}
	return nil
}
