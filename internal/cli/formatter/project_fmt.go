package formatter

import (
	"strings"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
)

// FormatMembers renders a project's roster, leader first.
func FormatMembers(members []*domain.Member) string {
	if len(members) == 0 {
		return Dim("No members.") + "\n"
	}

	rows := make([][]string, 0, len(members))
	for _, m := range members {
		if m.IsLeader() {
			rows = append(rows, []string{Bold(m.UserID), StyleBlue.Render(string(m.Position)), RelativeDate(m.CreatedAt), TruncID(m.ID)})
		}
	}
	for _, m := range members {
		if !m.IsLeader() {
			rows = append(rows, []string{m.UserID, Dim(string(m.Position)), RelativeDate(m.CreatedAt), TruncID(m.ID)})
		}
	}
	return RenderTable([]string{"USER", "POSITION", "JOINED", "MEMBER ID"}, rows)
}

// FormatProject renders a project header box with its roster underneath.
func FormatProject(p *domain.Project, members []*domain.Member) string {
	var body strings.Builder
	body.WriteString(Dim("ID  ") + p.ID)
	if p.Description != "" {
		body.WriteString("\n\n" + p.Description)
	}
	return RenderBox(p.Name, body.String()) + "\n\n" + Header("Members") + "\n" + FormatMembers(members)
}
