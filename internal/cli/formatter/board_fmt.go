package formatter

import (
	"fmt"
	"strings"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/contract"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
)

// FormatBoard renders the kanban columns top to bottom in lifecycle order.
// Each issue is prefixed with its index, which is what "issue move" takes.
func FormatBoard(board contract.Board) string {
	var b strings.Builder
	for i, lc := range domain.LifeCycles {
		if i > 0 {
			b.WriteString("\n")
		}
		col := board[lc]
		b.WriteString(Header(fmt.Sprintf("%s (%d)", LifeCycleLabel(lc), len(col))))
		b.WriteString("\n")
		if len(col) == 0 {
			b.WriteString(Dim("  empty") + "\n")
			continue
		}
		for _, is := range col {
			b.WriteString(formatBoardIssue(is))
		}
	}
	return b.String()
}

func formatBoardIssue(is contract.IssueView) string {
	var tags []string
	if is.AssigneeUserID != "" {
		tags = append(tags, StyleBlue.Render("@"+is.AssigneeUserID))
	}
	switch {
	case is.Deployed:
		tags = append(tags, StyleGreen.Render("deployed"))
	case is.ReleaseID != "":
		tags = append(tags, StyleYellow.Render("linked"))
	}

	line := fmt.Sprintf("  %s  %s", Dim(fmt.Sprintf("%2d", is.Index)), is.Title)
	if len(tags) > 0 {
		line += "  " + strings.Join(tags, " ")
	}
	return line + "  " + Dim(is.ID) + "\n"
}
