package formatter

import (
	"fmt"
	"strings"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/contract"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
)

// FormatReleaseList renders a project's releases as a table, in the order given.
func FormatReleaseList(releases []*domain.Release) string {
	if len(releases) == 0 {
		return Dim("No releases yet. Create one with: momentum release create <project-id> --bump MAJOR") + "\n"
	}

	rows := make([][]string, 0, len(releases))
	for _, r := range releases {
		deployed := Dim("-")
		if r.DeployDate != nil {
			deployed = RelativeDate(*r.DeployDate)
		}
		rows = append(rows, []string{
			Bold(r.Version),
			r.Title,
			DeployStatusPill(r.DeployStatus),
			deployed,
			Dim(r.ID),
		})
	}
	return RenderTable([]string{"VERSION", "TITLE", "STATUS", "DEPLOYED", "ID"}, rows)
}

// FormatRelease renders one release with its linked issues, approval ledger
// and opinions.
func FormatRelease(v *contract.ReleaseView) string {
	r := v.Release

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Dim("Status  "), DeployStatusPill(r.DeployStatus))
	if r.DeployDate != nil {
		fmt.Fprintf(&b, "%s  %s\n", Dim("Deployed"), r.DeployDate.Format("Jan 2, 2006 15:04"))
	}
	fmt.Fprintf(&b, "%s  (%g, %g)\n", Dim("Graph   "), r.X, r.Y)
	fmt.Fprintf(&b, "%s  %s", Dim("ID      "), r.ID)
	if r.Summary != "" {
		fmt.Fprintf(&b, "\n\n%s", r.Summary)
	}
	if r.Content != "" {
		fmt.Fprintf(&b, "\n\n%s", Dim(r.Content))
	}

	title := "v" + r.Version
	if r.Title != "" {
		title += "  " + r.Title
	}

	var out strings.Builder
	out.WriteString(RenderBox(title, b.String()))
	out.WriteString("\n\n")

	out.WriteString(Header(fmt.Sprintf("Issues (%d)", len(v.Issues))))
	out.WriteString("\n")
	if len(v.Issues) == 0 {
		out.WriteString(Dim("  none linked") + "\n")
	}
	for _, is := range v.Issues {
		fmt.Fprintf(&out, "  %s %s  %s\n", StyleGreen.Render("•"), is.Title, Dim(is.ID))
	}
	out.WriteString("\n")

	out.WriteString(FormatApprovals(v.Approvals))

	if len(v.Opinions) > 0 {
		out.WriteString("\n")
		out.WriteString(Header(fmt.Sprintf("Opinions (%d)", len(v.Opinions))))
		out.WriteString("\n")
		for _, o := range v.Opinions {
			fmt.Fprintf(&out, "  %s %s  %s\n", StylePurple.Render(o.UserID), o.Body, Dim(RelativeDate(o.CreatedAt)+" · "+o.ID))
		}
	}
	return out.String()
}

// FormatApprovals renders a release's approval ledger with a YES tally.
func FormatApprovals(approvals []contract.ApprovalView) string {
	var b strings.Builder
	b.WriteString(Header("Approvals"))
	b.WriteString("\n")
	if len(approvals) == 0 {
		b.WriteString(Dim("  no members") + "\n")
		return b.String()
	}

	yes := 0
	rows := make([][]string, 0, len(approvals))
	for _, a := range approvals {
		if a.Value == domain.ApprovalYes {
			yes++
		}
		user := a.UserID
		if a.Position == domain.PositionLeader {
			user += " " + StyleBlue.Render("(leader)")
		}
		rows = append(rows, []string{user, VoteMark(a.Value), Dim(RelativeDate(a.UpdatedAt))})
	}
	b.WriteString(RenderTable([]string{"MEMBER", "VOTE", "UPDATED"}, rows))

	tally := fmt.Sprintf("%d/%d approved", yes, len(approvals))
	if yes == len(approvals) {
		tally = StyleGreen.Render(tally)
	}
	b.WriteString(tally + "\n")
	return b.String()
}
