package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// DeployStatusStyle returns the style a release in status s is drawn with.
func DeployStatusStyle(s domain.DeployStatus) lipgloss.Style {
	switch s {
	case domain.DeployDeployed:
		return StyleGreen
	case domain.DeployDenied:
		return StyleRed
	case domain.DeployPlanning:
		return StyleYellow
	default:
		return StyleDim
	}
}

// DeployStatusPill returns a colored indicator such as "● DEPLOYED".
func DeployStatusPill(s domain.DeployStatus) string {
	if s == "" {
		return StyleDim.Render("● UNKNOWN")
	}
	return DeployStatusStyle(s).Render("● " + string(s))
}

// VoteMark renders an approval value as a single colored glyph plus its name.
func VoteMark(v domain.ApprovalValue) string {
	switch v {
	case domain.ApprovalYes:
		return StyleGreen.Render("✔ YES")
	case domain.ApprovalNo:
		return StyleRed.Render("✘ NO")
	default:
		return StyleDim.Render("… PENDING")
	}
}

// LifeCycleLabel is the column title for lc.
func LifeCycleLabel(lc domain.LifeCycle) string {
	switch lc {
	case domain.LifeCycleNotStarted:
		return "Not started"
	case domain.LifeCycleInProgress:
		return "In progress"
	case domain.LifeCycleDone:
		return "Done"
	}
	return string(lc)
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
