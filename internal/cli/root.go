package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/service"
)

// EnvUser names the acting user when --as is not given.
const EnvUser = "MOMENTUM_USER"

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects  service.ProjectService
	Releases  service.ReleaseService
	Approvals service.ApprovalService
	Issues    service.IssueService

	// UserID is the fallback caller when neither --as nor $MOMENTUM_USER is set.
	UserID string

	caller string
}

// NewRootCmd creates the top-level "momentum" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var as string

	root := &cobra.Command{
		Use:           "momentum",
		Short:         "Release planning, approvals and issue board for a team",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.caller = firstNonEmpty(as, os.Getenv(EnvUser), app.UserID)
		},
	}

	root.PersistentFlags().StringVar(&as, "as", "", "Acting user id (default $"+EnvUser+")")
	// Read by main before the command tree is built; declared here so cobra accepts it.
	root.PersistentFlags().String("config", "", "Path to momentum.yaml")

	root.AddCommand(
		newProjectCmd(app),
		newReleaseCmd(app),
		newIssueCmd(app),
	)

	return root
}

// callerID returns the acting user or an error telling how to set one.
func (a *App) callerID() (string, error) {
	if a.caller == "" {
		return "", fmt.Errorf("no acting user: pass --as <user-id> or set %s", EnvUser)
	}
	return a.caller, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
