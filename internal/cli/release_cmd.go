package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/cli/formatter"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/contract"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
)

func newReleaseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "release",
		Aliases: []string{"rel"},
		Short:   "Plan, approve and deploy releases",
	}

	cmd.AddCommand(
		newReleaseCreateCmd(app),
		newReleaseUpdateCmd(app),
		newReleaseDeleteCmd(app),
		newReleaseListCmd(app),
		newReleaseShowCmd(app),
		newReleaseMoveCmd(app),
		newReleaseVoteCmd(app),
		newReleaseApprovalsCmd(app),
		newReleaseOpinionCmd(app),
	)

	return cmd
}

func newReleaseCreateCmd(app *App) *cobra.Command {
	var (
		title, content, summary string
		issueIDs                []string
		x, y                    float64
	)

	cmd := &cobra.Command{
		Use:   "create PROJECT_ID",
		Short: "Create the next release (leader only)",
		Long: `Create the next release of a project. The version is allocated from the
bump kind: MAJOR, MINOR or PATCH over the highest version that can take it.
Linked issues must be DONE and not already part of another release.`,
		Args: cobra.ExactArgs(1),
	}
	bump := versionBumpFlag(cmd.Flags(), "bump", "Version column to bump")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		caller, err := app.callerID()
		if err != nil {
			return err
		}
		req := contract.NewCreateReleaseRequest(title, string(bump.value))
		req.Content = content
		req.Summary = summary
		req.IssueIDs = issueIDs
		req.X, req.Y = x, y

		rel, err := app.Releases.Create(context.Background(), caller, args[0], req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created release %s %s\n", formatter.Bold("v"+rel.Version), rel.ID)
		return nil
	}

	cmd.Flags().StringVar(&title, "title", "", "Release title")
	cmd.Flags().StringVar(&content, "content", "", "Release notes body")
	cmd.Flags().StringVar(&summary, "summary", "", "One-line summary")
	cmd.Flags().StringSliceVar(&issueIDs, "issue", nil, "Issue id to link (repeatable)")
	cmd.Flags().Float64Var(&x, "x", 0, "Graph x coordinate")
	cmd.Flags().Float64Var(&y, "y", 0, "Graph y coordinate")
	_ = cmd.MarkFlagRequired("bump")

	return cmd
}

func newReleaseUpdateCmd(app *App) *cobra.Command {
	var (
		version, title, content, summary string
		issueIDs                         []string
		clearIssues                      bool
	)

	cmd := &cobra.Command{
		Use:   "update RELEASE_ID",
		Short: "Edit a release that is not yet deployed (leader only)",
		Long: `Edit a release. Only the flags given are changed. --issue replaces the
linked issue set; without it the current set is kept. --status DEPLOYED
requires every earlier release to be deployed already.`,
		Args: cobra.ExactArgs(1),
	}
	status := deployStatusFlag(cmd.Flags(), "status", "New deploy status")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		caller, err := app.callerID()
		if err != nil {
			return err
		}
		ctx := context.Background()
		fs := cmd.Flags()

		req := contract.UpdateReleaseRequest{
			Version: optionalString(fs, "version", version),
			Title:   optionalString(fs, "title", title),
			Content: optionalString(fs, "content", content),
			Summary: optionalString(fs, "summary", summary),
		}
		if status.set {
			s := status.value
			req.DeployStatus = &s
		}

		switch {
		case clearIssues:
			req.IssueIDs = []string{}
		case fs.Changed("issue"):
			req.IssueIDs = issueIDs
		default:
			current, err := app.Releases.Get(ctx, caller, args[0])
			if err != nil {
				return err
			}
			req.IssueIDs = make([]string, 0, len(current.Issues))
			for _, is := range current.Issues {
				req.IssueIDs = append(req.IssueIDs, is.ID)
			}
		}

		rel, err := app.Releases.Update(ctx, caller, args[0], req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated release %s %s\n", formatter.Bold("v"+rel.Version), formatter.DeployStatusPill(rel.DeployStatus))
		return nil
	}

	cmd.Flags().StringVar(&version, "version", "", "New version (MAJOR.MINOR.PATCH)")
	cmd.Flags().StringVar(&title, "title", "", "Release title")
	cmd.Flags().StringVar(&content, "content", "", "Release notes body")
	cmd.Flags().StringVar(&summary, "summary", "", "One-line summary")
	cmd.Flags().StringSliceVar(&issueIDs, "issue", nil, "Issue id to link, replacing the current set (repeatable)")
	cmd.Flags().BoolVar(&clearIssues, "clear-issues", false, "Unlink every issue")
	cmd.MarkFlagsMutuallyExclusive("issue", "clear-issues")

	return cmd
}

func newReleaseDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete RELEASE_ID",
		Short: "Delete a release that is not yet deployed (leader only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := app.callerID()
			if err != nil {
				return err
			}
			if err := app.Releases.Delete(context.Background(), caller, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted release %s\n", args[0])
			return nil
		},
	}
}

func newReleaseListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list PROJECT_ID",
		Aliases: []string{"ls"},
		Short:   "List a project's releases in version order",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := app.callerID()
			if err != nil {
				return err
			}
			releases, err := app.Releases.List(context.Background(), caller, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReleaseList(releases))
			return nil
		},
	}
}

func newReleaseShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show RELEASE_ID",
		Short: "Show a release with its issues, approvals and opinions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := app.callerID()
			if err != nil {
				return err
			}
			view, err := app.Releases.Get(context.Background(), caller, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRelease(view))
			return nil
		},
	}
}

func newReleaseMoveCmd(app *App) *cobra.Command {
	var x, y float64

	cmd := &cobra.Command{
		Use:   "move RELEASE_ID",
		Short: "Move a release on the version graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := app.callerID()
			if err != nil {
				return err
			}
			rel, err := app.Releases.MoveOnGraph(context.Background(), caller, args[0], x, y)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to (%g, %g)\n", formatter.Bold("v"+rel.Version), rel.X, rel.Y)
			return nil
		},
	}

	cmd.Flags().Float64Var(&x, "x", 0, "Graph x coordinate")
	cmd.Flags().Float64Var(&y, "y", 0, "Graph y coordinate")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")

	return cmd
}

func newReleaseVoteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "vote RELEASE_ID Y|N|P",
		Short: "Record the acting user's approval",
		Long: `Record a vote on a release. Y, N and P (or YES, NO, PENDING) are accepted.
When the leader votes YES and every member has approved, the release is deployed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := app.callerID()
			if err != nil {
				return err
			}
			ledger, err := app.Approvals.Vote(context.Background(), caller, args[0], domain.ApprovalValue(args[1]))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Vote recorded: %s\n\n", strings.ToUpper(args[1]))
			fmt.Fprint(out, formatter.FormatApprovals(ledger))
			return nil
		},
	}
}

func newReleaseApprovalsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "approvals RELEASE_ID",
		Short: "Show a release's approval ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := app.callerID()
			if err != nil {
				return err
			}
			ledger, err := app.Approvals.List(context.Background(), caller, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatApprovals(ledger))
			return nil
		},
	}
}

func newReleaseOpinionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "opinion",
		Short: "Comment on a release",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add RELEASE_ID TEXT...",
			Short: "Leave an opinion on a release",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				caller, err := app.callerID()
				if err != nil {
					return err
				}
				op, err := app.Releases.AddOpinion(context.Background(), caller, args[0], strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added opinion %s\n", op.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete OPINION_ID",
			Short: "Delete one of your own opinions",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				caller, err := app.callerID()
				if err != nil {
					return err
				}
				if err := app.Releases.DeleteOpinion(context.Background(), caller, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted opinion %s\n", args[0])
				return nil
			},
		},
	)

	return cmd
}
