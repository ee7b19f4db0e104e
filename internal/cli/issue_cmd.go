package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/cli/formatter"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/contract"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
)

func newIssueCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Track issues on the project board",
	}

	cmd.AddCommand(
		newIssueCreateCmd(app),
		newIssueUpdateCmd(app),
		newIssueDeleteCmd(app),
		newIssueMoveCmd(app),
		newIssueBoardCmd(app),
	)

	return cmd
}

func newIssueCreateCmd(app *App) *cobra.Command {
	var title, content, assignee string

	cmd := &cobra.Command{
		Use:   "create PROJECT_ID",
		Short: "Create an issue at the top of its column",
		Args:  cobra.ExactArgs(1),
	}
	lc := lifeCycleFlag(cmd.Flags(), "lifecycle", domain.LifeCycleNotStarted, "Starting column")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		caller, err := app.callerID()
		if err != nil {
			return err
		}
		req := contract.NewCreateIssueRequest(title)
		req.Content = content
		req.AssigneeUserID = assignee
		req.LifeCycle = lc.value

		is, err := app.Issues.Create(context.Background(), caller, args[0], req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created issue %s %s\n", formatter.Bold(is.Title), is.ID)
		return nil
	}

	cmd.Flags().StringVar(&title, "title", "", "Issue title")
	cmd.Flags().StringVar(&content, "content", "", "Issue description")
	cmd.Flags().StringVar(&assignee, "assignee", "", "User id of the assigned member")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newIssueUpdateCmd(app *App) *cobra.Command {
	var title, content, assignee string

	cmd := &cobra.Command{
		Use:   "update ISSUE_ID",
		Short: "Edit an issue's title, description or assignee",
		Long: `Edit an issue. Only the flags given are changed; --assignee "" clears the
assignee. Issues that belong to a release cannot be edited.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := app.callerID()
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			req := contract.UpdateIssueRequest{
				Title:          optionalString(fs, "title", title),
				Content:        optionalString(fs, "content", content),
				AssigneeUserID: optionalString(fs, "assignee", assignee),
			}
			is, err := app.Issues.Update(context.Background(), caller, args[0], req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated issue %s\n", formatter.Bold(is.Title))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Issue title")
	cmd.Flags().StringVar(&content, "content", "", "Issue description")
	cmd.Flags().StringVar(&assignee, "assignee", "", "User id of the assigned member")

	return cmd
}

func newIssueDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ISSUE_ID",
		Short: "Delete an issue that is not part of a release",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := app.callerID()
			if err != nil {
				return err
			}
			if err := app.Issues.Delete(context.Background(), caller, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted issue %s\n", args[0])
			return nil
		},
	}
}

func newIssueMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move ISSUE_ID LIFECYCLE INDEX",
		Short: "Move an issue to a position on the board",
		Long: `Move an issue to INDEX (zero-based) within the LIFECYCLE column, shifting
the others down. LIFECYCLE is NOT_STARTED, IN_PROGRESS or DONE.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			lc, err := domain.ParseLifeCycle(args[1])
			if err != nil {
				return err
			}
			index, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[2], err)
			}
			caller, err := app.callerID()
			if err != nil {
				return err
			}
			if err := app.Issues.Reorder(context.Background(), caller, args[0], lc, index); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved issue to %s #%d\n", formatter.LifeCycleLabel(lc), index)
			return nil
		},
	}
}

func newIssueBoardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "board PROJECT_ID",
		Short: "Show the project's issues grouped by lifecycle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := app.callerID()
			if err != nil {
				return err
			}
			board, err := app.Issues.ListOrdered(context.Background(), caller, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBoard(board))
			return nil
		},
	}
}
