package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/cli/formatter"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects and their members",
	}

	cmd.AddCommand(
		newProjectCreateCmd(app),
		newProjectShowCmd(app),
		newProjectAddMemberCmd(app),
		newProjectRemoveMemberCmd(app),
		newProjectMembersCmd(app),
	)

	return cmd
}

func newProjectCreateCmd(app *App) *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project led by the acting user",
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := app.callerID()
			if err != nil {
				return err
			}
			p, err := app.Projects.Create(context.Background(), caller, name, description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s %s\n", formatter.Bold(p.Name), p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&description, "description", "", "Short description")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show PROJECT_ID",
		Short: "Show a project and its members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := app.callerID()
			if err != nil {
				return err
			}
			ctx := context.Background()
			p, err := app.Projects.GetByID(ctx, caller, args[0])
			if err != nil {
				return err
			}
			members, err := app.Projects.ListMembers(ctx, caller, p.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProject(p, members))
			return nil
		},
	}
}

func newProjectAddMemberCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add-member PROJECT_ID USER_ID",
		Short: "Seat a user in the project (leader only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := app.callerID()
			if err != nil {
				return err
			}
			m, err := app.Projects.AddMember(context.Background(), caller, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s as %s\n", formatter.Bold(m.UserID), m.Position)
			return nil
		},
	}
}

func newProjectRemoveMemberCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-member PROJECT_ID USER_ID",
		Short: "Remove a member from the project (leader only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := app.callerID()
			if err != nil {
				return err
			}
			if err := app.Projects.RemoveMember(context.Background(), caller, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[1])
			return nil
		},
	}
}

func newProjectMembersCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "members PROJECT_ID",
		Short: "List project members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := app.callerID()
			if err != nil {
				return err
			}
			members, err := app.Projects.ListMembers(context.Background(), caller, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMembers(members))
			return nil
		},
	}
}
