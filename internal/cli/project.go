package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/drapequote/internal/errs"
)

// NewProjectCommand creates the project command group.
func NewProjectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Maintain a customer's projects",
		Long: `Maintain the projects of a customer. Each project has its own quote.

Examples:
  drapequote project add <customer-id> 客廳
  drapequote project list <customer-id>`,
	}

	cmd.AddCommand(newProjectAddCommand(rootOpts))
	cmd.AddCommand(newProjectRenameCommand(rootOpts))
	cmd.AddCommand(newProjectDeleteCommand(rootOpts))
	cmd.AddCommand(newProjectListCommand(rootOpts))
	return cmd
}

func newProjectAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <customer-id> <name>",
		Short: "Add a project to a customer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			p, err := ws.directory.AddProject(args[0], args[1])
			if err != nil {
				return fail("failed to add project", err)
			}
			if p == nil {
				return fail("failed to add project", errs.NotFound("customer", args[0]))
			}
			return opts.formatter(cmd).Success(projectView(*p))
		},
	}
}

func newProjectRenameCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <customer-id> <project-id> <name>",
		Short: "Rename a project",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			p, err := ws.directory.UpdateProject(args[0], args[1], args[2])
			if err != nil {
				return fail("failed to rename project", err)
			}
			if p == nil {
				return fail("failed to rename project", errs.NotFound("project", args[1]))
			}
			return opts.formatter(cmd).Success(projectView(*p))
		},
	}
}

func newProjectDeleteCommand(opts *RootOptions) *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:   "delete <customer-id> <project-id>",
		Short: "Delete a project",
		Long: `Delete a project from a customer.

The project's quote file and export records are kept unless
--purge-history is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			customerID, projectID := args[0], args[1]

			removed, err := ws.directory.DeleteProject(customerID, projectID)
			if err != nil {
				return fail("failed to delete project", err)
			}
			if !removed {
				return fail("failed to delete project", errs.NotFound("project", projectID))
			}

			if purge {
				ws.history.DeleteProjectFile(projectID)

				l, err := ws.openLedger()
				if err != nil {
					return err
				}
				defer closeLedger(l)
				if _, err := l.DeleteProject(cmd.Context(), projectID); err != nil {
					return fail("failed to delete export records", err)
				}
			}
			return opts.formatter(cmd).Success(deletedView{Kind: "project", ID: projectID})
		},
	}

	cmd.Flags().BoolVar(&purge, "purge-history", false, "also delete the project's quote and export records")
	return cmd
}

func newProjectListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <customer-id>",
		Short: "List a customer's projects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			if _, ok := ws.directory.Get(args[0]); !ok {
				return fail("unknown customer", errs.NotFound("customer", args[0]))
			}
			return opts.formatter(cmd).Success(projectList(ws.directory.Projects(args[0])))
		},
	}
}
