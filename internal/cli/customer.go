package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/drapequote/internal/directory"
	"github.com/roach88/drapequote/internal/errs"
)

// customerFlags are the editable customer fields.
type customerFlags struct {
	name, phone, address, template string
}

func (f *customerFlags) register(cmd *cobra.Command, withName bool) {
	if withName {
		cmd.Flags().StringVar(&f.name, "name", "", "customer name")
	}
	cmd.Flags().StringVar(&f.phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&f.address, "address", "", "address")
	cmd.Flags().StringVar(&f.template, "template", "", "quote template (.xlsx) used for this customer")
}

// NewCustomerCommand creates the customer command group.
func NewCustomerCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Maintain customers",
		Long: `Maintain customers and their contact details.

Examples:
  drapequote customer add 王小明 --phone 0912-345-678
  drapequote customer show <id>`,
	}

	cmd.AddCommand(newCustomerAddCommand(rootOpts))
	cmd.AddCommand(newCustomerUpdateCommand(rootOpts))
	cmd.AddCommand(newCustomerDeleteCommand(rootOpts))
	cmd.AddCommand(newCustomerListCommand(rootOpts))
	cmd.AddCommand(newCustomerShowCommand(rootOpts))
	return cmd
}

func newCustomerAddCommand(opts *RootOptions) *cobra.Command {
	var f customerFlags

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			c, err := ws.directory.Add(directory.CustomerInput{
				Name:         args[0],
				Phone:        f.phone,
				Address:      f.address,
				TemplatePath: f.template,
			})
			if err != nil {
				return fail("failed to add customer", err)
			}
			return opts.formatter(cmd).Success(customerView(c))
		},
	}
	f.register(cmd, false)
	return cmd
}

func newCustomerUpdateCommand(opts *RootOptions) *cobra.Command {
	var f customerFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}

			var upd directory.CustomerUpdate
			if cmd.Flags().Changed("name") {
				upd.Name = &f.name
			}
			if cmd.Flags().Changed("phone") {
				upd.Phone = &f.phone
			}
			if cmd.Flags().Changed("address") {
				upd.Address = &f.address
			}
			if cmd.Flags().Changed("template") {
				upd.TemplatePath = &f.template
			}

			c, err := ws.directory.Update(args[0], upd)
			if err != nil {
				return fail("failed to update customer", err)
			}
			return opts.formatter(cmd).Success(customerView(c))
		},
	}
	f.register(cmd, true)
	return cmd
}

func newCustomerDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a customer and its projects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			if err := ws.directory.Delete(args[0]); err != nil {
				return fail("failed to delete customer", err)
			}
			return opts.formatter(cmd).Success(deletedView{Kind: "customer", ID: args[0]})
		},
	}
}

func newCustomerListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List customers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Success(customerList(ws.directory.All()))
		},
	}
}

func newCustomerShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a customer and its projects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			c, ok := ws.directory.Get(args[0])
			if !ok {
				return fail("unknown customer", errs.NotFound("customer", args[0]))
			}
			return opts.formatter(cmd).Success(customerView(c))
		},
	}
}
