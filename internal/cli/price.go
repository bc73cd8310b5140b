package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/drapequote/internal/catalog"
	"github.com/roach88/drapequote/internal/errs"
)

// NewPriceCommand creates the price command group.
func NewPriceCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Maintain the sewing price list",
		Long: `Maintain the sewing price list: one unit price per fabric and
sewing method.

Examples:
  drapequote price add 國產遮光布 蛇行簾 450
  drapequote price lookup 國產遮光布 蛇行簾
  drapequote price import prices.yaml`,
	}

	cmd.AddCommand(newPriceAddCommand(rootOpts))
	cmd.AddCommand(newPriceUpdateCommand(rootOpts))
	cmd.AddCommand(newPriceDeleteCommand(rootOpts))
	cmd.AddCommand(newPriceListCommand(rootOpts))
	cmd.AddCommand(newPriceFabricsCommand(rootOpts))
	cmd.AddCommand(newPriceMethodsCommand(rootOpts))
	cmd.AddCommand(newPriceLookupCommand(rootOpts))
	cmd.AddCommand(newPriceImportCommand(rootOpts))
	return cmd
}

func newPriceAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <fabric> <method> <unit-price>",
		Short: "Add a sewing price",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			price, err := catalog.ParsePrice(args[2])
			if err != nil {
				return fail("invalid unit price", err)
			}
			rec, err := ws.catalog.Add(args[0], args[1], price)
			if err != nil {
				return fail("failed to add price", err)
			}
			return opts.formatter(cmd).Success(priceView(rec))
		},
	}
}

func newPriceUpdateCommand(opts *RootOptions) *cobra.Command {
	var fabric, method, price string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a sewing price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}

			var upd catalog.PriceUpdate
			if cmd.Flags().Changed("fabric") {
				upd.Fabric = &fabric
			}
			if cmd.Flags().Changed("method") {
				upd.Method = &method
			}
			if cmd.Flags().Changed("price") {
				v, err := catalog.ParsePrice(price)
				if err != nil {
					return fail("invalid unit price", err)
				}
				upd.UnitPrice = &v
			}

			rec, err := ws.catalog.Update(args[0], upd)
			if err != nil {
				return fail("failed to update price", err)
			}
			return opts.formatter(cmd).Success(priceView(rec))
		},
	}

	cmd.Flags().StringVar(&fabric, "fabric", "", "new fabric name")
	cmd.Flags().StringVar(&method, "method", "", "new sewing method")
	cmd.Flags().StringVar(&price, "price", "", "new unit price")
	return cmd
}

func newPriceDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a sewing price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			if err := ws.catalog.Delete(args[0]); err != nil {
				return fail("failed to delete price", err)
			}
			return opts.formatter(cmd).Success(deletedView{Kind: "price", ID: args[0]})
		},
	}
}

func newPriceListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sewing prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Success(priceList(ws.catalog.All()))
		},
	}
}

func newPriceFabricsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fabrics",
		Short: "List fabrics with a price",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Success(nameList(ws.catalog.Fabrics()))
		},
	}
}

func newPriceMethodsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "methods <fabric>",
		Short: "List sewing methods priced for a fabric",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Success(nameList(ws.catalog.Methods(args[0])))
		},
	}
}

func newPriceLookupCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <fabric> <method>",
		Short: "Show the unit price of a fabric and method",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			price, ok := ws.catalog.Price(args[0], args[1])
			if !ok {
				return fail("price lookup failed", errs.PriceNotFound(args[0], args[1]))
			}
			return opts.formatter(cmd).Success(lookupView{Fabric: args[0], Method: args[1], UnitPrice: price})
		},
	}
}

func newPriceImportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <sheet.yaml>",
		Short: "Add every price in a YAML price sheet",
		Long: `Add every price in a YAML price sheet.

The sheet lists entries under "prices":

  prices:
    - fabric: 國產遮光布
      method: 蛇行簾
      unit_price: 450

All rows are checked before any is added.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			sheet, err := catalog.LoadSheet(args[0])
			if err != nil {
				return fail("failed to load price sheet", err)
			}
			added, err := ws.catalog.Import(sheet)
			if err != nil {
				return fail("failed to import price sheet", err)
			}
			return opts.formatter(cmd).Success(priceList(added))
		},
	}
}
