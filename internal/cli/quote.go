package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/drapequote/internal/export"
	"github.com/roach88/drapequote/internal/ledger"
	"github.com/roach88/drapequote/internal/pricing"
	"github.com/roach88/drapequote/internal/quotebook"
)

// sewingFlags are the dimensions of a sewing item.
type sewingFlags struct {
	width, height, pieces float64
}

func (f *sewingFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", 0, "width in cm")
	cmd.Flags().Float64Var(&f.height, "height", 0, "height in cm")
	cmd.Flags().Float64Var(&f.pieces, "pieces", 1, "number of pieces (幅)")
}

func (f *sewingFlags) input(fabric, method string) pricing.SewingInput {
	return pricing.SewingInput{Fabric: fabric, Method: method, Width: f.width, Height: f.height, Pieces: f.pieces}
}

// NewQuoteCommand creates the quote command group.
func NewQuoteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Build and export a project's quote",
		Long: `Build a project's quote from sewing items and extra charges, and
export it to a spreadsheet. Every change is saved immediately.

Examples:
  drapequote quote add <project-id> 國產遮光布 蛇行簾 --item A1 --width 180 --height 240 --pieces 3
  drapequote quote sub <project-id> A1 軌道 --qty 2 --price 100
  drapequote quote show <project-id>
  drapequote quote export <project-id>`,
	}

	cmd.AddCommand(newQuoteShowCommand(rootOpts))
	cmd.AddCommand(newQuoteTrialCommand(rootOpts))
	cmd.AddCommand(newQuoteAddCommand(rootOpts))
	cmd.AddCommand(newQuoteSubCommand(rootOpts))
	cmd.AddCommand(newQuoteRemoveCommand(rootOpts))
	cmd.AddCommand(newQuoteRemoveSubCommand(rootOpts))
	cmd.AddCommand(newQuoteClearCommand(rootOpts))
	cmd.AddCommand(newQuoteExportCommand(rootOpts))
	cmd.AddCommand(newQuoteExportsCommand(rootOpts))
	return cmd
}

// withBook opens the workspace and the quote of projectID for fn.
func withBook(opts *RootOptions, projectID string, fn func(*quotebook.Book) error) error {
	ws, err := openWorkspace(opts)
	if err != nil {
		return err
	}
	book, _, _, err := ws.book(projectID)
	if err != nil {
		return err
	}
	return fn(book)
}

func newQuoteShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project's quote and totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			book, customer, project, err := ws.book(args[0])
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Success(quoteView{
				ProjectID:    book.ProjectID(),
				ProjectName:  project.Name,
				CustomerID:   customer.ID,
				CustomerName: customer.Name,
				Groups:       book.Groups(),
				Summary:      book.Summary(ws.cfg.TaxRate),
			})
		},
	}
}

func newQuoteTrialCommand(opts *RootOptions) *cobra.Command {
	var f sewingFlags

	cmd := &cobra.Command{
		Use:   "trial <fabric> <method>",
		Short: "Price a sewing item without adding it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			item, err := ws.calc.CreateSewingItem(f.input(args[0], args[1]))
			if err != nil {
				return fail("failed to price item", err)
			}
			return opts.formatter(cmd).Success(sewingItemView(item))
		},
	}
	f.register(cmd)
	return cmd
}

func newQuoteAddCommand(opts *RootOptions) *cobra.Command {
	var (
		f          sewingFlags
		itemNumber string
	)

	cmd := &cobra.Command{
		Use:   "add <project-id> <fabric> <method>",
		Short: "Add a sewing item to a quote",
		Long: `Price a sewing item and add it to the project's quote.

Without --item an item number of the form item-xxxxxx is generated.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBook(opts, args[0], func(book *quotebook.Book) error {
				g, err := book.AddGroup(itemNumber, f.input(args[1], args[2]))
				if err != nil {
					return fail("failed to add item", err)
				}
				return opts.formatter(cmd).Success(groupView(g))
			})
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&itemNumber, "item", "", "item number (generated when empty)")
	return cmd
}

func newQuoteSubCommand(opts *RootOptions) *cobra.Command {
	var qty, price, subtotal float64

	cmd := &cobra.Command{
		Use:   "sub <project-id> <item-number> <description>",
		Short: "Add an extra charge under an item",
		Long: `Add an extra charge (rail, installation, ...) under an item.

The subtotal is quantity × unit price unless --subtotal is given.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBook(opts, args[0], func(book *quotebook.Book) error {
				in := quotebook.SubItemInput{Description: args[2], Quantity: qty, UnitPrice: price}
				if cmd.Flags().Changed("subtotal") {
					in.Subtotal = &subtotal
				}
				sub, err := book.AddSubItem(args[1], in)
				if err != nil {
					return fail("failed to add extra charge", err)
				}
				return opts.formatter(cmd).Success(subItemView(sub))
			})
		},
	}
	cmd.Flags().Float64Var(&qty, "qty", 1, "quantity")
	cmd.Flags().Float64Var(&price, "price", 0, "unit price")
	cmd.Flags().Float64Var(&subtotal, "subtotal", 0, "subtotal overriding quantity × unit price")
	return cmd
}

func newQuoteRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <project-id> <item-number>",
		Short: "Remove an item and its extra charges",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBook(opts, args[0], func(book *quotebook.Book) error {
				if err := book.RemoveGroup(args[1]); err != nil {
					return fail("failed to remove item", err)
				}
				return opts.formatter(cmd).Success(deletedView{Kind: "item", ID: args[1]})
			})
		},
	}
}

func newQuoteRemoveSubCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-sub <project-id> <item-number> <sub-item-id>",
		Short: "Remove one extra charge",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBook(opts, args[0], func(book *quotebook.Book) error {
				if err := book.RemoveSubItem(args[1], args[2]); err != nil {
					return fail("failed to remove extra charge", err)
				}
				return opts.formatter(cmd).Success(deletedView{Kind: "sub-item", ID: args[2]})
			})
		},
	}
}

func newQuoteClearCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <project-id>",
		Short: "Remove every item from a quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBook(opts, args[0], func(book *quotebook.Book) error {
				if err := book.Clear(); err != nil {
					return fail("failed to clear quote", err)
				}
				return opts.formatter(cmd).Success(deletedView{Kind: "items of project", ID: args[0]})
			})
		},
	}
}

func newQuoteExportCommand(opts *RootOptions) *cobra.Command {
	var output, template string

	cmd := &cobra.Command{
		Use:   "export <project-id>",
		Short: "Export a quote to a spreadsheet",
		Long: `Write the project's quote into a copy of a spreadsheet template.

The template defaults to the customer's template. When it is missing or
not an .xlsx workbook, a default template is generated next to the
output. The export is recorded in the export ledger.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			projectID := args[0]
			book, customer, _, err := ws.book(projectID)
			if err != nil {
				return err
			}

			now := opts.now()
			summary := book.Summary(ws.cfg.TaxRate)
			payload := export.BuildPayload(ws.cfg, customer, book.Groups(), summary, now)

			tpl := template
			if tpl == "" {
				tpl = customer.TemplatePath
			}
			out := output
			if out == "" {
				out = filepath.Join(ws.exportDir(), fmt.Sprintf("quote_%s_%s.xlsx", projectID, now.Format("20060102_150405")))
			}

			if err := opts.exporter().Write(tpl, out, payload); err != nil {
				return fail("failed to export quote", err)
			}

			l, err := ws.openLedger()
			if err != nil {
				return err
			}
			defer closeLedger(l)

			entry := ledger.Entry{
				ProjectID:  book.ProjectID(),
				CustomerID: customer.ID,
				Path:       out,
				Template:   tpl,
				ItemCount:  len(payload.Items),
				Subtotal:   summary.Subtotal,
				Tax:        summary.Tax,
				Total:      summary.Total,
				ExportedAt: now,
			}
			entry.ID, err = l.Record(cmd.Context(), entry)
			if err != nil {
				return fail("failed to record export", err)
			}
			return opts.formatter(cmd).Success(exportView(entry))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <data-dir>/exports/quote_<project>_<time>.xlsx)")
	cmd.Flags().StringVar(&template, "template", "", "template workbook (default: the customer's template)")
	return cmd
}

func newQuoteExportsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "exports <project-id>",
		Short: "List past exports of a quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts)
			if err != nil {
				return err
			}
			l, err := ws.openLedger()
			if err != nil {
				return err
			}
			defer closeLedger(l)

			entries, err := l.List(cmd.Context(), args[0])
			if err != nil {
				return fail("failed to list exports", err)
			}
			return opts.formatter(cmd).Success(exportList(entries))
		},
	}
}
