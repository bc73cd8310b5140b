package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/drapequote/internal/catalog"
	"github.com/roach88/drapequote/internal/config"
	"github.com/roach88/drapequote/internal/export"
)

// initView reports what init set up.
type initView struct {
	DataDir       string        `json:"data_dir"`
	ConfigPath    string        `json:"config_path"`
	Config        config.Config `json:"config"`
	PriceTable    string        `json:"price_table"`
	PriceTableNew bool          `json:"price_table_created"`
	Seeded        int           `json:"seeded_prices"`
}

func (v initView) RenderText(w io.Writer) error {
	fmt.Fprintf(w, "Data directory: %s\n", v.DataDir)
	fmt.Fprintf(w, "Config:         %s\n", v.ConfigPath)
	state := "kept"
	if v.PriceTableNew {
		state = "created"
	}
	fmt.Fprintf(w, "Price table:    %s (%s)\n", v.PriceTable, state)
	if v.Seeded > 0 {
		fmt.Fprintf(w, "Seeded %d sample prices\n", v.Seeded)
	}
	return nil
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	var force, samples bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up a data directory",
		Long: `Set up a data directory: write the default config, create empty
customer and price documents, and write a starter price table workbook.

An existing price table is kept unless --force is given. With
--sample-prices an empty price list is seeded with sample prices.

Example:
  drapequote init --data-dir ./data --sample-prices`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(rootOpts)
			if err != nil {
				return err
			}

			table, err := ws.priceTablePath()
			if err != nil {
				return err
			}
			view := initView{
				DataDir:    rootOpts.DataDir,
				ConfigPath: rootOpts.ConfigPath,
				Config:     ws.cfg,
				PriceTable: table,
			}

			_, statErr := os.Stat(view.PriceTable)
			if force || errors.Is(statErr, fs.ErrNotExist) {
				if err := export.CreatePriceTemplate(view.PriceTable); err != nil {
					return WrapExitError(ExitCommandError, "failed to write price table", err)
				}
				view.PriceTableNew = true
				slog.Info("price table written", "path", view.PriceTable)
			}

			if samples && len(ws.catalog.All()) == 0 {
				added, err := ws.catalog.Import(catalog.SampleSheet())
				if err != nil {
					return fail("failed to seed prices", err)
				}
				view.Seeded = len(added)
			}

			return rootOpts.formatter(cmd).Success(view)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing price table")
	cmd.Flags().BoolVar(&samples, "sample-prices", false, "seed an empty price list with sample prices")
	return cmd
}
