package cli

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/drapequote/internal/catalog"
	"github.com/roach88/drapequote/internal/config"
	"github.com/roach88/drapequote/internal/directory"
	"github.com/roach88/drapequote/internal/errs"
	"github.com/roach88/drapequote/internal/history"
	"github.com/roach88/drapequote/internal/ledger"
	"github.com/roach88/drapequote/internal/pricing"
	"github.com/roach88/drapequote/internal/quotebook"
)

// workspace is the set of stores in one data directory.
type workspace struct {
	opts      *RootOptions
	cfg       config.Config
	catalog   *catalog.Catalog
	directory *directory.Directory
	history   *history.Store
	calc      *pricing.Calculator
}

// openWorkspace loads the config and opens the catalog and directory,
// creating any missing documents.
func openWorkspace(opts *RootOptions) (*workspace, error) {
	if err := os.MkdirAll(opts.DataDir, 0o755); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to create data directory", err)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fail("failed to load config", err)
	}

	gen := opts.generator()
	cat, err := catalog.Open(filepath.Join(opts.DataDir, catalog.FileName), gen)
	if err != nil {
		return nil, fail("failed to open price catalog", err)
	}
	dir, err := directory.Open(filepath.Join(opts.DataDir, directory.FileName), gen)
	if err != nil {
		return nil, fail("failed to open customer directory", err)
	}
	slog.Debug("workspace opened", "data_dir", opts.DataDir, "prices", len(cat.All()), "customers", len(dir.All()))

	return &workspace{
		opts:      opts,
		cfg:       cfg,
		catalog:   cat,
		directory: dir,
		history:   history.New(opts.DataDir),
		calc:      pricing.NewCalculator(cat),
	}, nil
}

// book opens the quote of projectID along with the owning customer.
func (w *workspace) book(projectID string) (*quotebook.Book, directory.Customer, directory.Project, error) {
	customer, project, ok := w.directory.FindProject(projectID)
	if !ok {
		return nil, directory.Customer{}, directory.Project{}, fail("unknown project", errs.NotFound("project", projectID))
	}
	book, err := quotebook.Open(w.history, w.calc, w.opts.generator(), projectID)
	if err != nil {
		return nil, directory.Customer{}, directory.Project{}, fail("failed to open quote", err)
	}
	return book, customer, project, nil
}

func (w *workspace) openLedger() (*ledger.Ledger, error) {
	var opts []ledger.Option
	if w.opts.Clock != nil {
		opts = append(opts, ledger.WithClock(w.opts.Clock))
	}
	l, err := ledger.Open(filepath.Join(w.opts.DataDir, ledger.FileName), opts...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open export ledger", err)
	}
	return l, nil
}

func closeLedger(l *ledger.Ledger) {
	if err := l.Close(); err != nil {
		slog.Error("error closing export ledger", "error", err)
	}
}

func (w *workspace) exportDir() string {
	return filepath.Join(w.opts.DataDir, "exports")
}

// priceTablePath resolves price_table_path. A relative path is taken
// inside the data directory, with a leading "data/" dropped so the
// default setting lands in the data directory itself.
func (w *workspace) priceTablePath() (string, error) {
	p := w.cfg.PriceTablePath
	if p == "" {
		p = config.Defaults().PriceTablePath
	}
	if filepath.IsAbs(p) {
		return p, nil
	}
	rel := filepath.Clean(p)
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fail("invalid config", errs.Validation("price_table_path %q leaves the data directory", p))
	}
	rel = strings.TrimPrefix(rel, "data"+string(filepath.Separator))
	return filepath.Join(w.opts.DataDir, rel), nil
}
