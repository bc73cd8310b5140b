package export

import (
	"archive/zip"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultTemplateName is the generated template used when a customer's own
// template cannot be opened. It is written next to the output file.
const DefaultTemplateName = "default_quote_template.xlsx"

// PriceSheetName names the sheet of the starter price table.
const PriceSheetName = "價格表"

// Cell anchors of the quote layout.
const (
	firstItemRow = 7
	subtotalCell = "E20"
	totalCell    = "E21"
)

// Writer writes a payload into a spreadsheet built from a template.
type Writer interface {
	Write(templatePath, outputPath string, p Payload) error
}

// ExcelWriter writes .xlsx files.
type ExcelWriter struct{}

var _ Writer = ExcelWriter{}

// Write opens templatePath, fills in p and saves the result to outputPath.
//
// A template that is missing, lacks the .xlsx extension, or is not a zip
// archive is replaced by a freshly generated DefaultTemplateName in the
// output directory.
func (ExcelWriter) Write(templatePath, outputPath string, p Payload) error {
	use := templatePath
	if !usableTemplate(templatePath) {
		use = filepath.Join(filepath.Dir(outputPath), DefaultTemplateName)
		if err := CreatePriceTemplate(use); err != nil {
			return fmt.Errorf("create default template: %w", err)
		}
		slog.Info("template unusable, using default", "template", templatePath, "default", use)
	}

	f, err := excelize.OpenFile(use)
	if err != nil {
		slog.Warn("template could not be opened, starting blank", "template", use, "error", err)
		f = excelize.NewFile()
	}
	defer f.Close()

	w := &cellWriter{f: f, sheet: f.GetSheetName(f.GetActiveSheetIndex())}

	w.set("B2", p.Company.Name)
	w.set("B3", p.Company.Phone)
	w.set("B4", p.Company.Address)

	w.set("D2", p.Customer.Name)
	w.set("D3", p.Customer.Phone)
	w.set("D4", p.Customer.Address)

	for i, row := range p.Items {
		r := firstItemRow + i
		w.setAt(1, r, row.Item)
		w.setAt(2, r, row.Quantity)
		w.setAt(3, r, row.Unit)
		w.setAt(4, r, row.UnitPrice)
		w.setAt(5, r, row.Subtotal)
		if row.Date != "" {
			w.setAt(6, r, row.Date)
		}
	}

	w.set(subtotalCell, p.Subtotal)
	w.set(totalCell, p.Total)
	if w.err != nil {
		return fmt.Errorf("fill quote: %w", w.err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("save %s: %w", outputPath, err)
	}
	slog.Debug("quote exported", "path", outputPath, "rows", len(p.Items))
	return nil
}

func usableTemplate(path string) bool {
	if path == "" || !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return false
	}
	r, err := zip.OpenReader(path)
	if err != nil {
		return false
	}
	r.Close()
	return true
}

// cellWriter keeps the first error so a run of writes can be checked once.
type cellWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *cellWriter) set(cell string, v any) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetCellValue(w.sheet, cell, v)
}

func (w *cellWriter) setAt(col, row int, v any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	w.set(cell, v)
}

// CreatePriceTemplate writes a starter price table with a bold header row
// and two sample rows.
func CreatePriceTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create template directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", PriceSheetName); err != nil {
		return err
	}
	w := &cellWriter{f: f, sheet: PriceSheetName}

	headers := []any{"窗簾類型", "材質", "單價", "單位", "最低數量"}
	samples := [][]any{
		{"蛇行布簾", "國產遮光布", 450, "尺", 8},
		{"捲簾", "遮光布", 250, "才", 15},
	}
	for c, h := range headers {
		w.setAt(c+1, 1, h)
	}
	for r, row := range samples {
		for c, v := range row {
			w.setAt(c+1, r+2, v)
		}
	}
	if w.err != nil {
		return w.err
	}

	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(PriceSheetName, "A1", "E1", style); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
