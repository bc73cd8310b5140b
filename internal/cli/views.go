package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/roach88/drapequote/internal/catalog"
	"github.com/roach88/drapequote/internal/directory"
	"github.com/roach88/drapequote/internal/ledger"
	"github.com/roach88/drapequote/internal/money"
	"github.com/roach88/drapequote/internal/pricing"
)

// Result types returned by commands. Each marshals as the JSON "data"
// payload and renders itself for text output.

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

type priceList []catalog.Record

func (l priceList) RenderText(w io.Writer) error {
	if len(l) == 0 {
		_, err := fmt.Fprintln(w, "No sewing prices.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tFABRIC\tMETHOD\tUNIT PRICE")
	for _, r := range l {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Fabric, r.Method, money.Format(r.UnitPrice))
	}
	return tw.Flush()
}

type priceView catalog.Record

func (p priceView) RenderText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s  %s / %s  %s\n", p.ID, p.Fabric, p.Method, money.Format(p.UnitPrice))
	return err
}

type lookupView struct {
	Fabric    string  `json:"fabric"`
	Method    string  `json:"method"`
	UnitPrice float64 `json:"unit_price"`
}

func (l lookupView) RenderText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s / %s: %s\n", l.Fabric, l.Method, money.Format(l.UnitPrice))
	return err
}

type nameList []string

func (l nameList) RenderText(w io.Writer) error {
	for _, n := range l {
		if _, err := fmt.Fprintln(w, n); err != nil {
			return err
		}
	}
	return nil
}

type deletedView struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

func (d deletedView) RenderText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Deleted %s %s\n", d.Kind, d.ID)
	return err
}

type customerList []directory.Customer

func (l customerList) RenderText(w io.Writer) error {
	if len(l) == 0 {
		_, err := fmt.Fprintln(w, "No customers.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tPHONE\tPROJECTS")
	for _, c := range l {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", c.ID, c.Name, c.Phone, len(c.Projects))
	}
	return tw.Flush()
}

type customerView directory.Customer

func (c customerView) RenderText(w io.Writer) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", c.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", c.Name)
	fmt.Fprintf(tw, "Phone:\t%s\n", c.Phone)
	fmt.Fprintf(tw, "Address:\t%s\n", c.Address)
	fmt.Fprintf(tw, "Template:\t%s\n", c.TemplatePath)
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(c.Projects) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	return projectList(c.Projects).RenderText(w)
}

type projectList []directory.Project

func (l projectList) RenderText(w io.Writer) error {
	if len(l) == 0 {
		_, err := fmt.Fprintln(w, "No projects.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "PROJECT ID\tNAME")
	for _, p := range l {
		fmt.Fprintf(tw, "%s\t%s\n", p.ID, p.Name)
	}
	return tw.Flush()
}

type projectView directory.Project

func (p projectView) RenderText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s  %s\n", p.ID, p.Name)
	return err
}

type sewingItemView pricing.SewingItem

func (s sewingItemView) RenderText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s / %s  %g×%g  %g × %s = %s\n",
		s.Fabric, s.Method, s.Width, s.Height, s.Pieces, money.Format(s.UnitPrice), money.Format(s.Subtotal))
	return err
}

type groupView pricing.ItemGroup

func (g groupView) RenderText(w io.Writer) error {
	fmt.Fprintf(w, "%s  ", g.ItemNumber)
	return sewingItemView(g.SewingItem).RenderText(w)
}

type subItemView pricing.SubItem

func (s subItemView) RenderText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s  %s  %g × %s = %s\n",
		s.ID, s.Description, s.Quantity, money.Format(s.UnitPrice), money.Format(s.Subtotal))
	return err
}

type quoteView struct {
	ProjectID    string              `json:"project_id"`
	ProjectName  string              `json:"project_name"`
	CustomerID   string              `json:"customer_id"`
	CustomerName string              `json:"customer_name"`
	Groups       []pricing.ItemGroup `json:"groups"`
	Summary      pricing.Summary     `json:"summary"`
}

func (q quoteView) RenderText(w io.Writer) error {
	fmt.Fprintf(w, "%s %s (%s)\n\n", q.CustomerName, q.ProjectName, q.ProjectID)
	if len(q.Groups) == 0 {
		fmt.Fprintln(w, "No items.")
	} else {
		tw := newTable(w)
		fmt.Fprintln(tw, "ITEM\tDESCRIPTION\tQTY\tUNIT PRICE\tSUBTOTAL")
		for _, g := range q.Groups {
			s := g.SewingItem
			fmt.Fprintf(tw, "%s\t%s / %s %g×%g\t%g\t%s\t%s\n", g.ItemNumber, s.Fabric, s.Method, s.Width, s.Height,
				s.Pieces, money.Format(s.UnitPrice), money.Format(s.Subtotal))
			for _, sub := range g.SubItems {
				fmt.Fprintf(tw, "  %s\t%s\t%g\t%s\t%s\n", sub.ID, sub.Description,
					sub.Quantity, money.Format(sub.UnitPrice), money.Format(sub.Subtotal))
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(w)
	tw := newTable(w)
	fmt.Fprintf(tw, "Subtotal:\t%s\n", money.Format(q.Summary.Subtotal))
	fmt.Fprintf(tw, "Tax (%s):\t%s\n", formatRate(q.Summary.TaxRate), money.Format(q.Summary.Tax))
	fmt.Fprintf(tw, "Total:\t%s\n", money.Format(q.Summary.Total))
	return tw.Flush()
}

func formatRate(r float64) string {
	s := fmt.Sprintf("%.2f", r*100)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return s + "%"
}

type exportView ledger.Entry

func (e exportView) RenderText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Exported %s (%d rows, total %s)\n", e.Path, e.ItemCount, money.Format(e.Total))
	return err
}

type exportList []ledger.Entry

func (l exportList) RenderText(w io.Writer) error {
	if len(l) == 0 {
		_, err := fmt.Fprintln(w, "No exports.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tEXPORTED AT\tTOTAL\tPATH")
	for _, e := range l {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.ID, e.ExportedAt.Local().Format("2006-01-02 15:04"), money.Format(e.Total), e.Path)
	}
	return tw.Flush()
}
