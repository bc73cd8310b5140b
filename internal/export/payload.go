// Package export turns a priced quote into a spreadsheet.
//
// The quote is first flattened into a Payload, the layout-free contract
// between the quoting core and a Writer. ExcelWriter places the payload at
// fixed cells of an .xlsx template.
package export

import (
	"fmt"
	"time"

	"github.com/roach88/drapequote/internal/config"
	"github.com/roach88/drapequote/internal/directory"
	"github.com/roach88/drapequote/internal/pricing"
)

// Units printed next to row quantities.
const (
	UnitPiece = "幅"
	UnitLot   = "式"
)

// DateLayout formats Row.Date.
const DateLayout = "2006-01-02"

// Company is the quoting business.
type Company struct {
	Name    string `json:"company_name"`
	Phone   string `json:"company_phone"`
	Address string `json:"company_address"`
}

// Customer is the quoted party.
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Row is one printed quote line.
type Row struct {
	Item      string  `json:"item"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
	Date      string  `json:"date,omitempty"`
}

// Payload is everything a Writer needs to print a quote.
type Payload struct {
	Company  Company  `json:"company"`
	Customer Customer `json:"customer"`
	Items    []Row    `json:"items"`
	Subtotal float64  `json:"subtotal"`
	Total    float64  `json:"total"`
}

// BuildPayload flattens groups into rows: each sewing item followed by its
// sub-items. The date, when non-zero, is printed on sewing item rows.
func BuildPayload(cfg config.Config, customer directory.Customer, groups []pricing.ItemGroup, summary pricing.Summary, date time.Time) Payload {
	p := Payload{
		Company: Company{
			Name:    cfg.CompanyName,
			Phone:   cfg.CompanyPhone,
			Address: cfg.CompanyAddress,
		},
		Customer: Customer{
			Name:    customer.Name,
			Phone:   customer.Phone,
			Address: customer.Address,
		},
		Items:    []Row{},
		Subtotal: summary.Subtotal,
		Total:    summary.Total,
	}

	var stamp string
	if !date.IsZero() {
		stamp = date.Format(DateLayout)
	}

	for _, g := range groups {
		s := g.SewingItem
		p.Items = append(p.Items, Row{
			Item:      fmt.Sprintf("%s %s %s %g×%g", g.ItemNumber, s.Fabric, s.Method, s.Width, s.Height),
			Quantity:  s.Pieces,
			Unit:      UnitPiece,
			UnitPrice: s.UnitPrice,
			Subtotal:  s.Subtotal,
			Date:      stamp,
		})
		for _, sub := range g.SubItems {
			p.Items = append(p.Items, Row{
				Item:      "└ " + sub.Description,
				Quantity:  sub.Quantity,
				Unit:      UnitLot,
				UnitPrice: sub.UnitPrice,
				Subtotal:  sub.Subtotal,
			})
		}
	}
	return p
}
