// Package pricing turns catalog prices into quote line items.
//
// A SewingItem is a snapshot: its unit price and subtotal are fixed when it
// is created, so later catalog edits never change a saved quote.
package pricing

import (
	"encoding/json"

	"github.com/roach88/drapequote/internal/errs"
	"github.com/roach88/drapequote/internal/money"
)

// SewingItem is a priced sewing line.
type SewingItem struct {
	Fabric    string  `json:"fabric"`
	Method    string  `json:"method"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Pieces    float64 `json:"pieces"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// SubItem is an extra charge or note attached to an item group.
//
// Subtotal is supplied by the caller and is not recomputed from
// Quantity × UnitPrice; it may deliberately differ (e.g. a manual discount).
type SubItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
}

// UnmarshalJSON applies the defaults for fields absent from older
// documents: quantity 1, unit price 0, subtotal 0.
func (s *SubItem) UnmarshalJSON(data []byte) error {
	type plain SubItem
	v := plain{Quantity: 1}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = SubItem(v)
	return nil
}

// NewSubItem builds a sub-item whose subtotal is quantity × unit price.
func NewSubItem(id, description string, quantity, unitPrice float64) SubItem {
	return SubItem{
		ID:          id,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Subtotal:    money.Mul(quantity, unitPrice),
	}
}

// ItemGroup is one quoted line: a sewing item plus its sub-items.
type ItemGroup struct {
	ItemNumber string     `json:"item_number"`
	SewingItem SewingItem `json:"sewing_item"`
	SubItems   []SubItem  `json:"sub_items"`
}

// Total is the sewing subtotal plus every sub-item subtotal.
func (g ItemGroup) Total() float64 {
	vs := make([]float64, 0, len(g.SubItems)+1)
	vs = append(vs, g.SewingItem.Subtotal)
	for _, s := range g.SubItems {
		vs = append(vs, s.Subtotal)
	}
	return money.Sum(vs...)
}

// PriceSource looks up a unit price by fabric and method.
// ok is false when no entry matches.
type PriceSource interface {
	Price(fabric, method string) (price float64, ok bool)
}

// SewingInput describes the item to price.
type SewingInput struct {
	Fabric string
	Method string
	Width  float64
	Height float64
	Pieces float64
}

// Calculator prices sewing items against a PriceSource.
type Calculator struct {
	prices PriceSource
}

// NewCalculator returns a Calculator reading prices from src.
func NewCalculator(src PriceSource) *Calculator {
	return &Calculator{prices: src}
}

// CreateSewingItem prices in.
//
// The subtotal is pieces × unit price rounded to the nearest whole unit,
// ties to even. A fabric/method pair with no catalog entry fails with an
// errs.CodePriceNotFound error; a catalog price of zero prices at zero.
func (c *Calculator) CreateSewingItem(in SewingInput) (SewingItem, error) {
	if in.Pieces < 0 || in.Width < 0 || in.Height < 0 {
		return SewingItem{}, errs.Validation("width, height and pieces must not be negative")
	}
	unitPrice, ok := c.prices.Price(in.Fabric, in.Method)
	if !ok {
		return SewingItem{}, errs.PriceNotFound(in.Fabric, in.Method)
	}
	return SewingItem{
		Fabric:    in.Fabric,
		Method:    in.Method,
		Width:     in.Width,
		Height:    in.Height,
		Pieces:    in.Pieces,
		UnitPrice: unitPrice,
		Subtotal:  money.RoundWhole(money.Mul(in.Pieces, unitPrice)),
	}, nil
}

// Summary totals a quote.
type Summary struct {
	Groups   int     `json:"groups"`
	Subtotal float64 `json:"subtotal"`
	TaxRate  float64 `json:"tax_rate"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Summarize adds up the group totals and applies taxRate, rounding the tax
// to a whole unit.
func Summarize(groups []ItemGroup, taxRate float64) Summary {
	totals := make([]float64, len(groups))
	for i, g := range groups {
		totals[i] = g.Total()
	}
	subtotal := money.Sum(totals...)
	tax := money.RoundWhole(money.Mul(subtotal, taxRate))
	return Summary{
		Groups:   len(groups),
		Subtotal: subtotal,
		TaxRate:  taxRate,
		Tax:      tax,
		Total:    money.Sum(subtotal, tax),
	}
}
