package catalog

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/drapequote/internal/errs"
)

// Sheet is a price list kept outside the catalog, typically a YAML file
// maintained by hand or handed over by a supplier:
//
//	prices:
//	  - fabric: 國產遮光布
//	    method: 蛇行簾
//	    unit_price: 450
type Sheet struct {
	Prices []SheetRow `yaml:"prices"`
}

// SheetRow is one price in a Sheet. UnitPrice may be written as a number
// or as numeric text ("450", "333.33").
type SheetRow struct {
	Fabric    string `yaml:"fabric"`
	Method    string `yaml:"method"`
	UnitPrice any    `yaml:"unit_price"`
}

// LoadSheet reads and parses a price sheet YAML file.
// Unknown fields are rejected so that typos ("unitprice:") surface early.
func LoadSheet(path string) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read price sheet: %w", err)
	}

	var sheet Sheet
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sheet); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(sheet.Prices) == 0 {
		return nil, fmt.Errorf("invalid price sheet: prices list is required and must be non-empty")
	}
	return &sheet, nil
}

// Import adds every row of sheet to the catalog in order.
//
// All rows are validated before anything is written, so a sheet with one
// bad price leaves the catalog untouched.
func (c *Catalog) Import(sheet *Sheet) ([]Record, error) {
	prices := make([]float64, len(sheet.Prices))
	for i, row := range sheet.Prices {
		p, err := CoercePrice(row.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("row %d (%s/%s): %w", i+1, row.Fabric, row.Method, err)
		}
		if err := validateNames(row.Fabric, row.Method); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		prices[i] = p
	}

	prev := c.records
	added := make([]Record, 0, len(sheet.Prices))
	for i, row := range sheet.Prices {
		rec := Record{
			ID:        c.gen.NewID(),
			Fabric:    row.Fabric,
			Method:    row.Method,
			UnitPrice: prices[i],
		}
		c.records = append(c.records, rec)
		added = append(added, rec)
	}
	if err := c.Flush(); err != nil {
		c.records = prev
		return nil, err
	}
	return added, nil
}

// CoercePrice converts a decoded YAML/JSON scalar to a unit price.
func CoercePrice(v any) (float64, error) {
	switch p := v.(type) {
	case int:
		return checked(float64(p))
	case int64:
		return checked(float64(p))
	case uint64:
		return checked(float64(p))
	case float64:
		return checked(p)
	case string:
		return ParsePrice(p)
	case nil:
		return 0, errs.Validation("unit price is required")
	default:
		return 0, errs.Validation("unit price %v is not a number", v)
	}
}

func checked(v float64) (float64, error) {
	if err := validatePrice(v); err != nil {
		return 0, err
	}
	return v, nil
}

// SampleSheet returns the starter price list written by `drapequote init`.
func SampleSheet() *Sheet {
	return &Sheet{Prices: []SheetRow{
		{Fabric: "國產遮光布", Method: "蛇行簾", UnitPrice: 450},
		{Fabric: "遮光布", Method: "捲簾", UnitPrice: 250},
	}}
}
