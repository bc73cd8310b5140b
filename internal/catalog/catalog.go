// Package catalog maintains the sewing price list: one unit price per
// (fabric, method) pair, persisted as a single JSON document.
//
// The Catalog owns its in-memory records. Every mutation rewrites the whole
// backing document immediately; Reload discards the in-memory state and
// re-reads the document. Duplicated (fabric, method) pairs are permitted and
// lookups return the first match in insertion order.
package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/roach88/drapequote/internal/errs"
	"github.com/roach88/drapequote/internal/ids"
	"github.com/roach88/drapequote/internal/jsonfile"
)

// FileName is the catalog document name inside the data directory.
const FileName = "sewing_prices.json"

// Record is one sewing price entry.
type Record struct {
	ID        string  `json:"id"`
	Fabric    string  `json:"fabric"`
	Method    string  `json:"method"`
	UnitPrice float64 `json:"unit_price"`
}

// PriceUpdate lists the fields to change in Update. Nil fields are kept.
type PriceUpdate struct {
	Fabric    *string
	Method    *string
	UnitPrice *float64
}

// Catalog is the sewing price repository.
type Catalog struct {
	path    string
	gen     ids.Generator
	records []Record
}

// Open loads the catalog document at path, creating an empty one if it
// does not exist. A document that cannot be decoded is reported as an
// errs.CodeStorageDecode error rather than being overwritten.
func Open(path string, gen ids.Generator) (*Catalog, error) {
	if err := jsonfile.Ensure(path, []Record{}); err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	c := &Catalog{path: path, gen: gen}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Path returns the backing document path.
func (c *Catalog) Path() string { return c.path }

// Reload replaces the in-memory records with the document's contents.
func (c *Catalog) Reload() error {
	var records []Record
	if err := jsonfile.Read(c.path, &records); err != nil {
		if errors.Is(err, jsonfile.ErrNotExist) {
			c.records = nil
			return nil
		}
		return fmt.Errorf("load catalog: %w", err)
	}
	c.records = records
	return nil
}

// Flush writes the in-memory records to the document.
func (c *Catalog) Flush() error {
	records := c.records
	if records == nil {
		records = []Record{}
	}
	if err := jsonfile.Write(c.path, records); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	slog.Debug("catalog saved", "path", c.path, "records", len(records))
	return nil
}

// Add appends a new record with a generated id and persists the catalog.
func (c *Catalog) Add(fabric, method string, unitPrice float64) (Record, error) {
	if err := validateNames(fabric, method); err != nil {
		return Record{}, err
	}
	if err := validatePrice(unitPrice); err != nil {
		return Record{}, err
	}

	rec := Record{
		ID:        c.gen.NewID(),
		Fabric:    fabric,
		Method:    method,
		UnitPrice: unitPrice,
	}
	c.records = append(c.records, rec)
	if err := c.Flush(); err != nil {
		c.records = c.records[:len(c.records)-1]
		return Record{}, err
	}
	return rec, nil
}

// Update merges the supplied fields into the record with the given id.
func (c *Catalog) Update(id string, upd PriceUpdate) (Record, error) {
	idx := c.indexOf(id)
	if idx < 0 {
		return Record{}, errs.NotFound("sewing price", id)
	}

	rec := c.records[idx]
	if upd.Fabric != nil {
		rec.Fabric = *upd.Fabric
	}
	if upd.Method != nil {
		rec.Method = *upd.Method
	}
	if upd.UnitPrice != nil {
		if err := validatePrice(*upd.UnitPrice); err != nil {
			return Record{}, err
		}
		rec.UnitPrice = *upd.UnitPrice
	}
	if err := validateNames(rec.Fabric, rec.Method); err != nil {
		return Record{}, err
	}

	prev := c.records[idx]
	c.records[idx] = rec
	if err := c.Flush(); err != nil {
		c.records[idx] = prev
		return Record{}, err
	}
	return rec, nil
}

// Delete removes the record with the given id.
func (c *Catalog) Delete(id string) error {
	idx := c.indexOf(id)
	if idx < 0 {
		return errs.NotFound("sewing price", id)
	}

	prev := c.records
	c.records = append(append([]Record(nil), prev[:idx]...), prev[idx+1:]...)
	if err := c.Flush(); err != nil {
		c.records = prev
		return err
	}
	return nil
}

// All returns every record in insertion order.
func (c *Catalog) All() []Record {
	return append([]Record(nil), c.records...)
}

// Get returns the record with the given id.
func (c *Catalog) Get(id string) (Record, bool) {
	idx := c.indexOf(id)
	if idx < 0 {
		return Record{}, false
	}
	return c.records[idx], true
}

// Fabrics returns the distinct fabric names, sorted ascending.
func (c *Catalog) Fabrics() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range c.records {
		if !seen[r.Fabric] {
			seen[r.Fabric] = true
			out = append(out, r.Fabric)
		}
	}
	sort.Strings(out)
	return out
}

// Methods returns the distinct methods priced for fabric, sorted ascending.
func (c *Catalog) Methods(fabric string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range c.records {
		if r.Fabric == fabric && !seen[r.Method] {
			seen[r.Method] = true
			out = append(out, r.Method)
		}
	}
	sort.Strings(out)
	return out
}

// Price returns the unit price of the first record whose fabric and method
// match exactly. ok is false when no record matches, which callers must
// not confuse with a legitimate zero price.
func (c *Catalog) Price(fabric, method string) (price float64, ok bool) {
	for _, r := range c.records {
		if r.Fabric == fabric && r.Method == method {
			return r.UnitPrice, true
		}
	}
	return 0, false
}

func (c *Catalog) indexOf(id string) int {
	for i, r := range c.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// ParsePrice coerces user-entered text to a unit price.
func ParsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errs.Validation("unit price %q is not a number", s)
	}
	if err := validatePrice(v); err != nil {
		return 0, err
	}
	return v, nil
}

func validatePrice(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errs.Validation("unit price must be a finite number")
	}
	if v < 0 {
		return errs.Validation("unit price must not be negative, got %v", v)
	}
	return nil
}

func validateNames(fabric, method string) error {
	if strings.TrimSpace(fabric) == "" {
		return errs.Validation("fabric is required")
	}
	if strings.TrimSpace(method) == "" {
		return errs.Validation("method is required")
	}
	return nil
}
