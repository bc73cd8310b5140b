// Package quotebook edits one project's quote: the ordered item groups
// kept in the history store, plus the rules applied while a user builds a
// quote interactively (generated item numbers, unique item numbers,
// sub-item pricing).
//
// Every edit saves the whole quote through the history store before it
// returns, so the document on disk always matches Groups().
package quotebook

import (
	"strings"

	"github.com/roach88/drapequote/internal/errs"
	"github.com/roach88/drapequote/internal/ids"
	"github.com/roach88/drapequote/internal/pricing"
)

// itemNumberPrefix starts every generated item number.
const itemNumberPrefix = "item-"

// Store is the persistence used by a Book; *history.Store satisfies it.
type Store interface {
	Load(projectID string) []pricing.ItemGroup
	Save(projectID string, groups []pricing.ItemGroup) error
}

// Book is a project's quote being edited.
type Book struct {
	projectID string
	store     Store
	calc      *pricing.Calculator
	gen       ids.Generator
	groups    []pricing.ItemGroup
}

// Open loads the quote for projectID.
//
// Sub-items from older documents that have no id are given one, and the
// quote is saved at once so the ids stay stable across opens.
func Open(store Store, calc *pricing.Calculator, gen ids.Generator, projectID string) (*Book, error) {
	b := &Book{
		projectID: projectID,
		store:     store,
		calc:      calc,
		gen:       gen,
		groups:    store.Load(projectID),
	}

	groups := b.Groups()
	assigned := false
	for gi := range groups {
		for si := range groups[gi].SubItems {
			if groups[gi].SubItems[si].ID == "" {
				groups[gi].SubItems[si].ID = gen.NewID()
				assigned = true
			}
		}
	}
	if assigned {
		if err := b.commit(groups); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// ProjectID returns the project this book edits.
func (b *Book) ProjectID() string { return b.projectID }

// Groups returns a copy of the item groups in order.
func (b *Book) Groups() []pricing.ItemGroup {
	out := make([]pricing.ItemGroup, len(b.groups))
	for i, g := range b.groups {
		if g.SubItems != nil {
			g.SubItems = append([]pricing.SubItem{}, g.SubItems...)
		}
		out[i] = g
	}
	return out
}

// Summary totals the quote with taxRate.
func (b *Book) Summary(taxRate float64) pricing.Summary {
	return pricing.Summarize(b.groups, taxRate)
}

// AddGroup prices in and appends it under itemNumber.
//
// A blank itemNumber is replaced by a generated "item-xxxxxx" number. An
// itemNumber already used in this quote is a validation error.
func (b *Book) AddGroup(itemNumber string, in pricing.SewingInput) (pricing.ItemGroup, error) {
	itemNumber = strings.TrimSpace(itemNumber)
	if itemNumber == "" {
		itemNumber = b.nextItemNumber()
	} else if b.indexOf(itemNumber) >= 0 {
		return pricing.ItemGroup{}, errs.Validation("item number %q is already in this quote", itemNumber)
	}

	item, err := b.calc.CreateSewingItem(in)
	if err != nil {
		return pricing.ItemGroup{}, err
	}

	group := pricing.ItemGroup{
		ItemNumber: itemNumber,
		SewingItem: item,
		SubItems:   []pricing.SubItem{},
	}
	if err := b.commit(append(b.Groups(), group)); err != nil {
		return pricing.ItemGroup{}, err
	}
	return group, nil
}

// SubItemInput describes an extra charge. When Subtotal is nil the
// subtotal is Quantity × UnitPrice.
type SubItemInput struct {
	Description string
	Quantity    float64
	UnitPrice   float64
	Subtotal    *float64
}

// AddSubItem attaches an extra charge to the group with itemNumber.
func (b *Book) AddSubItem(itemNumber string, in SubItemInput) (pricing.SubItem, error) {
	idx := b.indexOf(itemNumber)
	if idx < 0 {
		return pricing.SubItem{}, errs.NotFound("item", itemNumber)
	}

	sub := pricing.NewSubItem(b.gen.NewID(), in.Description, in.Quantity, in.UnitPrice)
	if in.Subtotal != nil {
		sub.Subtotal = *in.Subtotal
	}

	groups := b.Groups()
	groups[idx].SubItems = append(groups[idx].SubItems, sub)
	if err := b.commit(groups); err != nil {
		return pricing.SubItem{}, err
	}
	return sub, nil
}

// RemoveGroup deletes the group with itemNumber.
func (b *Book) RemoveGroup(itemNumber string) error {
	idx := b.indexOf(itemNumber)
	if idx < 0 {
		return errs.NotFound("item", itemNumber)
	}
	groups := b.Groups()
	return b.commit(append(groups[:idx], groups[idx+1:]...))
}

// RemoveSubItem deletes one sub-item from the group with itemNumber.
func (b *Book) RemoveSubItem(itemNumber, subItemID string) error {
	idx := b.indexOf(itemNumber)
	if idx < 0 {
		return errs.NotFound("item", itemNumber)
	}

	groups := b.Groups()
	subs := groups[idx].SubItems
	for i, s := range subs {
		if s.ID == subItemID {
			groups[idx].SubItems = append(subs[:i], subs[i+1:]...)
			return b.commit(groups)
		}
	}
	return errs.NotFound("sub-item", subItemID)
}

// Clear removes every group.
func (b *Book) Clear() error {
	return b.commit([]pricing.ItemGroup{})
}

func (b *Book) commit(groups []pricing.ItemGroup) error {
	if err := b.store.Save(b.projectID, groups); err != nil {
		return err
	}
	b.groups = groups
	return nil
}

func (b *Book) indexOf(itemNumber string) int {
	for i, g := range b.groups {
		if g.ItemNumber == itemNumber {
			return i
		}
	}
	return -1
}

func (b *Book) nextItemNumber() string {
	for {
		n := itemNumberPrefix + ids.ShortHex(b.gen.NewID(), 6)
		if b.indexOf(n) < 0 {
			return n
		}
	}
}
