// Package ids generates record identifiers for the catalog, directory and
// quote book.
package ids

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Generator produces unique identifiers.
type Generator interface {
	NewID() string
}

// UUIDv7 generates time-sortable UUIDv7 identifiers.
//
// Records created later sort after earlier ones, which keeps hand-edited
// JSON documents readable.
type UUIDv7 struct{}

// NewID returns a hyphenated UUIDv7 string.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Fixed returns predetermined identifiers for testing.
type Fixed struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixed creates a generator that returns ids in order.
//
//	gen := NewFixed("c-1", "c-2")
//	gen.NewID() // "c-1"
//	gen.NewID() // "c-2"
//	gen.NewID() // panic: all ids exhausted
func NewFixed(ids ...string) *Fixed {
	return &Fixed{ids: ids}
}

// NewID returns the next predetermined id.
//
// Panics once all ids are consumed so that a test creating more records
// than it planned for fails loudly.
func (g *Fixed) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("ids.Fixed: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// ShortHex returns the last n hex digits of an id with hyphens removed.
// The tail of a UUIDv7 is random, unlike its timestamp prefix.
func ShortHex(id string, n int) string {
	hex := strings.ReplaceAll(id, "-", "")
	if len(hex) <= n {
		return hex
	}
	return hex[len(hex)-n:]
}
