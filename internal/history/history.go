// Package history persists each project's quote as one JSON document,
// history_<project_id>.json, holding the ordered list of item groups.
//
// Loading never fails: a missing or unreadable document reads as an empty
// quote. Saving replaces the whole document and reports errors.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/drapequote/internal/errs"
	"github.com/roach88/drapequote/internal/jsonfile"
	"github.com/roach88/drapequote/internal/pricing"
)

// Store reads and writes project quote documents in a directory.
type Store struct {
	dir string
}

// New returns a Store keeping its documents in dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the document path for projectID.
func (s *Store) Path(projectID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("history_%s.json", projectID))
}

// storedGroup mirrors pricing.ItemGroup with an optional sewing item so
// that entries lacking one can be recognised and skipped.
type storedGroup struct {
	ItemNumber string              `json:"item_number"`
	SewingItem *pricing.SewingItem `json:"sewing_item"`
	SubItems   []pricing.SubItem   `json:"sub_items"`
}

// Load returns the project's item groups in order.
//
// Both the array form and the older mapping form ({"<project_id>": [...]})
// are accepted. A missing document, a document that fails to decode, or a
// mapping without the project's key all yield an empty result; decode
// failures are logged and otherwise swallowed.
func (s *Store) Load(projectID string) []pricing.ItemGroup {
	path := s.Path(projectID)

	var raw json.RawMessage
	if err := jsonfile.Read(path, &raw); err != nil {
		if !errors.Is(err, jsonfile.ErrNotExist) {
			slog.Warn("quote history unreadable, treating as empty", "project", projectID, "error", err)
		}
		return []pricing.ItemGroup{}
	}

	stored, err := decode(projectID, raw)
	if err != nil {
		slog.Warn("quote history unreadable, treating as empty", "project", projectID,
			"error", errs.StorageDecode(path, err))
		return []pricing.ItemGroup{}
	}

	groups := make([]pricing.ItemGroup, 0, len(stored))
	for _, g := range stored {
		if g.SewingItem == nil {
			slog.Debug("skipping quote entry without sewing item", "project", projectID, "item", g.ItemNumber)
			continue
		}
		groups = append(groups, pricing.ItemGroup{
			ItemNumber: g.ItemNumber,
			SewingItem: *g.SewingItem,
			SubItems:   g.SubItems,
		})
	}
	return groups
}

func decode(projectID string, raw json.RawMessage) ([]storedGroup, error) {
	var list []storedGroup
	listErr := json.Unmarshal(raw, &list)
	if listErr == nil {
		return list, nil
	}

	var byProject map[string][]storedGroup
	if err := json.Unmarshal(raw, &byProject); err != nil {
		return nil, listErr
	}
	return byProject[projectID], nil
}

// Save replaces the project's document with groups, always in array form.
func (s *Store) Save(projectID string, groups []pricing.ItemGroup) error {
	if groups == nil {
		groups = []pricing.ItemGroup{}
	}
	if err := jsonfile.Write(s.Path(projectID), groups); err != nil {
		return fmt.Errorf("save quote history for project %s: %w", projectID, err)
	}
	slog.Debug("quote history saved", "project", projectID, "groups", len(groups))
	return nil
}

// DeleteProjectFile removes the project's document. A missing document is
// not an error; other failures are logged.
func (s *Store) DeleteProjectFile(projectID string) {
	path := s.Path(projectID)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Error("failed to delete quote history", "project", projectID, "path", path, "error", err)
	}
}
