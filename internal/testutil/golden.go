// Package testutil holds deterministic fixtures shared by package tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// AssertGoldenJSON compares v, encoded as indented JSON, against
// testdata/golden/{name}.golden in the calling package.
//
// To regenerate golden files, run the package tests with -update.
func AssertGoldenJSON(t *testing.T, name string, v any) {
	t.Helper()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, buf.Bytes())
}
