package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/drapequote/internal/pricing"
)

func sampleGroups() []pricing.ItemGroup {
	return []pricing.ItemGroup{
		{
			ItemNumber: "A1",
			SewingItem: pricing.SewingItem{
				Fabric: "國產遮光布", Method: "蛇行簾",
				Width: 180, Height: 240, Pieces: 3,
				UnitPrice: 450, Subtotal: 1350,
			},
			SubItems: []pricing.SubItem{
				{ID: "s-1", Description: "軌道", Quantity: 2, UnitPrice: 100, Subtotal: 200},
				{ID: "s-2", Description: "安裝", Quantity: 1, UnitPrice: 50, Subtotal: 50},
			},
		},
		{
			ItemNumber: "item-3fa2c1",
			SewingItem: pricing.SewingItem{
				Fabric: "紗", Method: "打摺", Pieces: 3, UnitPrice: 333.33, Subtotal: 1000,
			},
			SubItems: []pricing.SubItem{},
		},
	}
}

func TestSaveThenLoad(t *testing.T) {
	s := New(t.TempDir())
	groups := sampleGroups()

	require.NoError(t, s.Save("P1", groups))
	assert.Equal(t, groups, s.Load("P1"))
}

func TestSave_ReplacesWholeDocument(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Save("P1", sampleGroups()))
	require.NoError(t, s.Save("P1", sampleGroups()[:1]))

	assert.Len(t, s.Load("P1"), 1)
}

func TestSave_Nil(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Save("P1", nil))

	raw, err := os.ReadFile(s.Path("P1"))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(raw))
	assert.Empty(t, s.Load("P1"))
}

func TestSave_CreatesDirectory(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, s.Save("P1", sampleGroups()))
	assert.FileExists(t, s.Path("P1"))
}

func TestLoad_Missing(t *testing.T) {
	s := New(t.TempDir())
	groups := s.Load("never-saved")
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestLoad_Malformed(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, os.WriteFile(s.Path("P1"), []byte(`[{"item_number": "A1",`), 0o644))
	assert.Empty(t, s.Load("P1"))

	require.NoError(t, os.WriteFile(s.Path("P2"), []byte(`"just a string"`), 0o644))
	assert.Empty(t, s.Load("P2"))
}

func TestLoad_LegacyMappingForm(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Save("P1", sampleGroups()))
	arrayForm, err := os.ReadFile(s.Path("P1"))
	require.NoError(t, err)

	legacy := `{"P1": ` + string(arrayForm) + `, "other": []}`
	require.NoError(t, os.WriteFile(s.Path("P1"), []byte(legacy), 0o644))

	assert.Equal(t, sampleGroups(), s.Load("P1"))
}

func TestLoad_LegacyMappingWithoutProject(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, os.WriteFile(s.Path("P1"), []byte(`{"未分類": []}`), 0o644))
	assert.Empty(t, s.Load("P1"))
}

func TestLoad_SkipsEntriesWithoutSewingItem(t *testing.T) {
	s := New(t.TempDir())
	doc := `[
		{"item_number": "broken", "sub_items": []},
		{"item_number": "A1", "sewing_item": {"fabric": "布", "method": "手法", "width": 0, "height": 0, "pieces": 1, "unit_price": 10, "subtotal": 10}}
	]`
	require.NoError(t, os.WriteFile(s.Path("P1"), []byte(doc), 0o644))

	groups := s.Load("P1")
	require.Len(t, groups, 1)
	assert.Equal(t, "A1", groups[0].ItemNumber)
	assert.Nil(t, groups[0].SubItems)
}

func TestLoad_SubItemDefaults(t *testing.T) {
	s := New(t.TempDir())
	doc := `[{"item_number": "A1",
		"sewing_item": {"fabric": "布", "method": "手法", "width": 0, "height": 0, "pieces": 1, "unit_price": 10, "subtotal": 10},
		"sub_items": [{"description": "備註"}]}]`
	require.NoError(t, os.WriteFile(s.Path("P1"), []byte(doc), 0o644))

	groups := s.Load("P1")
	require.Len(t, groups, 1)
	assert.Equal(t, []pricing.SubItem{{Description: "備註", Quantity: 1}}, groups[0].SubItems)
}

func TestDeleteProjectFile(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Save("P1", sampleGroups()))

	s.DeleteProjectFile("P1")
	assert.NoFileExists(t, s.Path("P1"))
	assert.Empty(t, s.Load("P1"))

	// Missing file is fine.
	s.DeleteProjectFile("P1")
}
