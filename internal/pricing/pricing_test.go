package pricing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/drapequote/internal/errs"
)

// priceTable is an in-memory PriceSource.
type priceTable map[[2]string]float64

func (p priceTable) Price(fabric, method string) (float64, bool) {
	v, ok := p[[2]string{fabric, method}]
	return v, ok
}

func TestCreateSewingItem(t *testing.T) {
	calc := NewCalculator(priceTable{
		{"國產遮光布", "蛇行簾"}: 450,
		{"紗", "打摺"}:       333.33,
		{"樣品", "免費"}:      0,
	})

	tests := []struct {
		name         string
		in           SewingInput
		wantPrice    float64
		wantSubtotal float64
	}{
		{"whole price", SewingInput{Fabric: "國產遮光布", Method: "蛇行簾", Width: 120, Height: 240, Pieces: 3}, 450, 1350},
		{"rounds to whole unit", SewingInput{Fabric: "紗", Method: "打摺", Pieces: 3}, 333.33, 1000},
		{"zero price is a valid price", SewingInput{Fabric: "樣品", Method: "免費", Pieces: 5}, 0, 0},
		{"fractional pieces", SewingInput{Fabric: "國產遮光布", Method: "蛇行簾", Pieces: 1.5}, 450, 675},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := calc.CreateSewingItem(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPrice, item.UnitPrice)
			assert.Equal(t, tt.wantSubtotal, item.Subtotal)
			assert.Equal(t, tt.in.Fabric, item.Fabric)
			assert.Equal(t, tt.in.Width, item.Width)
			assert.Equal(t, tt.in.Height, item.Height)
			assert.Equal(t, tt.in.Pieces, item.Pieces)
		})
	}
}

func TestCreateSewingItem_RoundsHalfToEven(t *testing.T) {
	calc := NewCalculator(priceTable{{"布", "手法"}: 0.5})

	item, err := calc.CreateSewingItem(SewingInput{Fabric: "布", Method: "手法", Pieces: 5})
	require.NoError(t, err)
	assert.Equal(t, 2.0, item.Subtotal, "2.5 rounds to the even neighbour")

	item, err = calc.CreateSewingItem(SewingInput{Fabric: "布", Method: "手法", Pieces: 7})
	require.NoError(t, err)
	assert.Equal(t, 4.0, item.Subtotal, "3.5 rounds to the even neighbour")
}

func TestCreateSewingItem_PriceNotFound(t *testing.T) {
	calc := NewCalculator(priceTable{})

	_, err := calc.CreateSewingItem(SewingInput{Fabric: "絲絨", Method: "雷射簾", Pieces: 1})
	require.Error(t, err)
	assert.True(t, errs.IsPriceNotFound(err))
}

func TestCreateSewingItem_NegativeInput(t *testing.T) {
	calc := NewCalculator(priceTable{{"布", "手法"}: 10})

	_, err := calc.CreateSewingItem(SewingInput{Fabric: "布", Method: "手法", Pieces: -1})
	assert.True(t, errs.IsValidation(err))
}

func TestSewingItemIsASnapshot(t *testing.T) {
	table := priceTable{{"布", "手法"}: 100}
	calc := NewCalculator(table)

	item, err := calc.CreateSewingItem(SewingInput{Fabric: "布", Method: "手法", Pieces: 2})
	require.NoError(t, err)

	table[[2]string{"布", "手法"}] = 999
	assert.Equal(t, 100.0, item.UnitPrice)
	assert.Equal(t, 200.0, item.Subtotal)
}

func TestItemGroupTotal(t *testing.T) {
	g := ItemGroup{
		ItemNumber: "A1",
		SewingItem: SewingItem{Subtotal: 1350},
		SubItems: []SubItem{
			{Description: "軌道", Subtotal: 200},
			{Description: "安裝", Subtotal: 50},
		},
	}
	assert.Equal(t, 1600.0, g.Total())

	assert.Equal(t, 1350.0, ItemGroup{SewingItem: SewingItem{Subtotal: 1350}}.Total())
}

func TestNewSubItem(t *testing.T) {
	s := NewSubItem("s-1", "掛勾", 3, 0.1)
	assert.Equal(t, 0.3, s.Subtotal)
	assert.Equal(t, "s-1", s.ID)
}

func TestSubItemDefaults(t *testing.T) {
	var s SubItem
	require.NoError(t, json.Unmarshal([]byte(`{"description": "備註"}`), &s))
	assert.Equal(t, SubItem{Description: "備註", Quantity: 1}, s)

	require.NoError(t, json.Unmarshal([]byte(`{"description": "軌道", "quantity": 2, "unit_price": 100, "subtotal": 180}`), &s))
	assert.Equal(t, 2.0, s.Quantity)
	assert.Equal(t, 180.0, s.Subtotal, "subtotal is taken as given")
}

func TestSummarize(t *testing.T) {
	groups := []ItemGroup{
		{ItemNumber: "A1", SewingItem: SewingItem{Subtotal: 1350}, SubItems: []SubItem{{Subtotal: 200}, {Subtotal: 50}}},
		{ItemNumber: "A2", SewingItem: SewingItem{Subtotal: 733}},
	}

	s := Summarize(groups, 0.05)
	assert.Equal(t, 2, s.Groups)
	assert.Equal(t, 2333.0, s.Subtotal)
	assert.Equal(t, 117.0, s.Tax, "116.65 rounds to 117")
	assert.Equal(t, 2450.0, s.Total)

	empty := Summarize(nil, 0.05)
	assert.Equal(t, Summary{TaxRate: 0.05}, empty)
}
