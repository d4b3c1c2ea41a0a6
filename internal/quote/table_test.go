package quote

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testPricing() Pricing {
	return Pricing{
		CollectionFlatRate:        decimal.RequireFromString("600.00"),
		CollectionVolumeRate:      decimal.RequireFromString("30.00"),
		CollectionVolumeThreshold: decimal.RequireFromString("20"),
		ShippingRatePerBox:        decimal.RequireFromString("110.00"),
	}
}

func buildFor(t *testing.T, fields map[string]interface{}) *Table {
	t.Helper()
	req := NewRequest(fields)
	items, err := NewExtractor(zap.NewNop()).Extract(req)
	require.NoError(t, err)
	table, err := NewBuilder(testPricing(), zap.NewNop()).Build(items, req)
	require.NoError(t, err)
	return table
}

func TestBuilder_CollectionRule(t *testing.T) {
	tests := []struct {
		name      string
		fields    map[string]interface{}
		wantQty   string
		wantRate  string
		wantTotal string
	}{
		{
			name:      "no items charges flat rate once",
			fields:    map[string]interface{}{},
			wantQty:   "1",
			wantRate:  "600.00",
			wantTotal: "600.00",
		},
		{
			name: "volume under threshold charges flat rate once",
			fields: map[string]interface{}{
				"item1": "A", "qty1": "19", "price1": "0",
			},
			wantQty:   "1",
			wantRate:  "600.00",
			wantTotal: "600.00",
		},
		{
			name: "volume at threshold switches to per-unit rate",
			fields: map[string]interface{}{
				"item1": "A", "qty1": "20", "price1": "0",
			},
			wantQty:   "20",
			wantRate:  "30.00",
			wantTotal: "600.00",
		},
		{
			name: "fractional volume rounds up",
			fields: map[string]interface{}{
				"item1": "A", "qty1": "20.3", "price1": "0",
			},
			wantQty:   "21",
			wantRate:  "30.00",
			wantTotal: "630.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := buildFor(t, tt.fields)
			row := table.Rows[len(table.Rows)-2]
			assert.Equal(t, CollectionItemCode, row.ItemNumber)
			assert.True(t, row.Quantity.Equal(decimal.RequireFromString(tt.wantQty)),
				"qty %s", row.Quantity)
			assert.True(t, row.UnitPrice.Equal(decimal.RequireFromString(tt.wantRate)),
				"rate %s", row.UnitPrice)
			assert.True(t, row.Total.Equal(decimal.RequireFromString(tt.wantTotal)),
				"total %s", row.Total)
		})
	}
}

func TestBuilder_ShippingRule(t *testing.T) {
	tests := []struct {
		name      string
		fields    map[string]interface{}
		wantBoxes string
	}{
		{
			name: "max defaults to one per item",
			fields: map[string]interface{}{
				"item1": "A", "qty1": "30", "price1": "0",
			},
			wantBoxes: "30",
		},
		{
			name: "ratios summed across items then rounded up",
			fields: map[string]interface{}{
				"item1": "A", "qty1": "10", "price1": "0", "itemMAX_1": "4",
				"item2": "B", "qty2": "5", "price2": "0", "itemMAX_2": "2",
			},
			// 10/4 + 5/2 = 5.0 boxes exactly
			wantBoxes: "5",
		},
		{
			name: "partial box rounds up",
			fields: map[string]interface{}{
				"item1": "A", "qty1": "10", "price1": "0", "itemMAX_1": "3",
			},
			wantBoxes: "4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := buildFor(t, tt.fields)
			row := table.Rows[len(table.Rows)-1]
			assert.Equal(t, ShippingItemCode, row.ItemNumber)
			boxes := decimal.RequireFromString(tt.wantBoxes)
			assert.True(t, row.Quantity.Equal(boxes), "boxes %s", row.Quantity)
			assert.True(t, row.Total.Equal(boxes.Mul(decimal.RequireFromString("110.00"))),
				"total %s", row.Total)
		})
	}
}

func TestBuilder_ZeroMaxPerBoxFailsRequest(t *testing.T) {
	req := NewRequest(map[string]interface{}{
		"item1": "A", "qty1": "10", "price1": "1", "itemMAX_1": "0",
	})
	items, err := NewExtractor(zap.NewNop()).Extract(req)
	require.NoError(t, err)

	_, err = NewBuilder(testPricing(), zap.NewNop()).Build(items, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMaxPerBox)
}

func TestBuilder_GrandTotalSumsAllRows(t *testing.T) {
	table := buildFor(t, map[string]interface{}{
		"item1": "A", "qty1": "2", "price1": "10.00",
		"item2": "B", "qty2": "3", "price2": "5.50",
	})

	sum := decimal.Zero
	for _, row := range table.Rows {
		sum = sum.Add(row.Total)
	}
	assert.True(t, table.GrandTotal.Equal(sum),
		"grand total %s != row sum %s", table.GrandTotal, sum)
}

// The worked scenario: one item, qty 30 at $10 → $300; collection at
// volume rate 30×$30 → $900; shipping 30 boxes × $110 → $3300; grand
// total $4500.
func TestBuilder_EndToEndScenario(t *testing.T) {
	table := buildFor(t, map[string]interface{}{
		"clientName": "Acme", "key": "Q-1",
		"item1": "100", "itemDescrip1": "Widget",
		"qty1": "30", "price1": "10.00",
	})

	require.Len(t, table.Rows, 3)
	assert.True(t, table.Rows[0].Total.Equal(decimal.RequireFromString("300")))
	assert.True(t, table.Rows[1].Total.Equal(decimal.RequireFromString("900")))
	assert.True(t, table.Rows[2].Total.Equal(decimal.RequireFromString("3300")))
	assert.True(t, table.GrandTotal.Equal(decimal.RequireFromString("4500")),
		"grand total %s", table.GrandTotal)
}

func TestHeader(t *testing.T) {
	assert.Equal(t,
		[6]string{"Item#", "Description", "Qty", "Unit", "Unit Price", "Total"},
		Header())
}
