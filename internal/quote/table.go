package quote

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Ancillary service line identities. These are catalog item codes, part
// of the quote contract with the client, not tunable pricing.
const (
	CollectionItemCode   = "WMS-800"
	CollectionDescrip    = "Water Sample Collection"
	CollectionUnit       = "EA"
	ShippingItemCode     = "WMS-9970"
	ShippingDescrip      = "Shipping and Handling - Overnight Return"
	ShippingUnit         = "BOX"
	maxPerBoxFieldFormat = "itemMAX_%d"
)

// Pricing holds the rate card applied to the two ancillary lines.
type Pricing struct {
	CollectionFlatRate        decimal.Decimal // charged once when volume is under the threshold
	CollectionVolumeRate      decimal.Decimal // per-unit rate at or above the threshold
	CollectionVolumeThreshold decimal.Decimal
	ShippingRatePerBox        decimal.Decimal
}

// Row is one body row of the quote table. Quantities and amounts stay
// as decimals here; formatting happens at render time.
type Row struct {
	ItemNumber  string
	Description string
	Quantity    decimal.Decimal
	Unit        string
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

// Table is the assembled quote: extracted line items followed by the
// collection and shipping ancillary rows. GrandTotal is the sum of
// every row's Total and is the value approval routing branches on.
type Table struct {
	Rows       []Row
	GrandTotal decimal.Decimal
}

// Header returns the fixed six-column header. Column identity and order
// are a contract the renderer and downstream readers rely on.
func Header() [6]string {
	return [6]string{"Item#", "Description", "Qty", "Unit", "Unit Price", "Total"}
}

// Builder assembles priced quote tables.
type Builder struct {
	pricing Pricing
	logger  *zap.Logger
}

// NewBuilder creates a table builder with the given rate card.
func NewBuilder(pricing Pricing, logger *zap.Logger) *Builder {
	return &Builder{pricing: pricing, logger: logger}
}

// Build assembles the table for the extracted items plus the two
// ancillary rows and computes the grand total.
func (b *Builder) Build(items []LineItem, req *Request) (*Table, error) {
	rows := make([]Row, 0, len(items)+2)
	for _, item := range items {
		rows = append(rows, Row{
			ItemNumber:  item.ItemNumber,
			Description: item.Description,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		})
	}

	rows = append(rows, b.collectionRow(items))

	shipping, err := b.shippingRow(items, req)
	if err != nil {
		return nil, err
	}
	rows = append(rows, shipping)

	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Total)
	}

	b.logger.Info("Built quote table",
		zap.String("issue_key", req.IssueKey()),
		zap.Int("line_items", len(items)),
		zap.String("grand_total", total.StringFixed(2)))

	return &Table{Rows: rows, GrandTotal: total}, nil
}

// collectionRow prices the sample-collection line: under the volume
// threshold the flat rate is charged once, otherwise the summed
// quantity (rounded up) is charged at the volume rate.
func (b *Builder) collectionRow(items []LineItem) Row {
	volume := decimal.Zero
	for _, item := range items {
		volume = volume.Add(item.Quantity)
	}

	var units, rate decimal.Decimal
	if volume.LessThan(b.pricing.CollectionVolumeThreshold) {
		units = decimal.NewFromInt(1)
		rate = b.pricing.CollectionFlatRate
	} else {
		units = volume.Ceil()
		rate = b.pricing.CollectionVolumeRate
	}

	return Row{
		ItemNumber:  CollectionItemCode,
		Description: CollectionDescrip,
		Quantity:    units,
		Unit:        CollectionUnit,
		UnitPrice:   rate,
		Total:       rate.Mul(units),
	}
}

// shippingRow prices the shipping line: each item's quantity divided by
// its max-per-box, summed across items and rounded up to whole boxes.
// A max-per-box that is present but zero or negative is a configuration
// bug on the issue form and fails the request rather than silently
// defaulting.
func (b *Builder) shippingRow(items []LineItem, req *Request) (Row, error) {
	ratio := decimal.Zero
	for i, item := range items {
		maxPerBox, err := maxPerBoxFor(req, i+1)
		if err != nil {
			return Row{}, err
		}
		ratio = ratio.Add(item.Quantity.Div(maxPerBox))
	}

	boxes := ratio.Ceil()
	return Row{
		ItemNumber:  ShippingItemCode,
		Description: ShippingDescrip,
		Quantity:    boxes,
		Unit:        ShippingUnit,
		UnitPrice:   b.pricing.ShippingRatePerBox,
		Total:       b.pricing.ShippingRatePerBox.Mul(boxes),
	}, nil
}

// maxPerBoxFor reads itemMAX_{slot}. Absent or blank defaults to 1.
func maxPerBoxFor(req *Request, slot int) (decimal.Decimal, error) {
	raw := strings.TrimSpace(req.Field(fmt.Sprintf(maxPerBoxFieldFormat, slot)))
	if raw == "" {
		return decimal.NewFromInt(1), nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("slot %d max-per-box: %w: %q", slot, ErrInvalidNumber, raw)
	}
	if d.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("slot %d: %w (got %s)", slot, ErrInvalidMaxPerBox, d)
	}
	return d, nil
}
