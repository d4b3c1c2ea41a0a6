package quote

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MaxItemSlots is the number of numbered item slots on the issue form.
const MaxItemSlots = 5

// LineItem is one extracted, priced line of the quote.
type LineItem struct {
	ItemNumber  string
	Description string
	Quantity    decimal.Decimal
	Unit        string
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

// Extractor turns the issue field bag into normalized line items.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates a new line-item extractor.
func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract walks slots 1..MaxItemSlots and returns a LineItem per slot
// whose item-number field is present and non-empty, in slot order.
// Malformed quantity or price strings fail the whole request.
func (e *Extractor) Extract(req *Request) ([]LineItem, error) {
	var items []LineItem
	for i := 1; i <= MaxItemSlots; i++ {
		slotKey := fmt.Sprintf("item%d", i)
		if !req.Has(slotKey) {
			continue
		}

		qty, err := parseDecimalField(req.Field(fmt.Sprintf("qty%d", i)))
		if err != nil {
			return nil, fmt.Errorf("slot %d quantity: %w", i, err)
		}
		price, err := parseDecimalField(req.Field(fmt.Sprintf("price%d", i)))
		if err != nil {
			return nil, fmt.Errorf("slot %d price: %w", i, err)
		}

		unit := req.Field(fmt.Sprintf("Unit_%d", i))
		if unit == "" {
			unit = "EA"
		}

		items = append(items, LineItem{
			ItemNumber:  req.Field(slotKey),
			Description: req.Field(fmt.Sprintf("itemDescrip%d", i)),
			Quantity:    qty,
			Unit:        unit,
			UnitPrice:   price,
			Total:       qty.Mul(price),
		})
	}

	e.logger.Info("Extracted quote line items",
		zap.String("issue_key", req.IssueKey()),
		zap.Int("count", len(items)))

	return items, nil
}

// parseDecimalField parses a numeric form field. Absent or blank values
// default to zero; anything else must be a valid decimal.
func parseDecimalField(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return d, nil
}
