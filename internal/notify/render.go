package notify

import (
	"fmt"
	"math"
	"strings"

	"smartmenu-system/internal/domain"
)

const (
	defaultCurrency = "ILS"
	maxSummaryItems = 8
)

// renderSummary builds the staff-chat message: a header with table and grand
// total, then at most the first 8 line items. Longer carts are truncated in
// the message only; the record keeps every item. Amounts are shown at
// integer precision.
func renderSummary(evt domain.OrderCreatedEvent) string {
	currency := evt.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	table := strings.TrimPrefix(evt.TableID, "table")
	if table == "" {
		table = "?"
	}

	lines := []string{
		"🍽️ *New order*",
		fmt.Sprintf("• *Table:* %s", table),
		fmt.Sprintf("• *Total:* %.0f %s", math.Round(evt.TotalAmount), currency),
		"",
	}
	items := evt.Items
	if len(items) > maxSummaryItems {
		items = items[:maxSummaryItems]
	}
	for _, it := range items {
		// math.Round first: %.0f alone rounds half to even, display wants
		// halves up (30.5 shows as 31, not 30)
		subtotal := math.Round(it.Price * float64(it.Quantity))
		lines = append(lines, fmt.Sprintf("• %d× %s — %.0f %s", it.Quantity, it.Name, subtotal, currency))
	}
	return strings.Join(lines, "\n")
}
