package notify

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartmenu-system/internal/domain"
)

func TestRenderSummaryHeaderAndLines(t *testing.T) {
	text := renderSummary(sampleEvent())

	lines := strings.Split(text, "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "🍽️ *New order*", lines[0])
	assert.Equal(t, "• *Table:* 7", lines[1], "the table prefix is stripped for display")
	assert.Equal(t, "• *Total:* 129 ILS", lines[2])
	assert.Equal(t, "", lines[3])
	assert.Equal(t, "• 1× Margherita Royale — 65 ILS", lines[4])
	assert.Equal(t, "• 2× Tiramisu — 64 ILS", lines[5])
}

func TestRenderSummaryTruncatesToEightItems(t *testing.T) {
	evt := domain.OrderCreatedEvent{OrderID: "o", TableID: "table1", Currency: "ILS"}
	for i := 1; i <= 10; i++ {
		evt.Items = append(evt.Items, domain.OrderItemMsg{
			Name: fmt.Sprintf("Item %d", i), Quantity: 1, Price: float64(i),
		})
	}
	text := renderSummary(evt)

	for i := 1; i <= 8; i++ {
		assert.Contains(t, text, fmt.Sprintf("1× Item %d — %d ILS", i, i))
	}
	assert.NotContains(t, text, "Item 9")
	assert.NotContains(t, text, "Item 10")
}

func TestRenderSummaryCurrencyDefault(t *testing.T) {
	evt := sampleEvent()
	evt.Currency = ""
	text := renderSummary(evt)

	assert.Contains(t, text, "129 ILS")
}

func TestRenderSummaryIntegerPrecision(t *testing.T) {
	evt := domain.OrderCreatedEvent{
		OrderID: "o", TableID: "table2", Currency: "ILS",
		Items:       []domain.OrderItemMsg{{Name: "Half Shekel Special", Quantity: 3, Price: 10.5}},
		TotalAmount: 31.5,
	}
	text := renderSummary(evt)

	assert.Contains(t, text, "• *Total:* 32 ILS")
	assert.Contains(t, text, "3× Half Shekel Special — 32 ILS")
}

func TestRenderSummaryRoundsHalvesUp(t *testing.T) {
	evt := domain.OrderCreatedEvent{
		OrderID: "o", TableID: "table2", Currency: "ILS",
		Items:       []domain.OrderItemMsg{{Name: "Soup of the Day", Quantity: 1, Price: 30.5}},
		TotalAmount: 30.5,
	}
	text := renderSummary(evt)

	// .5 rounds up, not to even
	assert.Contains(t, text, "• *Total:* 31 ILS")
	assert.Contains(t, text, "1× Soup of the Day — 31 ILS")
}
