package domain

type OrderItemMsg struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderCreatedEvent is published once per submitted order and carries
// everything the dispatcher needs without a read-back.
type OrderCreatedEvent struct {
	OrderID     string         `json:"order_id"`
	OrderNumber string         `json:"order_number"`
	TableID     string         `json:"table"`
	Currency    string         `json:"currency,omitempty"`
	Items       []OrderItemMsg `json:"items"`
	TotalAmount float64        `json:"total_amount"`
}
