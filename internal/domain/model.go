package domain

import "time"

type OrderItem struct {
	Name     string
	Quantity int
	Price    float64
}

// ChannelStatus is the delivery outcome for one outbound channel, merged
// onto the order record after each dispatch attempt.
type ChannelStatus struct {
	Sent  bool      `json:"sent"`
	Error string    `json:"error,omitempty"`
	At    time.Time `json:"at"`
}

// OrderRecord is the immutable snapshot written at submission time. Only the
// per-channel status map changes afterwards, one key per channel.
type OrderRecord struct {
	ID          string
	OrderNumber string
	TableID     string
	Currency    string
	Items       []OrderItem
	TotalAmount float64
	CreatedAt   time.Time
	Channel     map[string]ChannelStatus
}
