package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"smartmenu-system/internal/cart"
	"smartmenu-system/internal/common/logger"
	"smartmenu-system/internal/common/mq"
	"smartmenu-system/internal/domain"
	"smartmenu-system/internal/repository"
)

type Publisher interface {
	Publish(ctx context.Context, exchange, key string, body []byte) error
}

type Service struct {
	repo     repository.Orders
	pub      Publisher
	currency string
	lg       *logger.Logger

	now   func() time.Time
	newID func() string
}

func NewService(repo repository.Orders, pub Publisher, currency string, lg *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		pub:      pub,
		currency: currency,
		lg:       lg,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Submit freezes the cart into an immutable order record, persists it, and
// announces it on the orders fan-out. The live cart is cleared only after
// the store acknowledged the write; the record and the cart never share
// mutable state. An empty cart fails with cart.ErrEmptyCart and leaves
// everything untouched.
func (s *Service) Submit(ctx context.Context, c *cart.Cart, tableID string) (domain.OrderRecord, error) {
	if c.Empty() {
		return domain.OrderRecord{}, cart.ErrEmptyCart
	}

	seq, err := s.repo.OrderCount(ctx)
	if err != nil {
		return domain.OrderRecord{}, fmt.Errorf("failed to get order count: %w", err)
	}
	now := s.now().UTC()

	items := make([]domain.OrderItem, 0, c.Count())
	for _, li := range c.Items() {
		items = append(items, domain.OrderItem{Name: li.Name, Quantity: li.Quantity, Price: li.UnitPrice})
	}

	rec := domain.OrderRecord{
		ID:          s.newID(),
		OrderNumber: fmt.Sprintf("ORD_%s_%03d", now.Format("20060102"), seq+1),
		TableID:     tableID,
		Currency:    s.currency,
		Items:       items,
		TotalAmount: c.Total(),
		CreatedAt:   now,
	}

	if err := s.repo.CreateOrder(ctx, rec); err != nil {
		return domain.OrderRecord{}, fmt.Errorf("failed to save order: %w", err)
	}

	s.publishCreated(ctx, rec)
	c.Clear()

	s.lg.Info("order_submitted", map[string]any{
		"order_number": rec.OrderNumber, "table": rec.TableID, "total": rec.TotalAmount,
	})
	return rec, nil
}

// publishCreated is best-effort: the order is already durable, and a lost
// trigger only costs the staff notification, never the submission.
func (s *Service) publishCreated(ctx context.Context, rec domain.OrderRecord) {
	items := make([]domain.OrderItemMsg, 0, len(rec.Items))
	for _, it := range rec.Items {
		items = append(items, domain.OrderItemMsg{Name: it.Name, Quantity: it.Quantity, Price: it.Price})
	}
	evt := domain.OrderCreatedEvent{
		OrderID:     rec.ID,
		OrderNumber: rec.OrderNumber,
		TableID:     rec.TableID,
		Currency:    rec.Currency,
		Items:       items,
		TotalAmount: rec.TotalAmount,
	}
	body, err := json.Marshal(evt)
	if err != nil {
		s.lg.Error("order_event_marshal_failed", err, map[string]any{"order_number": rec.OrderNumber})
		return
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.pub.Publish(pctx, mq.OrdersExchange, "", body); err != nil {
		s.lg.Error("order_event_publish_failed", err, map[string]any{"order_number": rec.OrderNumber})
	}
}
