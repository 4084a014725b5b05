package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"smartmenu-system/internal/domain"
)

type Orders interface {
	CreateOrder(ctx context.Context, rec domain.OrderRecord) error
	OrderCount(ctx context.Context) (int, error)
	MergeChannelStatus(ctx context.Context, orderID, channel string, st domain.ChannelStatus) error
}

type ordersPG struct{ pool *pgxpool.Pool }

func NewOrdersPG(pool *pgxpool.Pool) Orders { return &ordersPG{pool: pool} }

func (o *ordersPG) OrderCount(ctx context.Context) (int, error) {
	var count int
	if err := o.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get order count: %w", err)
	}
	return count, nil
}

func (o *ordersPG) CreateOrder(ctx context.Context, rec domain.OrderRecord) error {
	tx, err := o.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, order_number, table_id, currency, total_amount, channel_status, created_at)
		VALUES ($1, $2, $3, $4, $5, '{}'::jsonb, $6)
	`, rec.ID, rec.OrderNumber, rec.TableID, rec.Currency, rec.TotalAmount, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for _, item := range rec.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, name, quantity, price)
			VALUES ($1, $2, $3, $4)
		`, rec.ID, item.Name, item.Quantity, item.Price)
		if err != nil {
			return fmt.Errorf("failed to insert order item %s: %w", item.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// MergeChannelStatus upserts one channel's status key into channel_status.
// The jsonb || merge keeps every other channel's entry intact; the rest of
// the order row is never touched.
func (o *ordersPG) MergeChannelStatus(ctx context.Context, orderID, channel string, st domain.ChannelStatus) error {
	body, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal channel status: %w", err)
	}
	tag, err := o.pool.Exec(ctx, `
		UPDATE orders
		SET channel_status = COALESCE(channel_status, '{}'::jsonb) || jsonb_build_object($2::text, $3::jsonb)
		WHERE id = $1
	`, orderID, channel, body)
	if err != nil {
		return fmt.Errorf("failed to patch channel status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s not found", orderID)
	}
	return nil
}
