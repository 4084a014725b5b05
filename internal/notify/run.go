package notify

import (
	"context"
	"encoding/json"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"

	"smartmenu-system/internal/common/config"
	"smartmenu-system/internal/common/db"
	"smartmenu-system/internal/common/logger"
	"smartmenu-system/internal/common/mq"
	"smartmenu-system/internal/domain"
	"smartmenu-system/internal/repository"
)

// Run consumes the notifications queue until ctx is canceled. Each delivery
// is handled in its own goroutine; dispatches for different orders share no
// state and may overlap. Deliveries are always acked — a failed webhook is
// recorded on the order, not requeued.
func Run(ctx context.Context, cfg config.App) error {
	lg := logger.New("notification-dispatcher")

	pool, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	rmq, err := mq.Dial(cfg.Rabbit)
	if err != nil {
		return err
	}
	defer rmq.Close()
	if err := rmq.DeclareAll(); err != nil {
		return err
	}

	deliveries, err := rmq.Consume(mq.NotificationsQueue, "notification-dispatcher", 8)
	if err != nil {
		return err
	}

	d := NewDispatcher(repository.NewOrdersPG(pool), cfg.Notifications.WebhookURL, lg)
	if cfg.Notifications.WebhookURL == "" {
		lg.Warn("channel_disabled", map[string]any{"reason": "webhook url not configured"})
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return consumeLoop(ctx, g, d, lg, deliveries) })
	return g.Wait()
}

// consumeLoop fans deliveries out to handler goroutines. Shutdown stops
// accepting new deliveries; a delivery channel closed by the broker while
// ctx is still live is a failure, so a supervisor restarts the consumer.
func consumeLoop(ctx context.Context, g *errgroup.Group, d *Dispatcher, lg *logger.Logger, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				err := errors.New("delivery channel closed by broker")
				lg.Error("consumer_closed", err, nil)
				return err
			}
			g.Go(func() error {
				handleDelivery(ctx, d, lg, msg)
				return nil
			})
		}
	}
}

func handleDelivery(ctx context.Context, d *Dispatcher, lg *logger.Logger, msg amqp.Delivery) {
	defer func() { _ = msg.Ack(false) }()

	var evt domain.OrderCreatedEvent
	if err := json.Unmarshal(msg.Body, &evt); err != nil {
		lg.Error("event_decode_failed", err, nil)
		return
	}
	// A dispatch that has begun runs to completion even through shutdown:
	// the POST is bounded by the client timeout, not by ctx, and the status
	// patch must always land.
	d.Handle(context.WithoutCancel(ctx), evt)
}
