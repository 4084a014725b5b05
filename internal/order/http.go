package order

import (
	"context"
	"net/http"
	"strconv"

	"smartmenu-system/internal/common/config"
	"smartmenu-system/internal/common/db"
	"smartmenu-system/internal/common/httpx"
	"smartmenu-system/internal/common/logger"
	"smartmenu-system/internal/common/mq"
	"smartmenu-system/internal/repository"
)

// Run wires the order service end to end: Postgres, RabbitMQ topology,
// submission service, HTTP surface. Blocks until ctx is canceled.
func Run(ctx context.Context, cfg config.App, port int) error {
	lg := logger.New("order-service")

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

	svc := NewService(repository.NewOrdersPG(pool), rmq, cfg.Notifications.Currency, lg)
	h := NewHandler(svc, lg)

	mux := http.NewServeMux()
	mux.HandleFunc("/orders", h.CreateOrder)

	lg.Info("listening", map[string]any{"port": port})
	return httpx.New(":"+strconv.Itoa(port), mux).Run(ctx)
}
