package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"smartmenu-system/internal/common/config"
	"smartmenu-system/internal/common/logger"
	"smartmenu-system/internal/notify"
	"smartmenu-system/internal/order"
)

func main() {
	mode := flag.String("mode", "", "order-service | notification-dispatcher")
	port := flag.Int("port", 0, "http port for services that expose HTTP")
	cfgPath := flag.String("config", "", "path to YAML config (default: auto-discover)")
	flag.Parse()

	lg := logger.New("bootstrap")
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	path := *cfgPath
	if path == "" {
		var err error
		if path, err = config.FindConfig(); err != nil {
			fmt.Fprintln(os.Stderr, "no config file found; pass --config")
			os.Exit(2)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		lg.Error("config_load_failed", err, map[string]any{"path": path})
		os.Exit(1)
	}

	switch *mode {
	case "order-service":
		if *port == 0 {
			*port = cfg.HTTP.Port
		}
		lg.Info("service_started", map[string]any{"service": "order-service", "port": *port})
		if err := order.Run(ctx, cfg, *port); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "notification-dispatcher":
		lg.Info("service_started", map[string]any{"service": "notification-dispatcher"})
		if err := notify.Run(ctx, cfg); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "--mode is required: order-service | notification-dispatcher")
		os.Exit(2)
	}
}
