package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nutriscan/nutriscan/internal/buildinfo"
	"github.com/nutriscan/nutriscan/internal/config"
	"github.com/nutriscan/nutriscan/internal/gateway"
	"github.com/nutriscan/nutriscan/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	srv, err := gateway.New(cfg, logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil))))
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
