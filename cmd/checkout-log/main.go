// Command checkout-log consumes checkout requests from RabbitMQ and
// appends them to logs/checkout.log.  It stands in for the payment stage.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-seat-selection/internal/config"
	"github.com/iliyamo/cinema-seat-selection/internal/queue"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	qc := config.LoadQueueConfig()
	err = queue.StartCheckoutConsumer(ctx, queue.ConsumerConfig{
		URL:    qc.URL,
		Queue:  qc.Name,
		LogDir: qc.LogDir,
	}, logger)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("checkout consumer", zap.Error(err))
	}
	logger.Info("checkout consumer stopped")
}
