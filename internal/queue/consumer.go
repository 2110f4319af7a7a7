package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ConsumerConfig names the broker, the queue and the directory that
// receives checkout.log.
type ConsumerConfig struct {
	URL    string
	Queue  string
	LogDir string
}

// StartCheckoutConsumer connects to RabbitMQ, declares the checkout queue
// (durable) and appends every message to <LogDir>/checkout.log as a single
// human-friendly line.  It reconnects with backoff until ctx is cancelled,
// which is the only way it returns.  Malformed messages are rejected
// without requeue so one bad payload cannot stall the queue.
func StartCheckoutConsumer(ctx context.Context, cfg ConsumerConfig, log *zap.Logger) error {
	if cfg.Queue == "" {
		cfg.Queue = CheckoutQueueName
	}
	if cfg.LogDir == "" {
		cfg.LogDir = "logs"
	}
	if log == nil {
		log = zap.NewNop()
	}

	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(cfg.URL)
		if err != nil {
			log.Warn("checkout-consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, cfg, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("checkout-consumer: consume loop ended; reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, cfg ConsumerConfig, log *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("checkout-consumer: set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	log.Info("checkout-consumer: consuming", zap.String("queue", cfg.Queue))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := handleMessage(cfg.LogDir, d.Body); err != nil {
				log.Error("checkout-consumer: handle message failed", zap.Error(err))
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func handleMessage(dir string, body []byte) error {
	var ev CheckoutRequestedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.SessionID == "" || ev.ShowtimeID == 0 {
		return errors.New("incomplete checkout event")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "checkout.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders one checkout.log line, newline included.
func FormatLine(ev CheckoutRequestedEvent) string {
	return fmt.Sprintf("[%s] Checkout requested | session_id=%s | user_id=%s | showtime_id=%d | movie=%q | total=%.2f | seats=[%s]\n",
		ev.RequestedAt, ev.SessionID, ev.UserID, ev.ShowtimeID, ev.MovieTitle, ev.Total, strings.Join(ev.SeatLabels, ","))
}
