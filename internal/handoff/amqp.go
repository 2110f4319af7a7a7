package handoff

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-seat-selection/internal/model"
	"github.com/iliyamo/cinema-seat-selection/internal/queue"
)

// AMQPGateway publishes checkout requests to a durable RabbitMQ queue.
// A connection is dialled per publish; proceeding happens once per
// booking so there is nothing worth pooling.
type AMQPGateway struct {
	url   string
	queue string
	log   *zap.Logger
}

// NewAMQPGateway returns a gateway for the broker at url.  An empty
// queue name selects queue.CheckoutQueueName.
func NewAMQPGateway(url, queueName string, log *zap.Logger) *AMQPGateway {
	if queueName == "" {
		queueName = queue.CheckoutQueueName
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AMQPGateway{url: url, queue: queueName, log: log}
}

// ProceedToPayment publishes p as a persistent JSON message.  Errors are
// logged and returned; the session stays open so the user can retry.
func (g *AMQPGateway) ProceedToPayment(ctx context.Context, p model.CheckoutPayload) error {
	conn, err := amqp.Dial(g.url)
	if err != nil {
		g.log.Error("rabbitmq dial failed", zap.Error(err))
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		g.log.Error("rabbitmq channel open failed", zap.Error(err))
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// durable, not auto-deleted, not exclusive
	if _, err := ch.QueueDeclare(g.queue, true, false, false, false, nil); err != nil {
		g.log.Error("rabbitmq queue declare failed", zap.String("queue", g.queue), zap.Error(err))
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	body, err := json.Marshal(ToEvent(p))
	if err != nil {
		return fmt.Errorf("marshal checkout event: %w", err)
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    p.SessionID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", g.queue, false, false, pub); err != nil {
		g.log.Error("rabbitmq publish failed", zap.String("queue", g.queue), zap.Error(err))
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	g.log.Info("checkout published",
		zap.String("queue", g.queue),
		zap.String("session_id", p.SessionID),
		zap.Strings("seats", p.SeatLabels),
	)
	return nil
}

// ToEvent converts a payload into the message published on the queue.
func ToEvent(p model.CheckoutPayload) queue.CheckoutRequestedEvent {
	ev := queue.CheckoutRequestedEvent{
		SessionID:   p.SessionID,
		UserID:      p.UserID,
		ShowtimeID:  p.ShowtimeID,
		SeatIDs:     p.SeatIDs,
		SeatLabels:  p.SeatLabels,
		Total:       p.Total,
		RequestedAt: p.IssuedAt.UTC().Format(time.RFC3339),
	}
	if p.MovieRef != nil {
		ev.MovieID = p.MovieRef.ID
		ev.MovieTitle = p.MovieRef.Title
	}
	return ev
}
