package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/flight-price-watch/internal/queue"
)

// AlertPublisher delivers alert events to whoever notifies users.
// Publication is best effort: a failure never undoes the committed
// alert.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, ev q.AlertEvent) error
}

// NopPublisher drops every event.  It is used when no broker is
// configured.
type NopPublisher struct{}

func (NopPublisher) PublishAlert(context.Context, q.AlertEvent) error { return nil }

// RabbitPublisher publishes alert events to a durable RabbitMQ queue.  A
// connection is dialled per publish; alerts are rare enough that pooling
// is not worth the reconnect handling.
type RabbitPublisher struct {
	URL   string
	Queue string
}

// PublishAlert marshals ev and publishes it as a persistent message on the
// default exchange, routed to the configured queue.  Errors are logged
// and returned so the caller can choose to ignore them.
func (p RabbitPublisher) PublishAlert(ctx context.Context, ev q.AlertEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(p.Queue, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Type:         ev.Event,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
