// Package queue defines message payloads exchanged over the message broker
// and the consumer that records alert events to a log file.
package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/flight-price-watch/internal/config"
)

// alertLogFile is the file, inside the configured log directory, that
// receives one line per consumed alert event.
const alertLogFile = "alerts.log"

// StartAlertConsumer connects to RabbitMQ, declares the alerts queue
// (durable), and consumes alert events until ctx is cancelled. Each event
// is appended to <LogDir>/alerts.log as a single line. Broker failures are
// retried with exponential backoff so the API keeps running without a
// broker.
func StartAlertConsumer(ctx context.Context, cfg config.AlertsConfig) error {
    backoff := time.Second
    for {
        if err := ctx.Err(); err != nil {
            return err
        }
        conn, err := amqp.Dial(cfg.URL)
        if err != nil {
            log.Printf("alert-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = consumeLoop(ctx, conn, cfg)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Printf("alert-consumer: consume loop ended: %v; reconnecting", err)
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

func consumeLoop(ctx context.Context, conn *amqp.Connection, cfg config.AlertsConfig) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Printf("alert-consumer: set QoS failed: %v", err)
    }

    if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.ConsumeWithContext(ctx, cfg.Queue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for d := range msgs {
        if err := handleMessage(cfg.LogDir, d.Body); err != nil {
            log.Printf("alert-consumer: handle message failed: %v", err)
            _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}

// FormatAlertLine renders ev the way it is written to the alert log.
func FormatAlertLine(ev AlertEvent) string {
    snap := "-"
    if ev.SnapshotID != nil {
        snap = fmt.Sprintf("%d", *ev.SnapshotID)
    }
    price := ev.Price
    if price == "" {
        price = "-"
    }
    line := fmt.Sprintf("[%s] %s | alert_id=%d | watch_id=%d | kind=%s | route=%s-%s | date=%s | price=%s %s | snapshot_id=%s",
        ev.OccurredAt, ev.Event, ev.AlertID, ev.WatchID, ev.Kind, ev.Origin, ev.Destination, ev.DepartureDate, price, ev.Currency, snap)
    if ev.ProviderOrderID != "" {
        line += " | order=" + ev.ProviderOrderID
    }
    return line + fmt.Sprintf(" | message=%q\n", ev.Message)
}

func handleMessage(dir string, body []byte) error {
    var ev AlertEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.AlertID == 0 || ev.Event == "" {
        return errors.New("event without alert_id or name")
    }
    if dir == "" {
        dir = "logs"
    }
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return fmt.Errorf("mkdir %s: %w", dir, err)
    }
    f, err := os.OpenFile(filepath.Join(dir, alertLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(FormatAlertLine(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}
