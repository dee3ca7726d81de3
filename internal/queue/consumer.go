package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log/slog"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// AuditLogFile is the file, inside the consumer's directory, that audit
// lines are appended to.
const AuditLogFile = "booking.log"

// Consumer drains the audit queue into a plain-text log file.
type Consumer struct {
    URL    string
    Dir    string
    Logger *slog.Logger
}

// Run connects to RabbitMQ and consumes the audit queue until ctx is
// cancelled.  Dial failures are retried with exponential backoff capped
// at 30s; a closed delivery channel triggers a reconnect.
func (c *Consumer) Run(ctx context.Context) error {
    logger := c.Logger
    if logger == nil {
        logger = slog.Default()
    }
    backoff := time.Second
    for {
        conn, err := amqp.Dial(c.URL)
        if err != nil {
            logger.Warn("audit consumer: dial failed", "err", err, "retry_in", backoff)
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = c.consume(ctx, conn, logger)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        logger.Warn("audit consumer: consume loop ended, reconnecting", "err", err)
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

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection, logger *slog.Logger) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        logger.Warn("audit consumer: set QoS failed", "err", err)
    }
    if _, err := ch.QueueDeclare(AuditQueueName, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(AuditQueueName, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := c.Handle(d.Body); err != nil {
                logger.Error("audit consumer: handle message failed", "err", err)
                _ = d.Nack(false, false) // do not requeue poison messages
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// Handle decodes one message body and appends it to the audit log.
func (c *Consumer) Handle(body []byte) error {
    var ev BookingAuditEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.Kind == "" || ev.BookingID == 0 {
        return errors.New("audit event missing kind or booking id")
    }
    dir := c.Dir
    if dir == "" {
        dir = "logs"
    }
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return fmt.Errorf("mkdir %s: %w", dir, err)
    }
    f, err := os.OpenFile(filepath.Join(dir, AuditLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(FormatLine(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// FormatLine renders ev as a single newline-terminated log line.
func FormatLine(ev BookingAuditEvent) string {
    return fmt.Sprintf("[%s] %s | id=%s | booking_id=%d | user_id=%d | event_id=%d | event=%q | status=%s | total=%s | actor_id=%d\n",
        ev.OccurredAt, ev.Kind, ev.ID, ev.BookingID, ev.UserID, ev.EventID, ev.EventTitle, ev.Status, ev.TotalAmount, ev.ActorID)
}
