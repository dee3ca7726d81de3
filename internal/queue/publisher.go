package queue

import (
    "context"
    "encoding/json"
    "log/slog"
    "time"

    "github.com/google/uuid"
    amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends audit events to RabbitMQ.  A connection is dialled per
// publish; audit traffic is low and this keeps the publisher free of
// reconnect state.
type Publisher struct {
    url    string
    queue  string
    logger *slog.Logger
}

func NewPublisher(url string, logger *slog.Logger) *Publisher {
    if logger == nil {
        logger = slog.Default()
    }
    return &Publisher{url: url, queue: AuditQueueName, logger: logger}
}

// defaultDialTimeout bounds the broker dial and handshake when ctx has no
// deadline.
const defaultDialTimeout = 5 * time.Second

// dialTimeout is what is left of ctx's deadline.
func dialTimeout(ctx context.Context) (time.Duration, error) {
    if err := ctx.Err(); err != nil {
        return 0, err
    }
    deadline, ok := ctx.Deadline()
    if !ok {
        return defaultDialTimeout, nil
    }
    left := time.Until(deadline)
    if left <= 0 {
        return 0, context.DeadlineExceeded
    }
    return left, nil
}

// Publish marshals ev and stores it as a persistent message on the audit
// queue.  A missing ID is filled with a random UUID.  Errors are logged
// and returned so the caller can decide to ignore them.
func (p *Publisher) Publish(ctx context.Context, ev BookingAuditEvent) error {
    if ev.ID == "" {
        ev.ID = uuid.NewString()
    }
    timeout, err := dialTimeout(ctx)
    if err != nil {
        return err
    }
    conn, err := amqp.DialConfig(p.url, amqp.Config{
        Locale: "en_US",
        Dial:   amqp.DefaultDial(timeout),
    })
    if err != nil {
        p.logger.Error("rabbitmq dial failed", "err", err)
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        p.logger.Error("rabbitmq channel open failed", "err", err)
        return err
    }
    defer func() { _ = ch.Close() }()

    // Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
        p.logger.Error("rabbitmq queue declare failed", "queue", p.queue, "err", err)
        return err
    }

    body, err := json.Marshal(ev)
    if err != nil {
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        MessageId:    ev.ID,
        Type:         ev.Kind,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
        p.logger.Error("rabbitmq publish failed", "queue", p.queue, "err", err)
        return err
    }
    return nil
}
