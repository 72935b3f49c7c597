// Package queue_publisher publishes domain notifications to RabbitMQ.
// Errors are logged and returned so callers can ignore a broker outage
// without interrupting the request that triggered the notification.
package queue_publisher

import (
    "context"
    "encoding/json"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/sirupsen/logrus"

    q "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/queue"
)

const notificationQueueName = "reservation.notifications"

// PublishNotification publishes a NotificationEvent to the durable
// reservation.notifications queue. Messages are marked persistent so
// they survive broker restarts.
func PublishNotification(ctx context.Context, log *logrus.Logger, event q.NotificationEvent) error {
    conn, err := amqp.Dial(q.BrokerURL())
    if err != nil {
        log.WithError(err).Warn("rabbitmq: dial failed")
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.WithError(err).Warn("rabbitmq: channel open failed")
        return err
    }
    defer func() { _ = ch.Close() }()

    // Idempotent declare keeps publisher and consumer in agreement.
    if _, err := ch.QueueDeclare(
        notificationQueueName,
        true,  // durable
        false, // autoDelete
        false, // exclusive
        false, // noWait
        nil,
    ); err != nil {
        log.WithError(err).Warn("rabbitmq: queue declare failed")
        return err
    }

    body, err := json.Marshal(event)
    if err != nil {
        log.WithError(err).Warn("rabbitmq: marshal event failed")
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }

    if err := ch.PublishWithContext(ctx,
        "",                    // default exchange
        notificationQueueName, // routing key = queue name
        false,                 // mandatory
        false,                 // immediate
        pub,
    ); err != nil {
        log.WithError(err).Warn("rabbitmq: publish failed")
        return err
    }
    return nil
}
