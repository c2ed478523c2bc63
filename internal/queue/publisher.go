// Package queue publishes audit events to RabbitMQ.
// Errors are logged by the caller; a broker outage must never take the
// auth request path down with it.
package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"app/internal/audit"
)

// 監査イベントを流すqueue名。
const auditQueueName = "auth.audit"

// ワイヤ上のイベント形。
type auditMessage struct {
	UserID     *string           `json:"user_id,omitempty"`
	Action     string            `json:"action"`
	IP         string            `json:"ip,omitempty"`
	UserAgent  string            `json:"user_agent,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// AuditPublisherはaudit.Publisherを満たすAMQP実装。
// 接続は発行のたびに張り直す。頻度が低い監査イベント向けの割り切り。
type AuditPublisher struct {
	url string
}

func NewAuditPublisher(url string) *AuditPublisher {
	return &AuditPublisher{url: url}
}

func (p *AuditPublisher) Publish(ctx context.Context, e audit.Event) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// queueが無ければ作る（冪等）。durableでブローカー再起動に耐える。
	if _, err := ch.QueueDeclare(
		auditQueueName, // name
		true,           // durable
		false,          // autoDelete
		false,          // exclusive
		false,          // noWait
		nil,            // args
	); err != nil {
		return err
	}

	body, err := json.Marshal(auditMessage{
		UserID:     e.UserID,
		Action:     string(e.Action),
		IP:         e.IP,
		UserAgent:  e.UserAgent,
		Metadata:   e.Metadata,
		OccurredAt: e.OccurredAt,
	})
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    e.OccurredAt.UTC(),
		Body:         body,
	}

	return ch.PublishWithContext(ctx,
		"",             // default exchange
		auditQueueName, // routing key = queue name
		false,          // mandatory
		false,          // immediate
		pub,
	)
}
