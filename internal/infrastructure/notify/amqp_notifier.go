package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/markethub/backend/internal/domain/notification"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const notificationRoutingKey = "notification.email"

// emailMessage is the payload consumed by the mailer worker
type emailMessage struct {
	Subject   string    `json:"subject"`
	Recipient string    `json:"recipient"`
	Body      string    `json:"body"`
	QueuedAt  time.Time `json:"queued_at"`
}

// AMQPNotifier publishes notification messages to a RabbitMQ exchange for
// asynchronous delivery by a mailer worker
type AMQPNotifier struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger

	mu     sync.Mutex
	closed bool
}

// NewAMQPNotifier connects to RabbitMQ and declares the notification exchange
func NewAMQPNotifier(url, exchange string, logger *zap.Logger) (*AMQPNotifier, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("notify: failed to connect to broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("notify: failed to open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("notify: failed to declare exchange: %w", err)
	}

	return &AMQPNotifier{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// Send publishes an email message for asynchronous delivery
func (n *AMQPNotifier) Send(ctx context.Context, subject, recipient, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return fmt.Errorf("notify: notifier is closed")
	}

	payload, err := json.Marshal(emailMessage{
		Subject:   subject,
		Recipient: recipient,
		Body:      body,
		QueuedAt:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("notify: failed to marshal message: %w", err)
	}

	err = n.channel.PublishWithContext(ctx, n.exchange, notificationRoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("notify: failed to publish message: %w", err)
	}

	n.logger.Debug("notification queued",
		zap.String("subject", subject),
		zap.String("recipient", recipient))

	return nil
}

// Close shuts down the channel and connection
func (n *AMQPNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil
	}
	n.closed = true

	if err := n.channel.Close(); err != nil {
		n.conn.Close()
		return err
	}
	return n.conn.Close()
}

// Ensure AMQPNotifier implements Notifier interface
var _ notification.Notifier = (*AMQPNotifier)(nil)
