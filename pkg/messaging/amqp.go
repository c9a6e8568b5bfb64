package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"github.com/vishalk7890/Support-IQ/pkg/insight"
	"github.com/vishalk7890/Support-IQ/pkg/metrics"
)

// InsightNotification is the message published for one high-priority insight
type InsightNotification struct {
	MessageID    string           `json:"message_id"`
	InsightID    string           `json:"insight_id"`
	TranscriptID string           `json:"transcript_id"`
	AgentName    string           `json:"agent_name,omitempty"`
	Type         insight.Type     `json:"type"`
	Category     string           `json:"category"`
	Priority     insight.Priority `json:"priority"`
	Message      string           `json:"message"`
	Timestamp    time.Time        `json:"timestamp"`
}

// AMQPConfig holds AMQP client configuration
type AMQPConfig struct {
	URL          string
	QueueName    string
	ExchangeName string
	RoutingKey   string
	Durable      bool
	AutoDelete   bool
}

// AMQPNotifier publishes high-priority insight notifications to an AMQP
// queue. It implements Notifier.
type AMQPNotifier struct {
	logger    *logrus.Logger
	config    AMQPConfig
	conn      *amqp.Connection
	channel   *amqp.Channel
	connected bool
	connMutex sync.RWMutex
	stopChan  chan struct{}
}

// NewAMQPNotifier creates a new AMQP notifier
func NewAMQPNotifier(logger *logrus.Logger, config AMQPConfig) *AMQPNotifier {
	if config.RoutingKey == "" {
		config.RoutingKey = config.QueueName
	}
	config.Durable = true
	config.AutoDelete = false

	return &AMQPNotifier{
		logger:   logger,
		config:   config,
		stopChan: make(chan struct{}),
	}
}

// Connect establishes a connection to the AMQP server
func (n *AMQPNotifier) Connect() error {
	n.connMutex.Lock()
	defer n.connMutex.Unlock()

	if n.connected {
		return nil
	}

	if n.config.URL == "" || n.config.QueueName == "" {
		n.logger.Warn("AMQP_URL or AMQP_QUEUE_NAME not set, insight notifications will be disabled")
		return fmt.Errorf("AMQP URL or queue name not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connChan := make(chan struct {
		conn *amqp.Connection
		err  error
	}, 1)

	go func() {
		conn, err := amqp.Dial(n.config.URL)
		select {
		case <-ctx.Done():
			if conn != nil {
				conn.Close()
			}
			return
		case connChan <- struct {
			conn *amqp.Connection
			err  error
		}{conn, err}:
		}
	}()

	var conn *amqp.Connection
	var err error
	select {
	case result := <-connChan:
		conn = result.conn
		err = result.err
	case <-ctx.Done():
		return fmt.Errorf("connection to AMQP server timed out after 5 seconds")
	}

	if err != nil {
		return fmt.Errorf("failed to connect to AMQP server: %w", err)
	}

	n.conn = conn

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open AMQP channel: %w", err)
	}
	n.channel = channel

	_, err = channel.QueueDeclare(
		n.config.QueueName,
		n.config.Durable,
		n.config.AutoDelete,
		false, // Exclusive
		false, // No-wait
		nil,   // Arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("failed to declare AMQP queue: %w", err)
	}

	n.connected = true
	metrics.SetAMQPConnectionStatus(true)
	n.logger.WithFields(logrus.Fields{
		"url":   n.config.URL,
		"queue": n.config.QueueName,
	}).Info("Connected to AMQP server")

	// New stop channel in case this is a reconnect
	n.stopChan = make(chan struct{})
	go n.monitorConnection()

	return nil
}

// Disconnect closes the AMQP connection
func (n *AMQPNotifier) Disconnect() {
	n.connMutex.Lock()
	defer n.connMutex.Unlock()

	if !n.connected {
		return
	}

	close(n.stopChan)

	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		n.conn.Close()
	}

	n.connected = false
	metrics.SetAMQPConnectionStatus(false)
	n.logger.Info("Disconnected from AMQP server")
}

// IsConnected returns the connection status
func (n *AMQPNotifier) IsConnected() bool {
	n.connMutex.RLock()
	defer n.connMutex.RUnlock()
	return n.connected
}

// NotifyHighPriority publishes one notification per insight. Publishing
// stops at the first context cancellation but individual publish failures
// only log; partial delivery returns the last error.
func (n *AMQPNotifier) NotifyHighPriority(ctx context.Context, insights []insight.Insight) error {
	if !n.IsConnected() {
		return fmt.Errorf("not connected to AMQP server")
	}

	var lastErr error
	for i := range insights {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err := n.publish(&insights[i]); err != nil {
			n.logger.WithError(err).WithField("insight_id", insights[i].ID).Warn("Failed to publish insight notification")
			metrics.RecordAMQPPublish(n.config.QueueName, "error")
			lastErr = err
			continue
		}
		metrics.RecordAMQPPublish(n.config.QueueName, "success")
	}
	return lastErr
}

func (n *AMQPNotifier) publish(ins *insight.Insight) error {
	notification := InsightNotification{
		MessageID:    uuid.NewString(),
		InsightID:    ins.ID,
		TranscriptID: ins.TranscriptID,
		AgentName:    ins.AgentName,
		Type:         ins.Type,
		Category:     ins.Category,
		Priority:     ins.Priority,
		Message:      ins.Message,
		Timestamp:    time.Now(),
	}

	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal insight notification: %w", err)
	}

	n.connMutex.RLock()
	defer n.connMutex.RUnlock()

	if !n.connected || n.channel == nil {
		return fmt.Errorf("lost AMQP connection before publishing")
	}

	err = n.channel.Publish(
		n.config.ExchangeName,
		n.config.RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish insight notification: %w", err)
	}

	n.logger.WithField("insight_id", ins.ID).Debug("Published insight notification")
	return nil
}

// monitorConnection watches for connection loss and reconnects with backoff
func (n *AMQPNotifier) monitorConnection() {
	closeChan := make(chan *amqp.Error)

	n.connMutex.RLock()
	if n.conn != nil {
		n.conn.NotifyClose(closeChan)
	}
	n.connMutex.RUnlock()

	for {
		select {
		case <-n.stopChan:
			return
		case closeErr := <-closeChan:
			n.connMutex.Lock()
			n.connected = false
			n.connMutex.Unlock()
			metrics.SetAMQPConnectionStatus(false)

			n.logger.WithError(closeErr).Warn("AMQP connection closed, attempting to reconnect")

			for attempt := 1; attempt <= 10; attempt++ {
				n.logger.WithField("attempt", attempt).Info("Reconnecting to AMQP server")

				if err := n.Connect(); err == nil {
					n.logger.Info("Successfully reconnected to AMQP server")
					return
				} else {
					n.logger.WithError(err).WithField("attempt", attempt).Error("Failed to reconnect to AMQP server")
				}

				backoff := time.Duration(1<<uint(attempt-1)) * time.Second
				if backoff > 30*time.Second {
					backoff = 30 * time.Second
				}
				time.Sleep(backoff)
			}
			return
		}
	}
}
