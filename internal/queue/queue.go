package queue

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shitzu-labs/shitzu-rewarder/internal/config"
	"github.com/shitzu-labs/shitzu-rewarder/internal/observability/metrics"
	"github.com/shitzu-labs/shitzu-rewarder/internal/types"
	"go.uber.org/zap"
)

const exchangeKind = "topic"

var ErrNotConnected = errors.New("queue manager is not connected")

// QueueManager publishes ledger events to a topic exchange. Routing keys are
// "<standard>.<event>" so consumers can bind to a single standard or event.
type QueueManager struct {
	cfg    *config.QueueConfig
	logger *zap.Logger

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewQueueManager(cfg *config.QueueConfig, logger *zap.Logger) (*QueueManager, error) {
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &QueueManager{cfg: cfg, logger: logger}, nil
}

func (qm *QueueManager) dialURL() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(qm.cfg.QueueUser, qm.cfg.QueuePassword),
		Host:   qm.cfg.Url,
	}
	return u.String()
}

// Start connects to the broker and declares the exchange. It does nothing
// when the queue is disabled.
func (qm *QueueManager) Start() error {
	if !qm.cfg.Enabled {
		qm.logger.Info("queue disabled, events are only logged and stored")
		return nil
	}

	qm.mu.Lock()
	defer qm.mu.Unlock()

	conn, err := amqp.Dial(qm.dialURL())
	if err != nil {
		return fmt.Errorf("failed to connect to queue: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to open queue channel: %w", err)
	}

	if err := channel.ExchangeDeclare(qm.cfg.Exchange, exchangeKind, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to declare exchange %s: %w", qm.cfg.Exchange, err)
	}

	if err := channel.Confirm(false); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	qm.conn = conn
	qm.channel = channel
	qm.logger.Info("connected to queue", zap.String("exchange", qm.cfg.Exchange))
	return nil
}

// PushEvent publishes ev and waits for the broker to confirm it.
func (qm *QueueManager) PushEvent(ctx context.Context, ev *types.Event) error {
	if !qm.cfg.Enabled {
		return nil
	}

	body, err := ev.JSON()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	qm.mu.Lock()
	defer qm.mu.Unlock()

	if qm.channel == nil || qm.channel.IsClosed() {
		metrics.RecordQueueSendError()
		return ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, qm.cfg.PublishTimeout)
	defer cancel()

	confirmation, err := qm.channel.PublishWithDeferredConfirmWithContext(
		ctx, qm.cfg.Exchange, ev.RoutingKey(), false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Type:         ev.Event.String(),
			Body:         body,
		},
	)
	if err != nil {
		metrics.RecordQueueSendError()
		return fmt.Errorf("failed to publish %s: %w", ev.Event, err)
	}

	acked, err := confirmation.WaitContext(ctx)
	if err != nil {
		metrics.RecordQueueSendError()
		return fmt.Errorf("failed to confirm %s: %w", ev.Event, err)
	}
	if !acked {
		metrics.RecordQueueSendError()
		return fmt.Errorf("broker rejected %s", ev.Event)
	}

	return nil
}

func (qm *QueueManager) Stop() error {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	if qm.conn == nil {
		return nil
	}
	err := qm.conn.Close()
	qm.conn = nil
	qm.channel = nil
	return err
}

// Shutdown gracefully stops the interaction with the queue, ensuring all resources are properly released.
func (qm *QueueManager) Shutdown() {
	qm.logger.Info("shutting down queue manager")
	if err := qm.Stop(); err != nil {
		qm.logger.Error("failed to close queue connection", zap.Error(err))
	}
}
