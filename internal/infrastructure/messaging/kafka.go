// Package messaging consumes the Kafka reindex and order topics and publishes reindex
// requests.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/hapkiduki/cart-products/internal/application/indexer"
	"github.com/hapkiduki/cart-products/internal/application/port"
	"github.com/hapkiduki/cart-products/internal/application/stock"
	"github.com/hapkiduki/cart-products/internal/infrastructure/config"
)

// OrderCreatedEvent is the event type handled on the order topic.
const OrderCreatedEvent = "OrderCreated"

// retryDelay is the pause after a failed read.
const retryDelay = time.Second

// MessageReader reads messages; *kafka.Reader implements it.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// MessageWriter writes messages; *kafka.Writer implements it.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Handler processes one message.
type Handler func(ctx context.Context, msg kafka.Message) error

// NewReader creates a consumer group reader for topic.
func NewReader(cfg config.KafkaConfig, topic string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
}

// NewWriter creates a writer for the reindex topic.
func NewWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
}

// Listener feeds the messages of a reader to a handler until its context ends.
type Listener struct {
	name    string
	reader  MessageReader
	handler Handler
	logger  port.Logger
}

// NewListener creates a listener.
func NewListener(name string, reader MessageReader, handler Handler, logger port.Logger) *Listener {
	return &Listener{
		name:    name,
		reader:  reader,
		handler: handler,
		logger:  logger.With("listener", name),
	}
}

// Start blocks until ctx is done. Read errors are logged and retried after a
// pause; handler errors are logged and the message is skipped.
func (l *Listener) Start(ctx context.Context) {
	l.logger.Info("Starting Kafka listener")
	defer func() {
		if err := l.reader.Close(); err != nil {
			l.logger.Warn("Failed to close Kafka reader", "error", err)
		}
	}()

	for {
		msg, err := l.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				l.logger.Info("Stopping Kafka listener")
				return
			}
			l.logger.Error("Failed to read Kafka message", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(retryDelay):
			}
			continue
		}
		l.processMessage(ctx, msg)
	}
}

func (l *Listener) processMessage(ctx context.Context, msg kafka.Message) {
	if err := l.handler(ctx, msg); err != nil {
		l.logger.Error("Failed to process Kafka message",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"error", err,
		)
	}
}

// IndexRunner runs indexer configurations.
type IndexRunner interface {
	Run(ctx context.Context, cfg indexer.Config) (string, error)
}

// NewReindexHandler returns a handler running the indexer configuration in
// each message.
func NewReindexHandler(runner IndexRunner, logger port.Logger) Handler {
	return func(ctx context.Context, msg kafka.Message) error {
		var cfg indexer.Config
		if err := json.Unmarshal(msg.Value, &cfg); err != nil {
			return fmt.Errorf("failed to decode indexer configuration: %w", err)
		}

		status, err := runner.Run(ctx, cfg)
		if err != nil {
			return fmt.Errorf("indexer %q failed: %w", cfg.Type, err)
		}
		if status == "" {
			logger.Debug("Indexer configuration ignored", "type", cfg.Type)
			return nil
		}
		logger.Info("Indexer finished", "type", cfg.Type, "status", status)
		return nil
	}
}

// OrderEvent is a message of the order topic.
type OrderEvent struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	OrderID   string            `json:"order_id"`
	Items     []stock.OrderItem `json:"items"`
	Timestamp time.Time         `json:"timestamp"`
}

// StockRemover books ordered quantities.
type StockRemover interface {
	RemoveOrdered(ctx context.Context, items []stock.OrderItem) error
}

// NewOrderHandler returns a handler removing the items of created orders
// from stock. Other event types are ignored.
func NewOrderHandler(remover StockRemover, logger port.Logger) Handler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event OrderEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("failed to decode order event: %w", err)
		}
		if event.EventType != OrderCreatedEvent {
			return nil
		}

		logger.Info("Processing OrderCreated event", "order_id", event.OrderID, "items", len(event.Items))
		if err := remover.RemoveOrdered(ctx, event.Items); err != nil {
			return fmt.Errorf("order %s: %w", event.OrderID, err)
		}
		return nil
	}
}

// ErrNoWriter is returned by a Publisher without writer.
var ErrNoWriter = errors.New("kafka writer not configured")

// Publisher sends indexer configurations to the reindex topic.
type Publisher struct {
	writer MessageWriter
}

// NewPublisher creates a publisher.
func NewPublisher(writer MessageWriter) *Publisher {
	return &Publisher{writer: writer}
}

// PublishReindex requests a run of cfg. Messages are keyed by indexer type so
// runs of one type stay ordered.
func (p *Publisher) PublishReindex(ctx context.Context, cfg indexer.Config) error {
	if p.writer == nil {
		return ErrNoWriter
	}

	value, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode indexer configuration: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(cfg.Type),
		Value: value,
		Time:  time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("failed to publish reindex request: %w", err)
	}
	return nil
}

// Close closes the writer.
func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
