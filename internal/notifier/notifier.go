package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/FACorreiaa/go-evently-api/app/observability/metrics"
	"github.com/FACorreiaa/go-evently-api/config"
	"github.com/FACorreiaa/go-evently-api/internal/types"
)

var (
	_ Publisher = (*KafkaPublisher)(nil)
	_ Publisher = NoopPublisher{}
)

// Publisher hands a notification to the message bus.
type Publisher interface {
	Publish(ctx context.Context, n types.Notification) error
	Close() error
}

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	logger *slog.Logger
}

// NewKafkaPublisher writes asynchronously, so Publish only fails on encoding
// or a closed writer. Delivery errors are logged from the completion hook.
func NewKafkaPublisher(cfg config.KafkaConfig, logger *slog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		Async:                  true,
		BatchTimeout:           50 * time.Millisecond,
		Completion: func(messages []kafka.Message, err error) {
			if err == nil {
				return
			}
			metrics.Get().NotificationErrorsTotal.Add(context.Background(), int64(len(messages)))
			logger.Error("Failed to deliver notifications",
				slog.Int("count", len(messages)),
				slog.String("topic", cfg.Topic),
				slog.Any("error", err),
			)
		},
	}
	return newKafkaPublisher(writer, logger)
}

func newKafkaPublisher(w messageWriter, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, logger: logger}
}

func (p *KafkaPublisher) Publish(ctx context.Context, n types.Notification) error {
	value, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(n.EventID, 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(n.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s notification: %w", n.Type, err)
	}
	p.logger.DebugContext(ctx, "Notification published", slog.String("type", string(n.Type)), slog.Int64("event_id", n.EventID))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher is used when kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, types.Notification) error { return nil }
func (NoopPublisher) Close() error                                      { return nil }

// New picks the publisher for cfg.
func New(cfg config.KafkaConfig, logger *slog.Logger) Publisher {
	if !cfg.Enabled {
		logger.Info("Kafka notifications disabled")
		return NoopPublisher{}
	}
	logger.Info("Kafka notifications enabled", slog.Any("brokers", cfg.Brokers), slog.String("topic", cfg.Topic))
	return NewKafkaPublisher(cfg, logger)
}

// Notifier publishes best effort: failures are logged and counted, never
// returned to the caller.
type Notifier struct {
	pub    Publisher
	logger *slog.Logger
	now    func() time.Time
}

func NewNotifier(pub Publisher, logger *slog.Logger) *Notifier {
	return &Notifier{pub: pub, logger: logger, now: time.Now}
}

func (n *Notifier) Notify(ctx context.Context, typ types.NotificationType, eventID, participantID int64) {
	if n == nil || n.pub == nil {
		return
	}
	msg := types.Notification{
		Type:          typ,
		EventID:       eventID,
		ParticipantID: participantID,
		OccurredAt:    n.now().UTC(),
	}
	m := metrics.Get()
	if err := n.pub.Publish(ctx, msg); err != nil {
		m.NotificationErrorsTotal.Add(ctx, 1)
		n.logger.WarnContext(ctx, "Notification not published", slog.String("type", string(typ)), slog.Any("error", err))
		return
	}
	m.NotificationsTotal.Add(ctx, 1)
}
