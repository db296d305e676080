package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmehdipour/churnctl/internal/model"
	"github.com/segmentio/kafka-go"
)

type Config struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration // default 10s
}

// Publisher sends canceled customers of a finished report downstream.
type Publisher interface {
	PublishCanceled(ctx context.Context, reportID string, canceled []model.CanceledCustomer) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer is a thin wrapper around segmentio/kafka-go Writer.
type Producer struct {
	w messageWriter
}

// NewProducerFromConfig returns nil when no brokers are configured.
func NewProducerFromConfig(c Config) *Producer {
	if len(c.Brokers) == 0 {
		return nil
	}
	wt := c.WriteTimeout
	if wt <= 0 {
		wt = 10 * time.Second
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(c.Brokers...),
		Topic:        c.Topic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: wt,
		RequiredAcks: kafka.RequireOne,
	}
	return &Producer{w: w}
}

// CanceledEvent is the JSON value of one published message.
type CanceledEvent struct {
	ReportID   string    `json:"report_id"`
	Email      string    `json:"email"`
	CanceledAt time.Time `json:"canceled_at"`
}

func canceledMessages(reportID string, canceled []model.CanceledCustomer) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(canceled))
	for _, c := range canceled {
		b, err := json.Marshal(CanceledEvent{ReportID: reportID, Email: c.Email, CanceledAt: c.CanceledAt.UTC()})
		if err != nil {
			return nil, fmt.Errorf("marshal canceled event: %w", err)
		}
		msgs = append(msgs, kafka.Message{Key: []byte(c.Email), Value: b})
	}
	return msgs, nil
}

// PublishCanceled writes one message per canceled customer, keyed by email.
func (p *Producer) PublishCanceled(ctx context.Context, reportID string, canceled []model.CanceledCustomer) error {
	if len(canceled) == 0 {
		return nil
	}
	msgs, err := canceledMessages(reportID, canceled)
	if err != nil {
		return err
	}
	if err := p.w.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("kafka write %d messages: %w", len(msgs), err)
	}
	return nil
}

func (p *Producer) Close() error { return p.w.Close() }
