package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher emits message.created events to Kafka. It is optional: a nil
// *Publisher is safe to call and does nothing, mirroring deployments
// without a broker.
type Publisher struct {
	writer *kafka.Writer
	log    *zap.SugaredLogger
}

func NewPublisher(brokers []string, topic string, log *zap.SugaredLogger) *Publisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	return &Publisher{writer: w, log: log}
}

// MessageCreated publishes the created message keyed by receiver so all
// of one user's notifications land in the same partition. Delivery is
// best effort; failures are logged, never surfaced to the sender.
func (p *Publisher) MessageCreated(receiverID string, payload interface{}) {
	if p == nil {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		p.log.Warnw("event marshal failed", "err", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(receiverID), Value: b}); err != nil {
		p.log.Warnw("event publish failed", "err", err)
	}
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
