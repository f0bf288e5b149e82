//go:generate mockgen -source ./producer.go -destination=./mocks/producer.go -package=mock_kafka
package kafka

import (
	"context"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Producer interface {
	SendMessage(ctx context.Context, topic string, key []byte, value []byte) error
	Close() error
}

// WriterProducer publishes through a kafkago.Writer. The topic is set per message.
type WriterProducer struct {
	writer *kafkago.Writer
	log    *zap.Logger
}

func NewWriterProducer(brokers []string, logger *zap.Logger) *WriterProducer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return &WriterProducer{
		writer: w,
		log:    logger.With(zap.String("component", "kafka-producer")),
	}
}

func (p *WriterProducer) SendMessage(ctx context.Context, topic string, key []byte, value []byte) error {
	err := p.writer.WriteMessages(ctx, kafkago.Message{
		Topic: topic,
		Key:   key,
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("writing to %s: %w", topic, err)
	}
	p.log.Debug("Kafka: message written", zap.String("topic", topic), zap.ByteString("key", key))
	return nil
}

func (p *WriterProducer) Close() error {
	p.log.Info("Closing Kafka producer")
	return p.writer.Close()
}

// ConsoleProducer logs messages instead of sending them. Used when no brokers
// are configured.
type ConsoleProducer struct {
	log *zap.Logger
}

func NewConsoleProducer(logger *zap.Logger) *ConsoleProducer {
	l := logger.With(zap.String("component", "kafka-producer"))
	l.Info("Initialized console Kafka producer")
	return &ConsoleProducer{log: l}
}

func (p *ConsoleProducer) SendMessage(ctx context.Context, topic string, key []byte, value []byte) error {
	if err := ctx.Err(); err != nil {
		p.log.Warn("Kafka (console): cancelled", zap.String("topic", topic), zap.ByteString("key", key))
		return err
	}
	p.log.Info("Kafka (console)",
		zap.String("topic", topic),
		zap.ByteString("key", key),
		zap.ByteString("value", value),
	)
	return nil
}

func (p *ConsoleProducer) Close() error {
	p.log.Info("Closing console Kafka producer")
	return nil
}
