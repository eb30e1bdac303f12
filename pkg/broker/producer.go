package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/BMMUGOMBA/terminal-pulse/internal/entity"
)

// MessageWriter is the part of kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes workspace events to a Kafka topic. Messages are keyed
// by workspace so one workspace's events stay ordered within a partition.
type Producer struct {
	l     *slog.Logger
	w     MessageWriter
	topic string
}

func NewProducer(l *slog.Logger, brokers []string, topic string) *Producer {
	l = l.WithGroup("kafka").With("topic", topic)

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "",
		Balancer:               &kafka.Hash{},
		Async:                  true,
		Compression:            0,
		Logger:                 &infoLogger{l: l},
		ErrorLogger:            &errorLogger{l: l},
		AllowAutoTopicCreation: true,
	}

	return NewProducerWithWriter(l, w, topic)
}

func NewProducerWithWriter(l *slog.Logger, w MessageWriter, topic string) *Producer {
	return &Producer{
		l:     l,
		w:     w,
		topic: topic,
	}
}

func (p *Producer) Publish(ctx context.Context, event entity.Event) {
	b, err := json.Marshal(event)
	if err != nil {
		p.l.ErrorContext(ctx, fmt.Sprintf("marshal event: %s", err))
		return
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Workspace),
		Value: b,
		Topic: p.topic,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		p.l.ErrorContext(ctx, fmt.Sprintf("write kafka message: %s", err))
		return
	}
}

func (p *Producer) Close() {
	err := p.w.Close()
	if err != nil {
		p.l.Error(fmt.Sprintf("close kafka writer: %s", err))
	}
}
