// internal/events/kafka.go
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes events to a single topic keyed by "entity:id", so
// every change of one record lands on the same partition.
type KafkaPublisher struct {
	l     *slog.Logger
	w     *kafka.Writer
	topic string
}

func NewKafkaPublisher(l *slog.Logger, brokers []string, topic string) *KafkaPublisher {
	l = l.WithGroup("kafka").With("topic", topic)

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		Async:                  true,
		Logger:                 &infoLogger{l: l},
		ErrorLogger:            &errorLogger{l: l},
		AllowAutoTopicCreation: true,
	}

	return &KafkaPublisher{
		l:     l,
		w:     w,
		topic: topic,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) {
	b, err := json.Marshal(event)
	if err != nil {
		p.l.ErrorContext(ctx, "marshal event", "error", err)
		return
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.Entity + ":" + event.ID),
		Value: b,
	})
	if err != nil {
		p.l.ErrorContext(ctx, "write kafka message", "error", err, "entity", event.Entity, "id", event.ID)
	}
}

func (p *KafkaPublisher) Close() {
	if err := p.w.Close(); err != nil {
		p.l.Error(fmt.Sprintf("close kafka writer: %s", err))
	}
}

type infoLogger struct {
	l *slog.Logger
}

func (l *infoLogger) Printf(format string, v ...any) {
	l.l.Info(fmt.Sprintf(format, v...))
}

type errorLogger struct {
	l *slog.Logger
}

func (l *errorLogger) Printf(format string, v ...any) {
	l.l.Error(fmt.Sprintf(format, v...))
}
