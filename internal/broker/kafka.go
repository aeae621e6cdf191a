package broker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/segmentio/kafka-go"

	"github.com/picksmart/picksmart/internal/logger"
)

// KafkaBroker publishes with one writer per topic and consumes through a
// consumer-group reader per topic.
type KafkaBroker struct {
	brokers []string
	groupID string

	mu      sync.Mutex
	writers map[string]*kafka.Writer
	readers []*kafka.Reader
}

func NewKafkaBroker(brokers string, groupID string) *KafkaBroker {
	return &KafkaBroker{
		brokers: strings.Split(brokers, ","),
		groupID: groupID,
		writers: make(map[string]*kafka.Writer),
	}
}

func (b *KafkaBroker) writer(topic string) *kafka.Writer {
	b.mu.Lock()
	defer b.mu.Unlock()

	w, ok := b.writers[topic]
	if !ok {
		w = &kafka.Writer{
			Addr:     kafka.TCP(b.brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		}
		b.writers[topic] = w
	}
	return w
}

func (b *KafkaBroker) Publish(ctx context.Context, topic string, value []byte) error {
	if err := b.writer(topic).WriteMessages(ctx, kafka.Message{Value: value}); err != nil {
		return fmt.Errorf("failed to write to topic %s: %w", topic, err)
	}
	return nil
}

func (b *KafkaBroker) Consume(ctx context.Context, topic string) (<-chan []byte, error) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     b.brokers,
		GroupID:     b.groupID,
		Topic:       topic,
		StartOffset: kafka.LastOffset,
	})

	b.mu.Lock()
	b.readers = append(b.readers, reader)
	b.mu.Unlock()

	out := make(chan []byte)
	go func() {
		defer close(out)
		for {
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
					logger.Log.Error("kafka read failed", "topic", topic, "error", err)
				}
				return
			}
			select {
			case out <- msg.Value:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (b *KafkaBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for _, w := range b.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, r := range b.readers {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
