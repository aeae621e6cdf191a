package broker

import (
	"context"
	"fmt"
	"sync"
)

const memoryTopicBuffer = 64

// MemoryBroker is an in-process Broker backed by buffered channels, used by
// tests and when no Kafka brokers are configured. A full topic drops its
// oldest message on publish, retention-style, so a topic nobody consumes
// never blocks publishers.
type MemoryBroker struct {
	mu     sync.Mutex
	topics map[string]chan []byte
	closed bool
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{
		topics: make(map[string]chan []byte),
	}
}

func (b *MemoryBroker) topic(name string) (chan []byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, fmt.Errorf("broker is closed")
	}

	ch, ok := b.topics[name]
	if !ok {
		ch = make(chan []byte, memoryTopicBuffer)
		b.topics[name] = ch
	}
	return ch, nil
}

func (b *MemoryBroker) Publish(ctx context.Context, topic string, value []byte) error {
	ch, err := b.topic(topic)
	if err != nil {
		return err
	}

	for {
		select {
		case ch <- value:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Topic full: drop the oldest message and retry.
		select {
		case <-ch:
		default:
		}
	}
}

func (b *MemoryBroker) Consume(ctx context.Context, topic string) (<-chan []byte, error) {
	return b.topic(topic)
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for _, ch := range b.topics {
		close(ch)
	}
	return nil
}
