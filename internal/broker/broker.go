package broker

import "context"

// Broker carries opaque JSON payloads between the transport adapter and the
// response dispatcher over named topics. Delivery is at-least-once; consumers
// must tolerate duplicates.
type Broker interface {
	Publish(ctx context.Context, topic string, value []byte) error
	Consume(ctx context.Context, topic string) (<-chan []byte, error)
	Close() error
}
