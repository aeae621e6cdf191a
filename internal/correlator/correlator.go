// Package correlator pairs outbound request envelopes with their inbound
// response envelopes across the message-queue boundary.
//
// A waiter follows this state transition:
//
//	Idle → Sent → {Matched | TimedOut | MismatchError}
//
// Every terminal state releases the waiter registration, so the registry
// never leaks entries on timeout or error paths.
package correlator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/picksmart/picksmart/internal/logger"
	"github.com/picksmart/picksmart/internal/models"
)

type Correlator struct {
	mu      sync.Mutex
	waiters map[string]chan models.ResponseEnvelope
}

func New() *Correlator {
	return &Correlator{
		waiters: make(map[string]chan models.ResponseEnvelope),
	}
}

// Start runs the dispatcher over the shared inbound stream, demultiplexing
// envelopes by uid into per-waiter channels. Envelopes with no pending waiter
// (duplicates, strays from earlier runs) are logged and dropped. Returns when
// the stream closes or ctx is cancelled.
func (c *Correlator) Start(ctx context.Context, inbound <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-inbound:
			if !ok {
				return
			}

			var env models.ResponseEnvelope
			if err := json.Unmarshal(raw, &env); err != nil {
				logger.Log.Error("failed to decode response envelope", "error", err)
				continue
			}

			c.deliver(env)
		}
	}
}

func (c *Correlator) deliver(env models.ResponseEnvelope) {
	c.DeliverTo(env.UID, env)
}

// DeliverTo hands env to the waiter registered for uid. The dispatcher routes
// by the envelope's own uid; a transport that hands back exactly one message
// deterministically may deliver it to the expected waiter instead, in which
// case Await surfaces ErrCorrelationMismatch when the uids differ.
func (c *Correlator) DeliverTo(uid string, env models.ResponseEnvelope) {
	c.mu.Lock()
	ch, ok := c.waiters[uid]
	c.mu.Unlock()

	if !ok {
		logger.Log.Warn("dropping envelope with no pending waiter", "uid", env.UID)
		return
	}

	select {
	case ch <- env:
	default:
		// Waiter channel is one-shot; a second delivery for the same uid is a
		// duplicate.
		logger.Log.Warn("dropping duplicate envelope", "uid", env.UID)
	}
}

// Register creates a pending waiter for uid. Must be called before the
// request envelope is published so a fast response cannot race past the
// registration.
func (c *Correlator) Register(uid string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.waiters[uid]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateWaiter, uid)
	}

	c.waiters[uid] = make(chan models.ResponseEnvelope, 1)
	return nil
}

// Release removes the waiter for uid. Idempotent; Await releases on every
// exit path, Release exists for callers that registered but never awaited.
func (c *Correlator) Release(uid string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.waiters, uid)
}

// Await blocks until the response carrying uid arrives, the timeout elapses,
// or ctx is cancelled. The waiter registration is released on every path.
func (c *Correlator) Await(ctx context.Context, uid string, timeout time.Duration) (models.ResponseEnvelope, error) {
	defer c.Release(uid)

	c.mu.Lock()
	ch, ok := c.waiters[uid]
	c.mu.Unlock()

	if !ok {
		return models.ResponseEnvelope{}, fmt.Errorf("%w: %s", ErrNotRegistered, uid)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case env := <-ch:
		if env.UID != uid {
			logger.Log.Error("uid mismatch", "expected", uid, "got", env.UID)
			return models.ResponseEnvelope{}, fmt.Errorf("%w: expected %s, got %s", ErrCorrelationMismatch, uid, env.UID)
		}
		return env, nil
	case <-timer.C:
		return models.ResponseEnvelope{}, fmt.Errorf("%w: %s after %s", ErrCorrelationTimeout, uid, timeout)
	case <-ctx.Done():
		return models.ResponseEnvelope{}, ctx.Err()
	}
}

// Len reports the number of pending waiters.
func (c *Correlator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}
