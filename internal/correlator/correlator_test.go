package correlator

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picksmart/picksmart/internal/models"
)

func envelope(uid, response string) models.ResponseEnvelope {
	return models.ResponseEnvelope{
		UID:       uid,
		Response:  json.RawMessage(fmt.Sprintf("%q", response)),
		Timestamp: time.Now().Format(time.RFC3339Nano),
	}
}

func TestAwaitMatchesOwnUID(t *testing.T) {
	c := New()

	require.NoError(t, c.Register("abc"))
	c.DeliverTo("abc", envelope("abc", "hello"))

	env, err := c.Await(context.Background(), "abc", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "abc", env.UID)
	assert.Equal(t, 0, c.Len(), "waiter must be released after match")
}

func TestAwaitTimeoutReleasesWaiter(t *testing.T) {
	c := New()

	require.NoError(t, c.Register("abc"))

	_, err := c.Await(context.Background(), "abc", 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrCorrelationTimeout)
	assert.Equal(t, 0, c.Len(), "waiter must be released after timeout")
}

func TestAwaitContextCancelReleasesWaiter(t *testing.T) {
	c := New()

	require.NoError(t, c.Register("abc"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Await(ctx, "abc", time.Second)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, c.Len())
}

func TestAwaitMismatchIsHardError(t *testing.T) {
	c := New()

	require.NoError(t, c.Register("expected"))
	// Strict single-message transport handing the waiter someone else's
	// envelope.
	c.DeliverTo("expected", envelope("other", "hello"))

	_, err := c.Await(context.Background(), "expected", time.Second)
	assert.ErrorIs(t, err, ErrCorrelationMismatch)
	assert.Equal(t, 0, c.Len())
}

func TestAwaitWithoutRegister(t *testing.T) {
	c := New()

	_, err := c.Await(context.Background(), "nobody", time.Second)
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestRegisterDuplicateUID(t *testing.T) {
	c := New()

	require.NoError(t, c.Register("abc"))
	assert.ErrorIs(t, c.Register("abc"), ErrDuplicateWaiter)

	c.Release("abc")
	assert.NoError(t, c.Register("abc"))
	c.Release("abc")
}

func TestDispatcherDropsUnknownAndDuplicateEnvelopes(t *testing.T) {
	c := New()
	inbound := make(chan []byte, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Start(ctx, inbound)
	}()

	require.NoError(t, c.Register("abc"))

	stray, _ := json.Marshal(envelope("stray", "nope"))
	match, _ := json.Marshal(envelope("abc", "yes"))

	inbound <- []byte("not json")
	inbound <- stray
	inbound <- match
	inbound <- match // duplicate delivery

	env, err := c.Await(context.Background(), "abc", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "abc", env.UID)
	assert.Equal(t, 0, c.Len())

	close(inbound)
	<-done
}

func TestConcurrentRequestsNeverCrossMatch(t *testing.T) {
	const n = 50

	c := New()
	inbound := make(chan []byte, n)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Start(ctx, inbound)

	uids := make([]string, n)
	for i := range uids {
		uids[i] = fmt.Sprintf("uid-%03d", i)
		require.NoError(t, c.Register(uids[i]))
	}

	// Publish the responses out of order.
	shuffled := rand.Perm(n)
	go func() {
		for _, i := range shuffled {
			raw, _ := json.Marshal(envelope(uids[i], uids[i]))
			inbound <- raw
		}
	}()

	var wg sync.WaitGroup
	for i := range uids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			env, err := c.Await(context.Background(), uids[i], 5*time.Second)
			assert.NoError(t, err)
			assert.Equal(t, uids[i], env.UID)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, c.Len(), "no waiter may leak")
}
