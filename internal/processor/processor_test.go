package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picksmart/picksmart/internal/broker"
	"github.com/picksmart/picksmart/internal/correlator"
	"github.com/picksmart/picksmart/internal/models"
	"github.com/picksmart/picksmart/internal/services"
)

type fakeGate struct {
	relevant bool
}

func (g *fakeGate) IsRelevant(ctx context.Context, query string) bool {
	return g.relevant
}

type fakeRunner struct {
	mu     sync.Mutex
	result *models.RankedResult
	err    error
	runs   int
}

func (r *fakeRunner) Run(ctx context.Context, query, threadID string) (*models.RankedResult, error) {
	r.mu.Lock()
	r.runs++
	r.mu.Unlock()
	return r.result, r.err
}

type fixture struct {
	broker     *broker.MemoryBroker
	correlator *correlator.Correlator
	requests   <-chan []byte
	cancel     context.CancelFunc
}

func newFixture(t *testing.T, gate RelevanceGate, runner PipelineRunner) (*Processor, *fixture) {
	t.Helper()

	b := broker.NewMemoryBroker()
	c := correlator.New()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	t.Cleanup(func() { b.Close() })

	inbound, err := b.Consume(ctx, "chatbot_responses")
	require.NoError(t, err)
	go c.Start(ctx, inbound)

	requests, err := b.Consume(ctx, "chatbot_messages")
	require.NoError(t, err)

	p := NewProcessor(b, c, gate, runner, "chatbot_messages", "chatbot_responses", 2*time.Second)
	return p, &fixture{broker: b, correlator: c, requests: requests, cancel: cancel}
}

func TestProcessIrrelevantQueryReturnsDefaultPayload(t *testing.T) {
	runner := &fakeRunner{}
	p, fx := newFixture(t, &fakeGate{relevant: false}, runner)

	resp, err := p.Process(context.Background(), "what is the meaning of life")
	require.NoError(t, err)

	assert.NotEmpty(t, resp.UID)
	assert.Equal(t, 0, runner.runs, "the pipeline must never run for rejected queries")

	var payload models.DefaultPayload
	require.NoError(t, json.Unmarshal(resp.Value, &payload))
	assert.Equal(t, services.DefaultMessage, payload.Default)

	assert.Equal(t, 0, fx.correlator.Len())
}

func TestProcessRelevantQueryReturnsProducts(t *testing.T) {
	runner := &fakeRunner{result: &models.RankedResult{Products: []models.RankedProduct{
		{Title: "AirBuds X", URL: "https://shop.example/p", Image: "https://img.example/p.jpg"},
	}}}
	p, fx := newFixture(t, &fakeGate{relevant: true}, runner)

	resp, err := p.Process(context.Background(), "wireless earbuds under $50")
	require.NoError(t, err)

	var result models.RankedResult
	require.NoError(t, json.Unmarshal(resp.Value, &result))
	require.Len(t, result.Products, 1)
	assert.Equal(t, "AirBuds X", result.Products[0].Title)
	assert.Equal(t, 1, runner.runs)

	// The request envelope went out with the same uid as the response.
	select {
	case raw := <-fx.requests:
		var env models.RequestEnvelope
		require.NoError(t, json.Unmarshal(raw, &env))
		assert.Equal(t, resp.UID, env.UID)
		assert.Equal(t, "wireless earbuds under $50", env.Message)
		assert.NotEmpty(t, env.Timestamp)
	case <-time.After(time.Second):
		t.Fatal("no request envelope published")
	}

	assert.Equal(t, 0, fx.correlator.Len())
}

func TestProcessPipelineErrorReleasesWaiter(t *testing.T) {
	runner := &fakeRunner{err: fmt.Errorf("stage analyze_query: boom")}
	p, fx := newFixture(t, &fakeGate{relevant: true}, runner)

	_, err := p.Process(context.Background(), "wireless earbuds")
	assert.Error(t, err)
	assert.Equal(t, 0, fx.correlator.Len(), "waiter must not leak on pipeline failure")
}

func TestProcessRepeatedQueriesDoNotLeakWaiters(t *testing.T) {
	runner := &fakeRunner{result: &models.RankedResult{Products: []models.RankedProduct{{Title: "X"}}}}
	p, fx := newFixture(t, &fakeGate{relevant: true}, runner)

	first, err := p.Process(context.Background(), "same query")
	require.NoError(t, err)
	second, err := p.Process(context.Background(), "same query")
	require.NoError(t, err)

	assert.NotEqual(t, first.UID, second.UID, "each submission gets a fresh correlation id")
	assert.Equal(t, 0, fx.correlator.Len())
}

func TestProcessSustainedLoadWithoutChatConsumer(t *testing.T) {
	// The server wiring consumes only the response topic; the chat topic has
	// no in-process reader. Sustained traffic well past the topic buffer must
	// keep succeeding rather than wedging on publish.
	runner := &fakeRunner{result: &models.RankedResult{Products: []models.RankedProduct{{Title: "X"}}}}

	b := broker.NewMemoryBroker()
	c := correlator.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer b.Close()

	inbound, err := b.Consume(ctx, "chatbot_responses")
	require.NoError(t, err)
	go c.Start(ctx, inbound)

	p := NewProcessor(b, c, &fakeGate{relevant: true}, runner, "chatbot_messages", "chatbot_responses", 2*time.Second)

	for i := 0; i < 70; i++ {
		reqCtx, reqCancel := context.WithTimeout(context.Background(), time.Second)
		_, err := p.Process(reqCtx, "query")
		reqCancel()
		require.NoError(t, err, "request %d must not block on the unconsumed chat topic", i+1)
	}

	assert.Equal(t, 0, c.Len())
}

func TestProcessConcurrentRequests(t *testing.T) {
	const n = 10

	runner := &fakeRunner{result: &models.RankedResult{Products: []models.RankedProduct{{Title: "X"}}}}
	p, fx := newFixture(t, &fakeGate{relevant: true}, runner)

	// Drain the request topic so concurrent publishes never block.
	go func() {
		for range fx.requests {
		}
	}()

	uids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := p.Process(context.Background(), "query")
			assert.NoError(t, err)
			uids <- resp.UID
		}()
	}
	wg.Wait()
	close(uids)

	seen := make(map[string]bool)
	for uid := range uids {
		assert.False(t, seen[uid], "correlation ids must be unique")
		seen[uid] = true
	}
	assert.Len(t, seen, n)
	assert.Equal(t, 0, fx.correlator.Len())
}
