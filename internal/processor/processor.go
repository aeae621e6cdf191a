// Package processor is the transport adapter: it turns an inbound chat
// message into a queued request envelope, computes the answer in-process, and
// hands the queued response envelope back to the caller through the
// correlator.
package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/picksmart/picksmart/internal/broker"
	"github.com/picksmart/picksmart/internal/correlator"
	"github.com/picksmart/picksmart/internal/logger"
	"github.com/picksmart/picksmart/internal/models"
	"github.com/picksmart/picksmart/internal/services"
)

type RelevanceGate interface {
	IsRelevant(ctx context.Context, query string) bool
}

type PipelineRunner interface {
	Run(ctx context.Context, query, threadID string) (*models.RankedResult, error)
}

type Processor struct {
	broker        broker.Broker
	correlator    *correlator.Correlator
	gate          RelevanceGate
	pipeline      PipelineRunner
	chatTopic     string
	responseTopic string
	waitTimeout   time.Duration
}

func NewProcessor(b broker.Broker, c *correlator.Correlator, gate RelevanceGate, p PipelineRunner, chatTopic, responseTopic string, waitTimeout time.Duration) *Processor {
	return &Processor{
		broker:        b,
		correlator:    c,
		gate:          gate,
		pipeline:      p,
		chatTopic:     chatTopic,
		responseTopic: responseTopic,
		waitTimeout:   waitTimeout,
	}
}

// Process runs one request end-to-end: publish the request envelope, compute
// the answer (default payload when the gate rejects the query), publish the
// response envelope, and await the correlated response.
func (p *Processor) Process(ctx context.Context, message string) (models.ChatResponse, error) {
	uid := uuid.New().String()
	log := logger.Log.With("uid", uid)

	// Register before publishing so a fast response cannot race past the
	// waiter.
	if err := p.correlator.Register(uid); err != nil {
		return models.ChatResponse{}, err
	}

	if err := p.publishRequest(ctx, uid, message); err != nil {
		p.correlator.Release(uid)
		return models.ChatResponse{}, err
	}

	answer, err := p.computeAnswer(ctx, uid, message)
	if err != nil {
		p.correlator.Release(uid)
		return models.ChatResponse{}, err
	}

	if err := p.publishResponse(ctx, uid, answer); err != nil {
		p.correlator.Release(uid)
		return models.ChatResponse{}, err
	}

	env, err := p.correlator.Await(ctx, uid, p.waitTimeout)
	if err != nil {
		log.Error("failed to receive response", "error", err)
		return models.ChatResponse{}, err
	}

	return models.ChatResponse{
		Value: env.Response,
		UID:   env.UID,
	}, nil
}

func (p *Processor) computeAnswer(ctx context.Context, uid, message string) (json.RawMessage, error) {
	if !p.gate.IsRelevant(ctx, message) {
		logger.Log.Info("query rejected by relevance gate", "uid", uid)
		return json.Marshal(models.DefaultPayload{Default: services.DefaultMessage})
	}

	result, err := p.pipeline.Run(ctx, message, uid)
	if err != nil {
		return nil, fmt.Errorf("pipeline failed: %w", err)
	}

	return json.Marshal(result)
}

func (p *Processor) publishRequest(ctx context.Context, uid, message string) error {
	value, err := json.Marshal(models.RequestEnvelope{
		UID:       uid,
		Message:   message,
		Timestamp: time.Now().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request envelope: %w", err)
	}

	if err := p.broker.Publish(ctx, p.chatTopic, value); err != nil {
		return fmt.Errorf("failed to publish request: %w", err)
	}
	return nil
}

func (p *Processor) publishResponse(ctx context.Context, uid string, answer json.RawMessage) error {
	value, err := json.Marshal(models.ResponseEnvelope{
		UID:       uid,
		Response:  answer,
		Timestamp: time.Now().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal response envelope: %w", err)
	}

	if err := p.broker.Publish(ctx, p.responseTopic, value); err != nil {
		return fmt.Errorf("failed to publish response: %w", err)
	}
	return nil
}
