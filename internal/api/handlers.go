package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/picksmart/picksmart/internal/correlator"
	"github.com/picksmart/picksmart/internal/logger"
	"github.com/picksmart/picksmart/internal/models"
)

type ChatProcessor interface {
	Process(ctx context.Context, message string) (models.ChatResponse, error)
}

type ChatHandler struct {
	processor      ChatProcessor
	requestTimeout time.Duration
}

func NewChatHandler(processor ChatProcessor, requestTimeout time.Duration) *ChatHandler {
	return &ChatHandler{
		processor:      processor,
		requestTimeout: requestTimeout,
	}
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Message == "" {
		http.Error(w, "message must not be empty", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	response, err := h.processor.Process(ctx, req.Message)
	if err != nil {
		logger.Log.Error("failed to process message", "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, correlator.ErrCorrelationTimeout) || errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *ChatHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
