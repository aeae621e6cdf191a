package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picksmart/picksmart/internal/correlator"
	"github.com/picksmart/picksmart/internal/models"
)

type stubProcessor struct {
	response models.ChatResponse
	err      error
}

func (s *stubProcessor) Process(ctx context.Context, message string) (models.ChatResponse, error) {
	return s.response, s.err
}

func postChat(t *testing.T, handler *ChatHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := SetupRoutes(handler, nil)
	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestChatSuccess(t *testing.T) {
	proc := &stubProcessor{response: models.ChatResponse{
		Value: json.RawMessage(`{"products": [{"title": "AirBuds X", "image": "", "url": ""}]}`),
		UID:   "uid-1",
	}}
	handler := NewChatHandler(proc, time.Second)

	rec := postChat(t, handler, `{"message": "wireless earbuds under $50"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "uid-1", resp.UID)
	assert.Contains(t, string(resp.Value), "products")
}

func TestChatRejectsBadBody(t *testing.T) {
	handler := NewChatHandler(&stubProcessor{}, time.Second)

	rec := postChat(t, handler, `{"message":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	handler := NewChatHandler(&stubProcessor{}, time.Second)

	rec := postChat(t, handler, `{"message": ""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatCorrelationTimeoutMapsToGatewayTimeout(t *testing.T) {
	proc := &stubProcessor{err: fmt.Errorf("await: %w", correlator.ErrCorrelationTimeout)}
	handler := NewChatHandler(proc, time.Second)

	rec := postChat(t, handler, `{"message": "earbuds"}`)
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestChatProcessorErrorMapsToInternalError(t *testing.T) {
	proc := &stubProcessor{err: fmt.Errorf("stage analyze_query: boom")}
	handler := NewChatHandler(proc, time.Second)

	rec := postChat(t, handler, `{"message": "earbuds"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealth(t *testing.T) {
	handler := NewChatHandler(&stubProcessor{}, time.Second)
	router := SetupRoutes(handler, nil)

	req := httptest.NewRequest("GET", "/api/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
