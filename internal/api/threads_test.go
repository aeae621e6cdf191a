package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picksmart/picksmart/internal/models"
)

type stubCheckpointReader struct {
	state *models.PipelineState
	err   error
}

func (s *stubCheckpointReader) Load(ctx context.Context, threadID string) (*models.PipelineState, error) {
	return s.state, s.err
}

func getThread(t *testing.T, reader CheckpointReader, threadID string) *httptest.ResponseRecorder {
	t.Helper()
	chat := NewChatHandler(&stubProcessor{}, time.Second)
	router := SetupRoutes(chat, NewThreadHandler(reader))
	req := httptest.NewRequest("GET", "/api/threads/"+threadID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetThreadReturnsCheckpointState(t *testing.T) {
	reader := &stubCheckpointReader{state: &models.PipelineState{
		ThreadID:       "uid-9",
		UserQuery:      "wireless earbuds",
		RevisedQueries: []string{"wireless earbuds"},
	}}

	rec := getThread(t, reader, "uid-9")
	require.Equal(t, http.StatusOK, rec.Code)

	var state models.PipelineState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, "uid-9", state.ThreadID)
	assert.Equal(t, []string{"wireless earbuds"}, state.RevisedQueries)
}

func TestGetThreadUnknownThreadIsNotFound(t *testing.T) {
	rec := getThread(t, &stubCheckpointReader{}, "no-such-thread")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetThreadLoadErrorIsInternalError(t *testing.T) {
	reader := &stubCheckpointReader{err: fmt.Errorf("failed to load checkpoint: connection refused")}

	rec := getThread(t, reader, "uid-9")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
