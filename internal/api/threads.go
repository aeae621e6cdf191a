package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/picksmart/picksmart/internal/logger"
	"github.com/picksmart/picksmart/internal/models"
)

// CheckpointReader loads the persisted pipeline state for a thread. A nil
// state with a nil error means no checkpoint exists for that thread.
type CheckpointReader interface {
	Load(ctx context.Context, threadID string) (*models.PipelineState, error)
}

// ThreadHandler exposes checkpoints of interrupted pipeline runs. Completed
// runs discard their checkpoint, so only in-flight or failed threads resolve.
type ThreadHandler struct {
	checkpoints CheckpointReader
}

func NewThreadHandler(checkpoints CheckpointReader) *ThreadHandler {
	return &ThreadHandler{checkpoints: checkpoints}
}

func (h *ThreadHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	threadID := mux.Vars(r)["threadID"]
	if threadID == "" {
		http.Error(w, "thread id must not be empty", http.StatusBadRequest)
		return
	}

	state, err := h.checkpoints.Load(r.Context(), threadID)
	if err != nil {
		logger.Log.Error("failed to load thread checkpoint", "thread_id", threadID, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if state == nil {
		http.Error(w, "thread not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(state)
}
