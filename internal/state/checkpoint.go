package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/picksmart/picksmart/internal/models"
)

// CheckpointStore snapshots pipeline state keyed by thread id. Completed runs
// delete their row, so the table holds only interrupted exchanges for
// inspection. Optional for correctness of a single exchange.
type CheckpointStore struct {
	db *bun.DB
}

func (s *CheckpointStore) Save(ctx context.Context, threadID string, state models.PipelineState) error {
	row := &models.CheckpointDB{
		ThreadID:  threadID,
		State:     &state,
		UpdatedAt: time.Now(),
	}

	_, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (thread_id) DO UPDATE").
		Set("state = EXCLUDED.state").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}

	return nil
}

func (s *CheckpointStore) Load(ctx context.Context, threadID string) (*models.PipelineState, error) {
	var row models.CheckpointDB
	err := s.db.NewSelect().
		Model(&row).
		Where("thread_id = ?", threadID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	return row.State, nil
}

func (s *CheckpointStore) Delete(ctx context.Context, threadID string) error {
	_, err := s.db.NewDelete().
		Model((*models.CheckpointDB)(nil)).
		Where("thread_id = ?", threadID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}
	return nil
}
