// Package pipeline runs a product query through a small explicit stage graph:
//
//	analyze_query → search_products → (branch) → analyze_and_rank → resolve_sources
//
// The single branch sends control through search_online first when the
// product search found no candidates. Stages never re-enter and the first
// stage error aborts the whole run.
package pipeline

import (
	"context"
	"fmt"

	"github.com/picksmart/picksmart/internal/logger"
	"github.com/picksmart/picksmart/internal/models"
)

// CheckpointSaver persists a state snapshot keyed by thread id after every
// node, and discards it once the run completes; snapshots outlive only
// interrupted runs. Optional; a nil saver disables checkpointing.
type CheckpointSaver interface {
	Save(ctx context.Context, threadID string, state models.PipelineState) error
	Delete(ctx context.Context, threadID string) error
}

type Pipeline struct {
	nodes      map[models.PipelineNode]node
	entry      models.PipelineNode
	checkpoint CheckpointSaver
}

// Run drives one query through the graph to completion and returns the
// terminal stage's payload.
func (p *Pipeline) Run(ctx context.Context, query, threadID string) (*models.RankedResult, error) {
	state := models.PipelineState{
		ThreadID:  threadID,
		UserQuery: query,
	}

	visited := make(map[models.PipelineNode]bool)
	current := p.entry

	for current != models.NodeDone {
		if visited[current] {
			return nil, fmt.Errorf("stage %s visited twice", current)
		}
		visited[current] = true

		n, ok := p.nodes[current]
		if !ok {
			return nil, fmt.Errorf("unknown stage %s", current)
		}

		partial, err := n.run(ctx, state)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", current, err)
		}
		merge(&state, partial)

		if p.checkpoint != nil {
			if err := p.checkpoint.Save(ctx, threadID, state); err != nil {
				logger.Log.Warn("checkpoint save failed", "thread_id", threadID, "stage", current, "error", err)
			}
		}

		if n.branch != nil {
			current = n.branch(state)
		} else {
			current = n.next
		}
	}

	if state.Final == nil {
		return nil, ErrNoResult
	}

	if p.checkpoint != nil {
		if err := p.checkpoint.Delete(ctx, threadID); err != nil {
			logger.Log.Warn("checkpoint delete failed", "thread_id", threadID, "error", err)
		}
	}

	return state.Final, nil
}
