package pipeline

import (
	"context"

	"github.com/picksmart/picksmart/internal/models"
)

// StageFunc is one pure transformation step. It reads the running state and
// returns the fields it produced; the executor merges them.
type StageFunc func(ctx context.Context, state models.PipelineState) (Partial, error)

// Partial is a stage's contribution to the pipeline state. Candidates are
// appended to the running state (search stages are strictly additive); the
// remaining fields are each written by exactly one stage and set as-is.
type Partial struct {
	RevisedQueries []string
	Candidates     []string
	Ranked         *models.RankedResult
	Final          *models.RankedResult
}

type node struct {
	run StageFunc
	// next is the unconditional successor; branch, when set, selects the
	// successor from the merged state instead.
	next   models.PipelineNode
	branch func(state models.PipelineState) models.PipelineNode
}

func merge(state *models.PipelineState, partial Partial) {
	if partial.RevisedQueries != nil {
		state.RevisedQueries = partial.RevisedQueries
	}
	state.Candidates = append(state.Candidates, partial.Candidates...)
	if partial.Ranked != nil {
		state.Ranked = partial.Ranked
	}
	if partial.Final != nil {
		state.Final = partial.Final
	}
}
