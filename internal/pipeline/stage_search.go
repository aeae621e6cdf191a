package pipeline

import (
	"context"
	"fmt"

	"github.com/picksmart/picksmart/internal/models"
	"github.com/picksmart/picksmart/internal/services"
)

// searchProductsNode runs each revised query through the hybrid searcher and
// accumulates the returned contents in order: per-query order first, provider
// order within a query. Empty revised queries are degenerate search terms and
// contribute nothing. Newly found remote items are persisted for future
// local lookups.
func (a *SearchAgent) searchProductsNode(ctx context.Context, state models.PipelineState) (Partial, error) {
	var candidates []string

	for _, query := range state.RevisedQueries {
		if query == "" {
			continue
		}

		wrapped := fmt.Sprintf(services.SearchTitlePrompt, query)

		results, err := a.hybrid.Search(ctx, wrapped, a.maxLocal, a.maxForeign, true)
		if err != nil {
			return Partial{}, fmt.Errorf("hybrid search failed for %q: %w", query, err)
		}

		for _, r := range results {
			candidates = append(candidates, r.Content)
		}
	}

	return Partial{Candidates: candidates}, nil
}

// searchOnlineNode is the fallback when the product search came up empty. It
// queries the remote provider directly; its results extend the candidate set
// rather than replacing it.
func (a *SearchAgent) searchOnlineNode(ctx context.Context, state models.PipelineState) (Partial, error) {
	var candidates []string

	for _, query := range state.RevisedQueries {
		if query == "" {
			continue
		}

		results, err := a.searcher.Search(ctx, query, a.maxLocal+a.maxForeign, false)
		if err != nil {
			return Partial{}, fmt.Errorf("online search failed for %q: %w", query, err)
		}

		for _, r := range results {
			candidates = append(candidates, r.Content)
		}
	}

	return Partial{Candidates: candidates}, nil
}
