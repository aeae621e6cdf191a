package services

import (
	"context"
	"fmt"

	"github.com/picksmart/picksmart/internal/logger"
	"github.com/picksmart/picksmart/internal/models"
)

// ProductIndex is the local product store consulted before going to the
// remote provider. Implemented by state.ProductIndex.
type ProductIndex interface {
	Lookup(ctx context.Context, query string, limit int) ([]models.ProductCandidate, error)
	Save(ctx context.Context, products []models.ProductCandidate) error
}

// HybridSearcher consults a local index first and tops up from a remote
// provider; saveForeign persists newly found remote items for future local
// retrieval.
type HybridSearcher interface {
	Search(ctx context.Context, query string, maxLocal, maxForeign int, saveForeign bool) ([]SearchResult, error)
}

type TavilyHybridSearcher struct {
	index  ProductIndex
	remote Searcher
}

func NewTavilyHybridSearcher(index ProductIndex, remote Searcher) *TavilyHybridSearcher {
	return &TavilyHybridSearcher{
		index:  index,
		remote: remote,
	}
}

func (h *TavilyHybridSearcher) Search(ctx context.Context, query string, maxLocal, maxForeign int, saveForeign bool) ([]SearchResult, error) {
	var results []SearchResult

	local, err := h.index.Lookup(ctx, query, maxLocal)
	if err != nil {
		return nil, fmt.Errorf("local lookup failed: %w", err)
	}
	for _, p := range local {
		results = append(results, SearchResult{Content: p.Content})
	}

	if maxForeign <= 0 {
		return results, nil
	}

	foreign, err := h.remote.Search(ctx, query, maxForeign, false)
	if err != nil {
		return nil, fmt.Errorf("remote search failed: %w", err)
	}
	results = append(results, foreign...)

	if saveForeign && len(foreign) > 0 {
		products := make([]models.ProductCandidate, 0, len(foreign))
		for _, r := range foreign {
			products = append(products, models.ProductCandidate{
				Title:   r.Content,
				Content: r.Content,
			})
		}
		if err := h.index.Save(ctx, products); err != nil {
			// Persistence is opportunistic; the search itself succeeded.
			logger.Log.Warn("failed to save foreign results", "error", err)
		}
	}

	return results, nil
}
