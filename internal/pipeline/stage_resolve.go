package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/picksmart/picksmart/internal/logger"
	"github.com/picksmart/picksmart/internal/models"
	"github.com/picksmart/picksmart/internal/services"
)

type resolved struct {
	url   string
	image string
}

// resolveSourcesNode looks up a purchase URL and an image for every ranked
// product. Lookups fan out with bounded parallelism; indexed writes keep the
// 1:1 correspondence with the ranked list. A failed or empty lookup degrades
// that product's url/image to "" instead of failing the stage.
func (a *SearchAgent) resolveSourcesNode(ctx context.Context, state models.PipelineState) (Partial, error) {
	if state.Ranked == nil {
		return Partial{}, fmt.Errorf("no ranked products to resolve")
	}

	titles := state.Ranked.Products
	links := make([]resolved, len(titles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.resolveWorkers)

	for i, product := range titles {
		g.Go(func() error {
			query := fmt.Sprintf(services.SearchSourcePrompt, product.Title)

			results, err := a.searcher.Search(gctx, query, 1, true)
			if err != nil {
				logger.Log.Warn("source resolution failed", "title", product.Title, "error", err)
				return nil
			}
			if len(results) == 0 {
				return nil
			}

			links[i] = resolved{url: results[0].URL, image: results[0].Image}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Partial{}, fmt.Errorf("source resolution aborted: %w", err)
	}

	if len(links) != len(titles) {
		return Partial{}, fmt.Errorf("resolved %d sources for %d products", len(links), len(titles))
	}

	final := &models.RankedResult{
		Products: make([]models.RankedProduct, len(titles)),
	}
	for i, product := range titles {
		final.Products[i] = models.RankedProduct{
			Title: product.Title,
			Image: links[i].image,
			URL:   links[i].url,
			Score: product.Score,
		}
	}

	return Partial{Final: final}, nil
}
