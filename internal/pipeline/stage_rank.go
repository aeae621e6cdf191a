package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/picksmart/picksmart/internal/models"
	"github.com/picksmart/picksmart/internal/services"
)

// analyzeRankNode asks the LLM to pick and order the products that fit the
// original requirement. The reply must decode as a product list with a title
// on every entry; anything else is a hard stage failure.
func (a *SearchAgent) analyzeRankNode(ctx context.Context, state models.PipelineState) (Partial, error) {
	products := strings.Join(state.Candidates, " ")

	prompt := fmt.Sprintf("%s\n\n%s", services.AnalyzeRankPrompt,
		fmt.Sprintf(services.AnalyzeRankHumanPrompt, products, state.UserQuery))

	response, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		return Partial{}, fmt.Errorf("failed to rank candidates: %w", err)
	}

	var ranked models.RankedResult
	if err := json.Unmarshal([]byte(services.CleanJSONMarkdown(response)), &ranked); err != nil {
		return Partial{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	for i, p := range ranked.Products {
		if p.Title == "" {
			return Partial{}, fmt.Errorf("%w: product %d has no title", ErrParse, i)
		}
	}

	return Partial{Ranked: &ranked}, nil
}
