package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/picksmart/picksmart/internal/models"
	"github.com/picksmart/picksmart/internal/services"
)

const querySeparator = "|"

// analyzeQueryNode reformulates the user query into search queries. The
// model's reply is split on the separator verbatim: empty segments stay as
// empty strings, and a reply without the separator yields a single query
// equal to the whole reply.
func (a *SearchAgent) analyzeQueryNode(ctx context.Context, state models.PipelineState) (Partial, error) {
	prompt := fmt.Sprintf("%s\n\n%s", services.AnalyzeQueryPrompt, state.UserQuery)

	response, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		return Partial{}, fmt.Errorf("failed to analyze query: %w", err)
	}

	return Partial{RevisedQueries: strings.Split(response, querySeparator)}, nil
}
