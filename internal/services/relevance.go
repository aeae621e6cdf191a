package services

import (
	"context"
	"fmt"

	"github.com/picksmart/picksmart/internal/logger"
)

const relevantToken = "relevant"

// RelevanceChecker decides whether a query is in scope before the pipeline
// runs. Fail-closed: only the exact sentinel reply counts as relevant; any
// other reply, and any transport error, rejects the query.
type RelevanceChecker struct {
	llm      LLMClient
	template string
}

func NewRelevanceChecker(llm LLMClient, template string) *RelevanceChecker {
	return &RelevanceChecker{
		llm:      llm,
		template: template,
	}
}

func (c *RelevanceChecker) IsRelevant(ctx context.Context, query string) bool {
	prompt := fmt.Sprintf(RelevancePrompt, c.template, query)

	response, err := c.llm.Complete(ctx, prompt)
	if err != nil {
		logger.Log.Error("relevance check failed", "error", err)
		return false
	}

	return response == relevantToken
}
