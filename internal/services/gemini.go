package services

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

type GeminiClient struct {
	client *genai.Client
	model  string
}

type GeminiClientFuncOptions = func(client *GeminiClient) error

func NewGeminiClient(apiKey string, opts ...GeminiClientFuncOptions) (*GeminiClient, error) {
	ctx := context.Background()
	var cc *genai.ClientConfig
	if apiKey != "" {
		cc = &genai.ClientConfig{APIKey: apiKey}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}
	gemini := GeminiClient{
		client: client,
		model:  "gemini-2.5-flash",
	}
	err = applyFuncOptions(&gemini, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to apply options: %w", err)
	}
	return &gemini, nil
}

func WithModel(model string) GeminiClientFuncOptions {
	return func(client *GeminiClient) error {
		client.model = model
		return nil
	}
}

func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt must not be empty", ErrContractViolation)
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return result.Text(), nil
}
