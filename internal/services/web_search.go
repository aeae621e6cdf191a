package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type SearchResult struct {
	Content string `json:"content"`
	URL     string `json:"url,omitempty"`
	Image   string `json:"image,omitempty"`
}

// Searcher is the remote web-search boundary.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int, includeImages bool) ([]SearchResult, error)
}

type TavilyClient struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

func NewTavilyClient(apiKey string) *TavilyClient {
	return &TavilyClient{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: "https://api.tavily.com/search",
	}
}

func (c *TavilyClient) Search(ctx context.Context, query string, maxResults int, includeImages bool) ([]SearchResult, error) {
	payload := map[string]interface{}{
		"query":          query,
		"max_results":    maxResults,
		"include_images": includeImages,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tavily API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Results []struct {
			Content string `json:"content"`
			URL     string `json:"url"`
		} `json:"results"`
		Images []string `json:"images"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]SearchResult, 0, len(result.Results))
	for i, r := range result.Results {
		sr := SearchResult{Content: r.Content, URL: r.URL}
		if i < len(result.Images) {
			sr.Image = result.Images[i]
		}
		results = append(results, sr)
	}

	return results, nil
}
