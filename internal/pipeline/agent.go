package pipeline

import (
	"github.com/picksmart/picksmart/internal/models"
	"github.com/picksmart/picksmart/internal/services"
)

// SearchAgent owns the stage functions and their collaborators.
type SearchAgent struct {
	llm            services.LLMClient
	hybrid         services.HybridSearcher
	searcher       services.Searcher
	maxLocal       int
	maxForeign     int
	resolveWorkers int
}

type AgentConfig struct {
	MaxLocal       int
	MaxForeign     int
	ResolveWorkers int
}

func NewSearchAgent(llm services.LLMClient, hybrid services.HybridSearcher, searcher services.Searcher, cfg AgentConfig) *SearchAgent {
	if cfg.MaxLocal <= 0 {
		cfg.MaxLocal = 3
	}
	if cfg.MaxForeign <= 0 {
		cfg.MaxForeign = 2
	}
	if cfg.ResolveWorkers <= 0 {
		cfg.ResolveWorkers = 4
	}
	return &SearchAgent{
		llm:            llm,
		hybrid:         hybrid,
		searcher:       searcher,
		maxLocal:       cfg.MaxLocal,
		maxForeign:     cfg.MaxForeign,
		resolveWorkers: cfg.ResolveWorkers,
	}
}

// Graph assembles the stage table. search_products carries the only
// conditional edge: an empty candidate set detours through search_online.
func (a *SearchAgent) Graph(checkpoint CheckpointSaver) *Pipeline {
	return &Pipeline{
		entry:      models.NodeAnalyzeQuery,
		checkpoint: checkpoint,
		nodes: map[models.PipelineNode]node{
			models.NodeAnalyzeQuery: {
				run:  a.analyzeQueryNode,
				next: models.NodeSearchProducts,
			},
			models.NodeSearchProducts: {
				run: a.searchProductsNode,
				branch: func(state models.PipelineState) models.PipelineNode {
					if len(state.Candidates) == 0 {
						return models.NodeSearchOnline
					}
					return models.NodeAnalyzeRank
				},
			},
			models.NodeSearchOnline: {
				run:  a.searchOnlineNode,
				next: models.NodeAnalyzeRank,
			},
			models.NodeAnalyzeRank: {
				run:  a.analyzeRankNode,
				next: models.NodeResolveSources,
			},
			models.NodeResolveSources: {
				run:  a.resolveSourcesNode,
				next: models.NodeDone,
			},
		},
	}
}
