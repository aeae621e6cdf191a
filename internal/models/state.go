package models

// Node names of the search pipeline.
type PipelineNode string

const (
	NodeAnalyzeQuery   PipelineNode = "analyze_query"
	NodeSearchProducts PipelineNode = "search_products"
	NodeSearchOnline   PipelineNode = "search_online"
	NodeAnalyzeRank    PipelineNode = "analyze_and_rank"
	NodeResolveSources PipelineNode = "resolve_sources"
	NodeDone           PipelineNode = ""
)

// PipelineState carries the intermediate products of one query through the
// stage graph. Each field is written by exactly one stage: RevisedQueries by
// analyze_query, Candidates by the search stages (strictly appended, never
// replaced), Ranked by analyze_and_rank, Final by resolve_sources.
type PipelineState struct {
	ThreadID       string        `json:"thread_id"`
	UserQuery      string        `json:"user_query"`
	RevisedQueries []string      `json:"revised_queries,omitempty"`
	Candidates     []string      `json:"candidates,omitempty"`
	Ranked         *RankedResult `json:"ranked,omitempty"`
	Final          *RankedResult `json:"final,omitempty"`
}
