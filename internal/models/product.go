package models

type ProductCandidate struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Score   *float64 `json:"score,omitempty"`
}

// RankedProduct is one entry of the terminal payload. Image and URL fall back
// to the empty string when resolution comes up short for that product; they
// are never omitted from the JSON.
type RankedProduct struct {
	Title string   `json:"title"`
	Image string   `json:"image"`
	URL   string   `json:"url"`
	Score *float64 `json:"score,omitempty"`
}

type RankedResult struct {
	Products []RankedProduct `json:"products"`
}
