package domain

// SearchResult is one web search hit used to ground a completion.
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}
