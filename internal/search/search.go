// Package search provides free-text search over shared stories. Meilisearch
// is used when configured and healthy; otherwise an in-memory scan of the
// same records answers queries. The feed's tone filter never goes through
// here — it is an exact projection, not a search.
package search

// StoryRecord is the data we index per story.
type StoryRecord struct {
	ID      string   `json:"id"`
	Author  string   `json:"author"`
	Content string   `json:"content"`
	Summary string   `json:"summary"`
	Tones   []string `json:"tones"`
}

// Result is a single search hit returned to the caller.
type Result struct {
	ID      string   `json:"id"`
	Author  string   `json:"author"`
	Snippet string   `json:"snippet"`
	Tones   []string `json:"tones"`
}

// Query describes a search request.
type Query struct {
	Text   string
	Limit  int
	Offset int
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// Searcher can execute a full-text story search.
type Searcher interface {
	Search(q Query) ([]Result, int, error)
	Healthy() bool
}
