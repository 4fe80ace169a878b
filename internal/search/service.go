package search

import "log"

// Service is the facade that tries Meilisearch first and falls back to the
// in-memory scan. The memory index is always kept current so the fallback
// answers with the same records Meilisearch holds.
type Service struct {
	meili  *Meili
	memory *Memory
}

// NewService creates a search service. meili may be nil if Meilisearch is
// not configured.
func NewService(meili *Meili, memory *Memory) *Service {
	return &Service{meili: meili, memory: memory}
}

// Search tries Meilisearch if healthy, otherwise scans memory.
func (s *Service) Search(q Query) Response {
	if s.meili != nil && s.meili.Healthy() {
		results, total, err := s.meili.Search(q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text}
		}
		log.Printf("search: meilisearch error, falling back to memory: %v", err)
	}

	results, total, err := s.memory.Search(q)
	if err != nil {
		log.Printf("search: memory scan error: %v", err)
		return Response{Results: []Result{}, Total: 0, Query: q.Text}
	}
	return Response{Results: nonNil(results), Total: total, Query: q.Text}
}

// IndexStory records a story for search. The memory index is updated
// synchronously; Meilisearch gets the record fire-and-forget.
func (s *Service) IndexStory(record StoryRecord) {
	if err := s.memory.IndexStory(record); err != nil {
		log.Printf("search: memory index story %s: %v", record.ID, err)
	}
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexStory(record); err != nil {
			log.Printf("search: index story %s: %v", record.ID, err)
		}
	}()
}

// ReindexAll pushes a batch of records into both backends. Called during
// bootstrap with the seeded stories.
func (s *Service) ReindexAll(records []StoryRecord) {
	for _, record := range records {
		if err := s.memory.IndexStory(record); err != nil {
			log.Printf("search: memory reindex story %s: %v", record.ID, err)
		}
	}
	if s.meili == nil || !s.meili.Healthy() || len(records) == 0 {
		return
	}
	if err := s.meili.IndexStories(records); err != nil {
		log.Printf("search: reindex stories: %v", err)
	}
}

func nonNil(r []Result) []Result {
	if r == nil {
		return []Result{}
	}
	return r
}
