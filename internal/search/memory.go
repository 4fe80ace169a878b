package search

import (
	"strings"
	"sync"
)

// Memory is the always-available fallback: a case-insensitive substring scan
// over the indexed records. It mirrors everything that goes to Meilisearch so
// search keeps working when Meilisearch is down or not configured.
type Memory struct {
	mu      sync.RWMutex
	records map[string]StoryRecord
	order   []string // insertion order, newest appended last
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string]StoryRecord)}
}

// IndexStory adds or replaces a record.
func (m *Memory) IndexStory(record StoryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.records[record.ID]; !exists {
		m.order = append(m.order, record.ID)
	}
	m.records[record.ID] = record
	return nil
}

// Healthy always reports true; memory has no failure mode.
func (m *Memory) Healthy() bool { return true }

// Search scans content, summary, author and tones for the query text.
// Newest records win ties via reverse insertion order.
func (m *Memory) Search(q Query) ([]Result, int, error) {
	needle := strings.ToLower(strings.TrimSpace(q.Text))
	if needle == "" {
		return []Result{}, 0, nil
	}

	m.mu.RLock()
	ids := make([]string, len(m.order))
	copy(ids, m.order)
	matched := make([]Result, 0)
	for i := len(ids) - 1; i >= 0; i-- {
		record := m.records[ids[i]]
		if !recordMatches(record, needle) {
			continue
		}
		matched = append(matched, Result{
			ID:      record.ID,
			Author:  record.Author,
			Snippet: snippet(record.Content, needle),
			Tones:   record.Tones,
		})
	}
	m.mu.RUnlock()

	total := len(matched)
	offset := q.Offset
	if offset > total {
		offset = total
	}
	limit := q.Limit
	if limit == 0 {
		limit = 20
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func recordMatches(record StoryRecord, needle string) bool {
	if strings.Contains(strings.ToLower(record.Content), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(record.Summary), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(record.Author), needle) {
		return true
	}
	for _, tone := range record.Tones {
		if strings.Contains(strings.ToLower(tone), needle) {
			return true
		}
	}
	return false
}

// snippet trims long content around the first match.
func snippet(content, needle string) string {
	const window = 120
	lower := strings.ToLower(content)
	at := strings.Index(lower, needle)
	if at < 0 {
		at = 0
	}
	start := at - window/2
	if start < 0 {
		start = 0
	}
	end := start + window
	if end > len(content) {
		end = len(content)
	}
	out := content[start:end]
	if start > 0 {
		out = "…" + out
	}
	if end < len(content) {
		out = out + "…"
	}
	return out
}
