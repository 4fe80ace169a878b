// Package feed projects the story aggregate into what the client renders:
// a tone-filtered, paged slice plus the set of filter chips to offer.
package feed

import "atlas/api/internal/atlas"

// PageSize stories are revealed per "load more".
const PageSize = 5

// AllTones is the sentinel filter that matches every story.
const AllTones = "All"

// Filter returns the stories whose analysis tone list contains tone, order
// preserved. Matching is exact and case-sensitive. The AllTones sentinel
// (or an empty tone) returns the input unchanged.
func Filter(stories []atlas.Story, tone string) []atlas.Story {
	if tone == "" || tone == AllTones {
		return stories
	}
	matched := make([]atlas.Story, 0, len(stories))
	for _, story := range stories {
		if story.Analysis == nil {
			continue
		}
		for _, candidate := range story.Analysis.EmotionalTone {
			if candidate == tone {
				matched = append(matched, story)
				break
			}
		}
	}
	return matched
}

// Page returns the first pages*PageSize stories and whether more remain.
// pages below 1 is treated as 1.
func Page(stories []atlas.Story, pages int) ([]atlas.Story, bool) {
	if pages < 1 {
		pages = 1
	}
	visible := pages * PageSize
	if visible >= len(stories) {
		return stories, false
	}
	return stories[:visible], true
}

// AvailableTones lists the filter chips: AllTones first, then every distinct
// tone across all story analyses in first-seen order. Recomputed per call so
// new analyses surface immediately.
func AvailableTones(stories []atlas.Story) []string {
	tones := []string{AllTones}
	seen := map[string]struct{}{}
	for _, story := range stories {
		if story.Analysis == nil {
			continue
		}
		for _, tone := range story.Analysis.EmotionalTone {
			if _, ok := seen[tone]; ok {
				continue
			}
			seen[tone] = struct{}{}
			tones = append(tones, tone)
		}
	}
	return tones
}
