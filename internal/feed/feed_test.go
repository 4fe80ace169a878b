package feed

import (
	"testing"

	"atlas/api/internal/atlas"
)

func storyWithTones(id string, tones ...string) atlas.Story {
	story := atlas.Story{ID: id}
	if len(tones) > 0 {
		story.Analysis = &atlas.StoryAnalysis{EmotionalTone: tones}
	}
	return story
}

func TestFilterByToneExactMatch(t *testing.T) {
	stories := []atlas.Story{
		storyWithTones("1", "Homesick", "Isolated"),
		storyWithTones("2", "Overwhelmed"),
		storyWithTones("3", "Hopeful", "Homesick"),
		storyWithTones("4"), // no analysis
	}

	got := Filter(stories, "Homesick")
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Errorf("unexpected filter result: %+v", ids(got))
	}

	// case-sensitive: lowercase must not match
	if got := Filter(stories, "homesick"); len(got) != 0 {
		t.Errorf("lowercase tone matched %d stories", len(got))
	}
}

func TestFilterAllReturnsEverythingInOrder(t *testing.T) {
	stories := []atlas.Story{
		storyWithTones("1", "Homesick"),
		storyWithTones("2"),
		storyWithTones("3", "Hopeful"),
	}
	got := Filter(stories, AllTones)
	if len(got) != 3 || got[0].ID != "1" || got[1].ID != "2" || got[2].ID != "3" {
		t.Errorf("All filter reordered or dropped stories: %+v", ids(got))
	}
}

func TestPageGrowsByFixedSize(t *testing.T) {
	stories := make([]atlas.Story, 12)
	for i := range stories {
		stories[i] = atlas.Story{ID: string(rune('a' + i))}
	}

	visible, hasMore := Page(stories, 1)
	if len(visible) != 5 || !hasMore {
		t.Errorf("page 1: got %d stories, hasMore=%v", len(visible), hasMore)
	}

	visible, hasMore = Page(stories, 2)
	if len(visible) != 10 || !hasMore {
		t.Errorf("page 2: got %d stories, hasMore=%v", len(visible), hasMore)
	}

	visible, hasMore = Page(stories, 3)
	if len(visible) != 12 || hasMore {
		t.Errorf("page 3: got %d stories, hasMore=%v", len(visible), hasMore)
	}

	visible, _ = Page(stories, 0)
	if len(visible) != 5 {
		t.Errorf("pages<1 should clamp to one page, got %d", len(visible))
	}
}

func TestAvailableTonesDedupedFirstSeenOrder(t *testing.T) {
	stories := []atlas.Story{
		storyWithTones("1", "Homesick", "Isolated"),
		storyWithTones("2", "Isolated", "Anxious"),
		storyWithTones("3"),
		storyWithTones("4", "Homesick"),
	}
	got := AvailableTones(stories)
	want := []string{"All", "Homesick", "Isolated", "Anxious"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tone %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func ids(stories []atlas.Story) []string {
	out := make([]string, len(stories))
	for i, story := range stories {
		out[i] = story.ID
	}
	return out
}
