package atlas

import "time"

// SeedStories returns the starter feed shown before anyone has posted.
// Timestamps are offsets from now so the feed reads naturally on first load.
func SeedStories(now time.Time) []Story {
	return []Story{
		{
			ID:                  "1",
			Content:             "I've been feeling so disconnected from my family lately. Moving across the country for this job was my dream, but now the silence in my apartment is deafening. I miss the noise of my parents' house.",
			Author:              "WanderingSpirit",
			Timestamp:           now.Add(-1 * time.Hour),
			Tags:                []string{"Loneliness"},
			SimilarFeelingCount: 12,
			UpliftCount:         38,
			Comments: []Comment{
				{ID: "c1", Author: "CityFriend", Content: "I felt exactly the same when I moved to Seattle. Finding a local 'third space' really helped me feel grounded.", Timestamp: now.Add(-50 * time.Minute), HelpfulCount: 5},
				{ID: "c2", Author: "Nora_K", Content: "The silence can be heavy, but it's also where you'll find your new self. Sending you some warmth today.", Timestamp: now.Add(-47 * time.Minute), HelpfulCount: 3},
				{ID: "c3", Author: "Soul_Seeker", Content: "Video calls help, but nothing beats a physical presence. Have you tried joining a local hobby group? I found a book club that changed everything for me.", Timestamp: now.Add(-40 * time.Minute), HelpfulCount: 7},
			},
			Analysis: &StoryAnalysis{
				EmotionalTone: []string{"Homesick", "Isolated"},
				Summary:       "You're navigating a major life transition and missing home.",
				CopingStrategies: []CopingStrategy{
					{Title: "Behavioral Activation", Description: "Visit one local spot this week.", Type: "CBT"},
				},
				CulturalNuance: "Transitioning from collectivist family dynamics can be an emotional shock.",
			},
		},
		{
			ID:                  "2",
			Content:             "Does anyone else feel like they're just performing 'okay' at work while drowning inside? The pressure to be productive is immense, and I feel like I'm failing everyone.",
			Author:              "Echo_Cloud",
			Timestamp:           now.Add(-2 * time.Hour),
			Tags:                []string{"Work Stress"},
			SimilarFeelingCount: 45,
			UpliftCount:         22,
			Comments: []Comment{
				{ID: "c2_1", Author: "QuietLion", Content: "Imposter syndrome is a thief. You are doing much better than your brain is telling you.", Timestamp: now.Add(-100 * time.Minute), HelpfulCount: 11},
				{ID: "c2_2", Author: "Daily_Survivor", Content: "I started setting 'hard stops' at 5 PM. It was scary at first, but the work was still there the next day.", Timestamp: now.Add(-83 * time.Minute), HelpfulCount: 4},
			},
			Analysis: &StoryAnalysis{
				EmotionalTone: []string{"Overwhelmed", "Anxious"},
				Summary:       "The weight of expectations is making you feel like you aren't enough.",
				CopingStrategies: []CopingStrategy{
					{Title: "Cognitive Reframing", Description: "Challenge the thought that worth is tied to productivity.", Type: "CBT"},
				},
			},
		},
		{
			ID:                  "4",
			Content:             "My parents expect me to take over the family business, but I've always wanted to be an artist. Every time I think about telling them, my chest gets tight. I don't want to dishonor them, but I'm dying inside.",
			Author:              "DutifulSon",
			Timestamp:           now.Add(-250 * time.Minute),
			Tags:                []string{"Family", "Career"},
			SimilarFeelingCount: 28,
			UpliftCount:         54,
			Comments: []Comment{
				{ID: "c4_1", Author: "ArtistBound", Content: "The weight of expectation is so heavy. You aren't dishonoring them by living your truth.", Timestamp: now.Add(-233 * time.Minute), HelpfulCount: 9},
				{ID: "c4_2", Author: "Elder_Grace", Content: "In my culture, we say the first duty is to the family, but the second is to the soul. You need both.", Timestamp: now.Add(-166 * time.Minute), HelpfulCount: 14},
			},
			Analysis: &StoryAnalysis{
				EmotionalTone: []string{"Reflective", "Anxious"},
				Summary:       "You are caught between cultural loyalty and personal fulfillment.",
				CopingStrategies: []CopingStrategy{
					{Title: "Value Clarification", Description: "Identify which values are yours vs. inherited.", Type: "CBT"},
					{Title: "Box Breathing", Description: "Calm the physical tightness in your chest.", Type: "Grounding"},
				},
				CulturalNuance: "Filial piety often creates a 'double bind' in career decisions.",
			},
		},
		{
			ID:                  "5",
			Content:             "I've been caring for my sick mother for two years now. I love her, but sometimes I feel so angry that my life has stopped while my friends are traveling and getting married. Then I feel guilty for being angry.",
			Author:              "SilentCaregiver",
			Timestamp:           now.Add(-416 * time.Minute),
			Tags:                []string{"Caregiving", "Burnout"},
			SimilarFeelingCount: 67,
			UpliftCount:         89,
			Comments: []Comment{
				{ID: "c5_1", Author: "BeenThere", Content: "Caregiver resentment is the most natural thing in the world. It doesn't mean you don't love her.", Timestamp: now.Add(-333 * time.Minute), HelpfulCount: 21},
				{ID: "c5_2", Author: "Healing_Heart", Content: "You are doing holy work, but even saints need a break. Please find an hour for yourself today.", Timestamp: now.Add(-300 * time.Minute), HelpfulCount: 15},
			},
			Analysis: &StoryAnalysis{
				EmotionalTone: []string{"Resentful", "Overwhelmed"},
				Summary:       "You are experiencing deep compassion fatigue and valid grief for your own life.",
				CopingStrategies: []CopingStrategy{
					{Title: "Radical Acceptance", Description: "Accept the anger without judging it.", Type: "CBT"},
					{Title: "Self-Compassion Pause", Description: "Treat yourself with the same kindness you give your mother.", Type: "Mindfulness"},
				},
			},
		},
		{
			ID:                  "6",
			Content:             "After months of therapy and finally finding the right medication, I woke up today and actually felt... okay. Not happy, not sad, just steady. It feels like the first breath of air after being underwater.",
			Author:              "SurfaceBreather",
			Timestamp:           now.Add(-666 * time.Minute),
			Tags:                []string{"Recovery"},
			SimilarFeelingCount: 112,
			UpliftCount:         342,
			Comments: []Comment{
				{ID: "c6_1", Author: "StillFighting", Content: "This gives me so much hope. Thank you for sharing the light at the end of the tunnel.", Timestamp: now.Add(-583 * time.Minute), HelpfulCount: 45},
				{ID: "c6_2", Author: "CompassPoint", Content: "Steady is a beautiful place to be. Savor this peace.", Timestamp: now.Add(-500 * time.Minute), HelpfulCount: 12},
			},
			Analysis: &StoryAnalysis{
				EmotionalTone: []string{"Relieved", "Hopeful"},
				Summary:       "You are reaching a plateau of stability after a long emotional climb.",
				CopingStrategies: []CopingStrategy{
					{Title: "Savoring", Description: "Notice and prolong the feeling of being 'steady'.", Type: "Mindfulness"},
				},
			},
		},
		{
			ID:                  "3",
			Content:             "Finally took a 10-minute walk today after being stuck in bed for three days. It wasn't much, but the air felt good on my face.",
			Author:              "TinyVictory",
			Timestamp:           now.Add(-24 * time.Hour),
			Tags:                []string{"Depression"},
			SimilarFeelingCount: 89,
			UpliftCount:         156,
			Comments: []Comment{
				{ID: "c3_1", Author: "ProudOfYou", Content: "Those 10 minutes are everything. Keep going, one step at a time.", Timestamp: now.Add(-22 * time.Hour), HelpfulCount: 12},
				{ID: "c3_2", Author: "Sunlight_Chaser", Content: "10 minutes is a massive victory when you've been in the dark. So proud of you.", Timestamp: now.Add(-19 * time.Hour), HelpfulCount: 8},
			},
			Analysis: &StoryAnalysis{
				EmotionalTone: []string{"Hopeful", "Tired"},
				Summary:       "You are celebrating a small but significant moment of self-care.",
				CopingStrategies: []CopingStrategy{
					{Title: "Behavioral Activation", Description: "Small consistent tasks build momentum.", Type: "CBT"},
				},
			},
		},
	}
}

// MoodType is one of the fixed check-in options offered by the client.
type MoodType struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Emoji string `json:"emoji"`
}

func MoodTypes() []MoodType {
	return []MoodType{
		{Type: "radiant", Label: "Radiant", Emoji: "☀️"},
		{Type: "calm", Label: "Calm", Emoji: "🌿"},
		{Type: "foggy", Label: "Foggy", Emoji: "☁️"},
		{Type: "stormy", Label: "Stormy", Emoji: "⛈️"},
		{Type: "cloudy", Label: "Cloudy", Emoji: "🌧️"},
		{Type: "numb", Label: "Numb", Emoji: "🌑"},
	}
}
