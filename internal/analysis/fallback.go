package analysis

import "atlas/api/internal/atlas"

// ToneFallback is returned to the user when the tone check fails outright.
const ToneFallback = "Keep writing from the heart."

// ToneEmptyResponse covers the odd case of a successful call with no text.
const ToneEmptyResponse = "Your writing feels clear and honest."

// Fallback is the analysis substituted when the Gemini call fails. Posting
// never fails on the user: they always get a story with a usable analysis.
func Fallback() atlas.StoryAnalysis {
	return atlas.StoryAnalysis{
		EmotionalTone:    []string{"Reflective"},
		Summary:          "Your story is valid.",
		CopingStrategies: []atlas.CopingStrategy{},
		IsCrisis:         false,
	}
}
