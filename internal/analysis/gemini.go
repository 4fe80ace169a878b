// Package analysis wraps the Gemini API calls behind the share/edit flow.
// Errors stay explicit here; the session controller decides what to
// substitute when a call fails.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"atlas/api/internal/atlas"
)

const defaultModel = "gemini-3-flash-preview"

// Client calls Gemini for story analysis and pre-submission tone checks.
type Client struct {
	client *genai.Client
	model  string
}

// New creates a Gemini-backed analysis client.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("analysis: API key is required")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("analysis: create client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// storyAnalysisSchema constrains the model to the StoryAnalysis shape.
func storyAnalysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"emotionalTone": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "List of 2-3 primary emotions detected.",
			},
			"summary": {
				Type:        genai.TypeString,
				Description: "A gentle, 2-sentence empathetic summary.",
			},
			"copingStrategies": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"title":       {Type: genai.TypeString},
						"description": {Type: genai.TypeString},
						"type":        {Type: genai.TypeString, Enum: []string{"CBT", "Grounding", "Mindfulness"}},
					},
					Required: []string{"title", "description", "type"},
				},
			},
			"culturalNuance": {
				Type:        genai.TypeString,
				Description: "Cultural background influence notes.",
			},
			"isCrisis": {
				Type:        genai.TypeBoolean,
				Description: "Immediate danger detection.",
			},
		},
		Required: []string{"emotionalTone", "summary", "copingStrategies", "isCrisis"},
	}
}

// AnalyzeStory asks Gemini for an empathetic reading of a story.
func (c *Client) AnalyzeStory(ctx context.Context, content string) (atlas.StoryAnalysis, error) {
	prompt := "Analyze this personal story for PeerBridge Atlas. Focus on empathy, CBT education, and cultural nuance. No diagnosis. Story: " + content
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   storyAnalysisSchema(),
	})
	if err != nil {
		return atlas.StoryAnalysis{}, fmt.Errorf("analyze story: %w", err)
	}

	var parsed atlas.StoryAnalysis
	if err := json.Unmarshal([]byte(resp.Text()), &parsed); err != nil {
		return atlas.StoryAnalysis{}, fmt.Errorf("analyze story: parse response: %w", err)
	}
	if len(parsed.EmotionalTone) == 0 {
		return atlas.StoryAnalysis{}, fmt.Errorf("analyze story: empty emotional tone")
	}
	if parsed.CopingStrategies == nil {
		parsed.CopingStrategies = []atlas.CopingStrategy{}
	}
	return parsed, nil
}

// CheckTone returns 1-2 sentences of encouraging feedback on a draft. It has
// no effect on stored data and is only used before submission.
func (c *Client) CheckTone(ctx context.Context, content string) (string, error) {
	prompt := "Analyze the tone of this short mental health story. Provide 1-2 sentences of encouraging, empathetic feedback. Suggest if any part might be too intense for a peer community or if it's perfectly framed. Text: " + content
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("check tone: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return ToneEmptyResponse, nil
	}
	return text, nil
}
