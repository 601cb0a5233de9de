package breakdown

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/balkashynov/flowstate/internal/apperr"
	"github.com/balkashynov/flowstate/internal/models"
)

// Gemini asks a Gemini model for a JSON breakdown.
type Gemini struct {
	client *genai.Client
	model  string
	log    *zap.Logger
}

func NewGemini(ctx context.Context, apiKey, model string, log *zap.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY is not set", apperr.GeneratorFailed)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.GeneratorFailed, err)
	}
	return &Gemini{client: client, model: model, log: log}, nil
}

var responseSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":    {Type: genai.TypeString, Description: "The action title"},
			"emoji":    {Type: genai.TypeString, Description: "A single relevant emoji char"},
			"priority": {Type: genai.TypeString, Enum: []string{"high", "medium", "low"}},
		},
		Required: []string{"title", "emoji", "priority"},
	},
}

func (g *Gemini) Generate(ctx context.Context, goal string) ([]models.GeneratedTask, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(Prompt(goal)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	})
	if err != nil {
		g.log.Warn("gemini request failed", zap.String("model", g.model), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", apperr.GeneratorFailed, err)
	}

	items, err := Parse(resp.Text())
	if err != nil {
		g.log.Warn("gemini returned malformed breakdown", zap.Error(err))
		return nil, err
	}
	g.log.Debug("breakdown generated", zap.Int("items", len(items)))
	return items, nil
}
