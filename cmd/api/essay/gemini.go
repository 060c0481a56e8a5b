package essay

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"techsphere/config"
)

type GeminiCompleter struct {
	apiKey  string
	model   string
	baseURL string
}

// NewGeminiCompleter keeps the settings only; the genai client is built per call
// so the service can start without GEMINI_API_KEY.
func NewGeminiCompleter(cfg config.AIConfig) *GeminiCompleter {
	g := &GeminiCompleter{apiKey: cfg.APIKey, model: cfg.ModelName}
	// base_url defaults to the Groq endpoint; only honor it when it was changed for Gemini
	if cfg.BaseURL != config.Default().AI.BaseURL {
		g.baseURL = cfg.BaseURL
	}
	return g
}

func (g *GeminiCompleter) Complete(ctx context.Context, req Request) (*Response, error) {
	if g.apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY environment variable is not set")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if g.baseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, err
	}

	result, err := client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(req.Prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: req.System}}},
			Temperature:       genai.Ptr(req.Temperature),
			MaxOutputTokens:   int32(req.MaxTokens),
		},
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("gemini returned an empty result")
	}

	text := result.Text()
	if text == "" {
		return nil, errors.New("gemini returned no text")
	}

	resp := &Response{Text: text, Model: g.model}
	if result.ModelVersion != "" {
		resp.Model = result.ModelVersion
	}
	if result.UsageMetadata != nil {
		resp.Usage = TokenUsage{
			InputTokens:  int64(result.UsageMetadata.PromptTokenCount),
			OutputTokens: int64(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int64(result.UsageMetadata.TotalTokenCount),
		}
	}
	return resp, nil
}
