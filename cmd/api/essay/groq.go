package essay

import (
	"context"
	"errors"
	"net/http"

	"techsphere/cmd/api/httpclient"
	"techsphere/config"
)

// GroqCompleter talks to an OpenAI-compatible chat completions endpoint.
type GroqCompleter struct {
	client *httpclient.BaseClient
	model  string
	apiKey string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	TopP        float32       `json:"top_p"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
		TotalTokens      int64 `json:"total_tokens"`
	} `json:"usage"`
}

// NewGroqCompleter uses httpClient when given, otherwise the logging client
// with cfg.Timeout.
func NewGroqCompleter(cfg config.AIConfig, httpClient *http.Client) *GroqCompleter {
	if httpClient == nil {
		httpClient = httpclient.New(httpclient.Config{Timeout: cfg.Timeout})
	}
	client := httpclient.NewBaseClientWithClient(httpClient, cfg.BaseURL)
	if cfg.APIKey != "" {
		client.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	}
	return &GroqCompleter{client: client, model: cfg.ModelName, apiKey: cfg.APIKey}
}

func (g *GroqCompleter) Complete(ctx context.Context, req Request) (*Response, error) {
	if g.apiKey == "" {
		return nil, errors.New("GROQ_API_KEY environment variable is not set")
	}

	body := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		TopP:        1,
	}

	var out chatResponse
	if err := g.client.DoJSON(ctx, http.MethodPost, "/chat/completions", body, &out); err != nil {
		return nil, err
	}
	if len(out.Choices) == 0 {
		return nil, errors.New("completion returned no choices")
	}

	model := out.Model
	if model == "" {
		model = g.model
	}
	return &Response{
		Text:  out.Choices[0].Message.Content,
		Model: model,
		Usage: TokenUsage{
			InputTokens:  out.Usage.PromptTokens,
			OutputTokens: out.Usage.CompletionTokens,
			TotalTokens:  out.Usage.TotalTokens,
		},
	}, nil
}
