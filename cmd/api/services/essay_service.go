package services

import (
	"context"
	"time"

	"techsphere/cmd/api/dto"
	"techsphere/cmd/api/essay"
	"techsphere/cmd/api/metrics"
	"techsphere/cmd/api/trace"
	"techsphere/cmd/api/validation"
	"techsphere/cmd/internal/logger"
	"techsphere/config"
)

// EssayService 는 프롬프트를 만들고 LLM 호출 결과를 그대로 돌려준다. 재시도하지 않는다.
type EssayService struct {
	completer essay.Completer
	cfg       config.AIConfig
	metrics   *metrics.Manager
	now       func() time.Time
}

func NewEssayService(completer essay.Completer, cfg config.AIConfig) *EssayService {
	return &EssayService{
		completer: completer,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithMetrics records completion counts and latency on m.
func (s *EssayService) WithMetrics(m *metrics.Manager) *EssayService {
	s.metrics = m
	return s
}

func (s *EssayService) Generate(ctx context.Context, req dto.GenerateEssayRequestDTO) (*dto.EssayResponseDTO, error) {
	if res := validation.Essay(req.Topic, req.Style, req.Length); !res.Valid {
		return nil, newValidationError(res.Violations)
	}

	style := req.Style
	if style == "" {
		style = essay.DefaultStyle
	}
	length := req.Length
	if length == "" {
		length = essay.DefaultLength
	}

	prompt := essay.GeneratePrompt(req.Topic, style, length)
	text, err := s.complete(ctx, "generate", essay.WriterInstruction, prompt)
	if err != nil {
		return nil, &GenerationError{Message: "Failed to generate essay", Details: err.Error(), Err: err}
	}

	return &dto.EssayResponseDTO{
		Essay: text,
		Metadata: dto.EssayMetadataDTO{
			Topic:       req.Topic,
			Style:       style,
			Length:      length,
			GeneratedAt: s.now().Format(time.RFC3339),
		},
	}, nil
}

func (s *EssayService) Refine(ctx context.Context, req dto.RefineEssayRequestDTO) (*dto.EssayResponseDTO, error) {
	if res := validation.Refine(req.Essay, req.Instructions); !res.Valid {
		return nil, newValidationError(res.Violations)
	}

	prompt := essay.RefinePrompt(req.Essay, req.Instructions)
	text, err := s.complete(ctx, "refine", essay.EditorInstruction, prompt)
	if err != nil {
		return nil, &GenerationError{Message: "Failed to refine essay", Details: err.Error(), Err: err}
	}

	return &dto.EssayResponseDTO{
		Essay:    text,
		Metadata: dto.EssayMetadataDTO{RefinedAt: s.now().Format(time.RFC3339)},
	}, nil
}

// complete runs one completion bounded by the configured timeout and logs
// latency and token usage.
func (s *EssayService) complete(ctx context.Context, op, system, prompt string) (string, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := s.completer.Complete(ctx, essay.Request{
		System:      system,
		Prompt:      prompt,
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	elapsed := time.Since(start)
	s.metrics.ObserveLLM(op, elapsed, err)
	latency := elapsed.Milliseconds()
	if err != nil {
		logger.ErrorWithFields("llm request failed", trace.LogFields(ctx, logger.Fields{
			"operation":  op,
			"provider":   s.cfg.Provider,
			"latency_ms": latency,
			"error":      err.Error(),
		}))
		return "", err
	}

	logger.InfoWithFields("llm request completed", trace.LogFields(ctx, logger.Fields{
		"operation":     op,
		"provider":      s.cfg.Provider,
		"model_name":    resp.Model,
		"latency_ms":    latency,
		"input_tokens":  resp.Usage.InputTokens,
		"output_tokens": resp.Usage.OutputTokens,
		"total_tokens":  resp.Usage.TotalTokens,
	}))
	return resp.Text, nil
}
