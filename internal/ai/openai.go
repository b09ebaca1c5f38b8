// AngelaMos | 2026
// openai.go

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/carterperez-dev/adpilot/internal/config"
)

const defaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"

type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`
}

type openAIRequest struct {
	Model       string              `json:"model"`
	Messages    []openAIChatMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
}

type openAIResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Index        int               `json:"index"`
		Message      openAIChatMessage `json:"message"`
		FinishReason string            `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// OpenAIProvider evaluates campaigns through the OpenAI chat completions
// API over plain HTTP.
type OpenAIProvider struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewOpenAIProvider(cfg config.AIConfig, logger *slog.Logger) *OpenAIProvider {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultOpenAIEndpoint
	}

	return &OpenAIProvider{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		logger:     logger,
	}
}

func (p *OpenAIProvider) ModelID() string {
	return p.model
}

func (p *OpenAIProvider) Evaluate(
	ctx context.Context,
	req EvalRequest,
) (Verdict, error) {
	request := openAIRequest{
		Model: p.model,
		Messages: []openAIChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(req)},
		},
		Temperature: 0.2,
		MaxTokens:   1024,
	}

	body, err := json.Marshal(request)
	if err != nil {
		return Verdict{}, fmt.Errorf("marshal openai request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.endpoint,
		bytes.NewReader(body),
	)
	if err != nil {
		return Verdict{}, fmt.Errorf("build openai request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Verdict{}, fmt.Errorf("openai request: %w", err)
		}
		return Verdict{}, fmt.Errorf("openai request: %w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Verdict{}, fmt.Errorf("read openai response: %w", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return Verdict{}, fmt.Errorf(
			"openai status %d: %w",
			resp.StatusCode,
			ErrUnavailable,
		)
	}

	var response openAIResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return Verdict{}, fmt.Errorf("parse openai response: %w", err)
	}

	if response.Error != nil {
		return Verdict{}, fmt.Errorf(
			"openai error %s: %s",
			response.Error.Type,
			response.Error.Message,
		)
	}

	if len(response.Choices) == 0 {
		return Verdict{}, fmt.Errorf("openai response has no choices")
	}

	p.logger.Debug("openai evaluation complete",
		"campaign_id", req.CampaignID,
		"total_tokens", response.Usage.TotalTokens,
	)

	return parseVerdict(response.Choices[0].Message.Content)
}

// NewProvider selects the configured reasoning backend.
func NewProvider(
	ctx context.Context,
	cfg config.AIConfig,
	logger *slog.Logger,
) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(cfg, logger), nil
	case "bedrock":
		return NewBedrockProvider(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}
