// AngelaMos | 2026
// bedrock.go

package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/carterperez-dev/adpilot/internal/config"
)

type bedrockMessage struct {
	Role    string                `json:"role"`
	Content []bedrockContentBlock `json:"content"`
}

type bedrockContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type bedrockRequest struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	System           string           `json:"system,omitempty"`
	Messages         []bedrockMessage `json:"messages"`
	Temperature      float64          `json:"temperature,omitempty"`
}

type bedrockResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// BedrockProvider evaluates campaigns through AWS Bedrock. Model traffic
// stays inside the AWS account.
type BedrockProvider struct {
	client  *bedrockruntime.Client
	modelID string
	logger  *slog.Logger
}

func NewBedrockProvider(
	ctx context.Context,
	cfg config.AIConfig,
	logger *slog.Logger,
) (*BedrockProvider, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &BedrockProvider{
		client:  bedrockruntime.NewFromConfig(awsCfg),
		modelID: cfg.Model,
		logger:  logger,
	}, nil
}

func (p *BedrockProvider) ModelID() string {
	return p.modelID
}

func (p *BedrockProvider) Evaluate(
	ctx context.Context,
	req EvalRequest,
) (Verdict, error) {
	request := bedrockRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        1024,
		System:           systemPrompt,
		Messages: []bedrockMessage{{
			Role: "user",
			Content: []bedrockContentBlock{
				{Type: "text", Text: BuildPrompt(req)},
			},
		}},
		Temperature: 0.2,
	}

	body, err := json.Marshal(request)
	if err != nil {
		return Verdict{}, fmt.Errorf("marshal bedrock request: %w", err)
	}

	output, err := p.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(p.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Verdict{}, fmt.Errorf("bedrock invoke: %w", err)
		}
		return Verdict{}, fmt.Errorf("bedrock invoke: %w: %w", ErrUnavailable, err)
	}

	var response bedrockResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return Verdict{}, fmt.Errorf("parse bedrock response: %w", err)
	}

	var text string
	for _, block := range response.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	p.logger.Debug("bedrock evaluation complete",
		"campaign_id", req.CampaignID,
		"input_tokens", response.Usage.InputTokens,
		"output_tokens", response.Usage.OutputTokens,
	)

	return parseVerdict(text)
}
