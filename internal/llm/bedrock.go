package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/sozercan/log-doctor/internal/config"
)

// InvokeModelAPI is the part of the Bedrock runtime client the provider uses.
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Bedrock sends Anthropic messages payloads through AWS Bedrock. Bedrock has no
// response schema parameter, so the schema travels in the system prompt.
type Bedrock struct {
	client InvokeModelAPI
	cfg    *config.LLMConfig
}

func NewBedrock(ctx context.Context, cfg *config.LLMConfig) (*Bedrock, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("bedrock region is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return NewBedrockWithClient(bedrockruntime.NewFromConfig(awsCfg, func(o *bedrockruntime.Options) {
		o.RetryMaxAttempts = 1
	}), cfg), nil
}

func NewBedrockWithClient(client InvokeModelAPI, cfg *config.LLMConfig) *Bedrock {
	return &Bedrock{client: client, cfg: cfg}
}

func (b *Bedrock) Name() string  { return "bedrock" }
func (b *Bedrock) Model() string { return b.cfg.Model }

func (b *Bedrock) Generate(ctx context.Context, req Request, opts ...Option) (*Response, error) {
	options := applyOptions(Options{
		Model:       b.cfg.Model,
		Temperature: b.cfg.Temperature,
		MaxTokens:   b.cfg.MaxTokens,
	}, opts)

	payload := map[string]any{
		"anthropic_version": "bedrock-2023-05-31",
		"messages": []map[string]string{
			{"role": "user", "content": req.Prompt},
		},
		"max_tokens":  options.MaxTokens,
		"temperature": options.Temperature,
	}
	if req.Schema != nil {
		system, err := schemaInstruction(req.Schema)
		if err != nil {
			return nil, err
		}
		payload["system"] = system
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal bedrock request: %w", err)
	}

	output, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(options.Model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("bedrock invoke failed: %w", err)
	}

	var parsed struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Usage struct {
			InputTokens  int64 `json:"input_tokens"`
			OutputTokens int64 `json:"output_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(output.Body, &parsed); err != nil {
		return nil, fmt.Errorf("decode bedrock response: %w", err)
	}

	var parts []string
	for _, block := range parsed.Content {
		if block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("bedrock returned no text content")
	}

	return &Response{
		Content: stripFences(strings.Join(parts, "\n")),
		Usage: Usage{
			PromptTokens:     parsed.Usage.InputTokens,
			CompletionTokens: parsed.Usage.OutputTokens,
			TotalTokens:      parsed.Usage.InputTokens + parsed.Usage.OutputTokens,
		},
	}, nil
}

func schemaInstruction(s *Schema) (string, error) {
	schemaJSON, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal response schema: %w", err)
	}
	return "Respond with a single JSON object and nothing else. It must validate against this JSON Schema:\n" + string(schemaJSON), nil
}

// fenceRe matches a reply that is wholly wrapped in one markdown code fence.
var fenceRe = regexp.MustCompile("(?s)^```[a-zA-Z]*[ \\t]*\\n(.*?)\\n?```$")

// stripFences unwraps a reply like ```json ... ``` so the JSON can be parsed.
// Backticks anywhere else, including inside JSON strings, are left alone.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}
