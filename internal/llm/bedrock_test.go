package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sozercan/log-doctor/internal/config"
)

type fakeBedrock struct {
	input *bedrockruntime.InvokeModelInput
	body  string
	err   error
}

func (f *fakeBedrock) InvokeModel(_ context.Context, params *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.body)}, nil
}

func TestBedrockGenerate(t *testing.T) {
	fake := &fakeBedrock{body: `{"content":[{"type":"text","text":"` + "```json\\n{\\\"answer\\\":\\\"42\\\"}\\n```" + `"}],"usage":{"input_tokens":20,"output_tokens":7}}`}
	provider := NewBedrockWithClient(fake, &config.LLMConfig{Provider: "bedrock", Model: "anthropic.claude-3-5-sonnet-20240620-v1:0", MaxTokens: 1024})

	resp, err := provider.Generate(context.Background(), Request{Prompt: "question", Schema: testSchema})
	require.NoError(t, err)

	assert.Equal(t, `{"answer":"42"}`, resp.Content)
	assert.Equal(t, int64(27), resp.Usage.TotalTokens)

	require.NotNil(t, fake.input)
	assert.Equal(t, "anthropic.claude-3-5-sonnet-20240620-v1:0", *fake.input.ModelId)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(fake.input.Body, &payload))
	assert.Equal(t, "bedrock-2023-05-31", payload["anthropic_version"])
	assert.Equal(t, float64(1024), payload["max_tokens"])
	assert.Contains(t, payload["system"], `"answer"`)
}

func TestBedrockGenerate_InvokeError(t *testing.T) {
	cause := errors.New("AccessDeniedException")
	provider := NewBedrockWithClient(&fakeBedrock{err: cause}, &config.LLMConfig{Model: "m"})

	_, err := provider.Generate(context.Background(), Request{Prompt: "q"})
	assert.ErrorIs(t, err, cause)
}

func TestBedrockGenerate_NoText(t *testing.T) {
	provider := NewBedrockWithClient(&fakeBedrock{body: `{"content":[]}`}, &config.LLMConfig{Model: "m"})

	_, err := provider.Generate(context.Background(), Request{Prompt: "q"})
	assert.Error(t, err)
}

func TestBedrockGenerate_KeepsInlineBackticks(t *testing.T) {
	answer := `{"rootCause":{"title":"T","explanation":"Run ` + "```pip install x```" + ` first"},"solutions":[{"title":"S","steps":["Edit ` + "`config.yaml`" + `"]}]}`
	reply, err := json.Marshal(map[string]interface{}{
		"content": []map[string]string{{"type": "text", "text": answer}},
	})
	require.NoError(t, err)
	provider := NewBedrockWithClient(&fakeBedrock{body: string(reply)}, &config.LLMConfig{Model: "m"})

	resp, err := provider.Generate(context.Background(), Request{Prompt: "q", Schema: testSchema})
	require.NoError(t, err)
	assert.Equal(t, answer, resp.Content)
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "json fence", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", in: "```\n{\"a\":1}```", want: `{"a":1}`},
		{name: "surrounding whitespace", in: "  {\"a\":1}  ", want: `{"a":1}`},
		{name: "fenced with padding", in: "\n```json\n{\"a\":1}\n```\n", want: `{"a":1}`},
		{name: "backticks in value", in: "{\"a\":\"run ```ls``` now\"}", want: "{\"a\":\"run ```ls``` now\"}"},
		{name: "fence inside value only", in: "{\"a\":\"```json\nx\n```\"}", want: "{\"a\":\"```json\nx\n```\"}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFences(tt.in))
		})
	}
}
