package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/sozercan/log-doctor/internal/config"
)

func newTestGemini(t *testing.T, endpoint string) *Gemini {
	t.Helper()
	provider, err := NewGemini(context.Background(), &config.LLMConfig{
		Provider:  "gemini",
		APIKey:    "test-key",
		Endpoint:  endpoint,
		Model:     "gemini-2.5-pro",
		MaxTokens: 512,
	})
	require.NoError(t, err)
	return provider
}

func TestGeminiGenerate_SendsResponseSchema(t *testing.T) {
	var (
		path string
		body map[string]interface{}
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "candidates": [{"content": {"role": "model", "parts": [{"text": "{\"answer\":\"42\"}"}]}, "finishReason": "STOP"}],
  "usageMetadata": {"promptTokenCount": 10, "candidatesTokenCount": 5, "totalTokenCount": 15}
}`))
	}))
	defer ts.Close()

	provider := newTestGemini(t, ts.URL)
	assert.Equal(t, "gemini", provider.Name())

	resp, err := provider.Generate(context.Background(), Request{Prompt: "question", Schema: testSchema})
	require.NoError(t, err)

	assert.Equal(t, `{"answer":"42"}`, resp.Content)
	assert.Equal(t, Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}, resp.Usage)

	assert.True(t, strings.HasSuffix(path, "models/gemini-2.5-pro:generateContent"), "unexpected path %q", path)

	genCfg, ok := body["generationConfig"].(map[string]interface{})
	require.True(t, ok, "expected generationConfig in request")
	assert.Equal(t, "application/json", genCfg["responseMimeType"])
	assert.Equal(t, float64(512), genCfg["maxOutputTokens"])
	schema, ok := genCfg["responseSchema"].(map[string]interface{})
	require.True(t, ok, "expected responseSchema in request")
	assert.Equal(t, "OBJECT", schema["type"])
	assert.Contains(t, schema["properties"], "answer")

	contents := body["contents"].([]interface{})
	require.Len(t, contents, 1)
	parts := contents[0].(map[string]interface{})["parts"].([]interface{})
	require.Len(t, parts, 1)
	assert.Equal(t, "question", parts[0].(map[string]interface{})["text"])
}

func TestGeminiGenerate_NoSchema(t *testing.T) {
	var body map[string]interface{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"ok"}]}}]}`))
	}))
	defer ts.Close()

	resp, err := newTestGemini(t, ts.URL).Generate(context.Background(), Request{Prompt: "q"}, WithModel("gemini-2.5-flash"))
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)

	genCfg, _ := body["generationConfig"].(map[string]interface{})
	assert.NotContains(t, genCfg, "responseMimeType")
	assert.NotContains(t, genCfg, "responseSchema")
}

func TestGeminiGenerate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		reply   string
		wantErr string
	}{
		{
			name:    "blocked prompt",
			status:  http.StatusOK,
			reply:   `{"promptFeedback":{"blockReason":"SAFETY"}}`,
			wantErr: "blocked the prompt: SAFETY",
		},
		{
			name:    "no candidates",
			status:  http.StatusOK,
			reply:   `{"candidates":[]}`,
			wantErr: "no candidates",
		},
		{
			name:   "quota exceeded",
			status: http.StatusTooManyRequests,
			reply:  `{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.reply))
			}))
			defer ts.Close()

			resp, err := newTestGemini(t, ts.URL).Generate(context.Background(), Request{Prompt: "q", Schema: testSchema})
			require.Error(t, err)
			assert.Nil(t, resp)
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestNewGemini_RequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), &config.LLMConfig{Provider: "gemini"})
	assert.Error(t, err)
}

func TestToGenaiSchema(t *testing.T) {
	noExtra := false
	in := &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"items": {
				Type:        TypeArray,
				Description: "list",
				Items:       &Schema{Type: TypeString},
			},
		},
		Required:             []string{"items"},
		AdditionalProperties: &noExtra,
	}

	out := toGenaiSchema(in)
	require.NotNil(t, out)
	assert.Equal(t, genai.TypeObject, out.Type)
	assert.Equal(t, []string{"items"}, out.Required)

	items := out.Properties["items"]
	require.NotNil(t, items)
	assert.Equal(t, genai.TypeArray, items.Type)
	assert.Equal(t, "list", items.Description)
	assert.Equal(t, genai.TypeString, items.Items.Type)

	assert.Nil(t, toGenaiSchema(nil))
}
