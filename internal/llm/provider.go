package llm

import (
	"context"
	"fmt"

	"github.com/sozercan/log-doctor/internal/config"
)

// NewProvider builds the provider selected by cfg.Provider.
func NewProvider(ctx context.Context, cfg *config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "gemini", "":
		return NewGemini(ctx, cfg)
	case "openai", "azure":
		return NewOpenAI(cfg)
	case "bedrock":
		return NewBedrock(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s (supported: gemini, openai, azure, bedrock)", cfg.Provider)
	}
}
