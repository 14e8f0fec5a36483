package llm

import (
	"context"
)

type Provider interface {
	// Name returns the provider identifier, e.g. "gemini" or "openai"
	Name() string
	// Model returns the default model requests are sent to
	Model() string
	// Generate sends a single prompt and returns the raw text the model produced
	Generate(ctx context.Context, req Request, opts ...Option) (*Response, error)
}

// Request is a single-shot generation request. When Schema is set the model is
// asked to answer with JSON matching it.
type Request struct {
	Prompt string
	Schema *Schema
}

type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

type Option func(*Options)

type Options struct {
	Model       string
	MaxTokens   int64
	Temperature float64
}

func WithModel(model string) Option {
	return func(o *Options) {
		if model != "" {
			o.Model = model
		}
	}
}

func WithMaxTokens(n int64) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxTokens = n
		}
	}
}

func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.Temperature = t
	}
}

type Response struct {
	Content string
	Usage   Usage
}

func applyOptions(base Options, opts []Option) Options {
	for _, opt := range opts {
		opt(&base)
	}
	return base
}
