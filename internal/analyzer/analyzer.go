package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sozercan/log-doctor/apimodels"
	"github.com/sozercan/log-doctor/internal/llm"
	"github.com/sozercan/log-doctor/internal/logging"
	"github.com/sozercan/log-doctor/internal/metrics"
	"github.com/sozercan/log-doctor/internal/prompt"
)

// maxLoggedResponse bounds how much of a rejected model answer is logged.
const maxLoggedResponse = 2000

type Analyzer struct {
	builder     *prompt.Builder
	llmProvider llm.Provider
	opts        []llm.Option
	logger      *slog.Logger
}

// New returns an Analyzer bound to llmProvider. It fails with ErrNotConfigured
// when no provider is supplied. A nil builder uses the default domain and language.
func New(builder *prompt.Builder, llmProvider llm.Provider, opts ...llm.Option) (*Analyzer, error) {
	if llmProvider == nil {
		return nil, ErrNotConfigured
	}
	if builder == nil {
		builder = prompt.NewBuilder("", "")
	}
	return &Analyzer{
		builder:     builder,
		llmProvider: llmProvider,
		opts:        opts,
		logger:      logging.New("analyzer"),
	}, nil
}

// Provider returns the provider requests are sent to.
func (a *Analyzer) Provider() llm.Provider {
	return a.llmProvider
}

// Analyze sends logText to the model and returns the validated analysis. The
// returned error wraps ErrTransportFailure or ErrMalformedResponse.
func (a *Analyzer) Analyze(ctx context.Context, logText string) (*apimodels.Analysis, error) {
	startTime := time.Now()
	a.logger.Info("Starting analysis", "provider", a.llmProvider.Name(), "log_bytes", len(logText))

	analysis, err := a.analyze(ctx, logText)

	metrics.AnalysisDurationSeconds.Observe(time.Since(startTime).Seconds())
	metrics.AnalysesTotal.WithLabelValues(resultLabel(err)).Inc()

	if err != nil {
		a.logger.Error("Analysis failed", "kind", Kind(err), "error", err, "duration", time.Since(startTime))
		return nil, err
	}

	a.logger.Info("Analysis completed", "solutions", len(analysis.Solutions), "duration", time.Since(startTime))
	return analysis, nil
}

func (a *Analyzer) analyze(ctx context.Context, logText string) (*apimodels.Analysis, error) {
	req := a.builder.Build(logText)

	resp, err := a.llmProvider.Generate(ctx, llm.Request{
		Prompt: req.Instruction,
		Schema: req.Schema,
	}, a.opts...)
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(a.llmProvider.Name(), "error").Inc()
		return nil, fmt.Errorf("%w: %s: %w", ErrTransportFailure, a.llmProvider.Name(), err)
	}
	metrics.ProviderRequestsTotal.WithLabelValues(a.llmProvider.Name(), "ok").Inc()
	recordUsage(a.llmProvider.Name(), resp.Usage)

	analysis, err := Decode(resp.Content)
	if err != nil {
		a.logger.Debug("Rejected model response", "response", truncateString(resp.Content, maxLoggedResponse))
		return nil, err
	}
	return analysis, nil
}

func recordUsage(provider string, usage llm.Usage) {
	if usage.PromptTokens > 0 {
		metrics.ProviderTokensTotal.WithLabelValues(provider, "prompt").Add(float64(usage.PromptTokens))
	}
	if usage.CompletionTokens > 0 {
		metrics.ProviderTokensTotal.WithLabelValues(provider, "completion").Add(float64(usage.CompletionTokens))
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, ErrMalformedResponse):
		return metrics.ResultMalformedResponse
	default:
		return metrics.ResultTransportFailure
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen] + "\n[truncated]"
	}
	return s
}
