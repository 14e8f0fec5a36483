package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sozercan/log-doctor/internal/analyzer"
	"github.com/sozercan/log-doctor/internal/config"
	"github.com/sozercan/log-doctor/internal/formatter"
	"github.com/sozercan/log-doctor/internal/llm"
	"github.com/sozercan/log-doctor/internal/logging"
	"github.com/sozercan/log-doctor/internal/prompt"
)

type analyzeOptions struct {
	output   string
	provider string
	model    string
	language string
	domain   string
	verbose  bool
}

func newAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [FILE]",
		Short: "Analyze an error log with AI assistance",
		Long: `Analyze an error log and print its root cause and suggested solutions.

The log is read from FILE, or from standard input when FILE is "-" or omitted.

Examples:
  # Analyze a saved traceback
  logdoctor analyze comfyui.log

  # Pipe a log and get JSON
  tail -n 200 comfyui.log | logdoctor analyze -o json

  # Use OpenAI and answer in Simplified Chinese
  logdoctor analyze comfyui.log --provider openai --language "Simplified Chinese"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return runAnalyze(cmd, opts, path)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "human", "Output format (human, json, yaml)")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "Model provider (gemini, openai, azure, bedrock); overrides LLM_PROVIDER")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model name; overrides LLM_MODEL")
	cmd.Flags().StringVar(&opts.language, "language", "", "Response language; overrides ANALYSIS_LANGUAGE")
	cmd.Flags().StringVar(&opts.domain, "domain", "", "Domain the model acts as an expert in; overrides ANALYSIS_DOMAIN")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *analyzeOptions, path string) error {
	if err := formatter.ValidateFormat(opts.output); err != nil {
		return err
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logging.Init(level, "text", cmd.ErrOrStderr())

	cfg, err := config.LoadConfigWithOverrides(map[string]string{
		"llm.provider":      opts.provider,
		"llm.model":         opts.model,
		"analysis.language": opts.language,
		"analysis.domain":   opts.domain,
	})
	if err != nil {
		return err
	}

	logText, err := readLog(cmd.InOrStdin(), path, cfg.Analysis.MaxLogBytes)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.LLM.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.LLM.Timeout)
		defer cancel()
	}

	llmProvider, err := llm.NewProvider(ctx, &cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}
	a, err := analyzer.New(prompt.NewBuilder(cfg.Analysis.Domain, cfg.Analysis.Language), llmProvider)
	if err != nil {
		return err
	}

	human := opts.output == "human" || opts.output == ""
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
	s.Suffix = fmt.Sprintf(" Analyzing with %s (%s)...", llmProvider.Name(), llmProvider.Model())
	if human {
		s.Start()
	}

	analysis, err := a.Analyze(ctx, logText)
	s.Stop()
	if err != nil {
		if human {
			color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "✗ %s\n", analyzer.UserMessage(err))
		}
		return fmt.Errorf("AI analysis failed: %w", err)
	}

	if human {
		color.New(color.FgGreen).Fprintln(cmd.ErrOrStderr(), "✓ Analysis complete")
	}
	return formatter.DisplayResults(cmd.OutOrStdout(), analysis, opts.output)
}

// readLog reads the log from path, or from stdin when path is "-".
func readLog(stdin io.Reader, path string, maxBytes int64) (string, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read log: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return "", fmt.Errorf("log exceeds %d bytes; trim it to the relevant error and traceback", maxBytes)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", errors.New("log content cannot be empty")
	}
	return string(data), nil
}
