package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type LLMConfig struct {
	// One of gemini, openai, azure, bedrock
	Provider    string        `mapstructure:"provider"`
	APIKey      string        `mapstructure:"api_key"`
	Endpoint    string        `mapstructure:"endpoint"`
	Model       string        `mapstructure:"model"`
	APIVersion  string        `mapstructure:"api_version"`
	Region      string        `mapstructure:"region"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxTokens   int64         `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
}

type AnalysisConfig struct {
	// Domain the model is asked to be an expert in
	Domain string `mapstructure:"domain"`

	// Language the model must answer in
	Language string `mapstructure:"language"`

	// Upper bound on accepted log size
	MaxLogBytes int64 `mapstructure:"max_log_bytes"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var defaultModels = map[string]string{
	"gemini":  "gemini-2.5-pro",
	"openai":  "gpt-4o",
	"azure":   "gpt-4o",
	"bedrock": "anthropic.claude-3-5-sonnet-20240620-v1:0",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.endpoint", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_version", "2024-08-01-preview")
	v.SetDefault("llm.region", "")
	v.SetDefault("llm.timeout", "90s")
	v.SetDefault("llm.max_tokens", 4096)
	v.SetDefault("llm.temperature", 0.0)

	v.SetDefault("analysis.domain", "ComfyUI")
	v.SetDefault("analysis.language", "English")
	v.SetDefault("analysis.max_log_bytes", 256*1024)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadConfig reads defaults, an optional config file named by CONFIG_FILE and
// the environment, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	return load(viper.New(), nil)
}

// LoadConfigWithOverrides is LoadConfig with explicit values, keyed like
// "llm.provider", that take precedence over every other source. Empty values
// are ignored.
func LoadConfigWithOverrides(overrides map[string]string) (*Config, error) {
	return load(viper.New(), overrides)
}

func load(v *viper.Viper, overrides map[string]string) (*Config, error) {
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("llm.api_key", "LLM_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY", "API_KEY"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("llm.region", "LLM_REGION", "AWS_REGION"); err != nil {
		return nil, err
	}

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	for key, value := range overrides {
		if value != "" {
			v.Set(key, value)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = defaultModels[cfg.LLM.Provider]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Info("configuration loaded successfully", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
	return &cfg, nil
}

// Validate refuses configurations the analyzer cannot operate with.
func (c *Config) Validate() error {
	var errs []error

	switch c.LLM.Provider {
	case "gemini", "openai":
		if c.LLM.APIKey == "" {
			errs = append(errs, fmt.Errorf("llm.api_key is required for provider %q", c.LLM.Provider))
		}
	case "azure":
		if c.LLM.APIKey == "" {
			errs = append(errs, errors.New("llm.api_key is required for provider \"azure\""))
		}
		if c.LLM.Endpoint == "" {
			errs = append(errs, errors.New("llm.endpoint is required for provider \"azure\""))
		}
	case "bedrock":
		if c.LLM.Region == "" {
			errs = append(errs, errors.New("llm.region is required for provider \"bedrock\""))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported llm.provider %q (supported: gemini, openai, azure, bedrock)", c.LLM.Provider))
	}

	if c.LLM.Model == "" {
		errs = append(errs, errors.New("llm.model must not be empty"))
	}
	if c.Analysis.Language == "" {
		errs = append(errs, errors.New("analysis.language must not be empty"))
	}
	if c.Analysis.MaxLogBytes <= 0 {
		errs = append(errs, errors.New("analysis.max_log_bytes must be positive"))
	}

	return errors.Join(errs...)
}
