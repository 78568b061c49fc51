package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment override, e.g. WISDOM_LLM_API_KEY.
const EnvPrefix = "WISDOM"

var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads .env (if present), an optional config.yaml and environment
// overrides, in that order of increasing precedence.
func Load() (*Config, error) {
	loadEnvFile()
	return LoadFrom(viper.New(), "")
}

// LoadFrom builds a Config from the given viper instance. When configFile is
// non-empty it is read explicitly instead of searching the default paths.
func LoadFrom(v *viper.Viper, configFile string) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyProviderDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnvFile() {
	for _, path := range []string{".env", "../.env"} {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", "8080")
	v.SetDefault("http.mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("llm.provider", ProviderOpenAI)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.temperature", 0.0)
	v.SetDefault("llm.timeout", time.Duration(0))
	v.SetDefault("app.variant", "postcard")
	v.SetDefault("app.theme", "red")
	v.SetDefault("session.ttl", 30*time.Minute)
	v.SetDefault("session.janitor_interval", time.Minute)
}

// applyProviderDefaults fills model and endpoint for the chosen provider
// only when the operator did not set them.
func applyProviderDefaults(cfg *Config) {
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))

	switch cfg.LLM.Provider {
	case ProviderOpenAI:
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = DefaultOpenAIBaseURL
		}
		if cfg.LLM.Model == "" {
			cfg.LLM.Model = DefaultOpenAIModel
		}
	case ProviderGemini:
		if cfg.LLM.Model == "" {
			cfg.LLM.Model = DefaultGeminiModel
		}
	}

	// Well-known credential variables are honoured when the prefixed one is absent.
	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case ProviderOpenAI:
			cfg.LLM.APIKey = firstEnv("OPENAI_API_KEY", "API_KEY")
		case ProviderGemini:
			cfg.LLM.APIKey = firstEnv("GEMINI_API_KEY", "API_KEY")
		}
	}
}

func validate(cfg *Config) error {
	switch cfg.LLM.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("%w: unsupported llm.provider %q, use %q or %q",
			ErrInvalidConfig, cfg.LLM.Provider, ProviderOpenAI, ProviderGemini)
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("%w: llm.temperature must be within [0, 2]", ErrInvalidConfig)
	}
	if cfg.LLM.Timeout < 0 {
		return fmt.Errorf("%w: llm.timeout must not be negative", ErrInvalidConfig)
	}
	if cfg.Session.TTL <= 0 {
		return fmt.Errorf("%w: session.ttl must be positive", ErrInvalidConfig)
	}
	if cfg.Session.JanitorInterval <= 0 {
		return fmt.Errorf("%w: session.janitor_interval must be positive", ErrInvalidConfig)
	}
	switch cfg.HTTP.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("%w: unsupported http.mode %q", ErrInvalidConfig, cfg.HTTP.Mode)
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unsupported log.level %q", ErrInvalidConfig, cfg.Log.Level)
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
