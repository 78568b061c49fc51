package prompt_fx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"wisdomcard/internal/config"
	"wisdomcard/internal/infra"
	"wisdomcard/internal/prompts"
	"wisdomcard/internal/services"
)

var Module = fx.Provide(
	ProvideChatCompleter,
	ProvideVariant,
	ProvideTheme,
	ProvideWisdomService)

// ProvideChatCompleter builds the client for the configured provider. A
// missing key does not stop the server: every fetch then fails with
// ErrMissingCredential and the visitor lands in the error view.
func ProvideChatCompleter(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (services.ChatCompleter, error) {
	llm := cfg.LLM
	logger.Info("initializing chat client",
		zap.String("provider", llm.Provider),
		zap.String("model", llm.Model),
	)

	switch strings.ToLower(llm.Provider) {
	case config.ProviderOpenAI:
		client, err := services.NewOpenAIClient(llm.APIKey, llm.BaseURL, llm.Model, &http.Client{})
		if errors.Is(err, services.ErrMissingCredential) {
			logger.Warn("llm.api_key is not set, questions will fail until it is")
			return services.UnconfiguredCompleter{ProviderName: config.ProviderOpenAI}, nil
		}
		return client, err
	case config.ProviderGemini:
		client, err := services.NewGeminiClient(context.Background(), llm.APIKey, llm.Model)
		if errors.Is(err, services.ErrMissingCredential) {
			logger.Warn("llm.api_key is not set, questions will fail until it is")
			return services.UnconfiguredCompleter{ProviderName: config.ProviderGemini}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		lc.Append(fx.StopHook(client.Close))
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s. Use 'openai' or 'gemini'", llm.Provider)
	}
}

func ProvideVariant(cfg *config.Config) (prompts.Variant, error) {
	v, err := prompts.Lookup(cfg.App.Variant)
	if err != nil {
		return prompts.Variant{}, err
	}
	return v.WithTemperature(cfg.LLM.Temperature), nil
}

func ProvideTheme(cfg *config.Config) (prompts.Theme, error) {
	return prompts.LookupTheme(cfg.App.Theme)
}

func ProvideWisdomService(
	completer services.ChatCompleter,
	variant prompts.Variant,
	metrics *infra.Metrics,
	logger *zap.Logger,
) (services.WisdomServiceInterface, error) {
	return services.NewWisdomService(completer, variant, metrics, logger)
}
