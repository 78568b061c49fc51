package config_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"wisdomcard/internal/config"
	"wisdomcard/internal/infra"
)

var Module = fx.Provide(
	provideConfig, provideLogger, infra.NewMetrics)

func provideConfig() (*config.Config, error) {
	return config.Load()
}

func provideLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	logger, err := infra.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)

	lc.Append(fx.StopHook(func() {
		_ = logger.Sync()
	}))
	return logger, nil
}
