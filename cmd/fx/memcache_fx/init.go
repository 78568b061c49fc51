package memcache_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"wisdomcard/internal/config"
	"wisdomcard/internal/infra"
	"wisdomcard/internal/services"
	"wisdomcard/internal/session"
	mem "wisdomcard/pkg/memcache"
)

var Module = fx.Provide(provideSessionStore)

func provideSessionStore(
	lc fx.Lifecycle,
	cfg *config.Config,
	wisdomService services.WisdomServiceInterface,
	metrics *infra.Metrics,
	logger *zap.Logger,
) mem.SessionStore {
	newController := func() *session.Controller {
		return session.NewController(wisdomService,
			session.WithLogger(logger.Named("session")),
			session.WithFetchTimeout(cfg.LLM.Timeout),
			session.WithTransitionHook(func(from, to session.State) {
				metrics.ViewTransitions.WithLabelValues(string(from), string(to)).Inc()
			}),
		)
	}

	store := mem.NewSessions(newController, cfg.Session.TTL, cfg.Session.JanitorInterval, metrics.SessionsActive)
	lc.Append(fx.StopHook(store.Close))
	return store
}
