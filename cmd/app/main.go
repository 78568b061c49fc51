package main

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"wisdomcard/cmd/fx/config_fx"
	"wisdomcard/cmd/fx/controllers_fx"
	"wisdomcard/cmd/fx/memcache_fx"
	"wisdomcard/cmd/fx/prompt_fx"
	"wisdomcard/internal/api"
	"wisdomcard/internal/api/controllers"
	"wisdomcard/internal/config"
	"wisdomcard/pkg/middleware"
)

func main() {
	app := fx.New(
		config_fx.Module,
		prompt_fx.Module,
		memcache_fx.Module,
		controllers_fx.Module,

		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.Invoke(StartServer),
		fx.Provide(ProvideRouter),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, logger *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Info("starting HTTP server", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("HTTP server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	cfg *config.Config,
	logger *zap.Logger,
	wisdomController *controllers.WisdomController,
	pageController *controllers.PageController,
	healthController *controllers.HealthController) (*gin.Engine, error) {

	gin.SetMode(cfg.HTTP.Mode)

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(logger.Named("http")))
	r.Use(middleware.Recovery())
	r.Use(middleware.CORSMiddleware())

	tmpl, err := controllers.PageTemplates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	api.RegisterRoutes(r, wisdomController, pageController, healthController)

	return r, nil
}
