package controllers_fx

import (
	"go.uber.org/fx"
	"wisdomcard/internal/api/controllers"
	"wisdomcard/internal/services"
)

var Module = fx.Options(
	fx.Provide(services.NewSessionService),
	fx.Provide(controllers.NewWisdomController),
	fx.Provide(controllers.NewPageController),
	fx.Provide(controllers.NewHealthController))
