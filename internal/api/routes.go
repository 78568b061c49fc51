package api

import (
	"github.com/gin-gonic/gin"
	"wisdomcard/internal/api/controllers"
)

func RegisterRoutes(r *gin.Engine,
	wisdomController *controllers.WisdomController,
	pageController *controllers.PageController,
	healthController *controllers.HealthController) {

	r.GET("/healthz", healthController.HealthHandler)
	r.GET("/metrics", healthController.MetricsHandler())

	apiGroup := r.Group("/api")
	apiGroup.GET("/meta", wisdomController.MetaHandler)

	sessionsGroup := apiGroup.Group("/sessions")
	sessionsGroup.POST("", wisdomController.CreateSessionHandler)
	sessionsGroup.GET("/:id", wisdomController.GetSessionHandler)
	sessionsGroup.DELETE("/:id", wisdomController.DeleteSessionHandler)
	sessionsGroup.PUT("/:id/input", wisdomController.UpdateInputHandler)
	sessionsGroup.POST("/:id/suggestions/:index", wisdomController.ApplySuggestionHandler)
	sessionsGroup.POST("/:id/submit", wisdomController.SubmitHandler)
	sessionsGroup.POST("/:id/reset", wisdomController.ResetHandler)
	sessionsGroup.POST("/:id/retry", wisdomController.RetryHandler)

	r.GET("/", pageController.IndexHandler)
	r.POST("/ask", pageController.AskHandler)
	r.POST("/suggest/:index", pageController.SuggestHandler)
	r.POST("/reset", pageController.ResetHandler)
	r.POST("/retry", pageController.RetryHandler)
}
