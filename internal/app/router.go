package app

import (
	"codehabit_backend/docs"
	"codehabit_backend/internal/controller"
	"codehabit_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerCommonRoutes(router *gin.Engine, health *controller.HealthController) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/api/health", health.HealthCheck)
}

func (a *App) registerInterviewRoutes(router *gin.Engine, c *interviewControllers) {
	a.registerCommonRoutes(router, c.health)

	router.GET("/ws", c.collab.Connect)

	api := router.Group("/api")
	{
		sessions := api.Group("/sessions")
		sessions.POST("", c.session.CreateSession)
		sessions.GET("", c.session.ListSessions)
		sessions.GET("/:id", c.session.GetSession)
		sessions.PUT("/:id/code", c.session.UpdateCode)
		sessions.DELETE("/:id", c.session.DeleteSession)

		api.GET("/collab/stats", c.collab.Stats)
	}
}

func (a *App) registerHabitRoutes(router *gin.Engine, c *habitControllers) {
	a.registerCommonRoutes(router, c.health)

	api := router.Group("/api")
	{
		habits := api.Group("/habits")
		habits.GET("", c.habit.ListHabits)
		habits.POST("", c.habit.CreateHabit)
		habits.GET("/:id", c.habit.GetHabit)
		habits.PUT("/:id", c.habit.UpdateHabit)
		habits.DELETE("/:id", c.habit.DeleteHabit)

		completions := api.Group("/completions")
		completions.POST("", c.completion.CreateCompletion)
		completions.DELETE("", c.completion.DeleteCompletion)
		completions.GET("/:habitId", c.completion.ListCompletions)

		stats := api.Group("/stats")
		stats.GET("/overview", c.stats.GetOverview)
		stats.GET("/habits/:id", c.stats.GetHabitStats)
	}
}
