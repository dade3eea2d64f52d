package app

import (
	"python_tutor_backend/docs"
	"python_tutor_backend/internal/config"
	"python_tutor_backend/internal/middleware"
	"python_tutor_backend/internal/model"
	"python_tutor_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. public
	a.registerPublicRoutes(router, c, cfg)

	// 2. any authenticated user
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(a.services.user))
	{
		a.registerStudentRoutes(authGroup, c)

		// 3. professors (admins pass every role check)
		professor := authGroup.Group("")
		professor.Use(middleware.RoleMiddleware(model.Professor))
		a.registerProfessorRoutes(professor, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.POST("/init-users", c.auth.InitUsers)

		public.POST("/console/run", middleware.TryAuthMiddleware(cfg), c.console.RunCode)

		// browsers cannot set headers on a websocket handshake, so the token also comes as ?token=
		public.GET("/ws", middleware.AuthMiddleware(cfg), c.notification.Connect)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	// course
	rg.GET("/course/structure", c.course.GetStructure)
	rg.GET("/lessons/:id", c.course.GetLesson)

	// progress
	rg.POST("/progress/complete", c.progress.CompleteLesson)
	rg.GET("/progress/me", c.progress.GetMyProgress)

	// feedback
	rg.GET("/feedback/student/:studentId", c.feedback.GetStudentFeedback)

	// announcements
	rg.GET("/announcements", c.announcement.ListAnnouncements)

	// messages
	rg.GET("/messages", c.message.ListMessages)
	rg.POST("/messages", c.message.CreateMessage)

	// AI
	rg.POST("/ai/critique", c.ai.Critique)
	rg.POST("/gemini/critique", c.ai.Critique)
	rg.POST("/ai/explain", c.ai.Explain)
	rg.POST("/lessons/:id/ask", c.ai.AskLesson)

	// content library
	rg.GET("/resources", c.resource.ListResources)
}

func (a *App) registerProfessorRoutes(rg *gin.RouterGroup, c *controllers) {
	// course authoring
	rg.POST("/modules", c.course.CreateModule)
	rg.PUT("/modules/reorder", c.course.ReorderModules)
	rg.PUT("/modules/:id", c.course.UpdateModule)
	rg.DELETE("/modules/:id", c.course.DeleteModule)
	rg.POST("/lessons", c.course.CreateLesson)
	rg.PUT("/lessons/reorder", c.course.ReorderLessons)
	rg.PUT("/lessons/:id", c.course.UpdateLesson)
	rg.DELETE("/lessons/:id", c.course.DeleteLesson)

	rg.POST("/feedback", c.feedback.CreateFeedback)

	rg.POST("/announcements", c.announcement.CreateAnnouncement)
	rg.PUT("/announcements/:id", c.announcement.UpdateAnnouncement)
	rg.DELETE("/announcements/:id", c.announcement.DeleteAnnouncement)

	rg.PUT("/messages/:id", c.message.RespondMessage)
	rg.DELETE("/messages/:id", c.message.DeleteMessage)

	rg.GET("/student/:id/ai_logs", c.ai.GetStudentAILogs)
	rg.GET("/users/students", c.user.GetStudents)

	// analytics
	rg.GET("/dashboard/overview", c.analytics.GetOverview)
	rg.GET("/dashboard/professor-stats", c.analytics.GetProfessorStats)
	rg.GET("/analytics/students", c.analytics.GetStudents)
	rg.GET("/analytics/students/export", c.analytics.ExportStudents)
	rg.GET("/analytics/lessons", c.analytics.GetLessons)

	rg.POST("/resources/upload", c.resource.UploadResource)
	rg.DELETE("/resources/:id", c.resource.DeleteResource)
}
