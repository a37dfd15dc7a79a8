package app

import (
	"trailforge_backend/docs"
	"trailforge_backend/internal/config"
	"trailforge_backend/internal/middleware"
	"trailforge_backend/internal/model"
	"trailforge_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	// 公共路由（无需登录）
	router.POST("/api/register", c.auth.Register)
	router.POST("/api/login", c.auth.Login)

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(
		middleware.AuthMiddleware(cfg),
		middleware.ActivityMiddleware(s.activity, repos.user),
	)
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerStaffRoutes(authGroup, c)
	}
}

// 学员接口
func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/trails", c.learning.ListTrails)
	group.GET("/trails/:id/modules", c.learning.ListModules)
	group.POST("/trails/:id/enroll", c.learning.Enroll)

	group.POST("/modules/:id/visit", c.learning.VisitModule)
	group.POST("/modules/:id/submissions", c.learning.CreateSubmission)
	group.GET("/submissions", c.learning.ListSubmissions)
	group.POST("/uploads", c.learning.UploadAttachment)

	group.GET("/achievements", c.achievement.ListUnlocks)
	group.GET("/stats", c.achievement.GetSnapshot)
	group.GET("/levels", c.achievement.ListSkillLevels)
	group.GET("/leaderboard", c.achievement.GetLeaderboard)

	group.GET("/users/me", c.user.GetProfile)
	group.PUT("/users/me", c.user.UpdateProfile)
	group.POST("/users/me/telegram", c.user.LinkTelegram)
	group.GET("/users/me/certificates", c.user.ListCertificates)
}

// 员工接口：评审、免试跳过、发证、漏斗统计
func (a *App) registerStaffRoutes(group *gin.RouterGroup, c *controllers) {
	staff := group.Group("")
	staff.Use(middleware.RoleMiddleware(model.Staff))
	{
		staff.POST("/submissions/:id/review", c.review.SubmitReview)
		staff.POST("/staff/users/:userId/modules/:moduleId/skip", c.review.SkipModule)
		staff.DELETE("/staff/users/:userId/modules/:moduleId/skip", c.review.RevertSkip)
		staff.POST("/staff/users/:userId/trails/:trailId/certificate", c.certificate.Issue)
		staff.GET("/staff/trails/:id/funnel", c.analytics.GetTrailFunnel)
	}
}
