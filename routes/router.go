// file: routes/router.go
package routes

import (
	"CYBERCOM/config"
	"CYBERCOM/controllers"
	"CYBERCOM/middlewares"
	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Leaderboard *controllers.LeaderboardController
	Finding     *controllers.FindingController
	Consent     *controllers.ConsentController
	Health      *controllers.HealthController
	Status      *controllers.StatusController
	Submission  *controllers.SubmissionController
}

func SetupRouter(cfg *config.Config, ctl Controllers) *gin.Engine {
	r := gin.Default()

	apiV1 := r.Group("/api/v1/intel")
	{
		// 运维状态，无需鉴权
		apiV1.GET("/status", ctl.Status.Get)

		// 排行榜：赛中仅登录用户可见
		apiV1.GET("/leaderboard", middlewares.JWTAuthMiddleware(cfg.JWTSecret), ctl.Leaderboard.Get)

		// 授权台账：用户只能操作自己
		consentRoutes := apiV1.Group("/consent")
		consentRoutes.Use(middlewares.JWTAuthMiddleware(cfg.JWTSecret))
		{
			consentRoutes.GET("", ctl.Consent.Status)
			consentRoutes.POST("/grant", ctl.Consent.Grant)
			consentRoutes.POST("/withdraw", ctl.Consent.Withdraw)
		}

		// 嫌疑情报与审核：管理员专属
		adminRoutes := apiV1.Group("")
		adminRoutes.Use(middlewares.JWTAuthMiddleware(cfg.JWTSecret), middlewares.AdminOnlyMiddleware())
		{
			adminRoutes.GET("/findings", ctl.Finding.List)
			adminRoutes.GET("/findings/:id", ctl.Finding.Detail)
			adminRoutes.PUT("/findings/:id/review", ctl.Finding.Review)

			adminRoutes.GET("/challenge-health", ctl.Health.List)
			adminRoutes.GET("/challenge-health/:id", ctl.Health.Detail)

			// 提交管道的内部推送通道
			adminRoutes.POST("/submissions", ctl.Submission.Create)
		}
	}

	return r
}
