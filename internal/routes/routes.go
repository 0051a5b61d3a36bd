package routes

import (
	"github.com/gin-gonic/gin"

	"magicauth/internal/handlers"
)

func SetupRoutes(r *gin.Engine, verificationHandler *handlers.VerificationHandler) *gin.Engine {

	// ---- лендинг и callback от провайдера
	r.StaticFile("/", verificationHandler.LandingPage)
	r.GET("/callback", verificationHandler.Callback)

	// ---- API
	api := r.Group("/api")
	{
		api.POST("/start-verification", verificationHandler.StartVerification)
		api.POST("/check-verification", verificationHandler.CheckVerification)
		api.POST("/get-session", verificationHandler.GetSession)
		api.POST("/session-token", verificationHandler.IssueSessionToken)
	}

	return r
}
