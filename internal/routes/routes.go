package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Al-amen/stock-prediction-portal-backend/internal/handlers"
	"github.com/Al-amen/stock-prediction-portal-backend/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	jwtKey []byte,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	predictionHandler *handlers.PredictionHandler,
) *gin.Engine {

	api := r.Group("/api/v1")

	// ---- public
	user := api.Group("/user")
	{
		user.POST("/login/", authHandler.Login)
		user.POST("/token/refresh/", authHandler.RefreshToken)
		user.POST("/register/", userHandler.Register)
		user.GET("/verify-email/", userHandler.VerifyEmail)
		user.POST("/resend-verify-email/", userHandler.ResendVerification)
		user.POST("/password-reset/", userHandler.PasswordResetRequest)
		user.POST("/reset-password-confirm/:uidb64/:token/", userHandler.PasswordResetConfirm)
	}

	// ---- protected
	auth := api.Group("", middleware.AuthMiddleware(jwtKey))
	{
		auth.POST("/user/logout/", authHandler.Logout)
		auth.PUT("/user/password-change/", userHandler.ChangePassword)
		auth.POST("/predict/", predictionHandler.Predict)
		auth.POST("/predict/report/", predictionHandler.PredictReport)
	}

	return r
}
