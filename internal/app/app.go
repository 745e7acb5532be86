package app

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/Al-amen/stock-prediction-portal-backend/docs"
	"github.com/Al-amen/stock-prediction-portal-backend/internal/charts"
	"github.com/Al-amen/stock-prediction-portal-backend/internal/config"
	"github.com/Al-amen/stock-prediction-portal-backend/internal/forecast"
	"github.com/Al-amen/stock-prediction-portal-backend/internal/handlers"
	"github.com/Al-amen/stock-prediction-portal-backend/internal/marketdata"
	"github.com/Al-amen/stock-prediction-portal-backend/internal/pdf"
	"github.com/Al-amen/stock-prediction-portal-backend/internal/repositories"
	"github.com/Al-amen/stock-prediction-portal-backend/internal/routes"
	"github.com/Al-amen/stock-prediction-portal-backend/internal/services"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)

	// === Services ===
	jwtKey := []byte(cfg.Auth.JWTSecret)
	authService := services.NewAuthService(jwtKey, cfg.Auth.AccessTTL())
	tokenService := services.NewTokenService(jwtKey, cfg.Auth.VerificationTTL(), cfg.Auth.ResetTTL())
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
		cfg.Frontend.BaseURL,
	)

	var alertService services.AlertService
	if cfg.Telegram.Enabled {
		alertService = services.NewTelegramAlertService(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	}

	userService := services.NewUserService(userRepo, tokenService, authService, emailService, alertService)
	resetService := services.NewPasswordResetService(userRepo, tokenService, authService, emailService)

	// model and market clients are wired here once; nothing else in the
	// process holds model state
	marketClient := marketdata.NewClient(cfg.Market.BaseURL)
	model := forecast.NewHTTPModel(cfg.Model.URL)
	renderer := charts.NewRenderer(cfg.Media.RootDir)
	reports := pdf.NewReportGenerator(cfg.Media.RootDir)
	predictionService := services.NewPredictionService(marketClient, model, renderer, reports, cfg.Media.BaseURL, alertService)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService, authService, cfg.Auth.RefreshTTL())
	userHandler := handlers.NewUserHandler(userService, resetService)
	predictionHandler := handlers.NewPredictionHandler(predictionService)

	// === Gin ===
	router := gin.Default()
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// rendered charts
	router.Static(cfg.Media.BaseURL, cfg.Media.RootDir)

	routes.SetupRoutes(router, jwtKey, authHandler, userHandler, predictionHandler)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
