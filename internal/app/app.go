package app

import (
	"fmt"
	"log"
	"time"

	"magicauth/internal/config"
	"magicauth/internal/handlers"
	"magicauth/internal/middleware"
	"magicauth/internal/repositories"
	"magicauth/internal/routes"
	"magicauth/internal/services"
	"magicauth/internal/utils"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "magicauth/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === Repos ===
	sessionRepo := repositories.NewSessionRepository()

	// === Glide (провайдер magic auth) ===
	glideClient := utils.NewGlideClient(
		cfg.Glide.BaseURL,
		cfg.Glide.APIKey,
		cfg.Glide.DryRun,
	)

	// === Services ===
	verificationService := services.NewVerificationService(sessionRepo, glideClient, cfg.Magic.RedirectURL)
	tokenService := services.NewTokenService(
		sessionRepo,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute,
	)

	// === Handlers ===
	verificationHandler := handlers.NewVerificationHandler(verificationService, tokenService, "static/index.html")

	// === Gin ===
	router := gin.Default()
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLog())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(router, verificationHandler)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на %s (glide dry_run=%v)", listenAddr, cfg.Glide.DryRun)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Ошибка запуска сервера: ", err)
	}
}
