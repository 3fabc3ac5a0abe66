package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cardPilot/app/echo-server/router"
	"cardPilot/business/card"
	"cardPilot/business/category"
	"cardPilot/business/expense"
	"cardPilot/business/recommend"
	userService "cardPilot/business/user"
	"cardPilot/business/wallet"
	"cardPilot/internal/middleware"
	psqlRepo "cardPilot/internal/repository/postgres"
	redisRepo "cardPilot/internal/repository/redis"
	"cardPilot/internal/rest"
	"cardPilot/pkg/config"
	"cardPilot/pkg/database"
	redisdb "cardPilot/pkg/database/redis"
	"cardPilot/pkg/logger"
	"cardPilot/pkg/metrics"
	"cardPilot/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting CardPilot", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	if cfg.App.SeedOnStart {
		if err := psqlRepo.Seed(context.Background(), db); err != nil {
			logger.Fatal("Failed to seed database", "error", err)
		}
	}

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "error", err)
	}
	defer func() {
		if err := redisdb.CloseRedisClient(redisClient); err != nil {
			logger.Error("Failed to close Redis client", err)
		}
	}()

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	categoryRepo := psqlRepo.NewCategoryRepository(db)
	bankRepo := psqlRepo.NewBankRepository(db)
	cardRepo := psqlRepo.NewCardRepository(db)
	ruleRepo := psqlRepo.NewRuleRepository(db)
	userCardRepo := psqlRepo.NewUserCardRepository(db)
	expenseRepo := psqlRepo.NewExpenseRepository(db)
	scorerRepo := psqlRepo.NewScorerConfigRepository(db)

	tokenRepo := redisRepo.NewTokenRepository(redisClient)
	bestCardsCache := redisRepo.NewBestCardsCache(redisClient, time.Duration(cfg.Recommend.CacheTTLSec)*time.Second)

	recoConfig := recommend.DefaultConfig()
	recoConfig.CurrencySymbol = cfg.Recommend.CurrencySymbol
	if pv, err := decimal.NewFromString(cfg.Recommend.PointValue); err == nil && pv.GreaterThan(decimal.Zero) {
		recoConfig.PointValue = pv
	}

	// Init service
	usrService := userService.NewUserService(userRepo, tokenRepo, validate)
	categoryService := category.NewCategoryService(categoryRepo)
	catalogService := card.NewCardService(bankRepo, cardRepo, ruleRepo, categoryRepo, validate)
	walletService := wallet.NewWalletService(userCardRepo, cardRepo, validate, cfg.App.CardVerifyKey)
	recommendService := recommend.NewRecommendService(
		recoConfig, userCardRepo, cardRepo, categoryRepo, expenseRepo, scorerRepo, bestCardsCache,
	)
	expenseService := expense.NewExpenseService(expenseRepo, userCardRepo, recommend.NewEngine(recoConfig))

	// Init handler
	userHandler := rest.NewUserHandler(usrService)
	categoryHandler := rest.NewCategoryHandler(categoryService)
	catalogHandler := rest.NewCatalogHandler(catalogService)
	walletHandler := rest.NewWalletHandler(walletService)
	recommendHandler := rest.NewRecommendHandler(recommendService)
	expenseHandler := rest.NewExpenseHandler(expenseService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceMiddleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth middleware
	authRequired := middleware.AuthMiddleware(tokenRepo)
	adminOnly := middleware.AdminOnly()
	selfOrAdmin := middleware.SelfOrAdmin()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired, selfOrAdmin, adminOnly)
	router.SetupCategoryRoutes(api, categoryHandler, authRequired, adminOnly)
	router.SetupCatalogRoutes(api, catalogHandler, authRequired, adminOnly)
	router.SetupWalletRoutes(api, walletHandler, authRequired)
	router.SetupRecommendationRoutes(api, recommendHandler, authRequired, selfOrAdmin)
	router.SetupExpenseRoutes(api, expenseHandler, authRequired)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
