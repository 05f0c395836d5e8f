package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/masjidtools/qurbani-backend/internal/api"
	"github.com/masjidtools/qurbani-backend/internal/config"
	"github.com/masjidtools/qurbani-backend/internal/db"
	"github.com/masjidtools/qurbani-backend/internal/distribution"
	"github.com/masjidtools/qurbani-backend/internal/middleware"
	"github.com/masjidtools/qurbani-backend/internal/observ"
	"github.com/masjidtools/qurbani-backend/internal/repository/postgres"
	"github.com/masjidtools/qurbani-backend/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// Startup has no parent request, so connections are made against the
	// root context; each HTTP request gets its own later.
	ctx := context.Background()

	database, err := db.New(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	sessions, err := session.NewStore(ctx, cfg.RedisURL, logger)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer sessions.Close()

	pool := database.Pool()
	userRepo := postgres.NewUserStore(pool)
	mosqueRepo := postgres.NewMosqueStore(pool)
	donorRepo := postgres.NewDonorStore(pool)
	memberRepo := postgres.NewMemberStore(pool)
	houseRepo := postgres.NewHouseStore(pool)
	distStore := postgres.NewDistributionStore(pool)

	engine := distribution.NewEngine(distStore, logger)

	authHandler := api.NewAuthHandler(userRepo, mosqueRepo, sessions, cfg.JWTSecret, cfg.TokenTTL, logger)
	donorHandler := api.NewDonorHandler(donorRepo, logger)
	memberHandler := api.NewMemberHandler(memberRepo, logger)
	houseHandler := api.NewHouseHandler(houseRepo, logger)
	distHandler := api.NewDistributionHandler(engine, logger)

	srv := gin.New()
	srv.Use(gin.Logger(), gin.Recovery())

	// Public: health for load balancers, register/login to obtain a token.
	srv.GET("/v1/health", func(c *gin.Context) {
		if err := database.Health(c.Request.Context()); err != nil {
			c.JSON(503, gin.H{"status": "degraded"})
			return
		}
		c.JSON(200, gin.H{"status": "ok"})
	})
	srv.POST("/v1/auth/register", authHandler.Register)
	srv.POST("/v1/auth/login", authHandler.Login)

	// Everything else requires a valid, unrevoked token. The middleware
	// resolves the mosque identity every handler scopes its queries by.
	v1 := srv.Group("/v1")
	v1.Use(middleware.AuthMiddleware(cfg.JWTSecret, sessions))

	v1.POST("/auth/logout", authHandler.Logout)

	v1.GET("/donors", donorHandler.List)
	v1.POST("/donors", donorHandler.Create)
	v1.PATCH("/donors", donorHandler.Update)
	v1.DELETE("/donors", donorHandler.Delete)

	v1.GET("/members", memberHandler.List)
	v1.POST("/members", memberHandler.Create)
	v1.PATCH("/members", memberHandler.Update)
	v1.DELETE("/members", memberHandler.Delete)

	v1.GET("/houses", houseHandler.List)
	v1.PATCH("/houses", houseHandler.UpdatePriority)

	v1.POST("/distribution", distHandler.Calculate)
	v1.GET("/distribution", distHandler.Summary)

	logger.Info("starting qurbani backend",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
	)

	if err := srv.Run(":" + cfg.Port); err != nil {
		return fmt.Errorf("run server: %w", err)
	}
	return nil
}
