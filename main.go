package main

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/comparathor/backend/internal/config"
	"github.com/comparathor/backend/internal/db"
	"github.com/comparathor/backend/internal/handler"
	"github.com/comparathor/backend/internal/model"
	"github.com/comparathor/backend/internal/service"
	"github.com/comparathor/backend/internal/ws"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx)
	if err != nil {
		log.Fatalf("[Main] Postgres init failed: %v", err)
	}
	defer pool.Close()

	repo := &db.Postgres{Pool: pool}
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("[Main] Schema init failed: %v", err)
	}
	if err := repo.SeedRoles(ctx, model.RoleAdmin, model.RoleRegistered); err != nil {
		log.Fatalf("[Main] Role seed failed: %v", err)
	}

	accessTTL := time.Duration(mustInt(cfg.Auth.AccessExpireMinutes, "ACCESS_TOKEN_EXPIRE_MINUTES")) * time.Minute
	refreshTTL := time.Duration(mustInt(cfg.Auth.RefreshExpireDays, "REFRESH_TOKEN_EXPIRE_DAYS")) * 24 * time.Hour

	codec, err := service.NewTokenCodec(cfg.Auth.SecretKey, cfg.Auth.Algorithm, accessTTL, refreshTTL)
	if err != nil {
		log.Fatalf("[Main] Token codec init failed: %v", err)
	}

	revocations := newRevocationRegistry(ctx, cfg.Redis)

	limiter := service.NewRateLimiter(
		mustInt(cfg.RateLimit.MaxRequests, "RATE_LIMIT_MAX_REQUESTS"),
		time.Duration(mustInt(cfg.RateLimit.WindowSeconds, "RATE_LIMIT_WINDOW_SECONDS"))*time.Second,
	)

	hub := ws.NewHub()
	defer hub.Close()

	authService := service.NewAuthService(repo, codec, revocations)
	productService := service.NewProductService(repo, hub)
	ratingService := service.NewRatingService(repo, hub)
	comparisonService := service.NewComparisonService(repo)
	roleService := service.NewRoleService(repo)
	userService := service.NewUserService(repo)

	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(productService)
	ratingHandler := handler.NewRatingHandler(ratingService)
	comparisonHandler := handler.NewComparisonHandler(comparisonService)
	roleHandler := handler.NewRoleHandler(roleService)
	userHandler := handler.NewUserHandler(userService)

	router := gin.Default()

	// Rate limiting runs before everything else so over-budget clients never
	// cost a token decode or a bcrypt round.
	router.Use(handler.RateLimitMiddleware(limiter))
	router.Use(handler.CORSMiddleware(splitOrigins(cfg.Server.AllowedOrigins)))

	router.GET("/", handler.Root)
	router.GET("/health", handler.Health)
	router.GET("/ws", func(c *gin.Context) {
		hub.Serve(c.Writer, c.Request)
	})

	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh-token", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
	}

	router.GET("/products", productHandler.List)
	router.GET("/products/:id", productHandler.Get)
	router.GET("/ratings/product/:id", ratingHandler.ListByProduct)
	router.GET("/roles", roleHandler.List)

	authed := router.Group("/", handler.AuthMiddleware(authService))
	{
		authed.GET("/users/me", userHandler.Me)
		authed.PUT("/users/me", userHandler.UpdateMe)

		authed.POST("/ratings", handler.RequireRole(model.RoleAdmin, model.RoleRegistered), ratingHandler.Create)

		comparisons := authed.Group("/comparisons", handler.RequireRole(model.RoleAdmin, model.RoleRegistered))
		{
			comparisons.GET("", comparisonHandler.List)
			comparisons.POST("", comparisonHandler.Create)
			comparisons.GET("/:id", comparisonHandler.Get)
			comparisons.PUT("/:id", comparisonHandler.Update)
			comparisons.DELETE("/:id", comparisonHandler.Delete)
			comparisons.POST("/:id/products/:productId", comparisonHandler.AddProduct)
			comparisons.DELETE("/:id/products/:productId", comparisonHandler.RemoveProduct)
		}

		admin := authed.Group("/", handler.RequireRole(model.RoleAdmin))
		{
			admin.POST("/products", productHandler.Create)
			admin.PUT("/products/:id", productHandler.Update)
			admin.DELETE("/products/:id", productHandler.Delete)

			admin.POST("/roles", roleHandler.Create)
			admin.PUT("/roles/:id", roleHandler.Update)
			admin.DELETE("/roles/:id", roleHandler.Delete)

			admin.GET("/users", userHandler.List)
		}
	}

	log.Printf("[Main] Listening on :%s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("[Main] Server stopped: %v", err)
	}
}

// newRevocationRegistry prefers Redis when configured so revocations survive
// restarts and replicate, and falls back to the in-process set otherwise.
func newRevocationRegistry(ctx context.Context, cfg config.RedisConfig) service.RevocationRegistry {
	if cfg.URL == "" {
		return service.NewRevocationSet()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.URL,
		Password: cfg.Password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[Main] Redis unreachable (%v), using in-memory revocation set", err)
		return service.NewRevocationSet()
	}

	log.Println("[Main] Using Redis revocation registry")
	return service.NewRedisRevocations(client)
}

func mustInt(value, name string) int {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Fatalf("[Main] Invalid %s: %q", name, value)
	}
	return n
}

func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
