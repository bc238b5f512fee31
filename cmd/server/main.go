package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"jupiter/docs"
	"jupiter/internal/auth"
	"jupiter/internal/cache"
	"jupiter/internal/config"
	"jupiter/internal/db"
	"jupiter/internal/handler"
	"jupiter/internal/repository"
	"jupiter/internal/router"
	"jupiter/internal/service"
)

// @title Jupiter Auth API
// @version 1.0
// @description Credential sign-in and JWT session API for the Jupiter portal.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	logger := log.New("jupiter")
	logger.SetLevel(parseLevel(os.Getenv("LOG_LEVEL")))

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	logger.SetLevel(parseLevel(cfg.LogLevel))

	e := echo.New()
	e.HideBanner = true
	e.Logger = logger

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Fatalf("database init: %v", err)
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(gormDB); err != nil {
			logger.Fatalf("%v", err)
		}
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		logger.Warnj(log.JSON{"event": "redis_unavailable", "addr": cfg.RedisAddr, "error": err.Error()})
	}
	cancelPing()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.SessionSecret, cfg.SessionTTL())
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	dummyHash, err := auth.NewDummyHash(cfg.BcryptCost)
	if err != nil {
		logger.Fatalf("dummy hash: %v", err)
	}
	authenticator := service.NewAuthenticator(userRepo, auth.BcryptVerifier{}, dummyHash, logger)
	sessionService := service.NewSessionService(authenticator, jwtService, tokenStore, logger)
	userService := service.NewUserService(userRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(sessionService, handler.CookieConfig{
		Name:   cfg.SessionCookieName,
		Secure: cfg.SessionCookieSecure,
	})
	userHandler := handler.NewUserHandler(userService)

	router.Register(e, cfg, sessionService, authHandler, userHandler)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	} else {
		docs.SwaggerInfo.Host = "localhost:" + cfg.ServerPort
	}
	logger.Infof("Swagger documentation available at: http://%s/swagger/index.html", docs.SwaggerInfo.Host)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server start: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
}

func parseLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
