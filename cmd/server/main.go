package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "blogapi/docs" // swagger docs

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"blogapi/internal/cache"
	"blogapi/internal/config"
	"blogapi/internal/db"
	"blogapi/internal/handler"
	"blogapi/internal/logging"
	"blogapi/internal/reconcile"
	"blogapi/internal/repository"
	"blogapi/internal/router"
	"blogapi/internal/service"
	"blogapi/internal/storage"
	"blogapi/internal/upload"
)

// @title Blog API
// @version 1.0
// @description Blog publishing API: accounts, posts and their images.
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.AppName, cfg.Env, cfg.LogLevel)

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, cfg.IsDevelopment())
	if err != nil {
		logger.WithError(err).Fatal("database init")
	}

	if cfg.ResetDB {
		logger.Warn("RESET_DB=true detected, dropping all tables")
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		logger.WithError(err).Fatal("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(context.Background()); err != nil {
		logger.WithError(err).Warn("redis unreachable, serving without cache")
	}

	files, err := storage.NewLocal(cfg.UploadDir)
	if err != nil {
		logger.WithError(err).Fatal("upload directory")
	}

	store := repository.NewStore(gormDB)
	coordinator := reconcile.New(files, logger)
	gate := upload.NewGate(files)

	// Initialize services
	authService := service.NewAuthService(store, coordinator)
	blogService := service.NewBlogService(store, coordinator, cacheClient)
	userService := service.NewUserService(store, coordinator, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, gate)
	blogHandler := handler.NewBlogHandler(blogService, gate)
	userHandler := handler.NewUserHandler(userService, gate)

	e := echo.New()
	e.HideBanner = true

	router.Register(e, cfg, logger, authHandler, blogHandler, userHandler)

	swaggerHost := cfg.SwaggerHost
	if swaggerHost == "" {
		swaggerHost = "localhost:" + cfg.ServerPort
	}
	logger.Infof("Swagger documentation available at: http://%s/swagger/index.html", swaggerHost)

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("graceful shutdown")
	}
}
