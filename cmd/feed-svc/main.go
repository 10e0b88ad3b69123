package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusfeed/internal/common"
	"campusfeed/internal/config"
	"campusfeed/internal/di"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed: ", err)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		log.Fatal("logger init failed: ", err)
	}
	defer logger.Sync()

	common.SetJWTSecret(cfg.Auth.JWTSecret)

	app, err := di.InitializeApplication(cfg, logger)
	if err != nil {
		logger.Fatal("application init failed", zap.Error(err))
	}

	router := mux.NewRouter()
	router.Use(common.RequestLogger(logger))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		common.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// Public surface: auth and media downloads.
	public := router.PathPrefix("/api").Subrouter()
	app.UserHandler.RegisterPublicRoutes(public)
	app.MediaHandler.RegisterRoutes(router)

	// Everything else requires a valid token.
	api := router.PathPrefix("/api").Subrouter()
	api.Use(common.AuthMiddleware)
	app.UserHandler.RegisterRoutes(api)
	app.FeedHandler.RegisterRoutes(api)
	app.DMHandler.RegisterRoutes(api)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Server.Environment == "production" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	if cfg.Logging.Format == "json" {
		zc.Encoding = "json"
	} else {
		zc.Encoding = "console"
	}

	var level zapcore.Level
	if err := level.Set(cfg.Logging.Level); err == nil {
		zc.Level = zap.NewAtomicLevelAt(level)
	}
	return zc.Build()
}
