package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/harentsoaR/healthcare-portal/internal/api"
	"github.com/harentsoaR/healthcare-portal/internal/auth"
	"github.com/harentsoaR/healthcare-portal/internal/config"
	"github.com/harentsoaR/healthcare-portal/internal/handlers"
	"github.com/harentsoaR/healthcare-portal/internal/middleware"
	"github.com/harentsoaR/healthcare-portal/internal/session"
	"github.com/harentsoaR/healthcare-portal/internal/utils"
	"github.com/harentsoaR/healthcare-portal/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := config.NewLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Session backend ---
	backend, closeBackend, err := openSessionBackend(cfg, logger)
	if err != nil {
		logger.Fatal("session backend unavailable", zap.String("backend", cfg.SessionBackend), zap.Error(err))
	}
	defer closeBackend()
	sessions := session.NewStore(backend, cfg.SessionTTL, logger)

	// --- Services ---
	client := api.NewClient(cfg.APIBaseURL, nil, cfg.APITimeout, logger)
	gateway := auth.NewGateway(client, sessions, logger)
	cookie := &middleware.SessionCookie{
		Name:   "portal_session",
		Secure: cfg.CookieSecure,
		Signer: utils.NewSigner(cfg.SessionSecret, cfg.SessionTTL),
	}

	tmpl, err := web.Templates()
	if err != nil {
		logger.Fatal("parse templates", zap.Error(err))
	}
	h := handlers.NewHandler(gateway, client, cookie, logger)
	router := handlers.NewRouter(h, tmpl, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("portal listening",
			zap.String("port", cfg.Port),
			zap.String("api", cfg.APIBaseURL),
			zap.String("session_backend", cfg.SessionBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	logger.Info("portal stopped")
}

func openSessionBackend(cfg *config.Config, logger *zap.Logger) (session.Backend, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch cfg.SessionBackend {
	case config.BackendRedis:
		client := session.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, err
		}
		logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
		return session.NewRedisBackend(client), func() { _ = client.Close() }, nil

	case config.BackendMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, err
		}
		if err := client.Ping(ctx, nil); err != nil {
			return nil, nil, err
		}
		backend := session.NewMongoBackend(client.Database(cfg.MongoDatabase))
		if err := backend.EnsureIndexes(ctx); err != nil {
			return nil, nil, err
		}
		logger.Info("connected to mongodb", zap.String("database", cfg.MongoDatabase))
		return backend, func() { _ = client.Disconnect(context.Background()) }, nil
	}
	return session.NewMemoryBackend(), func() {}, nil
}
