package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harentsoaR/healthcare-portal/internal/config"
	"github.com/harentsoaR/healthcare-portal/internal/devapi"
	"github.com/harentsoaR/healthcare-portal/internal/utils"
)

func main() {
	cfg, err := config.LoadDevAPI()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := config.NewLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	store := devapi.NewStore(0)
	if cfg.Seed {
		if err := devapi.Seed(store); err != nil {
			logger.Fatal("seed", zap.Error(err))
		}
		logger.Info("seeded development data", zap.String("doctor", devapi.SeedDoctorEmail), zap.String("patient", devapi.SeedPatientEmail))
	}

	srv := devapi.NewServer(store, utils.NewSigner(cfg.JWTSecret, cfg.TokenTTL), logger)
	r := devapi.NewRouter(srv)

	logger.Info("development API listening", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
