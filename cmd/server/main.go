package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"prompt-gallery-go/internal/auth"
	"prompt-gallery-go/internal/config"
	"prompt-gallery-go/internal/database"
	"prompt-gallery-go/internal/gallery"
	httpserver "prompt-gallery-go/internal/http"
	"prompt-gallery-go/internal/models"
	"prompt-gallery-go/internal/storage"
)

func main() {
	_ = godotenv.Load(".env")

	if err := run(); err != nil {
		slog.Error("shutting down", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.DatabaseDSN())
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(&models.Prompt{}); err != nil {
		return err
	}

	store, err := storage.NewMinioStore(context.Background(), storage.MinioConfig{
		Endpoint:       cfg.MinioEndpoint,
		PublicEndpoint: cfg.MinioPublicEndpoint,
		AccessKey:      cfg.MinioAccessKey,
		SecretKey:      cfg.MinioSecretKey,
		Bucket:         cfg.MinioBucket,
		UseSSL:         cfg.MinioUseSSL,
	})
	if err != nil {
		return err
	}

	svc := gallery.NewService(db, store)
	sessions := auth.NewSessions(cfg.AdminPassword, cfg.AdminPasswordHash, cfg.SessionTTL)

	r := httpserver.NewServer(cfg, svc, sessions)
	slog.Info("listening", "port", cfg.Port)
	return r.Run(":" + cfg.Port)
}
