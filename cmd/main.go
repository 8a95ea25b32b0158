package main

import (
	"context"
	"log"

	"recipebook/config"
	"recipebook/routes"
	"recipebook/services"
)

func main() {
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	db, err := config.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	ctx := context.Background()

	store, err := services.NewStorageService(ctx, cfg)
	if err != nil {
		log.Fatalf("storage init failed: %v", err)
	}

	var moderation services.ImageScreener
	if cfg.ModerationEnabled {
		m, err := services.NewModerationService(ctx, cfg)
		if err != nil {
			log.Fatalf("moderation init failed: %v", err)
		}
		moderation = m
	}

	ranker := services.NewRankerService(cfg)

	r := routes.SetupRouter(cfg, db, store, ranker, moderation)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
