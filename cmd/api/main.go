package main

import (
	"context"
	"log"
	"net/http"

	"github.com/veriflow-mrv/veriflow-backend/config"
	"github.com/veriflow-mrv/veriflow-backend/internal/activity"
	"github.com/veriflow-mrv/veriflow-backend/internal/auth"
	"github.com/veriflow-mrv/veriflow-backend/internal/bootstrap"
	"github.com/veriflow-mrv/veriflow-backend/internal/uploads"
)

const serviceName = "veriflow-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN})
	if err != nil {
		log.Fatalf("[main] database: %v", err)
	}
	defer pool.Close()

	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("[main] redis: %v", err)
	}
	defer rdb.Close()

	deps := bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.App.AllowedOrigins,
		DB:             pool,
		Redis:          rdb,
		Tokens:         auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
	}

	if cfg.Auth.FirebaseCredentialsPath != "" {
		fb, err := auth.InitializeFirebase(ctx, cfg.Auth.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("[main] firebase: %v", err)
		}
		deps.FirebaseAuth = fb
		log.Println("[main] auth gate: firebase")
	} else {
		log.Println("[main] auth gate: jwt")
	}

	if cfg.Uploads.Bucket != "" {
		presigner, err := uploads.NewPresigner(ctx, cfg.Uploads.Bucket, cfg.Uploads.Region, cfg.Uploads.PublicBaseURL)
		if err != nil {
			log.Fatalf("[main] uploads: %v", err)
		}
		deps.Presigner = presigner
	} else {
		log.Println("[main] uploads: disabled (no bucket configured)")
	}

	sweeper := activity.NewScheduler(activity.NewFeedRepo(rdb))
	sweeper.Start()
	defer sweeper.Stop()

	router := bootstrap.BuildRouter(deps)

	addr := ":" + cfg.Server.Port
	log.Printf("[main] %s listening on %s", serviceName, addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("[main] server: %v", err)
	}
}
