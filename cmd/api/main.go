package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"atlas/api/internal/analysis"
	"atlas/api/internal/app"
	"atlas/api/internal/config"
	"atlas/api/internal/sanctuary"
	"atlas/api/internal/search"
	"atlas/api/internal/session"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	var snapshots *session.RedisStore
	if strings.TrimSpace(cfg.RedisURL) != "" {
		store, err := session.NewRedisStore(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		defer store.Close()
		snapshots = store
	} else {
		log.Printf("No Redis configured; identity and mood log are in-memory only")
	}

	var gemini *analysis.Client
	if strings.TrimSpace(cfg.GeminiAPIKey) != "" {
		client, err := analysis.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("gemini client failed: %v", err)
		}
		gemini = client
	} else {
		log.Printf("No Gemini API key; every post gets the fallback analysis")
	}

	var meiliClient *search.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient = search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey)
		defer meiliClient.Close()
	}
	searchService := search.NewService(meiliClient, search.NewMemory())

	sanctuaryService := sanctuary.New()
	if strings.TrimSpace(cfg.MinioEndpoint) != "" {
		svc, err := sanctuary.NewWithMinio(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			log.Printf("WARNING: minio client failed, serving static track URLs: %v", err)
		} else {
			sanctuaryService = svc
		}
	}

	service := app.New(cfg, gemini, snapshots, searchService, sanctuaryService)
	if err := service.Bootstrap(ctx); err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Atlas API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
