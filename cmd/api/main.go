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

	"github.com/urfave/cli/v2"

	"fieldnote/api/internal/ai"
	"fieldnote/api/internal/app"
	"fieldnote/api/internal/blob"
	"fieldnote/api/internal/config"
	"fieldnote/api/internal/search"
	"fieldnote/api/internal/session"
	"fieldnote/api/internal/store"
)

func main() {
	cliApp := &cli.App{
		Name:  "fieldnote-api",
		Usage: "Fieldnote CRM backend",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP API server",
				Action: func(*cli.Context) error {
					return serve()
				},
			},
			{
				Name:  "migrate",
				Usage: "apply database migrations and exit",
				Action: func(*cli.Context) error {
					return migrate()
				},
			},
		},
		DefaultCommand: "serve",
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func migrate() error {
	cfg := config.Load()
	ctx := context.Background()

	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	return store.ApplyMigrations(ctx, db, cfg.MigrationsDir)
}

func serve() error {
	cfg := config.Load()
	ctx := context.Background()

	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	if err := store.ApplyMigrations(ctx, db, cfg.MigrationsDir); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	dataStore := store.NewSQLStore(db)

	var blobStore blob.Store
	if strings.TrimSpace(cfg.MinioEndpoint) != "" {
		minioStore, err := blob.NewMinioStore(ctx, blob.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			log.Fatalf("minio connection failed: %v", err)
		}
		blobStore = minioStore
	} else {
		log.Printf("WARNING: no blob storage configured, artifacts are kept in memory")
		blobStore = blob.NewMemoryStore()
	}

	var meiliClient *search.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient = search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey)
		defer meiliClient.Close()
	}
	searchService := search.NewService(meiliClient, dataStore)

	var sessions app.SessionStore
	if strings.TrimSpace(cfg.RedisURL) != "" {
		log.Printf("Using Redis for refresh token storage")
		redisStore, err := session.NewRedisStore(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		defer redisStore.Close()
		sessions = redisStore
	} else {
		log.Printf("Using the database for refresh token storage")
		sessions = session.NewDBStore(dataStore)
	}

	service := app.New(cfg, dataStore, sessions, blobStore, ai.NewMockEngine(), searchService)

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
		log.Printf("Fieldnote API listening on %s", cfg.Addr)
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
	return nil
}
