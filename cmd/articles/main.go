package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog-platform/config"
	"blog-platform/internal/articles"
	"blog-platform/internal/httpserver"
	"blog-platform/internal/identity"
	"blog-platform/internal/media"
	"blog-platform/internal/policy"
	"blog-platform/internal/repository"
	"blog-platform/internal/repository/postgres"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	log.SetOutput(os.Stderr)

	if err := run(); err != nil {
		log.Fatalf("articles: %v", err)
	}
}

func run() error {
	cfg, err := config.LoadContent("8082", true)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(ctx, postgres.PoolConfig{DSN: cfg.DatabaseURL})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.InitSchema(ctx, postgres.SchemaArticles); err != nil {
		return err
	}

	articleRepo := postgres.NewArticleRepository(db)

	tokens := identity.NewTokenService(cfg.JWTSecret, cfg.TokenExpiry())
	engine := policy.NewEngine(&repository.OwnerResolver{Articles: articleRepo})

	mediaStore, err := media.NewStore(cfg)
	if err != nil {
		return err
	}

	h := articles.NewHandler(articleRepo, mediaStore)

	srv := httpserver.New(cfg.Port, cfg.CORSOrigins)
	articles.RegisterRoutes(srv.Echo, h, tokens, engine)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	log.Printf("articles service listening on :%s", cfg.Port)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Println("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
