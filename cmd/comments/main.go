package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog-platform/config"
	"blog-platform/internal/comments"
	"blog-platform/internal/httpserver"
	"blog-platform/internal/identity"
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
		log.Fatalf("comments: %v", err)
	}
}

func run() error {
	cfg, err := config.LoadContent("8084", false)
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

	if err := db.InitSchema(ctx, postgres.SchemaComments); err != nil {
		return err
	}

	commentRepo := postgres.NewCommentRepository(db)

	tokens := identity.NewTokenService(cfg.JWTSecret, cfg.TokenExpiry())
	engine := policy.NewEngine(&repository.OwnerResolver{Comments: commentRepo})

	h := comments.NewHandler(commentRepo)

	srv := httpserver.New(cfg.Port, cfg.CORSOrigins)
	comments.RegisterRoutes(srv.Echo, h, tokens, engine)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	log.Printf("comments service listening on :%s", cfg.Port)

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
