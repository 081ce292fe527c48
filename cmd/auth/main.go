package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog-platform/config"
	"blog-platform/internal/httpserver"
	"blog-platform/internal/identity"
	"blog-platform/internal/policy"
	"blog-platform/internal/repository"
	"blog-platform/internal/repository/postgres"
	"blog-platform/internal/users"
	"blog-platform/pkg/mailer"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	log.SetOutput(os.Stderr)

	if err := run(); err != nil {
		log.Fatalf("auth: %v", err)
	}
}

func run() error {
	cfg, err := config.LoadAuth()
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

	// The auth service also reads articles to build newsletter highlights.
	if err := db.InitSchema(ctx, postgres.SchemaUsers, postgres.SchemaArticles); err != nil {
		return err
	}

	userRepo := postgres.NewUserRepository(db)
	articleRepo := postgres.NewArticleRepository(db)

	tokens := identity.NewTokenService(cfg.JWTSecret, cfg.TokenExpiry())
	engine := policy.NewEngine(&repository.OwnerResolver{Users: userRepo})

	var mail *mailer.Service
	if cfg.MailProviders != "" {
		mail, err = mailer.NewServiceFromProviderList(cfg.MailProviders, cfg.MailFrom,
			mailer.ResendConfig{APIKey: cfg.ResendAPIKey, APIURL: cfg.ResendAPIURL},
			mailer.SendGridConfig{APIKey: cfg.SendGridAPIKey, APIURL: cfg.SendGridAPIURL},
		)
		if err != nil {
			return err
		}
	} else {
		log.Println("Warning: no mail providers configured, emails disabled")
	}

	h := users.NewHandler(userRepo, tokens, mail, cfg.AppName)

	srv := httpserver.New(cfg.Port, cfg.CORSOrigins)
	users.RegisterRoutes(srv.Echo, h, tokens, engine)

	newsletter := users.NewNewsletter(userRepo, articleRepo, mail, cfg.AppName, cfg.NewsletterInterval())
	go newsletter.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	log.Printf("auth service listening on :%s", cfg.Port)

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
