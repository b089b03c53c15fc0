package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/rfslib/library-api/internal/auth"
	"github.com/rfslib/library-api/internal/config"
	"github.com/rfslib/library-api/internal/database"
	"github.com/rfslib/library-api/internal/database/books"
	"github.com/rfslib/library-api/internal/database/borrows"
	"github.com/rfslib/library-api/internal/database/comments"
	"github.com/rfslib/library-api/internal/database/users"
	http_controllers "github.com/rfslib/library-api/internal/http"
	"github.com/rfslib/library-api/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(handler http.Handler, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: handler,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for SIGINT/SIGTERM, then drain in-flight requests before exiting.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Library API v%s", version)

	if cfg.Auth.JWTSecret == "" {
		log.Fatalf("JWT secret is not set. Set the 'JWT_SECRET' environment variable.")
	}

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Repositories
	bookRepo, err := books.NewRepository(db.DB)
	if err != nil {
		log.Fatalf("Failed to initialize book repository: %v", err)
	}
	borrowRepo, err := borrows.NewRepository(db.DB)
	if err != nil {
		log.Fatalf("Failed to initialize borrow repository: %v", err)
	}
	commentRepo, err := comments.NewRepository(db.DB)
	if err != nil {
		log.Fatalf("Failed to initialize comment repository: %v", err)
	}
	userRepo, err := users.NewRepository(db.DB)
	if err != nil {
		log.Fatalf("Failed to initialize user repository: %v", err)
	}

	// Authentication
	tokens := auth.NewTokenHelper(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := auth.NewService(userRepo, tokens, cfg.Auth.BcryptCost)
	authMiddleware := auth.NewMiddleware(tokens)

	// Periodic maintenance
	var maintenance *scheduler.Maintenance
	if cfg.Maintenance.Enabled {
		maintenance = scheduler.NewMaintenance(db.DB, userRepo, tokens, cfg.Auth.BcryptCost)
		if err := maintenance.Start(cfg.Maintenance.Schedule); err != nil {
			log.Fatalf("Failed to start maintenance scheduler: %v", err)
		}
	} else {
		log.Printf("Maintenance scheduler disabled")
	}

	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		Books:          bookRepo,
		Borrows:        borrowRepo,
		Comments:       commentRepo,
		Users:          userRepo,
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		BcryptCost:     cfg.Auth.BcryptCost,
		TokenTTL:       cfg.Auth.TokenTTL,
		SecureCookies:  cfg.Auth.SecureCookies,
		Version:        version,
	}

	router := http_controllers.NewRouter(routerCfg)

	// The session cookie requires credentialed CORS, so origins must be
	// listed explicitly in production rather than using "*".
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.HTTP.AllowedOrigins, ","),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	onShutdown := func(ctx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
		}
	}

	Serve(corsHandler, cfg, onShutdown)
}
