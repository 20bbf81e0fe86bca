package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"tutorhub-backend/internal/api"
	"tutorhub-backend/internal/config"
	"tutorhub-backend/internal/handlers"
	"tutorhub-backend/internal/services"
	"tutorhub-backend/internal/store"
	"tutorhub-backend/internal/store/memory"
	"tutorhub-backend/internal/store/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tutorhub",
	Short: "TutorHub messaging backend",
	Long:  "Serves the tutoring marketplace messaging and inbox API",
	RunE:  runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if cfg.StoreDriver != config.DriverPostgres {
			return fmt.Errorf("migrate requires STORE_DRIVER=%s", config.DriverPostgres)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		dbpool, err := connectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer dbpool.Close()

		log.Println("Running migrations...")
		if err := postgres.Migrate(ctx, dbpool); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Println("Migrations complete.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, subjectsCmd, tutorsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	log.Println("Starting TutorHub Backend...")

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log.Println("Configuration loaded successfully.")

	// 2. Initialize Store
	st, closeStore, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	// 3. Initialize Services and Handlers
	directory := services.NewUserDirectory(st)
	authService := services.NewAuthService(st, cfg)
	messagingService := services.NewMessagingService(st, directory, cfg.MaxMessageLength)
	tutorService := services.NewTutorService(st)
	log.Println("Services initialized.")

	authLimiter := api.NewLimiterStore(cfg.AuthRateLimitPerMin, cfg.AuthRateLimitPerMin, time.Minute)
	defer authLimiter.Stop()
	sendLimiter := api.NewLimiterStore(cfg.SendRateLimitPerMin, cfg.SendRateLimitPerMin, time.Minute)
	defer sendLimiter.Stop()

	// 4. Setup Router & Inject Dependencies
	router := api.NewRouter(api.RouterDependencies{
		AuthHandler:    handlers.NewAuthHandler(authService),
		MessageHandler: handlers.NewMessageHandlers(messagingService),
		UserHandler:    handlers.NewUserHandlers(directory),
		HealthHandler:  handlers.NewHealthHandler(st),
		TutorHandler:   handlers.NewTutorHandlers(tutorService),
		AuthLimiter:    authLimiter,
		SendLimiter:    sendLimiter,
		Config:         cfg,
	})
	log.Println("HTTP router configured.")

	// 5. Configure and Start HTTP Server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Server starting and listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("could not listen on %s: %w", cfg.HTTPPort, err)
		}
		close(errChan)
	}()

	select {
	case err, ok := <-errChan:
		if ok {
			return err
		}
		return nil
	case <-stopChan:
	}
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server graceful shutdown failed: %w", err)
	}

	log.Println("Server shutdown complete.")
	return nil
}

// openStore builds the store selected by STORE_DRIVER and returns its close func.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	if cfg.StoreDriver == config.DriverMemory {
		log.Println("WARN: using the in-memory store; data is lost on restart.")
		return memory.NewMemoryStore(), func() {}, nil
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	dbpool, err := connectPostgres(dbCtx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	log.Println("Postgres store initialized.")
	return postgres.NewPostgresStore(dbpool), dbpool.Close, nil
}

func connectPostgres(ctx context.Context, url string) (*pgxpool.Pool, error) {
	dbpool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("unable to create database connection pool: %w", err)
	}
	if err := dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	log.Println("Database connection pool established and pinged successfully.")
	return dbpool, nil
}
