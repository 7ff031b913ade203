package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/gomexpay/edenred/handler"
	"github.com/gomexpay/edenred/infra/config"
	"github.com/gomexpay/edenred/infra/opensearch"
	"github.com/gomexpay/edenred/infra/store"
	"github.com/gomexpay/edenred/provider"
	"github.com/gomexpay/edenred/router"
)

func main() {
	// Load Env
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg := config.GetAppConfig()

	// Operation log store
	opStore, err := store.NewSQLiteStore(cfg.StorePath)
	if err != nil {
		log.Fatalf("Failed to open operation store: %v", err)
	}
	defer opStore.Close()

	stores := []provider.OperationStore{opStore}

	// Optional OpenSearch shipping
	if cfg.EnableShipping {
		osClient, err := opensearch.NewClient(cfg)
		if err != nil {
			log.Printf("Failed to initialize OpenSearch client: %v", err)
			log.Println("Continuing without OpenSearch shipping...")
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := osClient.EnsureIndex(ctx); err != nil {
				log.Printf("Failed to ensure OpenSearch index: %v", err)
			}
			cancel()
			stores = append(stores, opensearch.NewLogger(osClient))
			log.Println("OpenSearch shipping initialized")
		}
	}

	// Payment service with the Edenred provider from the environment
	paymentService := provider.NewPaymentService(stores...)
	providerCfg := map[string]string{
		"clientId":      config.GetEnv("EDENRED_CLIENT_ID", ""),
		"clientSecret":  config.GetEnv("EDENRED_CLIENT_SECRET", ""),
		"publicKeyPath": config.GetEnv("EDENRED_PUBLIC_KEY_PATH", ""),
		"baseUrl":       config.GetEnv("EDENRED_BASE_URL", ""),
		"testing":       config.GetEnv("EDENRED_TESTING", "false"),
		"environment":   config.GetEnv("EDENRED_ENVIRONMENT", "sandbox"),
	}
	if err := paymentService.AddProvider("edenred", providerCfg); err != nil {
		log.Fatalf("Failed to register edenred provider: %v", err)
	}
	log.Println("Registered payment provider: edenred")

	paymentHandler := handler.NewPaymentHandler(paymentService, validator.New())
	operationsHandler := handler.NewOperationsHandler(opStore)
	healthHandler := handler.NewHealthHandler(opStore)

	// Chi Define Routes
	r := chi.NewRouter()

	// Basic Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.CheckHealth)
	router.Routes(r, paymentHandler, operationsHandler)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Listening on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
