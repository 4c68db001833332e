package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/lendora/loan-engine/internal/config"
	"github.com/lendora/loan-engine/internal/gateway"
	"github.com/lendora/loan-engine/internal/handler"
	"github.com/lendora/loan-engine/internal/repository"
	"github.com/lendora/loan-engine/internal/service"
	"github.com/lendora/loan-engine/pkg/response"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	applicationRepo := repository.NewApplicationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	productRepo := repository.NewProductRepository(db)

	// Initialize gateway client
	feeGateway := gateway.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, cfg.GetGatewayTimeout())

	// Initialize services
	applicationService := service.NewApplicationService(applicationRepo, accountRepo, productRepo, redisClient, cfg)
	paymentService := service.NewPaymentService(applicationRepo, paymentRepo, accountRepo, feeGateway, redisClient, cfg)
	suspensionService := service.NewSuspensionService(accountRepo)

	// Initialize handlers
	applicationHandler := handler.NewApplicationHandler(applicationService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	accountHandler := handler.NewAccountHandler(suspensionService)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	// Setup routes
	router := setupRoutes(applicationHandler, paymentHandler, accountHandler, healthHandler, accountRepo)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}

	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(
	applicationHandler *handler.ApplicationHandler,
	paymentHandler *handler.PaymentHandler,
	accountHandler *handler.AccountHandler,
	healthHandler *handler.HealthHandler,
	accountRepo repository.AccountRepository,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware, response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Gateway webhook delivers outcomes without an account identity
	api.HandleFunc("/payments/webhook", paymentHandler.Webhook).Methods("POST")

	authed := api.NewRoute().Subrouter()
	authed.Use(handler.IdentityMiddleware(accountRepo))

	authed.HandleFunc("/applications", applicationHandler.Create).Methods("POST")
	authed.HandleFunc("/applications/stats", applicationHandler.Stats).Methods("GET")
	authed.HandleFunc("/applications/{id}", applicationHandler.Get).Methods("GET")
	authed.HandleFunc("/applications/{id}/cancel", applicationHandler.Cancel).Methods("PATCH")
	authed.HandleFunc("/applications/{id}/approve", applicationHandler.Approve).Methods("PATCH")
	authed.HandleFunc("/applications/{id}/reject", applicationHandler.Reject).Methods("PATCH")

	authed.HandleFunc("/payments/create-intent", paymentHandler.CreateIntent).Methods("POST")
	authed.HandleFunc("/payments/process-session", paymentHandler.ProcessSession).Methods("POST")
	authed.HandleFunc("/payments/receipt/{sessionId}", paymentHandler.Receipt).Methods("GET")

	authed.HandleFunc("/accounts/{id}/suspend", accountHandler.Suspend).Methods("PATCH")
	authed.HandleFunc("/accounts/{id}/unsuspend", accountHandler.Unsuspend).Methods("PATCH")

	return router
}
