package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"sokoni/market/internal/config"
	"sokoni/market/internal/consul"
	"sokoni/market/internal/handler"
	"sokoni/market/internal/repository"
	"sokoni/market/internal/service"
	"sokoni/market/internal/service/daraja"
	"sokoni/market/internal/service/phishing"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Database
	ctx := context.Background()
	dbPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	fmt.Println("Connected to database")

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload dir: %v", err)
	}

	// 3. Setup Logic
	catalogRepo := repository.NewCatalogRepository(dbPool)
	orderRepo := repository.NewOrderRepository(dbPool)
	userRepo := repository.NewUserRepository(dbPool)

	catalogSvc := service.NewCatalogService(catalogRepo)
	orderSvc := service.NewOrderService(orderRepo, catalogRepo)
	authSvc := service.NewAuthService(userRepo, cfg.AdminPassword)

	gateway := daraja.NewClient(daraja.Config{
		APIURL:         cfg.Daraja.APIURL,
		ConsumerKey:    cfg.Daraja.ConsumerKey,
		ConsumerSecret: cfg.Daraja.ConsumerSecret,
		ShortCode:      cfg.Daraja.ShortCode,
		Passkey:        cfg.Daraja.Passkey,
		CallbackURL:    cfg.Daraja.CallbackURL,
	})
	paymentSvc := service.NewPaymentService(gateway)

	classifier := phishing.NewClient(phishing.Config{
		APIURL: cfg.Classifier.APIURL,
		APIKey: cfg.Classifier.APIKey,
	})

	if err := catalogSvc.Seed(ctx); err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	h := handler.NewHandler(
		handler.NewAuthHandler(authSvc),
		handler.NewProductHandler(catalogSvc, cfg.UploadDir),
		handler.NewOrderHandler(orderSvc),
		handler.NewPaymentHandler(paymentSvc),
		handler.NewPhishingHandler(classifier),
		cfg.UploadDir,
	)

	// 4. Setup Server
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: h,
	}

	var registry *consul.Client
	if cfg.Consul.ServiceName != "" {
		port, err := strconv.Atoi(cfg.ServerPort)
		if err != nil {
			log.Fatalf("Invalid server port %q: %v", cfg.ServerPort, err)
		}
		registry, err = consul.NewClient(cfg.Consul.Host, cfg.Consul.ServiceName, port)
		if err != nil {
			log.Fatalf("Failed to create consul client: %v", err)
		}
		if err := registry.Register(); err != nil {
			log.Fatalf("Failed to register with consul: %v", err)
		}
	}

	// 5. Run Server with Graceful Shutdown
	go func() {
		fmt.Printf("Starting server on port %s\n", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 2)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println("Shutting down server...")

	if registry != nil {
		if err := registry.Deregister(); err != nil {
			log.Printf("Failed to deregister from consul: %v", err)
		}
	}

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	fmt.Println("Server exiting")
}
