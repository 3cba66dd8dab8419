/**
 * @description
 * This is the main entry point for the payee-service. Its responsibility is
 * to initialize all necessary components and start the HTTP server that
 * fronts the payee management workflow.
 *
 * Key features:
 * - Loads application configuration from environment variables.
 * - Establishes and manages a connection pool to the PostgreSQL database.
 * - Initializes the IFSC registry client and the event producer.
 * - Wires up the core workflow with its dependencies (repository, resolver,
 *   producer) and starts the HTTP server with graceful shutdown.
 *
 * @dependencies
 * - The service's internal packages for config, app logic, storage, and external clients.
 * - pgxpool for database connection, godotenv for local config, and rabbitmq for messaging.
 */
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/vubank/payee-service/internal/api"
	"github.com/vubank/payee-service/internal/app"
	"github.com/vubank/payee-service/internal/config"
	"github.com/vubank/payee-service/internal/store"
	"github.com/vubank/payee-service/pkg/ifscclient"
	"github.com/vubank/payee-service/pkg/rabbitmq"
)

func main() {
	// Load .env file for local development.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	// Establish database connection pool.
	dbConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to parse database URL: %v\n", err)
	}
	dbConfig.MaxConns = 25
	dbConfig.MinConns = 5
	dbConfig.MaxConnLifetime = 30 * time.Minute
	dbConfig.MaxConnIdleTime = 5 * time.Minute

	dbpool, err := pgxpool.NewWithConfig(context.Background(), dbConfig)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer dbpool.Close()
	log.Println("Database connection established")

	// Set up dependencies.
	payeeRepo := store.NewPostgresPayeeRepository(dbpool)
	ifscClient := ifscclient.NewClient(cfg.IfscAPIBaseURL)

	// The event producer is best-effort: fall back to a logging no-op when
	// the broker is unavailable so payee operations keep working.
	var producer rabbitmq.Publisher
	producer, err = rabbitmq.NewEventProducer(cfg.RabbitMQURL)
	if err != nil {
		log.Printf("RabbitMQ unavailable, events will be logged only: %v", err)
		producer = &rabbitmq.EventProducerFallback{}
	}
	defer producer.Close()

	payeeService := app.NewPayeeService(payeeRepo, ifscClient, producer)

	// Setup and start HTTP server.
	router := api.NewRouter(cfg, payeeService, dbpool)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not start server: %s\n", err)
		}
	}()

	log.Println("Payee service is running.")

	// Wait for termination signal for graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down payee-service...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server gracefully stopped")
}
