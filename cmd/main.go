package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pos-system/internal/catalog"
	"pos-system/internal/config"
	"pos-system/internal/customers"
	"pos-system/internal/database"
	"pos-system/internal/logger"
	"pos-system/internal/messaging"
	"pos-system/internal/models"
	"pos-system/internal/receipt"
	"pos-system/internal/services/pos"
	"pos-system/internal/session"
)

func main() {
	var (
		mode      = flag.String("mode", "", "Service mode (pos-service, ticket-printer)")
		port      = flag.Int("port", 3000, "HTTP port")
		storeName = flag.String("store-name", "Sunrise Diner", "Store name printed on tickets")
		prefetch  = flag.Int("prefetch", 1, "RabbitMQ prefetch count")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg := config.Load()
	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode": *mode,
		"port": *port,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	var err error
	switch *mode {
	case "pos-service":
		err = runPOSService(ctx, cfg, log, *port)
	case "ticket-printer":
		err = runTicketPrinter(ctx, cfg, log, *storeName, *prefetch)
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}

	if err != nil {
		log.Error("service_failed", fmt.Sprintf("%s failed", *mode), requestID, err, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

// runPOSService runs the order-entry HTTP service
func runPOSService(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)

	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	held, err := session.NewStore(cfg.Redis.URL, time.Duration(cfg.Redis.HeldCartTTLMin)*time.Minute)
	if err != nil {
		return fmt.Errorf("failed to initialize held-cart store: %w", err)
	}
	defer held.Close()

	log.Info("redis_connected", "Connected to Redis", requestID, nil)

	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)

	publisher := messaging.NewPublisher(conn, log)

	service := pos.NewService(
		catalog.NewStore(db),
		customers.NewDirectory(db),
		pos.NewRepository(db),
		publisher,
		held,
		log,
		cfg.Pricing,
	)
	handler := pos.NewHandler(service, log)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler.SetupRoutes(),
	}

	go func() {
		log.Info("service_started", fmt.Sprintf("POS service started on port %d", port), requestID, map[string]interface{}{
			"port": port,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", "HTTP server failed", requestID, err, nil)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}

// runTicketPrinter consumes kitchen tickets and renders them to stdout,
// standing in for the kitchen printer
func runTicketPrinter(ctx context.Context, cfg *config.Config, log *logger.Logger, storeName string, prefetch int) error {
	requestID := logger.GenerateRequestID()

	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)

	renderer := receipt.NewRenderer(storeName)
	consumer := messaging.NewConsumer(conn, log, messaging.KitchenQueue, "ticket-printer", prefetch)

	return consumer.StartConsuming(ctx, func(ctx context.Context, body []byte) error {
		var ticket models.TicketMessage
		if err := json.Unmarshal(body, &ticket); err != nil {
			return fmt.Errorf("failed to unmarshal ticket: %w", err)
		}

		fmt.Println(renderer.KitchenTicket(&ticket))

		log.Info("ticket_printed", fmt.Sprintf("Printed ticket for order %s", ticket.OrderNumber), requestID,
			map[string]interface{}{
				"order_number": ticket.OrderNumber,
				"order_type":   ticket.OrderType,
			})
		return nil
	})
}
