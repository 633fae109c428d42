package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/SLAP-Solutions/pricelock-order-service/internal/config"
	httpdelivery "github.com/SLAP-Solutions/pricelock-order-service/internal/delivery/http"
	"github.com/SLAP-Solutions/pricelock-order-service/internal/delivery/http/handlers"
	publisher "github.com/SLAP-Solutions/pricelock-order-service/internal/infrastructure/kafka"
	"github.com/SLAP-Solutions/pricelock-order-service/internal/infrastructure/metrics"
	"github.com/SLAP-Solutions/pricelock-order-service/internal/infrastructure/migrate"
	"github.com/SLAP-Solutions/pricelock-order-service/internal/infrastructure/oracle"
	"github.com/SLAP-Solutions/pricelock-order-service/internal/infrastructure/postgres"
	"github.com/SLAP-Solutions/pricelock-order-service/internal/infrastructure/postgres/repository"
	usecase "github.com/SLAP-Solutions/pricelock-order-service/internal/usecase/order"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init database
	db := postgres.MustInitDB(cfg)

	if cfg.OrderDB.MigrationsPath != "" {
		if err := migrate.Apply(postgres.MustSQLDB(db), cfg.OrderDB.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	// Kafka publisher for order events
	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	pub := publisher.NewDefaultKafkaPublisher(brokers)
	defer pub.Close()

	// Oracle registry client
	priceFeed := oracle.NewHTTPRegistryClient(fmt.Sprintf("http://%s:%s", cfg.OracleRegistry.Host, cfg.OracleRegistry.Port))

	// Init repositories
	orderRepo := repository.NewDefaultOrderRepository(db)
	vaultRepo := repository.NewDefaultVaultRepository(db)

	// Init metrics
	orderMetrics := metrics.NewOrderMetrics()

	// Init order usecase
	uc := usecase.NewDefaultOrderUsecase(
		orderRepo,
		vaultRepo,
		priceFeed,
		pub,
		orderMetrics,
	)

	// Keeper: periodically scan pending orders and execute whatever triggers
	if cfg.Keeper.Enabled {
		interval := time.Duration(cfg.Keeper.IntervalSeconds) * time.Second
		if interval <= 0 {
			interval = 5 * time.Second
		}
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					if err := uc.RunPendingScan(context.Background()); err != nil {
						slog.Error("keeper scan failed", "error", err)
					}
				}
			}
		}()
	}

	orderHandler := handlers.NewOrderHandler(uc)
	router := httpdelivery.NewRouter(orderHandler)

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	log.Printf("order service started on %s\n", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("failed to serve: %v\n", err)
	}
}
