package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/artisan-market/internal/analytics"
	"github.com/example/artisan-market/internal/api"
	"github.com/example/artisan-market/internal/assistant"
	"github.com/example/artisan-market/internal/auth"
	"github.com/example/artisan-market/internal/command"
	"github.com/example/artisan-market/internal/domain/artisan"
	"github.com/example/artisan-market/internal/domain/cart"
	"github.com/example/artisan-market/internal/domain/engagement"
	"github.com/example/artisan-market/internal/domain/inventory"
	"github.com/example/artisan-market/internal/domain/order"
	"github.com/example/artisan-market/internal/domain/product"
	"github.com/example/artisan-market/internal/domain/user"
	"github.com/example/artisan-market/internal/domain/wishlist"
	"github.com/example/artisan-market/internal/infrastructure/cache"
	"github.com/example/artisan-market/internal/infrastructure/kafka"
	"github.com/example/artisan-market/internal/infrastructure/media"
	"github.com/example/artisan-market/internal/infrastructure/store"
	"github.com/example/artisan-market/internal/projection"
	"github.com/example/artisan-market/internal/query"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		log.Println("[API] No .env file found, using environment")
	}

	kafkaBrokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	kafkaTopic := getEnv("KAFKA_TOPIC", "market-events")
	listenAddr := getEnv("LISTEN_ADDR", ":8080")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("[API] JWT_SECRET environment variable is required")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("[API] JWT_SECRET must be at least 32 characters long")
	}

	log.Println("[API] ========================================")
	log.Println("[API] Artisan Market API")
	log.Println("[API] ========================================")
	log.Printf("[API] Kafka: %v", kafkaBrokers)
	log.Printf("[API] Topic: %s", kafkaTopic)

	producer := kafka.NewProducer(kafkaBrokers, kafkaTopic)
	defer producer.Close()

	// Event log: PostgreSQL when DATABASE_URL is set, the in-memory
	// store otherwise for single-node development.
	var eventStore store.EventStoreInterface
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		db, err := store.ConnectPostgres(connStr)
		if err != nil {
			log.Fatalf("[API] Failed to connect to PostgreSQL: %v", err)
		}
		defer db.Close()
		log.Println("[API] Connected to PostgreSQL")
		eventStore = store.NewPostgresEventStore(db, producer)
	} else {
		log.Println("[API] DATABASE_URL not set, events held in memory")
		eventStore = store.NewEventStore(producer)
	}

	readStore := store.NewReadStore()

	// Domain services
	productSvc := product.NewService(eventStore)
	engagementSvc := engagement.NewService(eventStore)
	cartSvc := cart.NewService(eventStore)
	wishlistSvc := wishlist.NewService(eventStore)
	orderSvc := order.NewService(eventStore)
	inventorySvc := inventory.NewService(eventStore)
	userSvc := user.NewService(eventStore)
	artisanSvc := artisan.NewService(eventStore)

	jwtService := auth.NewJWTService(jwtSecret, 15*time.Minute, 7*24*time.Hour)

	// Optional Redis search cache
	var searchCache *cache.Cache
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		searchCache = cache.New(redisAddr, 30*time.Second)
		defer searchCache.Close()
		log.Printf("[API] Search cache: redis at %s", redisAddr)
	}

	// Optional S3 media storage
	var mediaStorage *media.Storage
	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		storage, err := media.NewStorage(ctx, media.Config{
			Bucket:   bucket,
			Region:   getEnv("S3_REGION", "us-east-1"),
			Key:      os.Getenv("S3_ACCESS_KEY"),
			Secret:   os.Getenv("S3_SECRET_KEY"),
			Endpoint: os.Getenv("S3_ENDPOINT"),
			BaseURL:  os.Getenv("S3_BASE_URL"),
		})
		if err != nil {
			log.Fatalf("[API] Failed to init media storage: %v", err)
		}
		mediaStorage = storage
		log.Printf("[API] Media storage: s3 bucket %s", bucket)
	}

	cmdHandler := command.NewHandler(productSvc, engagementSvc, cartSvc, wishlistSvc, orderSvc, inventorySvc, artisanSvc, readStore)
	queryHandler := query.NewHandler(readStore, searchCache)
	dashboards := analytics.NewService(readStore)

	// Rebuild read models from the event log, then keep them current
	// through Kafka.
	projector := projection.NewProjector(readStore)
	projector.SetSearchCache(searchCache)
	events := eventStore.GetAllEvents()
	log.Printf("[API] Replaying %d events...", len(events))
	if err := projector.Replay(events); err != nil {
		log.Fatalf("[API] Event replay failed: %v", err)
	}
	log.Println("[API] Read models rebuilt")

	consumer := kafka.NewConsumer(kafkaBrokers, kafkaTopic, "api-projector")
	defer consumer.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Println("[API] Starting Kafka consumer...")
		if err := consumer.Consume(ctx, projector.HandleMessage); err != nil && ctx.Err() == nil {
			log.Printf("[API] Projector error: %v", err)
		}
	}()

	handlers := api.NewHandlers(cmdHandler, queryHandler, dashboards, mediaStorage)
	authHandlers := api.NewAuthHandlers(userSvc, jwtService, cmdHandler, queryHandler)
	assistantHandlers := api.NewAssistantHandlers(assistant.NewKeywordRecommender(readStore))
	router := api.NewRouter(handlers, authHandlers, assistantHandlers, jwtService)

	server := &http.Server{
		Addr:    listenAddr,
		Handler: router,
	}

	go func() {
		log.Printf("[API] Server started on %s", listenAddr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[API] Server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[API] Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)

	wg.Wait()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
