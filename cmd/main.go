package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fjod/go_commander/internal/cache"
	"github.com/fjod/go_commander/internal/cardstore"
	h "github.com/fjod/go_commander/internal/http"
	"github.com/fjod/go_commander/internal/llm"
	"github.com/fjod/go_commander/internal/poller"
	"github.com/fjod/go_commander/internal/publisher"
	"github.com/fjod/go_commander/internal/repository"
	"github.com/fjod/go_commander/internal/scryfall"
	"github.com/fjod/go_commander/internal/service"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	HTTPPort        string
	MongoURI        string
	MongoDBName     string
	RedisAddr       string
	RedisPassword   string
	KafkaBrokers    []string
	CardCachePath   string
	CardCacheTTL    time.Duration
	ScryfallBaseURL string
	LLM             llm.Config
	CORSOrigins     []string
	RequestTimeout  time.Duration
	UpstreamTimeout time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	llmCfg := llm.DefaultConfig()
	llmCfg.APIKey = getEnv("LLM_API_KEY", "")
	llmCfg.BaseURL = getEnv("LLM_BASE_URL", llmCfg.BaseURL)
	llmCfg.Model = getEnv("LLM_MODEL", llmCfg.Model)

	upstreamTimeout := getDuration("UPSTREAM_TIMEOUT", 15*time.Second)
	llmCfg.Timeout = upstreamTimeout

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "commanderdb"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:    splitList(getEnv("KAFKA_BROKERS", "")),
		CardCachePath:   getEnv("CARD_CACHE_PATH", "./cards.db"),
		CardCacheTTL:    24 * time.Hour,
		ScryfallBaseURL: getEnv("SCRYFALL_BASE_URL", scryfall.DefaultBaseURL),
		LLM:             llmCfg,
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 30*time.Second),
		UpstreamTimeout: upstreamTimeout,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	// Set up MongoDB connection
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	deckRepo := repository.NewMongoDeckRepository(mongoDB)
	gameRepo := repository.NewMongoGameRepository(mongoDB)
	if err := repository.CreateIndexes(ctx, deckRepo); err != nil {
		log.Printf("Failed to create deck indexes: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")
	deckCache := cache.NewRedisCache(redisClient)

	cardStore, err := cardstore.Open(cfg.CardCachePath, cfg.CardCacheTTL)
	if err != nil {
		log.Fatalf("Failed to open card store: %v", err)
	}
	log.Printf("Card store opened at %s", cfg.CardCachePath)

	var events publisher.Publisher = publisher.Noop{}
	var invalidator *poller.Poller
	bgCtx, stopBackground := context.WithCancel(ctx)
	if len(cfg.KafkaBrokers) > 0 {
		events = publisher.NewKafkaPublisher(cfg.KafkaBrokers...)
		invalidator = poller.NewPoller(deckCache, cfg.KafkaBrokers...)
		go invalidator.Run(bgCtx)
		log.Printf("Publishing deck events to %v", cfg.KafkaBrokers)
	}
	go pruneCardStore(bgCtx, cardStore, time.Hour)

	scryfallClient := scryfall.NewClient(scryfall.Config{
		BaseURL: cfg.ScryfallBaseURL,
		Timeout: cfg.UpstreamTimeout,
	})
	llmClient := llm.NewClient(cfg.LLM)

	cardService := service.NewCardService(scryfallClient, cardStore)
	deckService := service.NewDeckService(deckRepo, deckCache, cardService, events)
	commanderService := service.NewCommanderService(llmClient)
	gameService := service.NewGameService(gameRepo, llmClient)

	router := h.NewRouter(h.RouterConfig{
		Decks:          h.NewDeckHandler(deckService, cfg.RequestTimeout),
		Cards:          h.NewCardHandler(cardService, commanderService, cfg.RequestTimeout),
		Games:          h.NewGameHandler(gameService, cfg.RequestTimeout),
		AllowedOrigins: cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Commander API starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	stopBackground()
	if invalidator != nil {
		invalidator.Close()
	}
	if err := events.Close(); err != nil {
		log.Printf("failed to close event publisher: %v", err)
	}
	if err := cardStore.Close(); err != nil {
		log.Printf("failed to close card store: %v", err)
	}
	if err := redisClient.Close(); err != nil {
		log.Printf("failed to close redis: %v", err)
	}
	if err := mongoDB.Client().Disconnect(shutdownCtx); err != nil {
		log.Printf("failed to disconnect MongoDB: %v", err)
	}

	log.Println("server exited")
}

func pruneCardStore(ctx context.Context, store *cardstore.Store, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Prune(ctx)
			if err != nil {
				log.Printf("card store prune error: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("pruned %d expired cards", n)
			}
		}
	}
}
