package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/drizzlenote/chatbot/internal/cache"
	"github.com/drizzlenote/chatbot/internal/chat"
	"github.com/drizzlenote/chatbot/internal/config"
	"github.com/drizzlenote/chatbot/internal/database"
	"github.com/drizzlenote/chatbot/internal/handler"
	"github.com/drizzlenote/chatbot/internal/limiter"
	"github.com/drizzlenote/chatbot/internal/llm"
	"github.com/drizzlenote/chatbot/internal/scheduler"
	"github.com/drizzlenote/chatbot/internal/server"
	"github.com/drizzlenote/chatbot/internal/session"
	"github.com/drizzlenote/chatbot/internal/store"
	"github.com/drizzlenote/chatbot/internal/translate"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

const bannerFile = "drizzlenote.png"

func main() {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	wordStore, err := store.NewForConfig(db, cfg)
	if err != nil {
		log.Fatalf("Failed to create word store: %v", err)
	}
	if err := wordStore.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	log.Printf("Wordbook variant: %s", cfg.Variant)

	// Redis backs sessions and rate limits when available
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = cache.Connect(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis: %v", err)
			// Continue with in-memory sessions (fail-open)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var sessions session.Store
	var limitStorage limiter.Storage
	if redisClient != nil {
		sessions = session.NewRedisStore(redisClient, cfg.SessionTTL)
		limitStorage = limiter.NewRedisStorage(redisClient)
	} else {
		sessions = session.NewMemoryStore(cfg.SessionTTL)
		limitStorage = limiter.NewMemoryStorage()
	}

	explainer, err := llm.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create LLM client: %v", err)
	}
	log.Printf("LLM provider: %s", cfg.LLMProvider)

	var translator translate.Translator
	if cfg.Variant == config.VariantTranslated {
		translator = translate.NewGoogleTranslator(cfg.TranslateURL, cfg.TranslateTarget)
	}

	chatService := chat.NewService(cfg.Variant, wordStore, explainer, translator, cfg.MaxHistory)

	var rateLimiter *limiter.Limiter
	if cfg.RateLimitPerMin > 0 {
		rateLimiter = limiter.NewLimiter(limitStorage, cfg.RateLimitPerMin)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize and start background importer if a word list is set
	var importer *scheduler.ImportScheduler
	if cfg.ImportWordList != "" {
		importer, err = scheduler.NewImportScheduler(wordStore, chatService, scheduler.SchedulerConfig{
			WordListPath: cfg.ImportWordList,
			Interval:     cfg.ImportInterval,
		})
		if err != nil {
			log.Printf("Warning: Failed to initialize importer: %v", err)
			importer = nil
		} else {
			go importer.Start(ctx)
			log.Println("Background word importer started")
		}
	}

	bannerURL := ""
	if _, err := os.Stat(filepath.Join(cfg.ImageDir, bannerFile)); err == nil {
		bannerURL = "/img/" + bannerFile
	} else {
		log.Printf("Warning: banner image not found in %s", cfg.ImageDir)
	}

	deps := server.Deps{
		Chat:       handler.NewChatHandler(chatService, sessions, rateLimiter, bannerURL),
		Export:     handler.NewExportHandler(wordStore),
		Sessions:   sessions,
		SessionTTL: cfg.SessionTTL,
		ImageDir:   cfg.ImageDir,
	}
	if importer != nil {
		deps.Scheduler = importer
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.NewRouter(deps),
	}

	go func() {
		log.Printf("Chatbot server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	if importer != nil {
		importer.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
