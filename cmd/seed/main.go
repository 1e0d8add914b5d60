package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/drizzlenote/chatbot/internal/chat"
	"github.com/drizzlenote/chatbot/internal/config"
	"github.com/drizzlenote/chatbot/internal/database"
	"github.com/drizzlenote/chatbot/internal/llm"
	"github.com/drizzlenote/chatbot/internal/scheduler"
	"github.com/drizzlenote/chatbot/internal/store"
	"github.com/drizzlenote/chatbot/internal/translate"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	// Parse command line flags
	filePath := flag.String("file", "data/words.txt", "Path to word list file")
	interval := flag.Duration("interval", 0, "Pause between lookups (default IMPORT_INTERVAL)")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if *interval == 0 {
		*interval = cfg.ImportInterval
	}

	log.Printf("Seeding %s wordbook from %s", cfg.Variant, *filePath)

	// Connect to database
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

	explainer, err := llm.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create LLM client: %v", err)
	}

	var translator translate.Translator
	if cfg.Variant == config.VariantTranslated {
		translator = translate.NewGoogleTranslator(cfg.TranslateURL, cfg.TranslateTarget)
	}

	chatService := chat.NewService(cfg.Variant, wordStore, explainer, translator, 0)

	importer, err := scheduler.NewImportScheduler(wordStore, chatService, scheduler.SchedulerConfig{
		WordListPath: *filePath,
		Interval:     *interval,
	})
	if err != nil {
		log.Fatalf("Failed to load word list: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	counts, err := importer.RunOnce(ctx)
	if err != nil {
		log.Printf("Seeding stopped early: %v", err)
	}

	log.Printf("Seeding complete. saved=%d, skipped=%d, not_saved=%d, invalid=%d, failed=%d",
		counts[scheduler.ResultSaved],
		counts[scheduler.ResultSkipped],
		counts[scheduler.ResultNotSaved],
		counts[scheduler.ResultInvalid],
		counts[scheduler.ResultFailed])
}
