package scheduler

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/drizzlenote/chatbot/internal/chat"
	"github.com/drizzlenote/chatbot/internal/store"
	"github.com/drizzlenote/chatbot/internal/validator"
)

// Looker runs the lookup pipeline for one word.
type Looker interface {
	Lookup(ctx context.Context, word string) (*chat.Reply, error)
}

// Results of processing one word.
const (
	ResultSkipped  = "skipped"
	ResultSaved    = "saved"
	ResultNotSaved = "not_saved"
	ResultInvalid  = "invalid"
	ResultFailed   = "failed"
)

// ImportScheduler works through a word list in the background, looking up
// every word the wordbook does not hold yet.
type ImportScheduler struct {
	store        store.WordStore
	looker       Looker
	words        []string
	currentIndex int
	interval     time.Duration
	running      bool
	counts       map[string]int
	mu           sync.Mutex
	stopChan     chan struct{}
}

type SchedulerConfig struct {
	WordListPath string
	Interval     time.Duration
}

func NewImportScheduler(st store.WordStore, looker Looker, cfg SchedulerConfig) (*ImportScheduler, error) {
	words, err := LoadWordList(cfg.WordListPath)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list %s is empty", cfg.WordListPath)
	}

	if cfg.Interval == 0 {
		cfg.Interval = 10 * time.Second
	}

	log.Printf("[Scheduler] Loaded %d words from %s", len(words), cfg.WordListPath)

	return &ImportScheduler{
		store:    st,
		looker:   looker,
		words:    words,
		interval: cfg.Interval,
		counts:   make(map[string]int),
		stopChan: make(chan struct{}),
	}, nil
}

// LoadWordList reads one word per line, skipping blank lines and # comments.
// Words keep their case.
func LoadWordList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}

	return words, scanner.Err()
}

func (s *ImportScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	log.Printf("[Scheduler] Starting with interval %v", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[Scheduler] Context cancelled, stopping")
			s.setStopped()
			return
		case <-s.stopChan:
			log.Println("[Scheduler] Stop signal received")
			return
		case <-ticker.C:
			s.processNextWord(ctx)
		}
	}
}

func (s *ImportScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		close(s.stopChan)
		s.running = false
		log.Println("[Scheduler] Stopped")
	}
}

func (s *ImportScheduler) setStopped() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// RunOnce processes the whole list a single time, pausing interval between
// lookups that reached the provider. It returns early when ctx is done.
func (s *ImportScheduler) RunOnce(ctx context.Context) (map[string]int, error) {
	for _, word := range s.words {
		if err := ctx.Err(); err != nil {
			return s.Counts(), err
		}

		result, err := s.ProcessWord(ctx, word)
		if err != nil {
			return s.Counts(), err
		}
		if result == ResultSkipped || result == ResultInvalid {
			continue
		}

		select {
		case <-ctx.Done():
			return s.Counts(), ctx.Err()
		case <-time.After(s.interval):
		}
	}
	return s.Counts(), nil
}

func (s *ImportScheduler) processNextWord(ctx context.Context) {
	s.mu.Lock()
	if s.currentIndex >= len(s.words) {
		// All words processed, restart from beginning
		s.currentIndex = 0
		log.Println("[Scheduler] Completed all words, restarting cycle")
	}
	word := s.words[s.currentIndex]
	s.currentIndex++
	s.mu.Unlock()

	if _, err := s.ProcessWord(ctx, word); err != nil {
		log.Printf("[Scheduler] Error saving %s: %v", word, err)
	}
}

// ProcessWord looks up word unless the wordbook already holds it. Only
// storage faults are returned as errors.
func (s *ImportScheduler) ProcessWord(ctx context.Context, word string) (string, error) {
	existing, err := s.store.FindByWord(ctx, word)
	if err != nil {
		return ResultFailed, err
	}
	if existing != nil {
		return s.record(ResultSkipped), nil
	}

	log.Printf("[Scheduler] Fetching: %s", word)

	reply, err := s.looker.Lookup(ctx, word)
	switch {
	case errors.Is(err, validator.ErrInvalidWord):
		log.Printf("[Scheduler] Skipping invalid word %q", word)
		return s.record(ResultInvalid), nil
	case err != nil:
		s.record(ResultFailed)
		return ResultFailed, err
	case reply.Fault:
		log.Printf("[Scheduler] Error fetching %s: %s", word, reply.Content)
		return s.record(ResultFailed), nil
	case reply.Saved:
		log.Printf("[Scheduler] Saved: %s", word)
		return s.record(ResultSaved), nil
	default:
		return s.record(ResultNotSaved), nil
	}
}

func (s *ImportScheduler) record(result string) string {
	s.mu.Lock()
	s.counts[result]++
	s.mu.Unlock()
	return result
}

func (s *ImportScheduler) Counts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]int, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

// GetStatus returns current scheduler status
func (s *ImportScheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int, len(s.counts))
	for k, v := range s.counts {
		counts[k] = v
	}

	return map[string]interface{}{
		"running":      s.running,
		"totalWords":   len(s.words),
		"currentIndex": s.currentIndex,
		"progress":     float64(s.currentIndex) / float64(len(s.words)) * 100,
		"interval":     s.interval.String(),
		"results":      counts,
	}
}
