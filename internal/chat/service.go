// Package chat runs one chat turn: validate the word, ask the definition
// provider, translate when the wordbook keeps translations, and store the
// result.
package chat

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/drizzlenote/chatbot/internal/config"
	"github.com/drizzlenote/chatbot/internal/llm"
	"github.com/drizzlenote/chatbot/internal/middleware"
	"github.com/drizzlenote/chatbot/internal/review"
	"github.com/drizzlenote/chatbot/internal/session"
	"github.com/drizzlenote/chatbot/internal/store"
	"github.com/drizzlenote/chatbot/internal/translate"
	"github.com/drizzlenote/chatbot/internal/validator"
)

const (
	// ProviderFaultPrefix starts the placeholder shown instead of a
	// definition when the provider call fails.
	ProviderFaultPrefix = "An error occurred: "
	// TranslationFaultText replaces a translation that could not be made.
	TranslationFaultText = "오류가 발생했습니다."
)

// Lookup outcomes, also used as metric labels.
const (
	OutcomeInvalid  = "invalid"
	OutcomeFault    = "fault"
	OutcomeSaved    = "saved"
	OutcomeNotSaved = "not_saved"
)

// Reply is the assistant side of one turn.
type Reply struct {
	Word        string
	Content     string
	Translation string
	// Fault is set when Content is a placeholder for a failed provider call.
	Fault bool
	Saved bool
}

type Service struct {
	variant    config.Variant
	validator  *validator.WordValidator
	explainer  llm.Explainer
	translator translate.Translator
	store      store.WordStore
	selector   *review.Selector
	maxHistory int
}

// NewService wires a turn pipeline. translator is only used by the
// translated wordbook and may be nil for the bilingual one.
func NewService(variant config.Variant, st store.WordStore, explainer llm.Explainer, translator translate.Translator, maxHistory int) *Service {
	return &Service{
		variant:    variant,
		validator:  validator.NewWordValidator(),
		explainer:  explainer,
		translator: translator,
		store:      st,
		selector:   review.NewSelector(st),
		maxHistory: maxHistory,
	}
}

func (s *Service) Selector() *review.Selector {
	return s.selector
}

func (s *Service) Store() store.WordStore {
	return s.store
}

// Submit handles one line of chat input for sess. Rejected input returns
// validator.ErrInvalidWord and leaves the session and the store untouched.
// Accepted input ends any review in progress and adds both sides of the
// exchange to the history. A storage fault is returned after the reply has
// been recorded in the history.
func (s *Service) Submit(ctx context.Context, sess *session.Session, input string) (*Reply, error) {
	if err := s.validator.Validate(input); err != nil {
		middleware.RecordWordLookup(OutcomeInvalid)
		return nil, err
	}

	s.selector.WordSubmitted(sess)
	sess.AddMessage(session.Message{Role: session.RoleUser, Content: input}, s.maxHistory)

	reply, err := s.lookup(ctx, input)
	sess.AddMessage(session.Message{
		Role:        session.RoleAssistant,
		Content:     reply.Content,
		Translation: reply.Translation,
	}, s.maxHistory)

	return reply, err
}

// Lookup runs the pipeline for a single word without a session.
func (s *Service) Lookup(ctx context.Context, word string) (*Reply, error) {
	if err := s.validator.Validate(word); err != nil {
		middleware.RecordWordLookup(OutcomeInvalid)
		return nil, err
	}
	return s.lookup(ctx, word)
}

func (s *Service) lookup(ctx context.Context, word string) (*Reply, error) {
	reply := s.explain(ctx, word)
	if reply.Fault {
		middleware.RecordWordLookup(OutcomeFault)
		return reply, nil
	}

	if !s.shouldStore(reply.Content) {
		middleware.RecordWordLookup(OutcomeNotSaved)
		return reply, nil
	}

	saved, err := s.store.Upsert(ctx, store.Entry{
		Word:        word,
		Definition:  reply.Content,
		Translation: reply.Translation,
	})
	if err != nil {
		return reply, fmt.Errorf("store %q: %w", word, err)
	}
	reply.Saved = saved

	if saved {
		middleware.RecordWordLookup(OutcomeSaved)
	} else {
		middleware.RecordWordLookup(OutcomeNotSaved)
	}
	return reply, nil
}

func (s *Service) explain(ctx context.Context, word string) *Reply {
	reply := &Reply{Word: word}

	start := time.Now()
	content, err := s.explainer.Explain(ctx, word)
	middleware.RecordLLMCall(err == nil, time.Since(start))
	if err != nil {
		log.Printf("Error fetching definition for %q: %v", word, err)
		reply.Content = ProviderFaultPrefix + err.Error()
		reply.Fault = true
		if s.translates() {
			reply.Translation = TranslationFaultText
		}
		return reply
	}
	reply.Content = content

	if s.translates() {
		translation, err := s.translator.Translate(ctx, content)
		middleware.RecordTranslateCall(err == nil)
		if err != nil {
			log.Printf("Error translating definition for %q: %v", word, err)
			translation = TranslationFaultText
		}
		reply.Translation = translation
	}
	return reply
}

func (s *Service) translates() bool {
	return s.variant == config.VariantTranslated && s.translator != nil
}

// shouldStore decides whether a provider answer is a real entry.
func (s *Service) shouldStore(content string) bool {
	if s.variant == config.VariantBilingual {
		return !strings.Contains(content, llm.NotFoundPhrase)
	}
	return strings.Contains(content, llm.DefinitionMarker)
}
