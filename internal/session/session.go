// Package session holds the transient state of one chat UI session:
// conversation history, the current review candidate and pending notices.
package session

import (
	"context"
	"errors"

	"github.com/drizzlenote/chatbot/internal/store"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Notice levels, rendered as coloured banners.
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

type Message struct {
	Role        string `json:"role"`
	Content     string `json:"content"`
	Translation string `json:"translation,omitempty"`
}

type Notice struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

type Session struct {
	ID        string        `json:"id"`
	Messages  []Message     `json:"messages"`
	Candidate *store.Record `json:"candidate,omitempty"`
	Revealed  bool          `json:"revealed"`
	Notices   []Notice      `json:"notices,omitempty"`
}

func New() *Session {
	return &Session{ID: uuid.NewString()}
}

// AddMessage appends m, dropping the oldest messages beyond max. A max of
// zero or less keeps everything.
func (s *Session) AddMessage(m Message, max int) {
	s.Messages = append(s.Messages, m)
	if max > 0 && len(s.Messages) > max {
		s.Messages = append([]Message(nil), s.Messages[len(s.Messages)-max:]...)
	}
}

// ClearReview drops the review candidate and hides its meaning.
func (s *Session) ClearReview() {
	s.Candidate = nil
	s.Revealed = false
}

func (s *Session) Notify(level, text string) {
	s.Notices = append(s.Notices, Notice{Level: level, Text: text})
}

// TakeNotices returns pending notices and clears them; each is shown once.
func (s *Session) TakeNotices() []Notice {
	notices := s.Notices
	s.Notices = nil
	return notices
}

// Reset clears everything but the ID.
func (s *Session) Reset() {
	s.Messages = nil
	s.Notices = nil
	s.ClearReview()
}

type Store interface {
	// Load returns ErrNotFound for unknown or expired IDs.
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
