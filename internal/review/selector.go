// Package review drives the flashcard review of stored words.
package review

import (
	"context"
	"errors"

	"github.com/drizzlenote/chatbot/internal/session"
	"github.com/drizzlenote/chatbot/internal/store"
)

// ErrNoCandidate is returned when a reveal is requested with no word
// selected for review.
var ErrNoCandidate = errors.New("no review word selected")

type State int

const (
	Idle State = iota
	CandidateSelected
	MeaningRevealed
)

func (s State) String() string {
	switch s {
	case CandidateSelected:
		return "candidate-selected"
	case MeaningRevealed:
		return "meaning-revealed"
	default:
		return "idle"
	}
}

// StateOf derives the review state held in a session.
func StateOf(sess *session.Session) State {
	switch {
	case sess.Candidate == nil:
		return Idle
	case sess.Revealed:
		return MeaningRevealed
	default:
		return CandidateSelected
	}
}

type Selector struct {
	store store.WordStore
}

func NewSelector(s store.WordStore) *Selector {
	return &Selector{store: s}
}

// Request selects a random eligible word as the session's review
// candidate, hiding its meaning. When nothing is eligible the session is
// left idle and store.ErrNothingToReview is returned.
func (sel *Selector) Request(ctx context.Context, sess *session.Session) (*store.Record, error) {
	sess.ClearReview()

	rec, err := sel.store.PickRandomForReview(ctx)
	if err != nil {
		return nil, err
	}

	sess.Candidate = rec
	return rec, nil
}

// Reveal shows the meaning of the current candidate.
func (sel *Selector) Reveal(sess *session.Session) (*store.Record, error) {
	if sess.Candidate == nil {
		return nil, ErrNoCandidate
	}
	sess.Revealed = true
	return sess.Candidate, nil
}

// WordSubmitted returns the session to idle; a new lookup ends any review.
func (sel *Selector) WordSubmitted(sess *session.Session) {
	sess.ClearReview()
}
