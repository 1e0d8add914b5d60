package review

import (
	"context"
	"errors"
	"testing"

	"github.com/drizzlenote/chatbot/internal/session"
	"github.com/drizzlenote/chatbot/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore serves PickRandomForReview from a fixed queue.
type stubStore struct {
	store.WordStore
	picks []*store.Record
	err   error
}

func (s *stubStore) PickRandomForReview(ctx context.Context) (*store.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.picks) == 0 {
		return nil, store.ErrNothingToReview
	}
	rec := s.picks[0]
	s.picks = s.picks[1:]
	return rec, nil
}

func TestSelector_FullCycle(t *testing.T) {
	apple := &store.Record{Word: "apple", Definition: "Definition: a fruit"}
	book := &store.Record{Word: "book", Definition: "Definition: pages"}
	sel := NewSelector(&stubStore{picks: []*store.Record{apple, book}})
	sess := session.New()

	assert.Equal(t, Idle, StateOf(sess))

	rec, err := sel.Request(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, apple, rec)
	assert.Equal(t, CandidateSelected, StateOf(sess))

	rec, err = sel.Reveal(sess)
	require.NoError(t, err)
	assert.Equal(t, apple, rec)
	assert.Equal(t, MeaningRevealed, StateOf(sess))

	// Requesting again picks a new word and hides the meaning.
	rec, err = sel.Request(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, book, rec)
	assert.Equal(t, CandidateSelected, StateOf(sess))

	sel.WordSubmitted(sess)
	assert.Equal(t, Idle, StateOf(sess))
}

func TestSelector_NothingToReview(t *testing.T) {
	sel := NewSelector(&stubStore{})
	sess := session.New()
	sess.Candidate = &store.Record{Word: "stale"}
	sess.Revealed = true

	_, err := sel.Request(context.Background(), sess)
	assert.ErrorIs(t, err, store.ErrNothingToReview)
	assert.Equal(t, Idle, StateOf(sess))
}

func TestSelector_StorageFault(t *testing.T) {
	boom := errors.New("disk I/O error")
	sel := NewSelector(&stubStore{err: boom})

	_, err := sel.Request(context.Background(), session.New())
	assert.ErrorIs(t, err, boom)
}

func TestSelector_RevealWithoutCandidate(t *testing.T) {
	sel := NewSelector(&stubStore{})
	sess := session.New()

	_, err := sel.Reveal(sess)
	assert.ErrorIs(t, err, ErrNoCandidate)
	assert.Equal(t, Idle, StateOf(sess))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "candidate-selected", CandidateSelected.String())
	assert.Equal(t, "meaning-revealed", MeaningRevealed.String())
}
