// Package store persists looked-up words and picks review candidates.
//
// Two table shapes exist. TranslatedStore keeps the English definition and
// its Korean translation side by side and appends a row per lookup.
// BilingualStore keeps a single bilingual definition per word and refreshes
// it in place on repeated lookups.
package store

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNothingToReview is returned by PickRandomForReview when no stored
// record is eligible. It is an expected outcome, not a storage fault.
var ErrNothingToReview = errors.New("no eligible record to review")

// Record is the variant-neutral view of a stored word.
type Record struct {
	ID          int64     `json:"id"`
	Word        string    `json:"word"`
	Definition  string    `json:"definition"`
	Translation string    `json:"translation,omitempty"`
	CreatedDate time.Time `json:"createdDate"`
	UpdatedDate time.Time `json:"updatedDate"`
}

// Entry is what a successful lookup hands to Upsert.
type Entry struct {
	Word        string
	Definition  string
	Translation string
}

type WordStore interface {
	// EnsureSchema creates the backing table if it does not exist.
	EnsureSchema(ctx context.Context) error
	// Upsert writes entry and reports whether anything was written. An
	// entry with an empty word or definition is refused without touching
	// storage.
	Upsert(ctx context.Context, entry Entry) (bool, error)
	// FindByWord returns the first record whose word matches exactly, or
	// nil when there is none.
	FindByWord(ctx context.Context, word string) (*Record, error)
	// PickRandomForReview returns a uniformly random eligible record or
	// ErrNothingToReview.
	PickRandomForReview(ctx context.Context) (*Record, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]Record, error)
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used to stamp and filter dates.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// today returns the current calendar date at midnight UTC.
func today(now func() time.Time) time.Time {
	y, m, d := now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
