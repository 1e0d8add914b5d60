package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/drizzlenote/chatbot/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultStalenessDays is how long a refreshed word stays out of review.
const DefaultStalenessDays = 2

// BilingualStore is the one-row-per-word table holding a single bilingual
// definition.
type BilingualStore struct {
	db            *gorm.DB
	stalenessDays int
	now           func() time.Time
}

// NewBilingualStore returns a store over the "vocabulary" table. Words
// updated fewer than stalenessDays calendar days ago are not reviewed.
func NewBilingualStore(db *gorm.DB, stalenessDays int, opts ...Option) *BilingualStore {
	o := buildOptions(opts)
	if stalenessDays < 0 {
		stalenessDays = 0
	}
	return &BilingualStore{
		db:            db,
		stalenessDays: stalenessDays,
		now:           o.now,
	}
}

func (s *BilingualStore) EnsureSchema(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&model.Vocabulary{}); err != nil {
		return fmt.Errorf("migrate vocabulary: %w", err)
	}
	return nil
}

// Upsert creates the word with both dates set to today, or refreshes its
// definition and updated date. The created date of an existing word is
// never touched. Insert and update are one statement keyed on the unique
// word index, so concurrent lookups of the same word cannot duplicate it.
func (s *BilingualStore) Upsert(ctx context.Context, entry Entry) (bool, error) {
	if isBlank(entry.Word) || isBlank(entry.Definition) {
		return false, nil
	}

	date := datatypes.Date(today(s.now))
	row := model.Vocabulary{
		Word:               entry.Word,
		DefinitionContents: entry.Definition,
		CreatedDate:        date,
		UpdatedDate:        date,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "word"}},
		DoUpdates: clause.AssignmentColumns([]string{"definition_contents", "updated_date"}),
	}).Create(&row).Error
	if err != nil {
		return false, fmt.Errorf("save word %q: %w", entry.Word, err)
	}
	return true, nil
}

func (s *BilingualStore) FindByWord(ctx context.Context, word string) (*Record, error) {
	var row model.Vocabulary
	err := s.db.WithContext(ctx).Where("word = ?", word).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find word %q: %w", word, err)
	}
	rec := bilingualRecord(row)
	return &rec, nil
}

// PickRandomForReview only considers words whose updated date is at least
// the staleness threshold in the past.
func (s *BilingualStore) PickRandomForReview(ctx context.Context) (*Record, error) {
	cutoff := datatypes.Date(today(s.now).AddDate(0, 0, -s.stalenessDays))

	var row model.Vocabulary
	err := s.db.WithContext(ctx).
		Where("updated_date <= ?", cutoff).
		Order("RANDOM()").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNothingToReview
	}
	if err != nil {
		return nil, fmt.Errorf("pick review word: %w", err)
	}
	rec := bilingualRecord(row)
	return &rec, nil
}

func (s *BilingualStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Vocabulary{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count vocabulary: %w", err)
	}
	return n, nil
}

func (s *BilingualStore) List(ctx context.Context) ([]Record, error) {
	var rows []model.Vocabulary
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list vocabulary: %w", err)
	}
	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = bilingualRecord(row)
	}
	return records, nil
}

func bilingualRecord(row model.Vocabulary) Record {
	return Record{
		ID:          row.ID,
		Word:        row.Word,
		Definition:  row.DefinitionContents,
		CreatedDate: time.Time(row.CreatedDate),
		UpdatedDate: time.Time(row.UpdatedDate),
	}
}
