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

// TranslatedStore is the word table with separate definition and
// translation columns.
type TranslatedStore struct {
	db              *gorm.DB
	allowDuplicates bool
	now             func() time.Time
}

// NewTranslatedStore returns a store over the "words" table. With
// allowDuplicates every lookup appends a row; without it the word column
// gets a unique index and repeated lookups overwrite the stored texts.
func NewTranslatedStore(db *gorm.DB, allowDuplicates bool, opts ...Option) *TranslatedStore {
	o := buildOptions(opts)
	return &TranslatedStore{
		db:              db,
		allowDuplicates: allowDuplicates,
		now:             o.now,
	}
}

func (s *TranslatedStore) EnsureSchema(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(&model.Word{}); err != nil {
		return fmt.Errorf("migrate words: %w", err)
	}
	if !s.allowDuplicates {
		if err := db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_words_word_unique ON words(word)").Error; err != nil {
			return fmt.Errorf("create unique word index: %w", err)
		}
	}
	return nil
}

func (s *TranslatedStore) Upsert(ctx context.Context, entry Entry) (bool, error) {
	if isBlank(entry.Word) || isBlank(entry.Definition) {
		return false, nil
	}

	row := model.Word{
		Word:        entry.Word,
		Definition:  entry.Definition,
		Translation: entry.Translation,
		DateAdded:   datatypes.Date(today(s.now)),
	}

	db := s.db.WithContext(ctx)
	if !s.allowDuplicates {
		db = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "word"}},
			DoUpdates: clause.AssignmentColumns([]string{"definition", "translation"}),
		})
	}
	if err := db.Create(&row).Error; err != nil {
		return false, fmt.Errorf("save word %q: %w", entry.Word, err)
	}
	return true, nil
}

func (s *TranslatedStore) FindByWord(ctx context.Context, word string) (*Record, error) {
	var row model.Word
	err := s.db.WithContext(ctx).Where("word = ?", word).Order("id").Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find word %q: %w", word, err)
	}
	rec := translatedRecord(row)
	return &rec, nil
}

func (s *TranslatedStore) PickRandomForReview(ctx context.Context) (*Record, error) {
	var row model.Word
	err := s.db.WithContext(ctx).Order("RANDOM()").Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNothingToReview
	}
	if err != nil {
		return nil, fmt.Errorf("pick review word: %w", err)
	}
	rec := translatedRecord(row)
	return &rec, nil
}

func (s *TranslatedStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Word{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count words: %w", err)
	}
	return n, nil
}

func (s *TranslatedStore) List(ctx context.Context) ([]Record, error) {
	var rows []model.Word
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = translatedRecord(row)
	}
	return records, nil
}

func translatedRecord(row model.Word) Record {
	added := time.Time(row.DateAdded)
	return Record{
		ID:          row.ID,
		Word:        row.Word,
		Definition:  row.Definition,
		Translation: row.Translation,
		CreatedDate: added,
		UpdatedDate: added,
	}
}
