package store

import (
	"context"
	"testing"
	"time"

	"github.com/drizzlenote/chatbot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Ensure single connection to avoid separate in-memory DBs per connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	return db
}

// fakeClock is a settable time source.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advanceDays(days int) { c.now = c.now.AddDate(0, 0, days) }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)}
}

func day(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

var ctx = context.Background()

func TestNewForConfig(t *testing.T) {
	db := setupTestDB(t)

	st, err := NewForConfig(db, &config.Config{Variant: config.VariantTranslated, AllowDuplicates: true})
	require.NoError(t, err)
	assert.IsType(t, &TranslatedStore{}, st)

	st, err = NewForConfig(db, &config.Config{Variant: config.VariantBilingual, ReviewStaleness: 72 * time.Hour})
	require.NoError(t, err)
	require.IsType(t, &BilingualStore{}, st)
	assert.Equal(t, 3, st.(*BilingualStore).stalenessDays)

	_, err = NewForConfig(db, &config.Config{Variant: "flashcards"})
	assert.Error(t, err)
}
