package database

import (
	"testing"

	"github.com/drizzlenote/chatbot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestDialector(t *testing.T) {
	tests := []struct {
		url  string
		name string
	}{
		{"english_dictionary.db", "sqlite"},
		{"sqlite://data/words.db", "sqlite"},
		{":memory:", "sqlite"},
		{"postgres://u:p@localhost:5432/words?sslmode=disable", "postgres"},
		{"postgresql://u:p@localhost/words", "postgres"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			d, err := Dialector(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.name, d.Name())
		})
	}

	_, err := Dialector("  ")
	assert.Error(t, err)
}

func TestConnect_SQLiteMemory(t *testing.T) {
	db, err := Connect(&config.Config{DatabaseURL: ":memory:", DBLogLevel: "silent"})
	require.NoError(t, err)
	defer Close(db)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, parseLogLevel("silent"))
	assert.Equal(t, logger.Info, parseLogLevel("INFO"))
	assert.Equal(t, logger.Warn, parseLogLevel(""))
}
