package model

import (
	"gorm.io/datatypes"
)

// Word is one lookup in the translated wordbook. Rows are appended per
// lookup, so the same word may appear more than once.
type Word struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Word        string         `gorm:"type:text;index" json:"word"`
	Definition  string         `gorm:"type:text" json:"definition"`
	Translation string         `gorm:"type:text" json:"translation"`
	DateAdded   datatypes.Date `json:"dateAdded"`
}

func (Word) TableName() string {
	return "words"
}
