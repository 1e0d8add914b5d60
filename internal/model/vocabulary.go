package model

import (
	"gorm.io/datatypes"
)

// Vocabulary is the bilingual wordbook entry, one row per word.
type Vocabulary struct {
	ID                 int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Word               string         `gorm:"type:text;not null;uniqueIndex:idx_vocabulary_word" json:"word"`
	DefinitionContents string         `gorm:"type:text;not null" json:"definitionContents"`
	CreatedDate        datatypes.Date `gorm:"not null" json:"createdDate"`
	UpdatedDate        datatypes.Date `gorm:"not null;index" json:"updatedDate"`
}

func (Vocabulary) TableName() string {
	return "vocabulary"
}
