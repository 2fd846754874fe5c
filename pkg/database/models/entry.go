package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func init() {
	registerForAutomigration(&Entry{})
}

// Entry is a processed dictionary word and where its sign video lives.
type Entry struct {
	gorm.Model
	UUID     string `gorm:"uniqueIndex"`
	Text     string
	VideoURL string
	Region   string
	Label    string `gorm:"index"`
}

func (e *Entry) BeforeCreate(tx *gorm.DB) error {
	if len(e.UUID) == 0 {
		e.UUID = uuid.NewString()
	}
	return nil
}
