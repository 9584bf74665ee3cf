package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Blog is a published post. AuthorName is a copy of the author's username,
// not a foreign key.
type Blog struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string    `json:"title" gorm:"uniqueIndex;size:255;not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Content     string    `json:"content" gorm:"type:longtext;not null"`
	Image       string    `json:"blogImage" gorm:"size:512;not null"`
	AuthorName  string    `json:"authorName" gorm:"size:255;not null;index"`
	Categories  []string  `json:"categories" gorm:"type:json;serializer:json"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
