package api

import (
	"time"

	"gorm.io/gorm"
)

// Meta is the base model struct. All persisted entities embed it.
type Meta struct {
	ID        string `json:"id" gorm:"primary_key"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
