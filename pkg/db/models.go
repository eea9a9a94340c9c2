package db

import (
	"time"

	"gorm.io/gorm"
)

// Model is the base model for migrations. Migrations re-create their own
// table types and embed this instead of importing domain types.
type Model struct {
	ID        string `gorm:"primary_key"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
