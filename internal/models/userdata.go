package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserContext holds per-user data fed into the assistant's system prompt.
// One row per user, created lazily with empty defaults on first access.
// Wallets and Preferences are stored as JSON text so the row shape stays
// portable across postgres and sqlite.
type UserContext struct {
	gorm.Model
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Wallets     string    `gorm:"not null;default:'[]'"`
	Preferences string    `gorm:"not null;default:'{}'"`
}

func (UserContext) TableName() string {
	return "user_data"
}

// AIQuery is an append-only analytics row. Written best-effort from the
// orchestrator; read back only for reporting.
type AIQuery struct {
	ID        uint      `gorm:"primarykey"`
	UserID    uuid.UUID `gorm:"type:uuid;index"`
	Query     string
	Response  string
	QueryType string `gorm:"not null;default:'general'"`
	CreatedAt time.Time
}
