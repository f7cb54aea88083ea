package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultSessionTitle is assigned to sessions created without an explicit title.
const DefaultSessionTitle = "New Chat"

// Message role tags. The store rejects anything else.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatSession is a named container for an ordered sequence of chat messages
// belonging to one user. UpdatedAt is bumped on every message append so that
// session lists can be ordered by recency.
type ChatSession struct {
	gorm.Model
	UserID   uuid.UUID     `gorm:"type:uuid;index"`
	Title    string        `gorm:"not null"`
	Messages []ChatMessage `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

// ChatMessage is immutable once created; ordering is by CreatedAt ascending.
type ChatMessage struct {
	ID        uint   `gorm:"primarykey"`
	SessionID uint   `gorm:"index;not null"`
	Content   string `gorm:"not null"`
	Role      string `gorm:"not null"`
	CreatedAt time.Time
}
