package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Session struct {
	ID        string    `gorm:"primarykey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	BeekeeperID uint      `gorm:"not null;index" json:"beekeeper_id"`
	Token       string    `gorm:"uniqueIndex;not null;type:varchar(128)" json:"-"`
	ExpiresAt   time.Time `gorm:"not null;index" json:"expires_at"`
	IPAddress   string    `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent   string    `gorm:"type:text" json:"user_agent"`

	// Relationships
	Beekeeper Beekeeper `gorm:"foreignKey:BeekeeperID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Session model
func (Session) TableName() string {
	return "sessions"
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
