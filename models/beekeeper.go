package models

import (
	"time"
)

// Beekeeper is the owning principal of every site, hive, mother and visit
type Beekeeper struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username        string     `gorm:"uniqueIndex;not null;size:65" json:"username"`
	Email           string     `gorm:"size:255" json:"email"`
	Password        string     `gorm:"not null" json:"-"`
	BeekeeperNumber int        `gorm:"uniqueIndex;not null" json:"beekeeper_id"` // Registration number issued to the beekeeper
	LastLoginAt     *time.Time `json:"last_login_at"`

	// Relationships
	Sites []Site `gorm:"foreignKey:BeekeeperID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Beekeeper model
func (Beekeeper) TableName() string {
	return "beekeepers"
}
