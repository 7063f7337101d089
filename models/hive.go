package models

import (
	"time"
)

// Hive is a colony placed on a site. Among active rows (site_id, number) is unique.
type Hive struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SiteID uint `gorm:"not null;index" json:"site_id"`

	Number  int    `gorm:"not null" json:"number"` // Assigned by the numbering allocator
	Type    string `gorm:"not null;size:255" json:"type"`
	Comment string `gorm:"type:text" json:"comment"`
	Active  bool   `gorm:"not null;default:true;index" json:"active"`

	// Relationships
	Mothers []Mother `gorm:"foreignKey:HiveID;constraint:OnDelete:SET NULL" json:"mothers,omitempty"`
	Visits  []Visit  `gorm:"foreignKey:HiveID;constraint:OnDelete:SET NULL" json:"visits,omitempty"`
}

// TableName specifies the table name for Hive model
func (Hive) TableName() string {
	return "hives"
}
