package models

import (
	"time"
)

// Site is an apiary location. Among active rows (beekeeper_id, name) is unique.
type Site struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	BeekeeperID uint `gorm:"not null;index" json:"beekeeper_id"`

	Name     string `gorm:"not null;size:255" json:"name"`
	Type     string `gorm:"not null;size:255" json:"type"`
	Location string `gorm:"size:255" json:"location"`
	Comment  string `gorm:"type:text" json:"comment"`
	Active   bool   `gorm:"not null;default:true;index" json:"active"`

	// Relationships
	Hives []Hive `gorm:"foreignKey:SiteID;constraint:OnDelete:CASCADE" json:"hives,omitempty"`
}

// TableName specifies the table name for Site model
func (Site) TableName() string {
	return "sites"
}
