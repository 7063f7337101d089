package models

import (
	"time"
)

// Mother is a queen record. Ancestor links form a forest; reads still guard against cycles.
type Mother struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	HiveID     *uint   `gorm:"index" json:"hive_id"`
	AncestorID *uint   `gorm:"index" json:"ancestor_id"`
	Ancestor   *Mother `gorm:"foreignKey:AncestorID;constraint:OnDelete:SET NULL" json:"-"`

	Mark       string `gorm:"uniqueIndex;not null;size:255" json:"mark"`
	Year       int    `gorm:"not null" json:"year"`
	MaleLine   string `gorm:"size:255" json:"male_line"`
	FemaleLine string `gorm:"size:255" json:"female_line"`
	Comment    string `gorm:"type:text" json:"comment"`
	Active     bool   `gorm:"not null;default:true;index" json:"active"`
}

// TableName specifies the table name for Mother model
func (Mother) TableName() string {
	return "mothers"
}

// DisplayName returns the mark, followed by the female line when one is recorded
func (m *Mother) DisplayName() string {
	if m.FemaleLine != "" {
		return m.Mark + " (linie: " + m.FemaleLine + ")"
	}
	return m.Mark
}
