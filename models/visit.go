package models

import (
	"time"
)

const (
	// MinCondition and MaxCondition bound the colony condition score
	MinCondition = 0
	MaxCondition = 5
)

// Visit is a single hive inspection
type Visit struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	HiveID *uint `gorm:"index" json:"hive_id"`

	Date                  time.Time `gorm:"not null;index" json:"date"`
	InspectionType        string    `gorm:"not null;size:255" json:"inspection_type"`
	Condition             *int      `gorm:"column:condition_score" json:"condition"` // 0-5, nil when not assessed
	HiveBodySize          int       `gorm:"not null;default:0" json:"hive_body_size"`
	HoneySupersSize       int       `gorm:"not null;default:0" json:"honey_supers_size"`
	HoneyYield            *float64  `json:"honey_yield"`
	MedicationApplication *string   `gorm:"size:255" json:"medication_application"`
	Disease               *string   `gorm:"size:255" json:"disease"`
	MiteDrop              *int      `json:"mite_drop"`
	Comment               *string   `gorm:"size:255" json:"comment"`
	Active                bool      `gorm:"not null;default:true;index" json:"active"`

	// Relationships
	Tasks []Task `gorm:"many2many:visit_tasks" json:"tasks"`
}

// TableName specifies the table name for Visit model
func (Visit) TableName() string {
	return "visits"
}

// TaskNames returns the names of the tasks performed during the visit
func (v *Visit) TaskNames() []string {
	names := make([]string, 0, len(v.Tasks))
	for _, t := range v.Tasks {
		names = append(names, t.Name)
	}
	return names
}
