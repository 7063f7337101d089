package models

// Task is a named action shared by all beekeepers (e.g. "feeding")
type Task struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"uniqueIndex;not null;size:255" json:"name"`
}

// TableName specifies the table name for Task model
func (Task) TableName() string {
	return "tasks"
}
