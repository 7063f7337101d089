package services

import (
	"fmt"
	"time"

	"apiary_app_go/models"

	"gorm.io/gorm"
)

// VisitInput holds the fields recorded during an inspection
type VisitInput struct {
	Date                  string   `json:"date"`
	InspectionType        string   `json:"inspection_type"`
	Condition             *int     `json:"condition"`
	HiveBodySize          int      `json:"hive_body_size"`
	HoneySupersSize       int      `json:"honey_supers_size"`
	HoneyYield            *float64 `json:"honey_yield"`
	MedicationApplication *string  `json:"medication_application"`
	Disease               *string  `json:"disease"`
	MiteDrop              *int     `json:"mite_drop"`
	Comment               *string  `json:"comment"`
	TaskIDs               []uint   `json:"task_ids"`
}

// VisitDefaults prefills a new inspection from the latest one
type VisitDefaults struct {
	Date            string `json:"date"`
	Condition       *int   `json:"condition"`
	HiveBodySize    int    `json:"hive_body_size"`
	HoneySupersSize int    `json:"honey_supers_size"`
}

func (in *VisitInput) clean() (time.Time, error) {
	date, err := ParseDate(in.Date)
	if err != nil {
		return time.Time{}, validation(err.Error())
	}

	in.InspectionType = CleanText(in.InspectionType)
	in.MedicationApplication = CleanOptionalText(in.MedicationApplication)
	in.Disease = CleanOptionalText(in.Disease)
	in.Comment = CleanOptionalText(in.Comment)

	switch {
	case in.InspectionType == "":
		return time.Time{}, validation("inspection type is required")
	case in.Condition != nil && (*in.Condition < models.MinCondition || *in.Condition > models.MaxCondition):
		return time.Time{}, validation(fmt.Sprintf("condition must be between %d and %d", models.MinCondition, models.MaxCondition))
	case in.HiveBodySize < 0:
		return time.Time{}, validation("hive body size must not be negative")
	case in.HoneySupersSize < 0:
		return time.Time{}, validation("honey supers size must not be negative")
	case in.HoneyYield != nil && *in.HoneyYield < 0:
		return time.Time{}, validation("honey yield must not be negative")
	case in.MiteDrop != nil && *in.MiteDrop < 0:
		return time.Time{}, validation("mite drop must not be negative")
	}
	return date, nil
}

func (in *VisitInput) apply(visit *models.Visit, date time.Time) {
	visit.Date = date
	visit.InspectionType = in.InspectionType
	visit.Condition = in.Condition
	visit.HiveBodySize = in.HiveBodySize
	visit.HoneySupersSize = in.HoneySupersSize
	visit.HoneyYield = in.HoneyYield
	visit.MedicationApplication = in.MedicationApplication
	visit.Disease = in.Disease
	visit.MiteDrop = in.MiteDrop
	visit.Comment = in.Comment
}

// resolveTasks loads the referenced catalogue tasks; unknown ids are rejected
func resolveTasks(db *gorm.DB, ids []uint) ([]models.Task, error) {
	tasks := []models.Task{}
	if len(ids) == 0 {
		return tasks, nil
	}

	unique := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}

	if err := db.Where("id IN ?", ids).Order("name ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	if len(tasks) != len(unique) {
		return nil, validation("unknown task selected")
	}
	return tasks, nil
}

// CreateVisit records an inspection of an active hive owned by ownerID
func CreateVisit(db *gorm.DB, hiveID, ownerID uint, in VisitInput) (*models.Visit, error) {
	date, err := in.clean()
	if err != nil {
		return nil, err
	}

	var visit *models.Visit
	err = db.Transaction(func(tx *gorm.DB) error {
		hive, _, err := findActiveHiveForWrite(tx, hiveID, ownerID)
		if err != nil {
			return err
		}

		tasks, err := resolveTasks(tx, in.TaskIDs)
		if err != nil {
			return err
		}

		visit = &models.Visit{HiveID: &hive.ID, Active: true, Tasks: tasks}
		in.apply(visit, date)
		if err := tx.Create(visit).Error; err != nil {
			return fmt.Errorf("failed to create visit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return visit, nil
}

// UpdateVisit edits an active owned visit and replaces its task set
func UpdateVisit(db *gorm.DB, visitID, ownerID uint, in VisitInput) (*models.Visit, error) {
	date, err := in.clean()
	if err != nil {
		return nil, err
	}

	var visit *models.Visit
	err = db.Transaction(func(tx *gorm.DB) error {
		var err error
		visit, err = findOwnedVisit(tx, visitID, ownerID)
		if err != nil {
			return err
		}

		tasks, err := resolveTasks(tx, in.TaskIDs)
		if err != nil {
			return err
		}

		in.apply(visit, date)
		err = tx.Model(visit).
			Select("date", "inspection_type", "condition_score", "hive_body_size", "honey_supers_size",
				"honey_yield", "medication_application", "disease", "mite_drop", "comment").
			Updates(visit).Error
		if err != nil {
			return fmt.Errorf("failed to update visit: %w", err)
		}

		if err := tx.Model(visit).Association("Tasks").Replace(tasks); err != nil {
			return fmt.Errorf("failed to update visit tasks: %w", err)
		}
		visit.Tasks = tasks
		return nil
	})
	if err != nil {
		return nil, err
	}
	return visit, nil
}

// ListVisits returns the active visits of an active owned hive, newest first
func ListVisits(db *gorm.DB, hiveID, ownerID uint) ([]models.Visit, error) {
	hive, err := findOwnedHive(db, hiveID, ownerID, true)
	if err != nil {
		return nil, err
	}

	visits := []models.Visit{}
	err = db.Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("tasks.name ASC") }).
		Where("hive_id = ? AND active = ?", hive.ID, true).
		Order("date DESC, id DESC").
		Find(&visits).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return visits, nil
}

// GetVisitDefaults copies condition and box sizes from the latest active visit of
// the hive. Today's date is always proposed.
func GetVisitDefaults(db *gorm.DB, hiveID, ownerID uint) (*VisitDefaults, error) {
	hive, err := findOwnedHive(db, hiveID, ownerID, true)
	if err != nil {
		return nil, err
	}

	defaults := &VisitDefaults{Date: time.Now().Format("2006-01-02")}

	var latest models.Visit
	err = db.Where("hive_id = ? AND active = ?", hive.ID, true).
		Order("date DESC, id DESC").
		Limit(1).
		Find(&latest).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load latest visit: %w", err)
	}
	if latest.ID == 0 {
		return defaults, nil
	}

	defaults.Condition = latest.Condition
	defaults.HiveBodySize = latest.HiveBodySize
	defaults.HoneySupersSize = latest.HoneySupersSize
	return defaults, nil
}
