package services

import (
	"fmt"
	"log"
	"time"

	"apiary_app_go/models"

	"gorm.io/gorm"
)

// MotherInput holds the editable fields of a mother
type MotherInput struct {
	Mark       string `json:"mark"`
	Year       int    `json:"year"`
	MaleLine   string `json:"male_line"`
	FemaleLine string `json:"female_line"`
	Comment    string `json:"comment"`
	AncestorID *uint  `json:"ancestor_id"`
}

func (in *MotherInput) clean() error {
	in.Mark = CleanText(in.Mark)
	in.MaleLine = CleanText(in.MaleLine)
	in.FemaleLine = CleanText(in.FemaleLine)
	in.Comment = CleanText(in.Comment)

	if in.Mark == "" {
		return validation("mark is required")
	}
	if in.Year < 1900 || in.Year > time.Now().Year()+1 {
		return validation("year is out of range")
	}
	return nil
}

// RelocationTarget is an active hive without an active mother
type RelocationTarget struct {
	HiveID   uint   `json:"hive_id"`
	Number   int    `json:"number"`
	SiteID   uint   `json:"site_id"`
	SiteName string `json:"site_name"`
}

func markTaken(db *gorm.DB, mark string, exceptID uint) (bool, error) {
	var count int64
	q := db.Model(&models.Mother{}).Where("mark = ?", mark)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check mark: %w", err)
	}
	return count > 0, nil
}

// resolveAncestor checks that the proposed ancestor is owned by ownerID
func resolveAncestor(db *gorm.DB, ancestorID *uint, ownerID uint) error {
	if ancestorID == nil {
		return nil
	}
	if _, err := findOwnedMother(db, *ancestorID, ownerID); err != nil {
		if KindOf(err) == KindNotFound {
			return validation("ancestor not available")
		}
		return err
	}
	return nil
}

// CreateMother places a new active mother in an active hive owned by ownerID.
// The hive must not already host an active mother.
func CreateMother(db *gorm.DB, hiveID, ownerID uint, in MotherInput) (*models.Mother, error) {
	if err := in.clean(); err != nil {
		return nil, err
	}

	var mother *models.Mother
	err := db.Transaction(func(tx *gorm.DB) error {
		hive, _, err := findActiveHiveForWrite(tx, hiveID, ownerID)
		if err != nil {
			return err
		}

		occupied, err := hasActiveMother(tx, hive.ID, 0)
		if err != nil {
			return err
		}
		if occupied {
			return validation(fmt.Sprintf("hive %d already has an active mother", hive.Number))
		}

		taken, err := markTaken(tx, in.Mark, 0)
		if err != nil {
			return err
		}
		if taken {
			return validation(fmt.Sprintf("mark %q is already in use", in.Mark))
		}

		if err := resolveAncestor(tx, in.AncestorID, ownerID); err != nil {
			return err
		}

		mother = &models.Mother{
			HiveID:     &hive.ID,
			AncestorID: in.AncestorID,
			Mark:       in.Mark,
			Year:       in.Year,
			MaleLine:   in.MaleLine,
			FemaleLine: in.FemaleLine,
			Comment:    in.Comment,
			Active:     true,
		}
		if err := tx.Create(mother).Error; err != nil {
			if isUniqueViolation(err) {
				return validation(fmt.Sprintf("mark %q is already in use", in.Mark))
			}
			return fmt.Errorf("failed to create mother: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] Mother %d (%s) placed in hive %d", mother.ID, mother.Mark, *mother.HiveID)
	return mother, nil
}

// UpdateMother edits an active owned mother. Assigning an ancestor that would close
// a cycle is rejected.
func UpdateMother(db *gorm.DB, motherID, ownerID uint, in MotherInput) (*models.Mother, error) {
	if err := in.clean(); err != nil {
		return nil, err
	}

	var mother *models.Mother
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		mother, err = findOwnedMother(tx, motherID, ownerID)
		if err != nil {
			return err
		}
		if !mother.Active {
			return notFound("mother not available")
		}

		taken, err := markTaken(tx, in.Mark, mother.ID)
		if err != nil {
			return err
		}
		if taken {
			return validation(fmt.Sprintf("mark %q is already in use", in.Mark))
		}

		if err := resolveAncestor(tx, in.AncestorID, ownerID); err != nil {
			return err
		}
		if in.AncestorID != nil {
			if err := checkAncestorAssignment(tx, mother.ID, *in.AncestorID); err != nil {
				return err
			}
		}

		mother.AncestorID = in.AncestorID
		mother.Mark = in.Mark
		mother.Year = in.Year
		mother.MaleLine = in.MaleLine
		mother.FemaleLine = in.FemaleLine
		mother.Comment = in.Comment

		err = tx.Model(mother).
			Select("ancestor_id", "mark", "year", "male_line", "female_line", "comment").
			Updates(mother).Error
		if err != nil {
			if isUniqueViolation(err) {
				return validation(fmt.Sprintf("mark %q is already in use", in.Mark))
			}
			return fmt.Errorf("failed to update mother: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mother, nil
}

// ListMothers returns every mother reachable by ownerID, active or not, newest year first
func ListMothers(db *gorm.DB, ownerID uint) ([]models.Mother, error) {
	mothers := []models.Mother{}
	err := db.Select("mothers.*").
		Scopes(OwnedMothers(ownerID)).
		Order("mothers.year DESC, mothers.mark ASC").
		Find(&mothers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list mothers: %w", err)
	}
	return mothers, nil
}

// ListRelocationTargets returns the active hives of ownerID that have no active mother
func ListRelocationTargets(db *gorm.DB, ownerID uint) ([]RelocationTarget, error) {
	occupied := db.Model(&models.Mother{}).
		Select("1").
		Where("mothers.hive_id = hives.id AND mothers.active = ?", true)

	targets := []RelocationTarget{}
	err := db.Model(&models.Hive{}).
		Select("hives.id AS hive_id, hives.number AS number, sites.id AS site_id, sites.name AS site_name").
		Scopes(OwnedHives(ownerID)).
		Where("hives.active = ? AND sites.active = ?", true, true).
		Where("NOT EXISTS (?)", occupied).
		Order("sites.name ASC, hives.number ASC").
		Scan(&targets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list relocation targets: %w", err)
	}
	return targets, nil
}
