package services

import (
	"fmt"
	"log"

	"apiary_app_go/models"

	"gorm.io/gorm"
)

// HiveInput holds the editable fields of a hive. The number is always allocated.
type HiveInput struct {
	Type    string `json:"type"`
	Comment string `json:"comment"`
}

// CreateHive adds a hive to an active site owned by ownerID, numbered with the
// smallest free number of the site.
func CreateHive(db *gorm.DB, siteID, ownerID uint, in HiveInput) (*models.Hive, error) {
	in.Type = CleanText(in.Type)
	in.Comment = CleanText(in.Comment)
	if in.Type == "" {
		return nil, validation("hive type is required")
	}

	var hive *models.Hive
	err := db.Transaction(func(tx *gorm.DB) error {
		site, err := findActiveSiteForWrite(tx, siteID, ownerID)
		if err != nil {
			return err
		}

		_, err = allocateHiveNumber(tx, site.ID, func(inner *gorm.DB, number int) error {
			candidate := &models.Hive{
				SiteID:  site.ID,
				Number:  number,
				Type:    in.Type,
				Comment: in.Comment,
				Active:  true,
			}
			if err := inner.Create(candidate).Error; err != nil {
				return err
			}
			hive = candidate
			return nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] Hive %d created in site %d with number %d", hive.ID, hive.SiteID, hive.Number)
	return hive, nil
}

// ListHives returns the active hives of an active owned site ordered by number
func ListHives(db *gorm.DB, siteID, ownerID uint) ([]models.Hive, error) {
	site, err := findOwnedSite(db, siteID, ownerID, true)
	if err != nil {
		return nil, err
	}

	hives := []models.Hive{}
	err = db.Where("site_id = ? AND active = ?", site.ID, true).
		Order("number ASC").
		Find(&hives).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list hives: %w", err)
	}
	return hives, nil
}

// hasActiveMother reports whether hiveID currently hosts an active mother, ignoring exceptID
func hasActiveMother(db *gorm.DB, hiveID, exceptID uint) (bool, error) {
	var count int64
	q := db.Model(&models.Mother{}).Where("hive_id = ? AND active = ?", hiveID, true)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check hive occupancy: %w", err)
	}
	return count > 0, nil
}
