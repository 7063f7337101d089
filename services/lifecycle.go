package services

import (
	"fmt"
	"log"

	"apiary_app_go/models"

	"gorm.io/gorm"
)

// Deactivation never physically removes rows; it flips active to false on the
// record and on everything below it, inside one transaction.

// DeactivateSite deactivates an active owned site together with its hives, their
// mothers and their visits. Returns the number of hives that were deactivated.
func DeactivateSite(db *gorm.DB, siteID, ownerID uint) (int64, error) {
	var hivesAffected, mothersAffected, visitsAffected int64

	err := db.Transaction(func(tx *gorm.DB) error {
		site, err := findOwnedSite(tx, siteID, ownerID, true)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Site{}).Where("id = ?", site.ID).Update("active", false).Error; err != nil {
			return fmt.Errorf("failed to deactivate site: %w", err)
		}

		siteHives := tx.Model(&models.Hive{}).Select("id").Where("site_id = ?", site.ID)

		result := tx.Model(&models.Hive{}).
			Where("site_id = ? AND active = ?", site.ID, true).
			Update("active", false)
		if result.Error != nil {
			return fmt.Errorf("failed to deactivate hives: %w", result.Error)
		}
		hivesAffected = result.RowsAffected

		mothers := tx.Model(&models.Mother{}).
			Where("hive_id IN (?) AND active = ?", siteHives, true).
			Update("active", false)
		if mothers.Error != nil {
			return fmt.Errorf("failed to deactivate mothers: %w", mothers.Error)
		}

		visits := tx.Model(&models.Visit{}).
			Where("hive_id IN (?) AND active = ?", siteHives, true).
			Update("active", false)
		if visits.Error != nil {
			return fmt.Errorf("failed to deactivate visits: %w", visits.Error)
		}

		mothersAffected, visitsAffected = mothers.RowsAffected, visits.RowsAffected
		log.Printf("[LIFECYCLE] Site %d deactivated (hives: %d, mothers: %d, visits: %d)",
			site.ID, hivesAffected, mothers.RowsAffected, visits.RowsAffected)
		return nil
	})
	if err != nil {
		return 0, err
	}

	Metrics.Deactivated("site", 1)
	Metrics.Deactivated("hive", hivesAffected)
	Metrics.Deactivated("mother", mothersAffected)
	Metrics.Deactivated("visit", visitsAffected)
	return hivesAffected, nil
}

// DeactivateHive deactivates an active owned hive with its mothers and visits
func DeactivateHive(db *gorm.DB, hiveID, ownerID uint) error {
	var mothersAffected, visitsAffected int64

	err := db.Transaction(func(tx *gorm.DB) error {
		hive, err := findOwnedHive(tx, hiveID, ownerID, true)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Hive{}).Where("id = ?", hive.ID).Update("active", false).Error; err != nil {
			return fmt.Errorf("failed to deactivate hive: %w", err)
		}

		mothers := tx.Model(&models.Mother{}).
			Where("hive_id = ? AND active = ?", hive.ID, true).
			Update("active", false)
		if mothers.Error != nil {
			return fmt.Errorf("failed to deactivate mothers: %w", mothers.Error)
		}

		visits := tx.Model(&models.Visit{}).
			Where("hive_id = ? AND active = ?", hive.ID, true).
			Update("active", false)
		if visits.Error != nil {
			return fmt.Errorf("failed to deactivate visits: %w", visits.Error)
		}

		mothersAffected, visitsAffected = mothers.RowsAffected, visits.RowsAffected
		log.Printf("[LIFECYCLE] Hive %d (number %d, site %d) deactivated", hive.ID, hive.Number, hive.SiteID)
		return nil
	})
	if err != nil {
		return err
	}

	Metrics.Deactivated("hive", 1)
	Metrics.Deactivated("mother", mothersAffected)
	Metrics.Deactivated("visit", visitsAffected)
	return nil
}

// DeactivateMother deactivates an active owned mother. Hive and visits are untouched.
func DeactivateMother(db *gorm.DB, motherID, ownerID uint) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		mother, err := findOwnedMother(tx, motherID, ownerID)
		if err != nil {
			return err
		}
		if !mother.Active {
			return notFound("mother not available")
		}

		if err := tx.Model(&models.Mother{}).Where("id = ?", mother.ID).Update("active", false).Error; err != nil {
			return fmt.Errorf("failed to deactivate mother: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	Metrics.Deactivated("mother", 1)
	return nil
}

// DeactivateVisit deactivates an active owned visit. A second call reports NotFound
// and leaves the row inactive.
func DeactivateVisit(db *gorm.DB, visitID, ownerID uint) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		visit, err := findOwnedVisit(tx, visitID, ownerID)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Visit{}).Where("id = ?", visit.ID).Update("active", false).Error; err != nil {
			return fmt.Errorf("failed to deactivate visit: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	Metrics.Deactivated("visit", 1)
	return nil
}

// EraseMother permanently removes an inactive owned mother. Mothers that named it
// as ancestor keep existing with a null ancestor.
func EraseMother(db *gorm.DB, motherID, ownerID uint) (*models.Mother, error) {
	var erased *models.Mother

	err := db.Transaction(func(tx *gorm.DB) error {
		mother, err := findOwnedMother(tx, motherID, ownerID)
		if err != nil {
			return err
		}
		if mother.Active {
			return preconditionFailed("only deactivated mothers can be erased")
		}

		if err := tx.Model(&models.Mother{}).
			Where("ancestor_id = ?", mother.ID).
			Update("ancestor_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach descendants: %w", err)
		}

		if err := tx.Delete(&models.Mother{}, mother.ID).Error; err != nil {
			return fmt.Errorf("failed to erase mother: %w", err)
		}

		erased = mother
		return nil
	})
	if err != nil {
		return nil, err
	}

	Metrics.MotherErased()
	log.Printf("[LIFECYCLE] Mother %d (%s, %d) erased", erased.ID, erased.Mark, erased.Year)
	return erased, nil
}
