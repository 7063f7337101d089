package services

import (
	"fmt"
	"log"

	"apiary_app_go/models"

	"gorm.io/gorm"
)

// RelocatedHive pairs a moved hive with the number it received in the target site
type RelocatedHive struct {
	Hive   models.Hive `json:"hive"`
	Number int         `json:"number"`
}

// RelocateHives moves active owned hives into another active owned site. Each hive is
// renumbered inside the target site in input order. Nothing moves unless all of them do.
func RelocateHives(db *gorm.DB, hiveIDs []uint, targetSiteID, ownerID uint) ([]RelocatedHive, error) {
	if len(hiveIDs) == 0 {
		return nil, validation("select at least one hive to move")
	}
	seen := make(map[uint]struct{}, len(hiveIDs))
	for _, id := range hiveIDs {
		if _, dup := seen[id]; dup {
			return nil, validation(fmt.Sprintf("hive %d selected more than once", id))
		}
		seen[id] = struct{}{}
	}

	moved := make([]RelocatedHive, 0, len(hiveIDs))
	err := db.Transaction(func(tx *gorm.DB) error {
		target, err := findOwnedSite(tx, targetSiteID, ownerID, true)
		if err != nil {
			if KindOf(err) == KindNotFound {
				return validation("target site not available")
			}
			return err
		}

		hives := make([]models.Hive, 0, len(hiveIDs))
		for _, id := range hiveIDs {
			hive, err := findOwnedHive(tx, id, ownerID, true)
			if err != nil {
				if KindOf(err) == KindNotFound {
					return validation(fmt.Sprintf("hive %d not available", id))
				}
				return err
			}
			if hive.SiteID == target.ID {
				return validation(fmt.Sprintf("hive %d is already in site %s", hive.Number, target.Name))
			}
			hives = append(hives, *hive)
		}

		for _, hive := range hives {
			number, err := allocateHiveNumber(tx, target.ID, func(inner *gorm.DB, number int) error {
				return inner.Model(&models.Hive{}).
					Where("id = ?", hive.ID).
					Updates(map[string]interface{}{"site_id": target.ID, "number": number}).Error
			})
			if err != nil {
				return err
			}

			log.Printf("[INFO] Hive %d moved from site %d to site %d as number %d", hive.ID, hive.SiteID, target.ID, number)
			hive.SiteID = target.ID
			hive.Number = number
			moved = append(moved, RelocatedHive{Hive: hive, Number: number})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	Metrics.HivesRelocated(len(moved))
	return moved, nil
}

// RelocateMother moves an active owned mother into another active owned hive that
// has no active mother.
func RelocateMother(db *gorm.DB, motherID, targetHiveID, ownerID uint) (*models.Mother, error) {
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

		target, err := findOwnedHive(tx, targetHiveID, ownerID, true)
		if err != nil {
			if KindOf(err) == KindNotFound {
				return validation("target hive not available")
			}
			return err
		}
		if mother.HiveID != nil && *mother.HiveID == target.ID {
			return validation("the mother already lives in this hive")
		}

		occupied, err := hasActiveMother(tx, target.ID, mother.ID)
		if err != nil {
			return err
		}
		if occupied {
			return validation(fmt.Sprintf("hive %d already has an active mother", target.Number))
		}

		if err := tx.Model(&models.Mother{}).Where("id = ?", mother.ID).Update("hive_id", target.ID).Error; err != nil {
			return fmt.Errorf("failed to move mother: %w", err)
		}
		mother.HiveID = &target.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	Metrics.MotherRelocated()
	log.Printf("[INFO] Mother %d moved to hive %d", mother.ID, *mother.HiveID)
	return mother, nil
}
