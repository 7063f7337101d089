package services

import (
	"apiary_app_go/models"

	"gorm.io/gorm"
)

// Ownership is resolved transitively: visit/mother -> hive -> site -> beekeeper.
// Every lookup below filters on the acting beekeeper so that records owned by
// someone else are indistinguishable from missing ones.

// OwnedSites scopes a query on sites to the given beekeeper
func OwnedSites(ownerID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("sites.beekeeper_id = ?", ownerID)
	}
}

// OwnedHives scopes a query on hives to the given beekeeper
func OwnedHives(ownerID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN sites ON sites.id = hives.site_id").
			Where("sites.beekeeper_id = ?", ownerID)
	}
}

// OwnedMothers scopes a query on mothers to the given beekeeper
func OwnedMothers(ownerID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN hives ON hives.id = mothers.hive_id").
			Joins("JOIN sites ON sites.id = hives.site_id").
			Where("sites.beekeeper_id = ?", ownerID)
	}
}

// OwnedVisits scopes a query on visits to the given beekeeper
func OwnedVisits(ownerID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN hives ON hives.id = visits.hive_id").
			Joins("JOIN sites ON sites.id = hives.site_id").
			Where("sites.beekeeper_id = ?", ownerID)
	}
}

func findOwnedSite(db *gorm.DB, siteID, ownerID uint, activeOnly bool) (*models.Site, error) {
	var site models.Site
	q := db.Scopes(OwnedSites(ownerID)).Where("sites.id = ?", siteID)
	if activeOnly {
		q = q.Where("sites.active = ?", true)
	}
	if err := q.First(&site).Error; err != nil {
		return nil, lookupError(err, "site not available")
	}
	return &site, nil
}

func findOwnedHive(db *gorm.DB, hiveID, ownerID uint, activeOnly bool) (*models.Hive, error) {
	var hive models.Hive
	q := db.Select("hives.*").Scopes(OwnedHives(ownerID)).Where("hives.id = ?", hiveID)
	if activeOnly {
		q = q.Where("hives.active = ?", true)
	}
	if err := q.First(&hive).Error; err != nil {
		return nil, lookupError(err, "hive not available")
	}
	return &hive, nil
}

func findOwnedMother(db *gorm.DB, motherID, ownerID uint) (*models.Mother, error) {
	var mother models.Mother
	err := db.Select("mothers.*").Scopes(OwnedMothers(ownerID)).
		Where("mothers.id = ?", motherID).
		First(&mother).Error
	if err != nil {
		return nil, lookupError(err, "mother not available")
	}
	return &mother, nil
}

func findOwnedVisit(db *gorm.DB, visitID, ownerID uint) (*models.Visit, error) {
	var visit models.Visit
	err := db.Select("visits.*").Scopes(OwnedVisits(ownerID)).
		Where("visits.id = ? AND visits.active = ?", visitID, true).
		First(&visit).Error
	if err != nil {
		return nil, lookupError(err, "visit not available")
	}
	return &visit, nil
}

// findActiveHiveForWrite distinguishes a missing hive (NotFound) from one owned by
// another beekeeper (Forbidden) for the "add to hive" operations.
func findActiveHiveForWrite(db *gorm.DB, hiveID, ownerID uint) (*models.Hive, *models.Site, error) {
	var hive models.Hive
	if err := db.Where("id = ? AND active = ?", hiveID, true).First(&hive).Error; err != nil {
		return nil, nil, lookupError(err, "hive not available")
	}
	var site models.Site
	if err := db.First(&site, hive.SiteID).Error; err != nil {
		return nil, nil, lookupError(err, "hive not available")
	}
	if site.BeekeeperID != ownerID {
		return nil, nil, forbidden("you are not allowed to modify this hive")
	}
	return &hive, &site, nil
}

// findActiveSiteForWrite is the site counterpart of findActiveHiveForWrite
func findActiveSiteForWrite(db *gorm.DB, siteID, ownerID uint) (*models.Site, error) {
	var site models.Site
	if err := db.Where("id = ? AND active = ?", siteID, true).First(&site).Error; err != nil {
		return nil, lookupError(err, "site not available")
	}
	if site.BeekeeperID != ownerID {
		return nil, forbidden("you are not allowed to modify this site")
	}
	return &site, nil
}
