package services

import (
	"fmt"
	"log"

	"apiary_app_go/models"

	"gorm.io/gorm"
)

// SiteInput holds the editable fields of a site
type SiteInput struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Location string `json:"location"`
	Comment  string `json:"comment"`
}

func (in *SiteInput) clean() error {
	in.Name = CleanText(in.Name)
	in.Type = CleanText(in.Type)
	in.Location = CleanText(in.Location)
	in.Comment = CleanText(in.Comment)

	if in.Name == "" {
		return validation("site name is required")
	}
	if len(in.Name) > 255 {
		return validation("site name must be at most 255 characters")
	}
	if in.Type == "" {
		return validation("site type is required")
	}
	return nil
}

// siteNameTaken checks the active (beekeeper, name) uniqueness, ignoring exceptID
func siteNameTaken(db *gorm.DB, ownerID uint, name string, exceptID uint) (bool, error) {
	var count int64
	q := db.Model(&models.Site{}).Where("beekeeper_id = ? AND name = ? AND active = ?", ownerID, name, true)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check site name: %w", err)
	}
	return count > 0, nil
}

// CreateSite creates an active site for ownerID. Names only collide with active sites.
func CreateSite(db *gorm.DB, ownerID uint, in SiteInput) (*models.Site, error) {
	if err := in.clean(); err != nil {
		return nil, err
	}

	taken, err := siteNameTaken(db, ownerID, in.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, validation(fmt.Sprintf("a site named %q already exists", in.Name))
	}

	site := &models.Site{
		BeekeeperID: ownerID,
		Name:        in.Name,
		Type:        in.Type,
		Location:    in.Location,
		Comment:     in.Comment,
		Active:      true,
	}
	if err := db.Create(site).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, validation(fmt.Sprintf("a site named %q already exists", in.Name))
		}
		return nil, fmt.Errorf("failed to create site: %w", err)
	}

	log.Printf("[INFO] Site %d (%s) created for beekeeper %d", site.ID, site.Name, ownerID)
	return site, nil
}

// UpdateSite edits an active owned site
func UpdateSite(db *gorm.DB, siteID, ownerID uint, in SiteInput) (*models.Site, error) {
	if err := in.clean(); err != nil {
		return nil, err
	}

	site, err := findOwnedSite(db, siteID, ownerID, true)
	if err != nil {
		return nil, err
	}

	taken, err := siteNameTaken(db, ownerID, in.Name, site.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, validation(fmt.Sprintf("a site named %q already exists", in.Name))
	}

	site.Name = in.Name
	site.Type = in.Type
	site.Location = in.Location
	site.Comment = in.Comment

	err = db.Model(site).Select("name", "type", "location", "comment").Updates(site).Error
	if err != nil {
		if isUniqueViolation(err) {
			return nil, validation(fmt.Sprintf("a site named %q already exists", in.Name))
		}
		return nil, fmt.Errorf("failed to update site: %w", err)
	}
	return site, nil
}

// GetSite returns an active owned site
func GetSite(db *gorm.DB, siteID, ownerID uint) (*models.Site, error) {
	return findOwnedSite(db, siteID, ownerID, true)
}

// ListSites returns the active sites of ownerID ordered by name
func ListSites(db *gorm.DB, ownerID uint) ([]models.Site, error) {
	sites := []models.Site{}
	err := db.Scopes(OwnedSites(ownerID)).
		Where("active = ?", true).
		Order("name ASC").
		Find(&sites).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	return sites, nil
}
