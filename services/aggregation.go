package services

import (
	"fmt"
	"time"

	"apiary_app_go/models"

	"gorm.io/gorm"
)

// Aggregates only consider active sites, hives, mothers and visits of the owner.
// "Latest" always means the highest (date, id) pair.

// LatestValue is the most recent non-empty value of a visit field and its date
type LatestValue[T any] struct {
	Value T         `json:"value"`
	Date  time.Time `json:"date"`
}

// DashboardSummary is the owner-wide overview
type DashboardSummary struct {
	ActiveSites int64         `json:"active_sites"`
	ActiveHives int64         `json:"active_hives"`
	Sites       []SiteSummary `json:"sites"`
}

// SiteSummary holds the per-site dashboard figures
type SiteSummary struct {
	SiteID         uint                 `json:"site_id"`
	Name           string               `json:"name"`
	HiveCount      int64                `json:"hive_count"`
	MotherCount    int64                `json:"mother_count"`
	AvgHoneyYield  *float64             `json:"avg_honey_yield"`
	AvgCondition   *float64             `json:"avg_condition"`
	LastVisit      *time.Time           `json:"last_visit"`
	MiteDrop       *float64             `json:"mite_drop"` // average of each hive's latest mite drop
	LastTasks      []string             `json:"last_tasks"`
	LastMedication *LatestValue[string] `json:"last_medication"`
}

// SiteDetail is the per-hive view of one site
type SiteDetail struct {
	Site      models.Site  `json:"site"`
	HiveCount int          `json:"hive_count"`
	Hives     []HiveDetail `json:"hives"`
}

// HiveState is the box configuration and condition recorded at the latest visit
type HiveState struct {
	HiveBodySize    int  `json:"hive_body_size"`
	HoneySupersSize int  `json:"honey_supers_size"`
	Condition       *int `json:"condition"`
}

// MotherSummary identifies the current mother of a hive
type MotherSummary struct {
	ID   uint   `json:"id"`
	Mark string `json:"mark"`
	Year int    `json:"year"`
}

// HiveDetail holds the latest observations of a hive. Each field is resolved
// independently, so values may come from different visits.
type HiveDetail struct {
	Hive       models.Hive           `json:"hive"`
	LastVisit  *time.Time            `json:"last_visit"`
	State      *HiveState            `json:"state"`
	Mother     *MotherSummary        `json:"mother"`
	HoneyYield *LatestValue[float64] `json:"honey_yield"`
	MiteDrop   *LatestValue[int]     `json:"mite_drop"`
	Medication *LatestValue[string]  `json:"medication"`
	Disease    *LatestValue[string]  `json:"disease"`
	Comment    *LatestValue[string]  `json:"comment"`
}

// visitFact is the slice of a visit row the dashboard needs
type visitFact struct {
	ID                    uint
	HiveID                uint
	HiveNumber            int
	SiteName              string
	Date                  time.Time
	MiteDrop              *int
	MedicationApplication *string
}

type siteAverages struct {
	Name          string
	AvgHoneyYield *float64
	AvgCondition  *float64
}

type siteCount struct {
	Name  string
	Total int64
}

// activeVisits joins visits up to their site and keeps only active rows of the owner
func activeVisits(ownerID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Scopes(OwnedVisits(ownerID)).
			Where("sites.active = ? AND hives.active = ? AND visits.active = ?", true, true, true)
	}
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}

// GetDashboard computes the owner-wide overview, grouped by site name
func GetDashboard(db *gorm.DB, ownerID uint) (*DashboardSummary, error) {
	sites, err := ListSites(db, ownerID)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{ActiveSites: int64(len(sites)), Sites: make([]SiteSummary, 0, len(sites))}
	if len(sites) == 0 {
		return summary, nil
	}

	var averages []siteAverages
	err = db.Model(&models.Visit{}).
		Select("sites.name AS name, AVG(visits.honey_yield) AS avg_honey_yield, AVG(visits.condition_score) AS avg_condition").
		Scopes(activeVisits(ownerID)).
		Group("sites.name").
		Scan(&averages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate visit averages: %w", err)
	}

	var hiveCounts []siteCount
	err = db.Model(&models.Hive{}).
		Select("sites.name AS name, COUNT(hives.id) AS total").
		Scopes(OwnedHives(ownerID)).
		Where("sites.active = ? AND hives.active = ?", true, true).
		Group("sites.name").
		Scan(&hiveCounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count hives: %w", err)
	}

	var motherCounts []siteCount
	err = db.Model(&models.Mother{}).
		Select("sites.name AS name, COUNT(mothers.id) AS total").
		Scopes(OwnedMothers(ownerID)).
		Where("sites.active = ? AND hives.active = ? AND mothers.active = ?", true, true, true).
		Group("sites.name").
		Scan(&motherCounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count mothers: %w", err)
	}

	var facts []visitFact
	err = db.Model(&models.Visit{}).
		Select("visits.id, visits.hive_id, hives.number AS hive_number, sites.name AS site_name, " +
			"visits.date, visits.mite_drop, visits.medication_application").
		Scopes(activeVisits(ownerID)).
		Order("visits.date DESC, visits.id DESC").
		Scan(&facts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load visits: %w", err)
	}

	lastTasks, err := lastTasksBySite(db, ownerID)
	if err != nil {
		return nil, err
	}

	avgByName := make(map[string]siteAverages, len(averages))
	for _, a := range averages {
		avgByName[a.Name] = a
	}
	hivesByName := make(map[string]int64, len(hiveCounts))
	for _, c := range hiveCounts {
		hivesByName[c.Name] = c.Total
		summary.ActiveHives += c.Total
	}
	mothersByName := make(map[string]int64, len(motherCounts))
	for _, c := range motherCounts {
		mothersByName[c.Name] = c.Total
	}

	lastVisit := map[string]time.Time{}
	lastMedication := map[string]*LatestValue[string]{}
	hiveMite := map[uint]int{}
	hiveSite := map[uint]string{}
	for _, f := range facts {
		if _, ok := lastVisit[f.SiteName]; !ok {
			lastVisit[f.SiteName] = f.Date
		}
		if _, ok := lastMedication[f.SiteName]; !ok && nonEmpty(f.MedicationApplication) {
			lastMedication[f.SiteName] = &LatestValue[string]{Value: *f.MedicationApplication, Date: f.Date}
		}
		if _, ok := hiveMite[f.HiveID]; !ok && f.MiteDrop != nil {
			hiveMite[f.HiveID] = *f.MiteDrop
			hiveSite[f.HiveID] = f.SiteName
		}
	}

	// Second stage: average the per-hive latest values within each site
	miteSum := map[string]int{}
	miteHives := map[string]int{}
	for hiveID, value := range hiveMite {
		name := hiveSite[hiveID]
		miteSum[name] += value
		miteHives[name]++
	}

	for _, site := range sites {
		s := SiteSummary{
			SiteID:         site.ID,
			Name:           site.Name,
			HiveCount:      hivesByName[site.Name],
			MotherCount:    mothersByName[site.Name],
			LastTasks:      lastTasks[site.Name],
			LastMedication: lastMedication[site.Name],
		}
		if s.LastTasks == nil {
			s.LastTasks = []string{}
		}
		if a, ok := avgByName[site.Name]; ok {
			s.AvgHoneyYield = a.AvgHoneyYield
			s.AvgCondition = a.AvgCondition
		}
		if d, ok := lastVisit[site.Name]; ok {
			s.LastVisit = &d
		}
		if n := miteHives[site.Name]; n > 0 {
			avg := float64(miteSum[site.Name]) / float64(n)
			s.MiteDrop = &avg
		}
		summary.Sites = append(summary.Sites, s)
	}

	return summary, nil
}

// lastTasksBySite picks, per site, the latest active visit that recorded tasks and
// returns its distinct task names. Ties on date go to the lowest hive number.
func lastTasksBySite(db *gorm.DB, ownerID uint) (map[string][]string, error) {
	result := map[string][]string{}

	var candidates []visitFact
	err := db.Model(&models.Visit{}).
		Select("visits.id, visits.hive_id, hives.number AS hive_number, sites.name AS site_name, visits.date").
		Scopes(activeVisits(ownerID)).
		Where("EXISTS (SELECT 1 FROM visit_tasks WHERE visit_tasks.visit_id = visits.id)").
		Order("visits.date DESC, hives.number ASC, visits.id DESC").
		Scan(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load visit tasks: %w", err)
	}

	chosen := map[uint]string{}
	picked := map[string]bool{}
	for _, c := range candidates {
		if picked[c.SiteName] {
			continue
		}
		picked[c.SiteName] = true
		chosen[c.ID] = c.SiteName
	}
	if len(chosen) == 0 {
		return result, nil
	}

	// At most one visit per site
	visitIDs := make([]uint, 0, len(chosen))
	for id := range chosen {
		visitIDs = append(visitIDs, id)
	}

	var rows []struct {
		VisitID uint
		Name    string
	}
	err = db.Table("tasks").
		Select("visit_tasks.visit_id AS visit_id, tasks.name AS name").
		Joins("JOIN visit_tasks ON visit_tasks.task_id = tasks.id").
		Where("visit_tasks.visit_id IN ?", visitIDs).
		Order("tasks.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load task names: %w", err)
	}

	seen := map[string]map[string]bool{}
	for _, r := range rows {
		site := chosen[r.VisitID]
		if seen[site] == nil {
			seen[site] = map[string]bool{}
		}
		if seen[site][r.Name] {
			continue
		}
		seen[site][r.Name] = true
		result[site] = append(result[site], r.Name)
	}
	return result, nil
}

// GetSiteDetail resolves the latest observations of every active hive in an active owned site
func GetSiteDetail(db *gorm.DB, siteID, ownerID uint) (*SiteDetail, error) {
	site, err := findOwnedSite(db, siteID, ownerID, true)
	if err != nil {
		return nil, err
	}

	hives := []models.Hive{}
	if err := db.Where("site_id = ? AND active = ?", site.ID, true).Order("number ASC").Find(&hives).Error; err != nil {
		return nil, fmt.Errorf("failed to load hives: %w", err)
	}

	detail := &SiteDetail{Site: *site, HiveCount: len(hives), Hives: make([]HiveDetail, 0, len(hives))}
	if len(hives) == 0 {
		return detail, nil
	}

	hiveIDs := make([]uint, 0, len(hives))
	for _, h := range hives {
		hiveIDs = append(hiveIDs, h.ID)
	}

	var mothers []models.Mother
	err = db.Where("hive_id IN ? AND active = ?", hiveIDs, true).Order("id ASC").Find(&mothers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load mothers: %w", err)
	}
	motherByHive := map[uint]*MotherSummary{}
	for _, m := range mothers {
		if _, ok := motherByHive[*m.HiveID]; !ok {
			motherByHive[*m.HiveID] = &MotherSummary{ID: m.ID, Mark: m.Mark, Year: m.Year}
		}
	}

	var visits []models.Visit
	err = db.Where("hive_id IN ? AND active = ?", hiveIDs, true).
		Order("date DESC, id DESC").
		Find(&visits).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load visits: %w", err)
	}

	byHive := make(map[uint]*HiveDetail, len(hives))
	for _, h := range hives {
		byHive[h.ID] = &HiveDetail{Hive: h, Mother: motherByHive[h.ID]}
	}

	for _, v := range visits {
		d := byHive[*v.HiveID]
		if d.LastVisit == nil {
			date := v.Date
			d.LastVisit = &date
			d.State = &HiveState{HiveBodySize: v.HiveBodySize, HoneySupersSize: v.HoneySupersSize, Condition: v.Condition}
		}
		if d.HoneyYield == nil && v.HoneyYield != nil {
			d.HoneyYield = &LatestValue[float64]{Value: *v.HoneyYield, Date: v.Date}
		}
		if d.MiteDrop == nil && v.MiteDrop != nil {
			d.MiteDrop = &LatestValue[int]{Value: *v.MiteDrop, Date: v.Date}
		}
		if d.Medication == nil && nonEmpty(v.MedicationApplication) {
			d.Medication = &LatestValue[string]{Value: *v.MedicationApplication, Date: v.Date}
		}
		if d.Disease == nil && nonEmpty(v.Disease) {
			d.Disease = &LatestValue[string]{Value: *v.Disease, Date: v.Date}
		}
		if d.Comment == nil && nonEmpty(v.Comment) {
			d.Comment = &LatestValue[string]{Value: *v.Comment, Date: v.Date}
		}
	}

	for _, h := range hives {
		detail.Hives = append(detail.Hives, *byHive[h.ID])
	}
	return detail, nil
}
