package services

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"log"
	"slices"
	"strings"

	"apiary_app_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// XLSXContentType is the MIME type of exported workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// exportBatchSize is the number of visits loaded per query
const exportBatchSize = 500

var journalHeaders = []string{
	"Hive", "Date", "Inspection", "Condition", "Hive body", "Honey supers",
	"Honey yield (kg)", "Medication", "Disease", "Mite drop", "Tasks", "Comment",
}

// ArchiveResult describes a stored visit journal
type ArchiveResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ExportSiteVisits renders the active visits of an active owned site as a workbook.
// The first sheet lists visits (oldest first per hive); the second the hive overview.
func ExportSiteVisits(db *gorm.DB, siteID, ownerID uint) (*bytes.Buffer, error) {
	detail, err := GetSiteDetail(db, siteID, ownerID)
	if err != nil {
		return nil, err
	}

	hiveIDs := make([]uint, 0, len(detail.Hives))
	numbers := make(map[uint]int, len(detail.Hives))
	for _, h := range detail.Hives {
		hiveIDs = append(hiveIDs, h.Hive.ID)
		numbers[h.Hive.ID] = h.Hive.Number
	}

	visits := []models.Visit{}
	if len(hiveIDs) > 0 {
		// Batches keep the task preload's id list within the driver's variable limit
		var batch []models.Visit
		err = db.Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("tasks.name ASC") }).
			Where("hive_id IN ? AND active = ?", hiveIDs, true).
			FindInBatches(&batch, exportBatchSize, func(tx *gorm.DB, _ int) error {
				visits = append(visits, batch...)
				return nil
			}).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load visits: %w", err)
		}
		slices.SortStableFunc(visits, func(a, b models.Visit) int {
			if c := a.Date.Compare(b.Date); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		})
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetVisits := "Visits"
	f.SetSheetName("Sheet1", sheetVisits)
	for i, header := range journalHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetVisits, cell, header)
	}

	for i, v := range visits {
		row := i + 2
		values := []interface{}{
			numbers[*v.HiveID],
			FormatJournalDate(v.Date),
			v.InspectionType,
			optionalValue(v.Condition),
			v.HiveBodySize,
			v.HoneySupersSize,
			optionalValue(v.HoneyYield),
			optionalValue(v.MedicationApplication),
			optionalValue(v.Disease),
			optionalValue(v.MiteDrop),
			strings.Join(v.TaskNames(), ", "),
			optionalValue(v.Comment),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheetVisits, cell, value)
		}
	}

	sheetHives := "Hives"
	f.NewSheet(sheetHives)
	hiveHeaders := []string{"Hive", "Type", "Mother", "Last visit", "Honey yield", "Mite drop", "Disease"}
	for i, header := range hiveHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetHives, cell, header)
	}
	for i, h := range detail.Hives {
		row := i + 2
		f.SetCellValue(sheetHives, fmt.Sprintf("A%d", row), h.Hive.Number)
		f.SetCellValue(sheetHives, fmt.Sprintf("B%d", row), h.Hive.Type)
		if h.Mother != nil {
			f.SetCellValue(sheetHives, fmt.Sprintf("C%d", row), fmt.Sprintf("%s (%d)", h.Mother.Mark, h.Mother.Year))
		}
		if h.LastVisit != nil {
			f.SetCellValue(sheetHives, fmt.Sprintf("D%d", row), FormatJournalDate(*h.LastVisit))
		}
		if h.HoneyYield != nil {
			f.SetCellValue(sheetHives, fmt.Sprintf("E%d", row), h.HoneyYield.Value)
		}
		if h.MiteDrop != nil {
			f.SetCellValue(sheetHives, fmt.Sprintf("F%d", row), h.MiteDrop.Value)
		}
		if h.Disease != nil {
			f.SetCellValue(sheetHives, fmt.Sprintf("G%d", row), h.Disease.Value)
		}
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	lastVisitCol, _ := excelize.CoordinatesToCellName(len(journalHeaders), 1)
	f.SetCellStyle(sheetVisits, "A1", lastVisitCol, headerStyle)
	f.SetCellStyle(sheetHives, "A1", "G1", headerStyle)
	f.SetColWidth(sheetVisits, "B", "L", 16)
	f.SetColWidth(sheetHives, "B", "G", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel buffer: %w", err)
	}

	log.Printf("[EXPORT] Site %d journal exported (%d visits)", siteID, len(visits))
	return buf, nil
}

// ArchiveSiteVisits exports the visit journal and stores it through the storage provider
func ArchiveSiteVisits(ctx context.Context, db *gorm.DB, store StorageProvider, siteID, ownerID uint) (*ArchiveResult, error) {
	if store == nil {
		return nil, fmt.Errorf("storage not configured")
	}

	buf, err := ExportSiteVisits(db, siteID, ownerID)
	if err != nil {
		return nil, err
	}

	key := GenerateSiteArchiveKey(ownerID, siteID)
	size := int64(buf.Len())
	result, err := store.UploadReader(ctx, buf, key, XLSXContentType, size)
	if err != nil {
		return nil, err
	}

	log.Printf("[EXPORT] Site %d journal archived as %s", siteID, result.Key)
	return &ArchiveResult{Key: result.Key, URL: result.URL}, nil
}

// optionalValue unwraps a nullable field for a spreadsheet cell; nil stays an empty cell
func optionalValue[T any](v *T) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// siteArchiveKey checks that key names an archive of siteID owned by ownerID
func siteArchiveKey(db *gorm.DB, siteID, ownerID uint, key string) (string, error) {
	site, err := GetSite(db, siteID, ownerID)
	if err != nil {
		return "", err
	}

	prefix := fmt.Sprintf("beekeepers/%d/sites/%d/", ownerID, site.ID)
	if !strings.HasPrefix(key, prefix) || strings.Contains(key, "..") || !strings.HasSuffix(key, ".xlsx") {
		return "", notFound("archive not available")
	}
	return key, nil
}

// OpenSiteArchive returns a stored visit journal of an active owned site
func OpenSiteArchive(ctx context.Context, db *gorm.DB, store StorageProvider, siteID, ownerID uint, key string) (io.ReadCloser, string, error) {
	if store == nil {
		return nil, "", fmt.Errorf("storage not configured")
	}
	key, err := siteArchiveKey(db, siteID, ownerID, key)
	if err != nil {
		return nil, "", err
	}

	reader, contentType, err := store.Get(ctx, key)
	if err != nil {
		log.Printf("[EXPORT] Archive %s of site %d could not be opened: %v", key, siteID, err)
		return nil, "", notFound("archive not available")
	}
	return reader, contentType, nil
}

// DeleteSiteArchive removes a stored visit journal of an active owned site
func DeleteSiteArchive(ctx context.Context, db *gorm.DB, store StorageProvider, siteID, ownerID uint, key string) error {
	if store == nil {
		return fmt.Errorf("storage not configured")
	}
	key, err := siteArchiveKey(db, siteID, ownerID, key)
	if err != nil {
		return err
	}

	if err := store.Delete(ctx, key); err != nil {
		return err
	}
	log.Printf("[EXPORT] Archive %s of site %d deleted", key, siteID)
	return nil
}
