package services

import (
	"fmt"
	"log"

	"apiary_app_go/models"

	"gorm.io/gorm"
)

// DefaultNumberingAttempts bounds the allocate-and-write retry loop
const DefaultNumberingAttempts = 5

// NumberingAttempts is overridden from configuration at startup
var NumberingAttempts = DefaultNumberingAttempts

// NextHiveNumber returns the smallest positive number not used by an active hive in the site.
// Numbers of deactivated hives are free for reuse.
func NextHiveNumber(db *gorm.DB, siteID uint) (int, error) {
	var used []int
	err := db.Model(&models.Hive{}).
		Where("site_id = ? AND active = ?", siteID, true).
		Pluck("number", &used).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load hive numbers: %w", err)
	}

	taken := make(map[int]struct{}, len(used))
	for _, n := range used {
		taken[n] = struct{}{}
	}

	number := 1
	for {
		if _, ok := taken[number]; !ok {
			return number, nil
		}
		number++
	}
}

// allocateHiveNumber scans for a free number in siteID and hands it to write.
// The scan is only a hint: a concurrent writer may claim the same number first, in
// which case the active (site_id, number) index rejects the write and we scan again.
// Each attempt runs in a nested transaction (a savepoint) so a rejected write does
// not poison the enclosing transaction.
func allocateHiveNumber(tx *gorm.DB, siteID uint, write func(tx *gorm.DB, number int) error) (int, error) {
	attempts := NumberingAttempts
	if attempts <= 0 {
		attempts = DefaultNumberingAttempts
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		number, err := NextHiveNumber(tx, siteID)
		if err != nil {
			return 0, err
		}

		err = tx.Transaction(func(inner *gorm.DB) error {
			return write(inner, number)
		})
		if err == nil {
			return number, nil
		}
		if !isUniqueViolation(err) {
			return 0, err
		}

		Metrics.NumberingRetry()
		log.Printf("[NUMBERING] Hive number %d in site %d taken concurrently (attempt %d/%d)", number, siteID, attempt, attempts)
	}

	return 0, ErrNumberingExhausted
}
