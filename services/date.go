package services

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts lists the accepted visit date formats, ISO first
var dateLayouts = []string{
	"2006-01-02", // HTML5 date inputs
	"2.1.2006",   // journal style used in exported workbooks
}

// ParseDate parses a calendar date in one of the accepted layouts
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, dateStr); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format: expected YYYY-MM-DD")
}

// FormatJournalDate renders a date the way the visit journal shows it
func FormatJournalDate(t time.Time) string {
	return t.Format("2.1.2006")
}
