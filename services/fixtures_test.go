package services

import (
	"errors"
	"testing"
	"time"

	"apiary_app_go/db"
	"apiary_app_go/metrics"
	"apiary_app_go/models"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Use unique shared memory name to isolate tests
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.MigrateSchema(testDB))

	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	InvalidateTaskCache()
	return testDB
}

var beekeeperSeq int

func createBeekeeper(t *testing.T, testDB *gorm.DB, username string) *models.Beekeeper {
	t.Helper()
	beekeeperSeq++
	b := &models.Beekeeper{Username: username, Password: "x", BeekeeperNumber: 1000 + beekeeperSeq}
	require.NoError(t, testDB.Create(b).Error)
	return b
}

func createSite(t *testing.T, testDB *gorm.DB, ownerID uint, name string) *models.Site {
	t.Helper()
	site, err := CreateSite(testDB, ownerID, SiteInput{Name: name, Type: "stationary"})
	require.NoError(t, err)
	return site
}

func createHive(t *testing.T, testDB *gorm.DB, siteID, ownerID uint) *models.Hive {
	t.Helper()
	hive, err := CreateHive(testDB, siteID, ownerID, HiveInput{Type: "langstroth"})
	require.NoError(t, err)
	return hive
}

func createMother(t *testing.T, testDB *gorm.DB, hiveID, ownerID uint, mark string, ancestorID *uint) *models.Mother {
	t.Helper()
	mother, err := CreateMother(testDB, hiveID, ownerID, MotherInput{Mark: mark, Year: 2023, AncestorID: ancestorID})
	require.NoError(t, err)
	return mother
}

// insertVisit writes a visit row directly so tests control every field
func insertVisit(t *testing.T, testDB *gorm.DB, hiveID uint, date string, mutate func(v *models.Visit)) *models.Visit {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)

	v := &models.Visit{HiveID: &hiveID, Date: d, InspectionType: "routine", Active: true}
	if mutate != nil {
		mutate(v)
	}
	require.NoError(t, testDB.Create(v).Error)
	return v
}

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

func stringPtr(s string) *string { return &s }

func uintPtr(u uint) *uint { return &u }

func reload[T any](t *testing.T, testDB *gorm.DB, id uint) T {
	t.Helper()
	var row T
	require.NoError(t, testDB.First(&row, id).Error)
	return row
}

var errWriteFailed = errors.New("write failed")

// failUpdates makes UPDATE statements on table fail with err once skip of them went through
func failUpdates(t *testing.T, testDB *gorm.DB, table string, skip int, err error) {
	t.Helper()
	seen := 0
	require.NoError(t, testDB.Callback().Update().Before("gorm:update").Register("test:fail_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table != table {
			return
		}
		seen++
		if seen > skip {
			tx.AddError(err)
		}
	}))
}

// useTestMetrics installs a fresh collector for the duration of the test
func useTestMetrics(t *testing.T) *metrics.ApiaryMetrics {
	t.Helper()
	m, err := metrics.NewApiaryMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	previous := Metrics
	Metrics = m
	t.Cleanup(func() { Metrics = previous })
	return m
}

// counterValue sums the counter series registered under name
func counterValue(t *testing.T, m *metrics.ApiaryMetrics, name string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)

	total := 0.0
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}
