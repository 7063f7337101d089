package db

import (
	"fmt"
	"log"

	"apiary_app_go/config"
	"apiary_app_go/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// activeUniqueIndexes are the uniqueness rules that only apply to active rows
var activeUniqueIndexes = []struct {
	name    string
	table   string
	columns string
}{
	{"idx_sites_active_beekeeper_name", "sites", "beekeeper_id, name"},
	{"idx_hives_active_site_number", "hives", "site_id, number"},
}

// Initialize opens the store selected by cfg.DBType (sqlite, postgres or mysql)
func Initialize(cfg *config.Config) error {
	logLevel := logger.Info
	if cfg.Environment == "production" {
		logLevel = logger.Warn
	}

	dialector, err := openDialector(cfg)
	if err != nil {
		return err
	}

	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Printf("Database connection established (%s)", cfg.DBType)
	return nil
}

func openDialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBType {
	case "", "sqlite":
		// WAL for concurrent readers, foreign keys for the SET NULL rules on hive and ancestor links
		return sqlite.Open(cfg.DBPath + "?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000"), nil
	case "postgres", "postgresql":
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DATABASE_DSN is required for %s", cfg.DBType)
		}
		return postgres.Open(cfg.DBDSN), nil
	case "mysql", "mariadb":
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DATABASE_DSN is required for %s", cfg.DBType)
		}
		return mysql.Open(cfg.DBDSN), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DBType)
	}
}

// AutoMigrate runs database migrations on the global connection
func AutoMigrate() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	if err := MigrateSchema(DB); err != nil {
		return err
	}

	log.Println("Database migrations completed")
	return nil
}

// MigrateSchema creates all tables of the apiary schema plus the partial unique indexes
func MigrateSchema(database *gorm.DB) error {
	err := database.AutoMigrate(
		&models.Beekeeper{},
		&models.Session{},
		&models.Site{},
		&models.Hive{},
		&models.Mother{},
		&models.Task{},
		&models.Visit{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return EnsureActiveUniqueIndexes(database)
}

// EnsureActiveUniqueIndexes creates unique indexes restricted to rows with active = true.
// MySQL has no partial indexes; there the service-level checks are the only guard.
func EnsureActiveUniqueIndexes(database *gorm.DB) error {
	dialect := database.Dialector.Name()
	if dialect == "mysql" {
		log.Println("[WARNING] Partial unique indexes are not supported on mysql, relying on service checks")
		return nil
	}

	for _, idx := range activeUniqueIndexes {
		stmt := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (%s) WHERE active", idx.name, idx.table, idx.columns)
		if err := database.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}
	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}
