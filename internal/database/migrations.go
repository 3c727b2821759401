package database

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
)

//go:embed migrations/postgres/*.sql migrations/mysql/*.sql
var migrationsFS embed.FS

// MigrationRecord tracks which migrations have been applied
type MigrationRecord struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;size:255"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for migrations
func (MigrationRecord) TableName() string {
	return "_webvella_migrations"
}

// Migrations returns the ordered migration file names for a gorm dialect
func Migrations(dialect string) ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, path.Join("migrations", dialect))
	if err != nil {
		return nil, fmt.Errorf("no migrations for dialect %q: %w", dialect, err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// RunMigrations executes all pending SQL migrations for the connection's dialect
func RunMigrations(db *gorm.DB, logger *slog.Logger) error {
	dialect := db.Dialector.Name()
	files, err := Migrations(dialect)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, file := range files {
		var count int64
		if err := db.Model(&MigrationRecord{}).Where("name = ?", file).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration %s: %w", file, err)
		}
		if count > 0 {
			logger.Debug("migration already applied", "migration", file)
			continue
		}

		content, err := fs.ReadFile(migrationsFS, path.Join("migrations", dialect, file))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}

		logger.Info("applying migration", "migration", file, "dialect", dialect)
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(content)).Error; err != nil {
				return err
			}
			return tx.Create(&MigrationRecord{Name: file}).Error
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}
	return nil
}
