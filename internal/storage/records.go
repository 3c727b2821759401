package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
	"github.com/railsuser2014/WebVella-ERP/internal/security"
	"gorm.io/gorm"
)

// RecordTablePrefix is prepended to the entity name to form its record table
const RecordTablePrefix = "rec_"

type gormRecords struct {
	db      *gorm.DB
	dialect string
	now     func() time.Time
	journal *ddlJournal
}

// =============================================================================
// DYNAMIC TABLE MANAGEMENT
// =============================================================================

func (r *gormRecords) CreateRecordCollection(ctx context.Context, entityName string, fields []models.Field) error {
	tableName, err := r.safeTableName(entityName)
	if err != nil {
		return err
	}

	columns := make([]string, 0, len(fields))
	for _, field := range fields {
		colDef, err := r.buildColumnDefinition(field)
		if err != nil {
			return fmt.Errorf("failed to build column definition for %s: %w", field.Common().Name, err)
		}
		columns = append(columns, colDef)
	}

	sql := fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", tableName, strings.Join(columns, ",\n  "))
	if err := r.db.WithContext(ctx).Exec(sql).Error; err != nil {
		return fmt.Errorf("failed to create table %s: %w", tableName, err)
	}
	if r.journal != nil {
		r.journal.record("DROP TABLE IF EXISTS "+tableName, "")
	}
	return nil
}

func (r *gormRecords) DeleteRecordCollection(ctx context.Context, entityName string) error {
	tableName, err := r.safeTableName(entityName)
	if err != nil {
		return err
	}
	if r.journal != nil {
		return r.setAsideTable(ctx, entityName, tableName)
	}
	if err := r.db.WithContext(ctx).Exec("DROP TABLE IF EXISTS " + tableName).Error; err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}

// setAsideTable renames the table instead of dropping it, so a rollback can
// bring it back
func (r *gormRecords) setAsideTable(ctx context.Context, entityName, tableName string) error {
	if !r.db.WithContext(ctx).Migrator().HasTable(RecordTablePrefix + entityName) {
		return nil
	}
	aside := security.QuoteIdentifier(r.dialect, setAsideName())
	if err := r.db.WithContext(ctx).Exec(fmt.Sprintf("RENAME TABLE %s TO %s", tableName, aside)).Error; err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	r.journal.record(
		fmt.Sprintf("RENAME TABLE %s TO %s", aside, tableName),
		"DROP TABLE IF EXISTS "+aside,
	)
	return nil
}

// CreateRecordField adds the column and seeds existing records with the field's default
func (r *gormRecords) CreateRecordField(ctx context.Context, entityName string, field models.Field) error {
	tableName, err := r.safeTableName(entityName)
	if err != nil {
		return err
	}
	colDef, err := r.buildColumnDefinition(field)
	if err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	if err := db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", tableName, colDef)).Error; err != nil {
		return fmt.Errorf("failed to add column: %w", err)
	}
	columnName := security.QuoteIdentifier(r.dialect, field.Common().Name)
	if r.journal != nil {
		r.journal.record(fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", tableName, columnName), "")
	}

	seed, err := SeedValue(field, r.now())
	if err != nil {
		return err
	}
	if seed == nil {
		return nil
	}
	if values, ok := seed.([]string); ok {
		seed, err = r.arrayValue(values)
		if err != nil {
			return err
		}
	}

	if err := db.Exec(fmt.Sprintf("UPDATE %s SET %s = ?", tableName, columnName), seed).Error; err != nil {
		return fmt.Errorf("failed to seed column: %w", err)
	}
	return nil
}

func (r *gormRecords) RemoveRecordField(ctx context.Context, entityName, fieldName string) error {
	tableName, err := r.safeTableName(entityName)
	if err != nil {
		return err
	}
	columnName, err := security.SafeIdentifier(r.dialect, fieldName)
	if err != nil {
		return fmt.Errorf("invalid column name '%s': %w", fieldName, err)
	}

	if r.journal != nil {
		aside := security.QuoteIdentifier(r.dialect, setAsideName())
		if err := r.db.WithContext(ctx).Exec(fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s", tableName, columnName, aside)).Error; err != nil {
			return fmt.Errorf("failed to remove column: %w", err)
		}
		r.journal.record(
			fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s", tableName, aside, columnName),
			fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", tableName, aside),
		)
		return nil
	}

	sql := fmt.Sprintf("ALTER TABLE %s DROP COLUMN IF EXISTS %s", tableName, columnName)
	if r.dialect == "mysql" {
		sql = fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", tableName, columnName)
	}
	if err := r.db.WithContext(ctx).Exec(sql).Error; err != nil {
		return fmt.Errorf("failed to remove column: %w", err)
	}
	return nil
}

// =============================================================================
// HELPER METHODS
// =============================================================================

func (r *gormRecords) safeTableName(entityName string) (string, error) {
	tableName := RecordTablePrefix + entityName
	quoted, err := security.SafeIdentifier(r.dialect, tableName)
	if err != nil {
		return "", fmt.Errorf("invalid table name '%s': %w", tableName, err)
	}
	return quoted, nil
}

// arrayValue encodes multi-select values: a native array on PostgreSQL, JSON elsewhere
func (r *gormRecords) arrayValue(values []string) (any, error) {
	if r.dialect == "postgres" {
		return pq.Array(values), nil
	}
	b, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (r *gormRecords) buildColumnDefinition(field models.Field) (string, error) {
	c := field.Common()
	quotedColumnName, err := security.SafeIdentifier(r.dialect, c.Name)
	if err != nil {
		return "", fmt.Errorf("invalid column name: %w", err)
	}

	def := fmt.Sprintf("%s %s", quotedColumnName, ColumnType(r.dialect, field))

	if g, ok := field.(*models.GuidField); ok && g.Unique && c.Name == "id" {
		def += " PRIMARY KEY"
	} else if c.Unique {
		def += " UNIQUE"
	}
	return def, nil
}

// ColumnType maps a field kind to the SQL type of its record column
func ColumnType(dialect string, field models.Field) string {
	mysql := dialect == "mysql"
	pick := func(pg, my string) string {
		if mysql {
			return my
		}
		return pg
	}

	switch f := field.(type) {
	case *models.AutoNumberField:
		return pick("SERIAL", "BIGINT")
	case *models.CheckboxField:
		return "BOOLEAN"
	case *models.CurrencyField:
		return pick("NUMERIC(18,2)", "DECIMAL(18,2)")
	case *models.DateField:
		return "DATE"
	case *models.DateTimeField:
		return pick("TIMESTAMPTZ", "DATETIME(6)")
	case *models.EmailField:
		return varchar(f.MaxLength, 255)
	case *models.FileField, *models.ImageField, *models.UrlField:
		return "VARCHAR(1000)"
	case *models.GuidField:
		return pick("UUID", "CHAR(36)")
	case *models.HtmlField, *models.MultiLineTextField:
		return "TEXT"
	case *models.MultiSelectField:
		return pick("TEXT[]", "JSON")
	case *models.NumberField:
		return numeric(mysql, f.DecimalPlaces)
	case *models.PercentField:
		return numeric(mysql, f.DecimalPlaces)
	case *models.PasswordField:
		return "VARCHAR(255)"
	case *models.PhoneField:
		return varchar(f.MaxLength, 100)
	case *models.SelectField:
		return "VARCHAR(255)"
	case *models.TextField:
		if f.MaxLength != nil && *f.MaxLength > 0 && *f.MaxLength <= 4000 {
			return fmt.Sprintf("VARCHAR(%d)", *f.MaxLength)
		}
		return "TEXT"
	}
	return "TEXT"
}

func varchar(maxLength *int, fallback int) string {
	n := fallback
	if maxLength != nil && *maxLength > 0 && *maxLength <= 4000 {
		n = *maxLength
	}
	return fmt.Sprintf("VARCHAR(%d)", n)
}

func numeric(mysql bool, decimalPlaces *int) string {
	scale := 2
	if decimalPlaces != nil && *decimalPlaces >= 0 && *decimalPlaces <= 10 {
		scale = *decimalPlaces
	}
	if mysql {
		return fmt.Sprintf("DECIMAL(28,%d)", scale)
	}
	return fmt.Sprintf("NUMERIC(28,%d)", scale)
}
