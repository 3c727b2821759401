// Package database opens the metadata database and applies its migrations
package database

import (
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/railsuser2014/WebVella-ERP/internal/config"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PostgresDSN builds a libpq keyword/value connection string
func PostgresDSN(c config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// MySQLDSN builds a go-sql-driver connection string. Migrations need
// multiStatements and the timestamp columns need parseTime.
func MySQLDSN(c config.DatabaseConfig) string {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Host, c.Port)
	mc.DBName = c.Name
	mc.ParseTime = true
	mc.MultiStatements = true
	mc.Loc = time.UTC
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

// Open connects to the configured database. Development mode turns on gorm's SQL log.
func Open(c config.DatabaseConfig, development bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch c.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(PostgresDSN(c))
	case config.DriverMySQL:
		dialector = gormmysql.Open(MySQLDSN(c))
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, c.Driver)
	}

	level := logger.Silent
	if development {
		level = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(level)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s at %s:%s: %w", c.Driver, c.Host, c.Port, err)
	}
	slog.Debug("database connected", "driver", c.Driver, "host", c.Host, "name", c.Name)
	return db, nil
}
