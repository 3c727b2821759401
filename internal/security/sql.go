// Package security provides SQL identifier safety checks for the record storage
package security

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lib/pq"
)

// ValidIdentifierRegex matches identifiers safe for both PostgreSQL and MySQL.
// Only allows lowercase letters, digits, and underscores, starting with a letter or underscore
var ValidIdentifierRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// MaxIdentifierLength is the PostgreSQL limit, the lower of the supported dialects
const MaxIdentifierLength = 63

// ValidateIdentifier checks if a string is a valid SQL identifier
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("identifier cannot be empty")
	}
	if len(name) > MaxIdentifierLength {
		return fmt.Errorf("identifier too long (max %d characters)", MaxIdentifierLength)
	}
	if !ValidIdentifierRegex.MatchString(name) {
		return fmt.Errorf("invalid identifier: must contain only lowercase letters, numbers, and underscores, starting with a letter or underscore")
	}
	return nil
}

// QuoteIdentifier quotes an identifier for the given gorm dialect name.
// This should only be used AFTER validation
func QuoteIdentifier(dialect, name string) string {
	if dialect == "mysql" {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	return pq.QuoteIdentifier(name)
}

// SafeIdentifier validates and quotes an identifier for use in SQL
func SafeIdentifier(dialect, name string) (string, error) {
	if err := ValidateIdentifier(name); err != nil {
		return "", err
	}
	return QuoteIdentifier(dialect, name), nil
}
