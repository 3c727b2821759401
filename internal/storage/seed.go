package storage

import (
	"fmt"
	"time"

	"github.com/railsuser2014/WebVella-ERP/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// SeedValue returns the value existing records receive when the field's column is added.
// A nil result leaves the column NULL.
func SeedValue(field models.Field, now time.Time) (any, error) {
	switch f := field.(type) {
	case *models.DateField:
		if f.UseCurrentTimeAsDefaultValue != nil && *f.UseCurrentTimeAsDefaultValue {
			y, m, d := now.UTC().Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	case *models.DateTimeField:
		if f.UseCurrentTimeAsDefaultValue != nil && *f.UseCurrentTimeAsDefaultValue {
			return now.UTC(), nil
		}
	case *models.PasswordField:
		if f.DefaultValue == nil || *f.DefaultValue == "" {
			return nil, nil
		}
		if f.Encrypted == nil || *f.Encrypted {
			hash, err := bcrypt.GenerateFromPassword([]byte(*f.DefaultValue), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("failed to hash default password: %w", err)
			}
			return string(hash), nil
		}
		return *f.DefaultValue, nil
	case *models.GuidField:
		if f.DefaultValue == nil {
			return nil, nil
		}
		return f.DefaultValue.String(), nil
	case *models.AutoNumberField:
		// numbered by the column itself
		return nil, nil
	}
	return models.DefaultValue(field), nil
}
