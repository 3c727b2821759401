package engine

import (
	"github.com/google/uuid"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
)

const (
	defaultIconName       = "database"
	defaultDateTimeFormat = "MM/dd/YYYY"
	defaultPageSize       = 10
)

// systemFields returns the fields every new entity starts with
func systemFields() models.FieldList {
	auditDate := func(name, label string) *models.DateTimeField {
		return &models.DateTimeField{
			FieldCommon: models.FieldCommon{
				ID:     uuid.New(),
				Name:   name,
				Label:  label,
				System: true,
			},
			Format:                       defaultDateTimeFormat,
			UseCurrentTimeAsDefaultValue: models.Ptr(true),
		}
	}
	auditUser := func(name, label string) *models.GuidField {
		return &models.GuidField{
			FieldCommon: models.FieldCommon{
				ID:     uuid.New(),
				Name:   name,
				Label:  label,
				System: true,
			},
			GenerateNewID: models.Ptr(false),
		}
	}

	return models.FieldList{
		&models.GuidField{
			FieldCommon: models.FieldCommon{
				ID:       uuid.New(),
				Name:     "id",
				Label:    "Id",
				Required: true,
				Unique:   true,
				System:   true,
			},
			DefaultValue:  models.Ptr(uuid.Nil),
			GenerateNewID: models.Ptr(true),
		},
		auditUser("created_by", "Created By"),
		auditUser("last_modified_by", "Last Modified By"),
		auditDate("created_on", "Created On"),
		auditDate("last_modified_on", "Last Modified On"),
	}
}
