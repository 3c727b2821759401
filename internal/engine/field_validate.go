package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
	"github.com/railsuser2014/WebVella-ERP/internal/validation"
)

const maxVisibleLineNumber = 20

const (
	msgDefaultRequired   = "Default Value is required!"
	msgMinOverMax        = "Min Value must be less than Max Value!"
	msgOptionsRequired   = "Options is required!"
	msgOptionsEmpty      = "Options must contains at least one item!"
	msgFieldNotFound     = "Field with such Id does not exist!"
	msgTooManyPrimary    = "Too many primary fields. Must have only one unique identifier!"
	msgMissingPrimary    = "Must have one unique identifier field!"
	msgGenerateNewIDReq  = "Generate New Id is required when the field is marked as unique!"
	msgGuidDefaultNeeded = "Default Value is required when the field is marked as required and generate new id option is not selected!"
)

// validateField checks a field against the entity it belongs to and returns a
// normalized copy. existing says whether the field is expected to exist already.
func validateField(entity *models.Entity, input models.Field, existing bool) (models.Field, models.Errors, error) {
	var errs models.Errors
	if input == nil {
		errs.Add("field", "", "Field is required!")
		return nil, errs, nil
	}
	field, err := models.CloneField(input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to copy field: %w", err)
	}
	c := field.Common()
	c.Name = strings.TrimSpace(c.Name)
	c.Label = strings.TrimSpace(c.Label)

	if c.ID == uuid.Nil {
		errs.Add("id", "", "Id is required!")
	} else {
		found := entity.FieldByID(c.ID)
		switch {
		case existing && found == nil:
			errs.Add("id", c.ID.String(), msgFieldNotFound)
		case !existing && found != nil:
			errs.Add("id", c.ID.String(), "There is already a field with such Id!")
		}
	}

	nameErrs := validation.ValidateName(c.Name, "name")
	errs.Append(nameErrs...)
	if len(nameErrs) == 0 {
		if other := entity.FieldByName(c.Name); other != nil && other.Common().ID != c.ID {
			errs.Add("name", c.Name, "There is already a field with such Name!")
		}
	}
	errs.Append(validation.ValidateLabel(c.Label, "label")...)

	validateFieldKind(field, &errs)
	return field, errs, nil
}

// validateFieldKind applies the rules and defaults of each field kind
func validateFieldKind(field models.Field, errs *models.Errors) {
	c := field.Common()
	requireDefault := func(missing bool) {
		if c.Required && missing {
			errs.Add("defaultValue", "", msgDefaultRequired)
		}
	}
	checkRange := func(lo, hi *float64) {
		if lo != nil && hi != nil && *lo >= *hi {
			errs.Add("minValue", fmt.Sprint(*lo), msgMinOverMax)
		}
	}
	checkOptions := func(options []models.SelectFieldOption) {
		switch {
		case options == nil:
			errs.Add("options", "", msgOptionsRequired)
		case len(options) == 0:
			errs.Add("options", "", msgOptionsEmpty)
		}
	}

	switch f := field.(type) {
	case *models.AutoNumberField:
		requireDefault(f.DefaultValue == nil)
	case *models.CheckboxField:
		if f.DefaultValue == nil {
			f.DefaultValue = models.Ptr(false)
		}
	case *models.CurrencyField:
		requireDefault(f.DefaultValue == nil)
		checkRange(f.MinValue, f.MaxValue)
		if f.Currency == nil {
			f.Currency = models.DefaultCurrency()
		}
	case *models.DateField:
		f.Format = strings.TrimSpace(f.Format)
		if f.Format == "" {
			errs.Add("format", "", "Date format is required!")
		}
		if f.UseCurrentTimeAsDefaultValue == nil {
			f.UseCurrentTimeAsDefaultValue = models.Ptr(false)
		}
		requireDefault(f.DefaultValue == nil && !*f.UseCurrentTimeAsDefaultValue)
	case *models.DateTimeField:
		f.Format = strings.TrimSpace(f.Format)
		if f.Format == "" {
			errs.Add("format", "", "Datetime format is required!")
		}
		if f.UseCurrentTimeAsDefaultValue == nil {
			f.UseCurrentTimeAsDefaultValue = models.Ptr(false)
		}
		requireDefault(f.DefaultValue == nil && !*f.UseCurrentTimeAsDefaultValue)
	case *models.EmailField:
		requireDefault(f.DefaultValue == nil)
	case *models.FileField:
		requireDefault(f.DefaultValue == nil)
	case *models.GuidField:
		if f.GenerateNewID == nil {
			f.GenerateNewID = models.Ptr(false)
		}
		if c.Unique && !*f.GenerateNewID {
			errs.Add("defaultValue", "", msgGenerateNewIDReq)
		}
		if c.Required && !*f.GenerateNewID && f.DefaultValue == nil {
			errs.Add("defaultValue", "", msgGuidDefaultNeeded)
		}
	case *models.HtmlField:
		requireDefault(f.DefaultValue == nil)
	case *models.ImageField:
		requireDefault(f.DefaultValue == nil)
	case *models.MultiLineTextField:
		requireDefault(f.DefaultValue == nil)
		if f.VisibleLineNumber != nil && *f.VisibleLineNumber > maxVisibleLineNumber {
			errs.Add("visibleLineNumber", fmt.Sprint(*f.VisibleLineNumber), "Visible Line Number cannot be greater than 20!")
		}
	case *models.MultiSelectField:
		checkOptions(f.Options)
		requireDefault(len(f.DefaultValue) == 0)
	case *models.NumberField:
		requireDefault(f.DefaultValue == nil)
		checkRange(f.MinValue, f.MaxValue)
		if f.DecimalPlaces == nil {
			f.DecimalPlaces = models.Ptr(2)
		}
	case *models.PasswordField:
		requireDefault(f.DefaultValue == nil)
		if f.Encrypted == nil {
			f.Encrypted = models.Ptr(true)
		}
	case *models.PercentField:
		requireDefault(f.DefaultValue == nil)
		checkRange(f.MinValue, f.MaxValue)
		if f.DecimalPlaces == nil {
			f.DecimalPlaces = models.Ptr(2)
		}
	case *models.PhoneField:
		requireDefault(f.DefaultValue == nil)
	case *models.SelectField:
		checkOptions(f.Options)
		if f.DefaultValue == nil || strings.TrimSpace(*f.DefaultValue) == "" {
			errs.Add("defaultValue", "", msgDefaultRequired)
		}
	case *models.TextField:
		requireDefault(f.DefaultValue == nil)
	case *models.UrlField:
		requireDefault(f.DefaultValue == nil)
		if f.OpenTargetInNewWindow == nil {
			f.OpenTargetInNewWindow = models.Ptr(false)
		}
	}
}

// ValidateFields checks the aggregate rules of an entity's field set: at least
// one field and exactly one primary field
func ValidateFields(fields models.FieldList) models.Errors {
	var errs models.Errors
	if len(fields) == 0 {
		errs.Add("fields", "", "There should be at least one field!")
		return errs
	}
	primary := 0
	for _, f := range fields {
		if g, ok := f.(*models.GuidField); ok && g.Unique {
			primary++
		}
	}
	switch {
	case primary == 0:
		errs.Add("fields.id", "", msgMissingPrimary)
	case primary > 1:
		errs.Add("fields.id", "", msgTooManyPrimary)
	}
	return errs
}
