// Package validation provides the generic name and label rules shared by every metadata validator
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/railsuser2014/WebVella-ERP/internal/models"
)

const (
	NameMinLength  = 2
	NameMaxLength  = 50
	LabelMaxLength = 200
)

// nameRegex allows lowercase letters, digits and underscores, starting with a letter
// and not ending with an underscore. Double underscores are rejected separately.
var nameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$`)

// reservedViewNames are path segments used by the record routes of the admin UI
var reservedViewNames = map[string]bool{
	"create": true, "edit": true, "delete": true, "list": true, "lists": true,
	"view": true, "views": true, "field": true, "fields": true, "relation": true,
	"relations": true, "new": true,
}

// ValidateName checks an entity, field, list or section name
func ValidateName(name, key string) []models.ErrorModel {
	var errs models.Errors
	if strings.TrimSpace(name) == "" {
		errs.Add(key, name, "Name is required!")
		return errs
	}
	if len(name) < NameMinLength {
		errs.Add(key, name, fmt.Sprintf("The Name must be at least %d characters long!", NameMinLength))
	}
	if len(name) > NameMaxLength {
		errs.Add(key, name, fmt.Sprintf("The length of Name must be less or equal than %d characters!", NameMaxLength))
	}
	if len(name) >= NameMinLength && (!nameRegex.MatchString(name) || strings.Contains(name, "__")) {
		errs.Add(key, name, "Name can only contains underscores and lowercase alphanumeric characters. It must begin with a letter, not include spaces, not end with an underscore, and not contain two consecutive underscores!")
	}
	return errs
}

// ValidateViewName checks a record view name. On top of the name rules it
// refuses names that collide with record route segments.
func ValidateViewName(name, key string) []models.ErrorModel {
	errs := models.Errors(ValidateName(name, key))
	if len(errs) == 0 && reservedViewNames[name] {
		errs.Add(key, name, fmt.Sprintf("'%s' is reserved and cannot be used as a view name!", name))
	}
	return errs
}

// ValidateLabel checks a display label
func ValidateLabel(label, key string) []models.ErrorModel {
	var errs models.Errors
	if strings.TrimSpace(label) == "" {
		errs.Add(key, label, "Label is required!")
		return errs
	}
	if len(label) > LabelMaxLength {
		errs.Add(key, label, fmt.Sprintf("The length of Label must be less or equal than %d characters!", LabelMaxLength))
	}
	return errs
}

// ValidateLabelPlural checks a plural display label
func ValidateLabelPlural(label, key string) []models.ErrorModel {
	var errs models.Errors
	if strings.TrimSpace(label) == "" {
		errs.Add(key, label, "Plural label is required!")
		return errs
	}
	if len(label) > LabelMaxLength {
		errs.Add(key, label, fmt.Sprintf("The length of Plural label must be less or equal than %d characters!", LabelMaxLength))
	}
	return errs
}
