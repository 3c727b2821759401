package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
	"github.com/railsuser2014/WebVella-ERP/internal/storage"
	"github.com/railsuser2014/WebVella-ERP/internal/validation"
)

// validateEntity checks the entity-level attributes and returns a normalized
// copy. existing says whether the entity is expected to be stored already.
func validateEntity(ctx context.Context, s storage.Store, input *models.Entity, existing bool) (*models.Entity, models.Errors, error) {
	var errs models.Errors
	entity, err := models.Clone(input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to copy entity: %w", err)
	}
	entity.Name = strings.TrimSpace(entity.Name)
	entity.Label = strings.TrimSpace(entity.Label)
	entity.LabelPlural = strings.TrimSpace(entity.LabelPlural)

	if entity.ID == uuid.Nil {
		errs.Add("id", "", "Id is required!")
	} else if existing {
		stored, err := s.Entities().ReadByID(ctx, entity.ID)
		if err != nil {
			return nil, nil, err
		}
		if stored == nil {
			errs.Add("id", entity.ID.String(), msgEntityNotFound)
		}
	}

	nameErrs := validation.ValidateName(entity.Name, "name")
	errs.Append(nameErrs...)
	if len(nameErrs) == 0 {
		other, err := s.Entities().ReadByName(ctx, entity.Name)
		if err != nil {
			return nil, nil, err
		}
		if other != nil && other.ID != entity.ID {
			errs.Add("name", entity.Name, "Entity with such Name exists already!")
		}
	}

	errs.Append(validation.ValidateLabel(entity.Label, "label")...)
	errs.Append(validation.ValidateLabelPlural(entity.LabelPlural, "labelPlural")...)
	errs.Append(validatePermissions(entity.RecordPermissions)...)

	if strings.TrimSpace(entity.IconName) == "" {
		entity.IconName = defaultIconName
	}
	return entity, errs, nil
}

func validatePermissions(p *models.RecordPermissions) models.Errors {
	var errs models.Errors
	if p == nil {
		errs.Add("permissions", "", "Permissions is required!")
		return errs
	}
	check := func(roles []uuid.UUID, key, label string) {
		if len(roles) == 0 {
			errs.Add("permissions."+key, "", label+" is required! It must contains at least one item!")
		}
	}
	check(p.CanRead, "canRead", "CanRead")
	check(p.CanCreate, "canCreate", "CanCreate")
	check(p.CanUpdate, "canUpdate", "CanUpdate")
	check(p.CanDelete, "canDelete", "CanDelete")
	return errs
}
