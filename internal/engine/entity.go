package engine

import (
	"context"

	"github.com/google/uuid"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
	"github.com/railsuser2014/WebVella-ERP/internal/storage"
)

// =============================================================================
// ENTITY MUTATIONS
// =============================================================================

// CreateEntity validates and stores a new entity together with the system
// fields every entity carries, and creates its record collection. Fields
// supplied on input are validated and added after the system fields.
func (m *EntityManager) CreateEntity(ctx context.Context, input *models.Entity) (resp *models.EntityResponse) {
	o := opCreateEntity
	resp = models.NewResponse[*models.Entity]()
	var partial *models.Entity
	defer recoverInto(m, resp, o, &partial)

	if input == nil {
		return rejectInvalid(resp, o, models.Errors{models.NewError("entity", "", "Entity is required!")})
	}
	draft := *input
	if draft.ID == uuid.Nil {
		draft.ID = uuid.New()
	}
	draft.Fields, draft.RecordLists, draft.RecordViews = nil, nil, nil
	partial = &draft

	var errs models.Errors
	err := m.store.Transaction(ctx, func(tx storage.Store) error {
		entity, verrs, err := validateEntity(ctx, tx, &draft, false)
		if err != nil {
			return err
		}
		errs = verrs
		if entity != nil {
			partial = entity
		}
		stored, err := tx.Entities().ReadByID(ctx, entity.ID)
		if err != nil {
			return err
		}
		if stored != nil {
			errs.Add("id", entity.ID.String(), "There is already an entity with such Id!")
		}

		fields, ferrs, err := initialFields(input.Fields)
		if err != nil {
			return err
		}
		errs.Append(ferrs...)
		if len(errs) > 0 {
			return errInvalid
		}

		entity.Fields = fields
		entity.RecordLists = []*models.RecordList{}
		entity.RecordViews = []*models.RecordView{}
		if err := tx.Entities().Create(ctx, entity); err != nil {
			return err
		}
		return tx.Records().CreateRecordCollection(ctx, entity.Name, entity.Fields)
	})
	if !settle(m, resp, o, err, errs, partial) {
		return resp
	}

	entity, err := m.readEntity(ctx, byID(draft.ID))
	if err != nil {
		return fail(m, resp, o, err)
	}
	m.logger.Info("entity created", "entity", entity.Name, "id", entity.ID)
	resp.Object = entity
	resp.Message = o.success()
	return resp
}

// initialFields returns the system fields followed by the validated extra fields
func initialFields(extra models.FieldList) (models.FieldList, models.Errors, error) {
	var errs models.Errors
	scope := &models.Entity{Fields: systemFields()}
	for _, f := range extra {
		if f == nil {
			continue
		}
		field, ferrs, err := validateField(scope, f, false)
		if err != nil {
			return nil, nil, err
		}
		for _, e := range ferrs {
			errs.Add("fields."+e.Key, e.Value, e.Message)
		}
		if len(ferrs) == 0 {
			scope.Fields = append(scope.Fields, field)
		}
	}
	errs.Append(ValidateFields(scope.Fields)...)
	return scope.Fields, errs, nil
}

// UpdateEntity replaces the descriptive attributes of an entity: labels,
// system flag, icon, weight and record permissions. The name, fields, lists
// and views are left untouched.
func (m *EntityManager) UpdateEntity(ctx context.Context, input *models.Entity) (resp *models.EntityResponse) {
	o := opUpdateEntity
	resp = models.NewResponse[*models.Entity]()
	partial := input
	defer recoverInto(m, resp, o, &partial)

	if input == nil {
		return rejectInvalid(resp, o, models.Errors{models.NewError("entity", "", "Entity is required!")})
	}

	var errs models.Errors
	err := m.store.Transaction(ctx, func(tx storage.Store) error {
		stored, err := tx.Entities().ReadByID(ctx, input.ID)
		if err != nil {
			return err
		}
		if stored == nil {
			return notFound(input.ID.String(), msgEntityNotFound)
		}

		draft := *input
		draft.Name = stored.Name
		draft.Fields, draft.RecordLists, draft.RecordViews = nil, nil, nil
		entity, verrs, err := validateEntity(ctx, tx, &draft, true)
		if err != nil {
			return err
		}
		if errs = verrs; len(errs) > 0 {
			return errInvalid
		}

		stored.Label = entity.Label
		stored.LabelPlural = entity.LabelPlural
		stored.System = entity.System
		stored.IconName = entity.IconName
		stored.Weight = entity.Weight
		stored.RecordPermissions = entity.RecordPermissions
		partial = stored
		return tx.Entities().Update(ctx, stored)
	})
	if !settle(m, resp, o, err, errs, partial) {
		return resp
	}

	entity, err := m.readEntity(ctx, byID(input.ID))
	if err != nil {
		return fail(m, resp, o, err)
	}
	resp.Object = entity
	resp.Message = o.success()
	return resp
}

// DeleteEntity removes an entity, its record collection and every relation it
// takes part in. System entities and entities reached through a relation from
// another entity's lists or views are kept.
func (m *EntityManager) DeleteEntity(ctx context.Context, id uuid.UUID) (resp *models.EntityResponse) {
	o := opDeleteEntity
	resp = models.NewResponse[*models.Entity]()
	var deleted *models.Entity
	defer recoverInto(m, resp, o, &deleted)

	var errs models.Errors
	err := m.store.Transaction(ctx, func(tx storage.Store) error {
		stored, err := tx.Entities().ReadByID(ctx, id)
		if err != nil {
			return err
		}
		if stored == nil {
			return notFound(id.String(), msgEntityNotFound)
		}
		deleted = stored
		if stored.System {
			errs.Add("id", id.String(), "System entities cannot be deleted!")
			return errInvalid
		}

		g, err := loadGraph(ctx, tx)
		if err != nil {
			return err
		}
		ref, found := g.findReference(func(r reference) bool {
			return r.entity.ID != id && r.res.Relation != nil && r.res.Relation.Involves(id)
		})
		if found {
			errs.Add("id", id.String(), "The entity is referenced through a relation by "+ref.String()+"!")
			return errInvalid
		}

		if err := tx.Relations().DeleteByEntity(ctx, id); err != nil {
			return err
		}
		if err := tx.Records().DeleteRecordCollection(ctx, stored.Name); err != nil {
			return err
		}
		return tx.Entities().Delete(ctx, id)
	})
	if !settle(m, resp, o, err, errs, deleted) {
		return resp
	}

	m.logger.Info("entity deleted", "entity", deleted.Name, "id", id)
	resp.Object = deleted
	resp.Message = o.success()
	return resp
}

// =============================================================================
// ENTITY READS
// =============================================================================

// ReadEntity returns the enriched entity with the given id
func (m *EntityManager) ReadEntity(ctx context.Context, id uuid.UUID) *models.EntityResponse {
	return m.readEntityResponse(ctx, byID(id))
}

// ReadEntityByName returns the enriched entity with the given name
func (m *EntityManager) ReadEntityByName(ctx context.Context, name string) *models.EntityResponse {
	return m.readEntityResponse(ctx, byName(name))
}

func (m *EntityManager) readEntityResponse(ctx context.Context, key entityKey) (resp *models.EntityResponse) {
	o := opReadEntity
	resp = models.NewResponse[*models.Entity]()
	defer recoverInto(m, resp, o, nil)

	entity, err := m.readEntity(ctx, key)
	if err != nil {
		return fail(m, resp, o, err)
	}
	if entity == nil {
		return rejectNotFound(resp, key.value(), msgEntityNotFound)
	}
	resp.Object = entity
	resp.Message = o.success()
	return resp
}

// ReadEntities returns every entity, enriched, ordered by weight and name
func (m *EntityManager) ReadEntities(ctx context.Context) (resp *models.EntityListResponse) {
	o := opReadEntity
	resp = models.NewResponse[[]*models.Entity]()
	defer recoverInto(m, resp, o, nil)

	g, err := loadGraph(ctx, m.store)
	if err != nil {
		return fail(m, resp, o, err)
	}
	out := make([]*models.Entity, 0, len(g.Entities()))
	for _, e := range g.Entities() {
		enriched, err := g.Enrich(e)
		if err != nil {
			return fail(m, resp, o, err)
		}
		out = append(out, enriched)
	}
	resp.Object = out
	resp.Message = o.success()
	return resp
}

// readEntity loads the graph and returns the enriched entity for key, or nil
func (m *EntityManager) readEntity(ctx context.Context, key entityKey) (*models.Entity, error) {
	g, err := loadGraph(ctx, m.store)
	if err != nil {
		return nil, err
	}
	e := lookupEntity(g, key)
	if e == nil {
		return nil, nil
	}
	return g.Enrich(e)
}
