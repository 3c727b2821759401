package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
	"github.com/railsuser2014/WebVella-ERP/internal/storage"
)

// inTransaction runs fn in a new transaction when transactional is set, and
// directly on the manager's store otherwise
func (m *EntityManager) inTransaction(ctx context.Context, transactional bool, fn func(tx storage.Store) error) error {
	if transactional {
		return m.store.Transaction(ctx, fn)
	}
	return fn(m.store)
}

// =============================================================================
// FIELD MUTATIONS
// =============================================================================

// CreateField adds a field to an entity: the record column is created and
// seeded with the field default, then the entity is persisted. With
// transactional unset the caller owns the transaction, see WithStore.
func (m *EntityManager) CreateField(ctx context.Context, entityID uuid.UUID, input models.Field, transactional bool) (resp *models.FieldResponse) {
	o := opCreateField
	resp = models.NewResponse[models.Field]()
	created := input
	defer recoverInto(m, resp, o, &created)

	if input != nil && input.Common().ID == uuid.Nil {
		cp, err := models.CloneField(input)
		if err != nil {
			return fail(m, resp, o, err)
		}
		cp.Common().ID = uuid.New()
		input, created = cp, cp
	}

	var errs models.Errors
	err := m.inTransaction(ctx, transactional, func(tx storage.Store) error {
		entity, err := tx.Entities().ReadByID(ctx, entityID)
		if err != nil {
			return err
		}
		if entity == nil {
			return notFound(entityID.String(), msgEntityNotFound)
		}

		field, verrs, err := validateField(entity, input, false)
		if err != nil {
			return err
		}
		if errs = verrs; len(errs) > 0 {
			return errInvalid
		}
		created = field
		fields := append(append(models.FieldList{}, entity.Fields...), field)
		if errs = ValidateFields(fields); len(errs) > 0 {
			return errInvalid
		}

		if err := tx.Records().CreateRecordField(ctx, entity.Name, field); err != nil {
			return err
		}
		entity.Fields = fields
		return tx.Entities().Update(ctx, entity)
	})
	if !settle(m, resp, o, err, errs, created) {
		return resp
	}

	m.logger.Info("field created", "entity_id", entityID, "field", created.Common().Name, "kind", created.Kind().String())
	return m.respondField(ctx, resp, o, entityID, created.Common().ID)
}

// UpdateField replaces a field definition. System fields, the field kind and
// the field name cannot change: the name is the record column.
func (m *EntityManager) UpdateField(ctx context.Context, entityID uuid.UUID, input models.Field) (resp *models.FieldResponse) {
	o := opUpdateField
	resp = models.NewResponse[models.Field]()
	partial := input
	defer recoverInto(m, resp, o, &partial)

	var errs models.Errors
	var fieldID uuid.UUID
	err := m.store.Transaction(ctx, func(tx storage.Store) error {
		entity, err := tx.Entities().ReadByID(ctx, entityID)
		if err != nil {
			return err
		}
		if entity == nil {
			return notFound(entityID.String(), msgEntityNotFound)
		}

		field, verrs, err := validateField(entity, input, true)
		if err != nil {
			return err
		}
		errs = verrs
		if field == nil {
			return errInvalid
		}
		partial = field
		c := field.Common()
		if stored := entity.FieldByID(c.ID); stored != nil {
			sc := stored.Common()
			if sc.System {
				errs.Add("id", c.ID.String(), "System fields cannot be updated!")
			}
			if stored.Kind() != field.Kind() {
				errs.Add("fieldType", field.Kind().String(), "The field type cannot be changed!")
			}
			if sc.Name != c.Name {
				errs.Add("name", c.Name, "The field name cannot be changed!")
			}
		}
		if len(errs) > 0 {
			return errInvalid
		}

		fields := make(models.FieldList, 0, len(entity.Fields))
		for _, f := range entity.Fields {
			if f.Common().ID != c.ID {
				fields = append(fields, f)
			}
		}
		fields = append(fields, field)
		if errs = ValidateFields(fields); len(errs) > 0 {
			return errInvalid
		}
		entity.Fields = fields
		fieldID = c.ID
		return tx.Entities().Update(ctx, entity)
	})
	if !settle(m, resp, o, err, errs, partial) {
		return resp
	}
	return m.respondField(ctx, resp, o, entityID, fieldID)
}

// DeleteField removes a field and its record column. System fields and fields
// still referenced by a list, view, query, sort or relation are kept.
func (m *EntityManager) DeleteField(ctx context.Context, entityID, fieldID uuid.UUID, transactional bool) (resp *models.FieldResponse) {
	o := opDeleteField
	resp = models.NewResponse[models.Field]()
	var deleted models.Field
	defer recoverInto(m, resp, o, &deleted)

	var errs models.Errors
	err := m.inTransaction(ctx, transactional, func(tx storage.Store) error {
		entity, err := tx.Entities().ReadByID(ctx, entityID)
		if err != nil {
			return err
		}
		if entity == nil {
			return notFound(entityID.String(), msgEntityNotFound)
		}
		field := entity.FieldByID(fieldID)
		if field == nil {
			return notFound(fieldID.String(), msgFieldNotFound)
		}
		deleted = field
		if field.Common().System {
			errs.Add("id", fieldID.String(), "System fields cannot be deleted!")
			return errInvalid
		}

		g, err := loadGraph(ctx, tx)
		if err != nil {
			return err
		}
		if by := fieldReferrer(g, entity, field); by != "" {
			errs.Add("id", fieldID.String(), "The field is referenced by "+by+" and cannot be deleted!")
			return errInvalid
		}

		if err := tx.Records().RemoveRecordField(ctx, entity.Name, field.Common().Name); err != nil {
			return err
		}
		fields := make(models.FieldList, 0, len(entity.Fields))
		for _, f := range entity.Fields {
			if f.Common().ID != fieldID {
				fields = append(fields, f)
			}
		}
		entity.Fields = fields
		return tx.Entities().Update(ctx, entity)
	})
	if !settle(m, resp, o, err, errs, deleted) {
		return resp
	}

	m.logger.Info("field deleted", "entity_id", entityID, "field", deleted.Common().Name)
	resp.Object = deleted
	resp.Message = o.success()
	return resp
}

// fieldReferrer names the first thing that still needs field, or returns ""
func fieldReferrer(g *Graph, entity *models.Entity, field models.Field) string {
	id := field.Common().ID
	if ref, ok := g.findReference(func(r reference) bool {
		return r.res.Field != nil && r.res.Field.Common().ID == id
	}); ok {
		return ref.String()
	}
	for _, rel := range g.Relations() {
		if rel.OriginFieldID == id || rel.TargetFieldID == id {
			return fmt.Sprintf("relation '%s'", rel.Name)
		}
	}
	name := field.Common().Name
	for _, list := range entity.RecordLists {
		if list == nil {
			continue
		}
		if queryUsesField(list.Query, name) {
			return fmt.Sprintf("the query of list '%s'", list.Name)
		}
		for _, s := range list.Sorts {
			if s != nil && s.FieldName == name {
				return fmt.Sprintf("the sorts of list '%s'", list.Name)
			}
		}
	}
	return ""
}

func queryUsesField(q *models.RecordListQuery, name string) bool {
	if q == nil {
		return false
	}
	if q.FieldName == name {
		return true
	}
	for _, sub := range q.SubQueries {
		if queryUsesField(sub, name) {
			return true
		}
	}
	return false
}

// =============================================================================
// FIELD READS
// =============================================================================

// ReadFields returns the fields of an entity
func (m *EntityManager) ReadFields(ctx context.Context, entityID uuid.UUID) (resp *models.FieldListResponse) {
	o := opReadField
	resp = models.NewResponse[models.FieldList]()
	defer recoverInto(m, resp, o, nil)

	entity, err := m.store.Entities().ReadByID(ctx, entityID)
	if err != nil {
		return fail(m, resp, o, err)
	}
	if entity == nil {
		return rejectNotFound(resp, entityID.String(), msgEntityNotFound)
	}
	resp.Object = entity.Fields
	resp.Message = o.success()
	return resp
}

// ReadField returns one field of an entity
func (m *EntityManager) ReadField(ctx context.Context, entityID, fieldID uuid.UUID) (resp *models.FieldResponse) {
	o := opReadField
	resp = models.NewResponse[models.Field]()
	defer recoverInto(m, resp, o, nil)
	return m.respondField(ctx, resp, o, entityID, fieldID)
}

// respondField fills resp with the stored field
func (m *EntityManager) respondField(ctx context.Context, resp *models.FieldResponse, o op, entityID, fieldID uuid.UUID) *models.FieldResponse {
	entity, err := m.store.Entities().ReadByID(ctx, entityID)
	if err != nil {
		return fail(m, resp, o, err)
	}
	if entity == nil {
		return rejectNotFound(resp, entityID.String(), msgEntityNotFound)
	}
	field := entity.FieldByID(fieldID)
	if field == nil {
		return rejectNotFound(resp, fieldID.String(), msgFieldNotFound)
	}
	resp.Object = field
	resp.Message = o.success()
	return resp
}
