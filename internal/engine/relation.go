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

const msgRelationNotFound = "Relation with such Id does not exist!"

// CreateRelation registers a relation between two entities. Both ends must be
// GUID fields and the target field must be unique and not yet the target of
// another relation.
func (m *EntityManager) CreateRelation(ctx context.Context, input *models.EntityRelation) (resp *models.RelationResponse) {
	o := opCreateRelation
	resp = models.NewResponse[*models.EntityRelation]()
	var partial *models.EntityRelation
	defer recoverInto(m, resp, o, &partial)

	if input == nil {
		return rejectInvalid(resp, o, models.Errors{models.NewError("relation", "", "Relation is required!")})
	}
	rel := *input
	partial = &rel
	if rel.ID == uuid.Nil {
		rel.ID = uuid.New()
	}
	rel.Name = strings.TrimSpace(rel.Name)
	rel.Label = strings.TrimSpace(rel.Label)

	var errs models.Errors
	err := m.store.Transaction(ctx, func(tx storage.Store) error {
		g, err := loadGraph(ctx, tx)
		if err != nil {
			return err
		}
		if errs = validateRelation(g, &rel); len(errs) > 0 {
			return errInvalid
		}
		return tx.Relations().Create(ctx, &rel)
	})
	if !settle(m, resp, o, err, errs, partial) {
		return resp
	}

	m.logger.Info("relation created", "relation", rel.Name, "type", rel.RelationType.String())
	return m.respondRelation(ctx, resp, o, rel.ID)
}

func validateRelation(g *Graph, rel *models.EntityRelation) models.Errors {
	var errs models.Errors

	nameErrs := validation.ValidateName(rel.Name, "name")
	errs.Append(nameErrs...)
	for _, other := range g.Relations() {
		if other.ID == rel.ID {
			errs.Add("id", rel.ID.String(), "There is already a relation with such Id!")
		}
		if len(nameErrs) == 0 && other.Name == rel.Name {
			errs.Add("name", rel.Name, "There is already a relation with such Name!")
		}
	}
	errs.Append(validation.ValidateLabel(rel.Label, "label")...)

	switch rel.RelationType {
	case models.OneToOne, models.OneToMany, models.ManyToMany:
	default:
		errs.Add("relationType", fmt.Sprint(int(rel.RelationType)), "There is no such relation type!")
	}

	guidField := func(entityID, fieldID uuid.UUID, side string) *models.GuidField {
		entity := g.Entity(entityID)
		if entity == nil {
			errs.Add(side+"EntityId", entityID.String(), "There is no entity with such id!")
			return nil
		}
		f := entity.FieldByID(fieldID)
		if f == nil {
			errs.Add(side+"FieldId", fieldID.String(), "There is no field with such id!")
			return nil
		}
		gf, ok := f.(*models.GuidField)
		if !ok {
			errs.Add(side+"FieldId", fieldID.String(), "The field must be a GUID field!")
			return nil
		}
		return gf
	}
	guidField(rel.OriginEntityID, rel.OriginFieldID, "origin")
	target := guidField(rel.TargetEntityID, rel.TargetFieldID, "target")
	if target != nil {
		if !target.Unique {
			errs.Add("targetFieldId", rel.TargetFieldID.String(), "The target field must be unique!")
		}
		for _, other := range g.Relations() {
			if other.TargetFieldID == rel.TargetFieldID {
				errs.Add("targetFieldId", rel.TargetFieldID.String(), "The target field is already the target of relation '"+other.Name+"'!")
				break
			}
		}
	}
	return errs
}

// DeleteRelation removes a relation no list, view or sidebar item goes through
func (m *EntityManager) DeleteRelation(ctx context.Context, id uuid.UUID) (resp *models.RelationResponse) {
	o := opDeleteRelation
	resp = models.NewResponse[*models.EntityRelation]()
	var deleted *models.EntityRelation
	defer recoverInto(m, resp, o, &deleted)

	var errs models.Errors
	err := m.store.Transaction(ctx, func(tx storage.Store) error {
		rel, err := tx.Relations().ReadByID(ctx, id)
		if err != nil {
			return err
		}
		if rel == nil {
			return notFound(id.String(), msgRelationNotFound)
		}
		deleted = rel
		g, err := loadGraph(ctx, tx)
		if err != nil {
			return err
		}
		if ref, ok := g.findReference(func(r reference) bool {
			return r.res.Relation != nil && r.res.Relation.ID == id
		}); ok {
			errs.Add("id", id.String(), "The relation is referenced by "+ref.String()+"!")
			return errInvalid
		}
		return tx.Relations().Delete(ctx, id)
	})
	if !settle(m, resp, o, err, errs, deleted) {
		return resp
	}
	resp.Object = deleted
	resp.Message = o.success()
	return resp
}

// ReadRelations returns every relation
func (m *EntityManager) ReadRelations(ctx context.Context) (resp *models.RelationListResponse) {
	o := opReadRelation
	resp = models.NewResponse[[]*models.EntityRelation]()
	defer recoverInto(m, resp, o, nil)

	relations, err := m.store.Relations().Read(ctx)
	if err != nil {
		return fail(m, resp, o, err)
	}
	resp.Object = relations
	resp.Message = o.success()
	return resp
}

// ReadRelation returns the relation with the given id
func (m *EntityManager) ReadRelation(ctx context.Context, id uuid.UUID) (resp *models.RelationResponse) {
	o := opReadRelation
	resp = models.NewResponse[*models.EntityRelation]()
	defer recoverInto(m, resp, o, nil)
	return m.respondRelation(ctx, resp, o, id)
}

// ReadRelationByName returns the relation with the given name
func (m *EntityManager) ReadRelationByName(ctx context.Context, name string) (resp *models.RelationResponse) {
	o := opReadRelation
	resp = models.NewResponse[*models.EntityRelation]()
	defer recoverInto(m, resp, o, nil)

	rel, err := m.store.Relations().ReadByName(ctx, name)
	if err != nil {
		return fail(m, resp, o, err)
	}
	if rel == nil {
		return rejectNotFound(resp, name, msgRelationNotFound)
	}
	resp.Object = rel
	resp.Message = o.success()
	return resp
}

func (m *EntityManager) respondRelation(ctx context.Context, resp *models.RelationResponse, o op, id uuid.UUID) *models.RelationResponse {
	rel, err := m.store.Relations().ReadByID(ctx, id)
	if err != nil {
		return fail(m, resp, o, err)
	}
	if rel == nil {
		return rejectNotFound(resp, id.String(), msgRelationNotFound)
	}
	resp.Object = rel
	resp.Message = o.success()
	return resp
}
