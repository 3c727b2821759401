package engine

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
)

// Graph is a read-only snapshot of all entities and relations that weak
// references are resolved against
type Graph struct {
	entities  []*models.Entity
	byID      map[uuid.UUID]*models.Entity
	relations []*models.EntityRelation
	relByID   map[uuid.UUID]*models.EntityRelation
	relByName map[string]*models.EntityRelation
}

// NewGraph indexes entities and relations
func NewGraph(entities []*models.Entity, relations []*models.EntityRelation) *Graph {
	g := &Graph{
		entities:  entities,
		byID:      make(map[uuid.UUID]*models.Entity, len(entities)),
		relations: relations,
		relByID:   make(map[uuid.UUID]*models.EntityRelation, len(relations)),
		relByName: make(map[string]*models.EntityRelation, len(relations)),
	}
	for _, e := range entities {
		g.byID[e.ID] = e
	}
	for _, r := range relations {
		g.relByID[r.ID] = r
		g.relByName[r.Name] = r
	}
	return g
}

// Entity returns the entity with the given id or nil
func (g *Graph) Entity(id uuid.UUID) *models.Entity {
	return g.byID[id]
}

// Entities returns every entity of the snapshot
func (g *Graph) Entities() []*models.Entity {
	return g.entities
}

// Relations returns every relation of the snapshot
func (g *Graph) Relations() []*models.EntityRelation {
	return g.relations
}

// Ref is a weak reference: an id, a name, or both
type Ref struct {
	ID   uuid.UUID
	Name string
}

// ResolveErrorKind says why a weak reference did not resolve
type ResolveErrorKind int

const (
	RefMissing ResolveErrorKind = iota + 1
	RefUnknownID
	RefUnknownName
	RefNotRelated
)

// ResolveError reports a weak reference that did not resolve
type ResolveError struct {
	Kind ResolveErrorKind
	What string // field, list, view or relation
	Ref  Ref
}

func (e *ResolveError) Error() string {
	switch e.Kind {
	case RefMissing:
		return fmt.Sprintf("%s reference is empty", e.What)
	case RefUnknownID:
		return fmt.Sprintf("no %s with id %s", e.What, e.Ref.ID)
	case RefUnknownName:
		return fmt.Sprintf("no %s named %q", e.What, e.Ref.Name)
	case RefNotRelated:
		return fmt.Sprintf("%s %q does not involve the entity", e.What, e.Ref.Name)
	}
	return "unresolved reference"
}

// resolve looks a reference up by id when one is given, by name otherwise
func resolve[T any](what string, ref Ref, byID func(uuid.UUID) (T, bool), byName func(string) (T, bool)) (T, error) {
	var zero T
	switch {
	case ref.ID != uuid.Nil:
		if v, ok := byID(ref.ID); ok {
			return v, nil
		}
		return zero, &ResolveError{Kind: RefUnknownID, What: what, Ref: ref}
	case ref.Name != "":
		if v, ok := byName(ref.Name); ok {
			return v, nil
		}
		return zero, &ResolveError{Kind: RefUnknownName, What: what, Ref: ref}
	}
	return zero, &ResolveError{Kind: RefMissing, What: what, Ref: ref}
}

// ResolveField resolves a field reference within scope
func (g *Graph) ResolveField(scope *models.Entity, ref Ref) (models.Field, error) {
	return resolve("field", ref,
		func(id uuid.UUID) (models.Field, bool) { f := scope.FieldByID(id); return f, f != nil },
		func(name string) (models.Field, bool) { f := scope.FieldByName(name); return f, f != nil })
}

// ResolveList resolves a record list reference within scope
func (g *Graph) ResolveList(scope *models.Entity, ref Ref) (*models.RecordList, error) {
	return resolve("list", ref,
		func(id uuid.UUID) (*models.RecordList, bool) { l := scope.ListByID(id); return l, l != nil },
		func(name string) (*models.RecordList, bool) { l := scope.ListByName(name); return l, l != nil })
}

// ResolveView resolves a record view reference within scope
func (g *Graph) ResolveView(scope *models.Entity, ref Ref) (*models.RecordView, error) {
	return resolve("view", ref,
		func(id uuid.UUID) (*models.RecordView, bool) { v := scope.ViewByID(id); return v, v != nil },
		func(name string) (*models.RecordView, bool) { v := scope.ViewByName(name); return v, v != nil })
}

// ResolveRelation resolves a relation reference and returns it together with
// the entity on its other side relative to scope
func (g *Graph) ResolveRelation(scope *models.Entity, ref Ref) (*models.EntityRelation, *models.Entity, error) {
	rel, err := resolve("relation", ref,
		func(id uuid.UUID) (*models.EntityRelation, bool) { r, ok := g.relByID[id]; return r, ok },
		func(name string) (*models.EntityRelation, bool) { r, ok := g.relByName[name]; return r, ok })
	if err != nil {
		return nil, nil, err
	}
	if !rel.Involves(scope.ID) {
		return nil, nil, &ResolveError{Kind: RefNotRelated, What: "relation", Ref: Ref{ID: rel.ID, Name: rel.Name}}
	}
	related := g.relatedEntity(scope, rel)
	if related == nil {
		return nil, nil, &ResolveError{Kind: RefUnknownID, What: "relation", Ref: Ref{ID: rel.ID, Name: rel.Name}}
	}
	return rel, related, nil
}

func (g *Graph) relatedEntity(scope *models.Entity, rel *models.EntityRelation) *models.Entity {
	id := rel.RelatedEntityID(scope.ID)
	if id == scope.ID {
		return scope
	}
	return g.byID[id]
}

// Resolved is the concrete target of an item reference
type Resolved struct {
	Relation *models.EntityRelation
	Entity   *models.Entity
	Field    models.Field
	List     *models.RecordList
	View     *models.RecordView
}

// TargetID returns the id of the referenced field, list or view
func (r *Resolved) TargetID() uuid.UUID {
	switch {
	case r.Field != nil:
		return r.Field.Common().ID
	case r.List != nil:
		return r.List.ID
	case r.View != nil:
		return r.View.ID
	}
	return uuid.Nil
}

// ResolveItem resolves the reference carried by a list column, view item or
// sidebar item. Raw HTML items resolve to nothing.
func (g *Graph) ResolveItem(scope *models.Entity, it models.Item) (*Resolved, error) {
	res := &Resolved{Entity: scope}
	var err error
	switch v := it.(type) {
	case *models.FieldItem:
		res.Field, err = g.ResolveField(scope, Ref{v.FieldID, v.FieldName})
	case *models.RelationFieldItem:
		if res.Relation, res.Entity, err = g.ResolveRelation(scope, Ref{v.RelationID, v.RelationName}); err == nil {
			res.Field, err = g.ResolveField(res.Entity, Ref{v.FieldID, v.FieldName})
		}
	case *models.ListItem:
		res.List, err = g.ResolveList(scope, Ref{v.ListID, v.ListName})
	case *models.RelationListItem:
		if res.Relation, res.Entity, err = g.ResolveRelation(scope, Ref{v.RelationID, v.RelationName}); err == nil {
			res.List, err = g.ResolveList(res.Entity, Ref{v.ListID, v.ListName})
		}
	case *models.ViewRefItem:
		res.View, err = g.ResolveView(scope, Ref{v.ViewID, v.ViewName})
	case *models.RelationViewItem:
		if res.Relation, res.Entity, err = g.ResolveRelation(scope, Ref{v.RelationID, v.RelationName}); err == nil {
			res.View, err = g.ResolveView(res.Entity, Ref{v.ViewID, v.ViewName})
		}
	case *models.HtmlItem:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported item type %T", it)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// canonicalize rewrites an item's references to the live ids and names of its target
func canonicalize(it models.Item, res *Resolved) {
	if res == nil {
		return
	}
	switch v := it.(type) {
	case *models.FieldItem:
		v.FieldID, v.FieldName = res.Field.Common().ID, res.Field.Common().Name
	case *models.RelationFieldItem:
		v.RelationID, v.RelationName = res.Relation.ID, res.Relation.Name
		v.FieldID, v.FieldName = res.Field.Common().ID, res.Field.Common().Name
	case *models.ListItem:
		v.ListID, v.ListName = res.List.ID, res.List.Name
	case *models.RelationListItem:
		v.RelationID, v.RelationName = res.Relation.ID, res.Relation.Name
		v.ListID, v.ListName = res.List.ID, res.List.Name
	case *models.ViewRefItem:
		v.ViewID, v.ViewName = res.View.ID, res.View.Name
	case *models.RelationViewItem:
		v.RelationID, v.RelationName = res.Relation.ID, res.Relation.Name
		v.ViewID, v.ViewName = res.View.ID, res.View.Name
	}
}
