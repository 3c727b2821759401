package engine

import (
	"context"

	"github.com/google/uuid"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
	"github.com/railsuser2014/WebVella-ERP/internal/ordering"
	"github.com/railsuser2014/WebVella-ERP/internal/storage"
)

// child is a weighted member of an entity: a record list or a record view
type child interface {
	ordering.Weighted
	comparable
}

// collection describes how one kind of child is stored on its entity
type collection[T child] struct {
	create, update, remove, read op

	notFound string
	items    func(e *models.Entity) *[]T
	byID     func(e *models.Entity, id uuid.UUID) T
	byName   func(e *models.Entity, name string) T
	validate func(m *EntityManager, g *Graph, e *models.Entity, input T, existing bool) (T, models.Errors, error)
	withID   func(input T, id uuid.UUID) T
}

func lookupEntity(g *Graph, key entityKey) *models.Entity {
	for _, e := range g.Entities() {
		if (key.name != "" && e.Name == key.name) || (key.name == "" && e.ID == key.id) {
			return e
		}
	}
	return nil
}

func (c collection[T]) find(e *models.Entity, ref Ref) T {
	if ref.ID != uuid.Nil {
		return c.byID(e, ref.ID)
	}
	return c.byName(e, ref.Name)
}

func refValue(ref Ref) string {
	if ref.ID != uuid.Nil {
		return ref.ID.String()
	}
	return ref.Name
}

// saveChild validates input and inserts it into, or replaces it within, the
// entity's collection at its declared weight, then returns the re-read child
func saveChild[T child](ctx context.Context, m *EntityManager, c collection[T], key entityKey, input T, existing bool) (resp *models.Response[T]) {
	o := c.create
	if existing {
		o = c.update
	}
	resp = models.NewResponse[T]()
	var zero T
	if !existing && input != zero && input.GetID() == uuid.Nil {
		input = c.withID(input, uuid.New())
	}
	partial := input
	defer recoverInto(m, resp, o, &partial)

	var (
		errs models.Errors
		id   uuid.UUID
	)
	err := m.store.Transaction(ctx, func(tx storage.Store) error {
		g, err := loadGraph(ctx, tx)
		if err != nil {
			return err
		}
		entity := lookupEntity(g, key)
		if entity == nil {
			return notFound(key.value(), msgEntityNotFound)
		}

		item, verrs, err := c.validate(m, g, entity, input, existing)
		if err != nil {
			return err
		}
		if errs = verrs; len(errs) > 0 {
			return errInvalid
		}
		if item != zero {
			partial = item
		}

		items := c.items(entity)
		if existing {
			*items = ordering.Replace(*items, item)
		} else {
			*items = ordering.Insert(*items, item)
		}
		stripMeta(entity)
		id = item.GetID()
		return tx.Entities().Update(ctx, entity)
	})
	if !settle(m, resp, o, err, errs, partial) {
		return resp
	}
	return respondChild(ctx, m, c, resp, o, key, Ref{ID: id})
}

// deleteChild removes the child addressed by ref and renumbers its siblings.
// A child still placed in some other list, view or sidebar is kept.
func deleteChild[T child](ctx context.Context, m *EntityManager, c collection[T], key entityKey, ref Ref) (resp *models.Response[T]) {
	o := c.remove
	resp = models.NewResponse[T]()
	var (
		zero    T
		deleted T
	)
	defer recoverInto(m, resp, o, &deleted)

	var errs models.Errors
	err := m.store.Transaction(ctx, func(tx storage.Store) error {
		g, err := loadGraph(ctx, tx)
		if err != nil {
			return err
		}
		entity := lookupEntity(g, key)
		if entity == nil {
			return notFound(key.value(), msgEntityNotFound)
		}
		item := c.find(entity, ref)
		if item == zero {
			return notFound(refValue(ref), c.notFound)
		}
		deleted = item
		if r, ok := g.findReference(func(r reference) bool {
			return (r.res.List != nil || r.res.View != nil) && r.res.TargetID() == item.GetID() &&
				r.ownerID != item.GetID()
		}); ok {
			errs.Add("id", item.GetID().String(), "The "+o.noun+" is referenced by "+r.String()+"!")
			return errInvalid
		}
		items := c.items(entity)
		*items = ordering.Remove(*items, item.GetID())
		return tx.Entities().Update(ctx, entity)
	})
	if !settle(m, resp, o, err, errs, deleted) {
		return resp
	}

	m.logger.Info(o.noun+" deleted", "entity", key.value(), "id", deleted.GetID())
	resp.Object = deleted
	resp.Message = o.success()
	return resp
}

// readChildren returns the enriched children of one entity
func readChildren[T child](ctx context.Context, m *EntityManager, c collection[T], key entityKey) (resp *models.Response[[]T]) {
	o := c.read
	resp = models.NewResponse[[]T]()
	defer recoverInto(m, resp, o, nil)

	entity, err := m.readEntity(ctx, key)
	if err != nil {
		return fail(m, resp, o, err)
	}
	if entity == nil {
		return rejectNotFound(resp, key.value(), msgEntityNotFound)
	}
	resp.Object = append([]T{}, *c.items(entity)...)
	resp.Message = o.success()
	return resp
}

// readAllChildren returns the enriched children of every entity
func readAllChildren[T child](ctx context.Context, m *EntityManager, c collection[T]) (resp *models.Response[[]T]) {
	o := c.read
	resp = models.NewResponse[[]T]()
	defer recoverInto(m, resp, o, nil)

	g, err := loadGraph(ctx, m.store)
	if err != nil {
		return fail(m, resp, o, err)
	}
	out := []T{}
	for _, e := range g.Entities() {
		enriched, err := g.Enrich(e)
		if err != nil {
			return fail(m, resp, o, err)
		}
		out = append(out, *c.items(enriched)...)
	}
	resp.Object = out
	resp.Message = o.success()
	return resp
}

// readChild returns one enriched child
func readChild[T child](ctx context.Context, m *EntityManager, c collection[T], key entityKey, ref Ref) (resp *models.Response[T]) {
	o := c.read
	resp = models.NewResponse[T]()
	defer recoverInto(m, resp, o, nil)
	return respondChild(ctx, m, c, resp, o, key, ref)
}

func respondChild[T child](ctx context.Context, m *EntityManager, c collection[T], resp *models.Response[T], o op, key entityKey, ref Ref) *models.Response[T] {
	entity, err := m.readEntity(ctx, key)
	if err != nil {
		return fail(m, resp, o, err)
	}
	if entity == nil {
		return rejectNotFound(resp, key.value(), msgEntityNotFound)
	}
	var zero T
	item := c.find(entity, ref)
	if item == zero {
		return rejectNotFound(resp, refValue(ref), c.notFound)
	}
	resp.Object = item
	resp.Message = o.success()
	return resp
}
