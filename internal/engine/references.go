package engine

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
)

// reference is a resolved list column, view item or sidebar item
type reference struct {
	entity  *models.Entity
	owner   string
	ownerID uuid.UUID
	res     *Resolved
}

func (r reference) String() string {
	return fmt.Sprintf("%s of entity '%s'", r.owner, r.entity.Name)
}

// findReference returns the first resolvable item in the graph that match accepts
func (g *Graph) findReference(match func(reference) bool) (reference, bool) {
	var (
		found reference
		ok    bool
	)
	visit := func(e *models.Entity, owner string, ownerID uuid.UUID, it models.Item) {
		if ok || it == nil {
			return
		}
		res, err := g.ResolveItem(e, it)
		if err != nil || res == nil {
			return
		}
		ref := reference{entity: e, owner: owner, ownerID: ownerID, res: res}
		if match(ref) {
			found, ok = ref, true
		}
	}

	for _, e := range g.entities {
		for _, list := range e.RecordLists {
			if list == nil {
				continue
			}
			owner := fmt.Sprintf("list '%s'", list.Name)
			for _, col := range list.Columns {
				visit(e, owner, list.ID, col)
			}
		}
		for _, view := range e.RecordViews {
			if view == nil {
				continue
			}
			owner := fmt.Sprintf("view '%s'", view.Name)
			walkViewItems(view, func(it models.Item) { visit(e, owner, view.ID, it) })
		}
	}
	return found, ok
}
