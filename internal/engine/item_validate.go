package engine

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
)

// itemKey identifies the target of an item for duplicate detection
type itemKey struct {
	what     string
	relation uuid.UUID
	target   uuid.UUID
}

// itemChecker resolves and canonicalizes the items of one container and
// reports unresolved and duplicate references under prefix
type itemChecker struct {
	g      *Graph
	entity *models.Entity
	prefix string
	seen   map[itemKey]bool
	errs   *models.Errors
}

func newItemChecker(g *Graph, entity *models.Entity, prefix string, errs *models.Errors) *itemChecker {
	return &itemChecker{g: g, entity: entity, prefix: prefix, seen: map[itemKey]bool{}, errs: errs}
}

// check validates one item and rewrites its references to canonical form
func (c *itemChecker) check(it models.Item) {
	if it == nil {
		c.errs.Add(strings.TrimSuffix(c.prefix, "."), "", "Item is required!")
		return
	}
	models.ClearMeta(it)
	if h, ok := it.(*models.HtmlItem); ok {
		h.Tag = strings.TrimSpace(h.Tag)
		h.Content = strings.TrimSpace(h.Content)
		return
	}

	res, err := c.g.ResolveItem(c.entity, it)
	if err != nil {
		c.reportResolve(it, err)
		return
	}
	canonicalize(it, res)

	key := itemKey{target: res.TargetID()}
	switch {
	case res.Field != nil:
		key.what = "field"
	case res.List != nil:
		key.what = "list"
	default:
		key.what = "view"
	}
	if res.Relation != nil {
		key.relation = res.Relation.ID
	}
	if c.seen[key] {
		c.errs.Add(c.prefix+key.what+"Id", key.target.String(), "There is already an item with such "+key.what+" identifier!")
		return
	}
	c.seen[key] = true
}

func (c *itemChecker) reportResolve(it models.Item, err error) {
	var re *ResolveError
	if !errors.As(err, &re) {
		c.errs.Add(c.prefix+"type", string(it.ItemType()), err.Error())
		return
	}
	if re.What == "relation" {
		key := c.prefix + "relationName"
		switch re.Kind {
		case RefMissing:
			c.errs.Add(key, "", "Relation name is required!")
		case RefNotRelated:
			c.errs.Add(key, re.Ref.Name, "The relation does not involve this entity!")
		default:
			c.errs.Add(key, re.Ref.Name, "Wrong name. There is no relation with such name!")
		}
		return
	}
	switch re.Kind {
	case RefUnknownID:
		c.errs.Add(c.prefix+re.What+"Id", re.Ref.ID.String(), "Wrong id. There is no "+re.What+" with such id!")
	case RefUnknownName:
		c.errs.Add(c.prefix+re.What+"Name", re.Ref.Name, "Wrong name. There is no "+re.What+" with such name!")
	default:
		c.errs.Add(c.prefix+re.What+"Name", "", capitalize(re.What)+" name or id is required!")
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
