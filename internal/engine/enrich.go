package engine

import (
	"github.com/railsuser2014/WebVella-ERP/internal/models"
)

// DataName tokens address a value of a record row by field, list or view,
// optionally through a relation
const (
	dataNameField = "$field$"
	dataNameList  = "$list$"
	dataNameView  = "$view$"
)

// Enrich returns a copy of entity whose list columns, view items and sidebar
// items carry the live names, labels and metadata of their targets. The
// entity must belong to the graph. References that no longer resolve keep
// their stored names and get no metadata.
func (g *Graph) Enrich(entity *models.Entity) (*models.Entity, error) {
	out, err := models.Clone(entity)
	if err != nil {
		return nil, err
	}
	for _, list := range out.RecordLists {
		if list == nil {
			continue
		}
		for _, col := range list.Columns {
			g.enrichItem(entity, col)
		}
	}
	for _, view := range out.RecordViews {
		if view == nil {
			continue
		}
		walkViewItems(view, func(it models.Item) { g.enrichItem(entity, it) })
	}
	return out, nil
}

// walkViewItems calls fn for every item of a view's regions and sidebar
func walkViewItems(view *models.RecordView, fn func(models.Item)) {
	for _, region := range view.Regions {
		if region == nil {
			continue
		}
		for _, section := range region.Sections {
			if section == nil {
				continue
			}
			for _, row := range section.Rows {
				if row == nil {
					continue
				}
				for _, col := range row.Columns {
					if col == nil {
						continue
					}
					for _, it := range col.Items {
						fn(it)
					}
				}
			}
		}
	}
	if view.Sidebar != nil {
		for _, it := range view.Sidebar.Items {
			fn(it)
		}
	}
}

func (g *Graph) enrichItem(scope *models.Entity, it models.Item) {
	if it == nil {
		return
	}
	res, err := g.ResolveItem(scope, it)
	if err != nil || res == nil {
		return
	}
	canonicalize(it, res)

	meta := models.ItemMeta{
		EntityID:          res.Entity.ID,
		EntityName:        res.Entity.Name,
		EntityLabel:       res.Entity.Label,
		EntityLabelPlural: res.Entity.LabelPlural,
	}
	switch v := it.(type) {
	case *models.FieldItem:
		meta.DataName = v.FieldName
		v.ItemMeta, v.FieldLabel, v.Field = meta, res.Field.Common().Label, &models.TypedField{Field: res.Field}
	case *models.RelationFieldItem:
		meta.DataName = dataNameField + v.RelationName + "$" + v.FieldName
		v.ItemMeta, v.FieldLabel, v.Field = meta, res.Field.Common().Label, &models.TypedField{Field: res.Field}
	case *models.ListItem:
		meta.DataName = dataNameList + v.ListName
		v.ItemMeta, v.ListLabel, v.List = meta, res.List.Label, res.List
	case *models.RelationListItem:
		meta.DataName = dataNameList + v.RelationName + "$" + v.ListName
		v.ItemMeta, v.ListLabel, v.List = meta, res.List.Label, res.List
	case *models.ViewRefItem:
		meta.DataName = dataNameView + v.ViewName
		v.ItemMeta, v.ViewLabel, v.View = meta, res.View.Label, res.View
	case *models.RelationViewItem:
		meta.DataName = dataNameView + v.RelationName + "$" + v.ViewName
		v.ItemMeta, v.ViewLabel, v.View = meta, res.View.Label, res.View
	}
}

// stripMeta clears every read-time projection before an entity is persisted
func stripMeta(entity *models.Entity) {
	for _, list := range entity.RecordLists {
		if list == nil {
			continue
		}
		for _, col := range list.Columns {
			if col != nil {
				models.ClearMeta(col)
			}
		}
	}
	for _, view := range entity.RecordViews {
		if view == nil {
			continue
		}
		walkViewItems(view, func(it models.Item) {
			if it != nil {
				models.ClearMeta(it)
			}
		})
	}
}
