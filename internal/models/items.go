package models

import "github.com/google/uuid"

// ItemType discriminates list columns, view items and sidebar items
type ItemType string

const (
	ItemField             ItemType = "field"
	ItemFieldFromRelation ItemType = "fieldFromRelation"
	ItemList              ItemType = "list"
	ItemListFromRelation  ItemType = "listFromRelation"
	ItemView              ItemType = "view"
	ItemViewFromRelation  ItemType = "viewFromRelation"
	ItemHTML              ItemType = "html"
)

// Item is anything that can be placed in a list, a view column or a sidebar
type Item interface {
	ItemType() ItemType
}

// ListColumn is one of the six column kinds of a record list
type ListColumn interface {
	Item
	isListColumn()
}

// ViewItem is one of the seven item kinds of a view column
type ViewItem interface {
	Item
	isViewItem()
}

// SidebarItem is one of the four item kinds of a view sidebar
type SidebarItem interface {
	Item
	isSidebarItem()
}

// ItemMeta carries the read-time projection of a resolved reference.
// It is recomputed on every read and never persisted.
type ItemMeta struct {
	DataName          string    `json:"dataName,omitempty"`
	EntityID          uuid.UUID `json:"entityId"`
	EntityName        string    `json:"entityName,omitempty"`
	EntityLabel       string    `json:"entityLabel,omitempty"`
	EntityLabelPlural string    `json:"entityLabelPlural,omitempty"`
}

// Meta exposes the projection for enrichment
func (m *ItemMeta) Meta() *ItemMeta { return m }

// FieldItem references a field of the owning entity
type FieldItem struct {
	ItemMeta
	FieldID    uuid.UUID   `json:"fieldId"`
	FieldName  string      `json:"fieldName"`
	FieldLabel string      `json:"fieldLabel,omitempty"`
	Field      *TypedField `json:"meta,omitempty"`
}

// RelationFieldItem references a field of an entity reached through a relation
type RelationFieldItem struct {
	ItemMeta
	RelationID   uuid.UUID   `json:"relationId"`
	RelationName string      `json:"relationName"`
	FieldID      uuid.UUID   `json:"fieldId"`
	FieldName    string      `json:"fieldName"`
	FieldLabel   string      `json:"fieldLabel,omitempty"`
	Field        *TypedField `json:"meta,omitempty"`
}

// ListItem references a record list of the owning entity
type ListItem struct {
	ItemMeta
	ListID    uuid.UUID   `json:"listId"`
	ListName  string      `json:"listName"`
	ListLabel string      `json:"listLabel,omitempty"`
	List      *RecordList `json:"meta,omitempty"`
}

// RelationListItem references a record list of a related entity
type RelationListItem struct {
	ItemMeta
	RelationID   uuid.UUID   `json:"relationId"`
	RelationName string      `json:"relationName"`
	ListID       uuid.UUID   `json:"listId"`
	ListName     string      `json:"listName"`
	ListLabel    string      `json:"listLabel,omitempty"`
	List         *RecordList `json:"meta,omitempty"`
}

// ViewRefItem references a record view of the owning entity
type ViewRefItem struct {
	ItemMeta
	ViewID    uuid.UUID   `json:"viewId"`
	ViewName  string      `json:"viewName"`
	ViewLabel string      `json:"viewLabel,omitempty"`
	View      *RecordView `json:"meta,omitempty"`
}

// RelationViewItem references a record view of a related entity
type RelationViewItem struct {
	ItemMeta
	RelationID   uuid.UUID   `json:"relationId"`
	RelationName string      `json:"relationName"`
	ViewID       uuid.UUID   `json:"viewId"`
	ViewName     string      `json:"viewName"`
	ViewLabel    string      `json:"viewLabel,omitempty"`
	View         *RecordView `json:"meta,omitempty"`
}

// HtmlItem is raw markup placed in a view column
type HtmlItem struct {
	Tag     string `json:"tag"`
	Content string `json:"content"`
}

func (*FieldItem) ItemType() ItemType         { return ItemField }
func (*RelationFieldItem) ItemType() ItemType { return ItemFieldFromRelation }
func (*ListItem) ItemType() ItemType          { return ItemList }
func (*RelationListItem) ItemType() ItemType  { return ItemListFromRelation }
func (*ViewRefItem) ItemType() ItemType       { return ItemView }
func (*RelationViewItem) ItemType() ItemType  { return ItemViewFromRelation }
func (*HtmlItem) ItemType() ItemType          { return ItemHTML }

func (*FieldItem) isListColumn()         {}
func (*RelationFieldItem) isListColumn() {}
func (*ListItem) isListColumn()          {}
func (*RelationListItem) isListColumn()  {}
func (*ViewRefItem) isListColumn()       {}
func (*RelationViewItem) isListColumn()  {}

func (*FieldItem) isViewItem()         {}
func (*RelationFieldItem) isViewItem() {}
func (*ListItem) isViewItem()          {}
func (*RelationListItem) isViewItem()  {}
func (*ViewRefItem) isViewItem()       {}
func (*RelationViewItem) isViewItem()  {}
func (*HtmlItem) isViewItem()          {}

func (*ListItem) isSidebarItem()         {}
func (*RelationListItem) isSidebarItem() {}
func (*ViewRefItem) isSidebarItem()      {}
func (*RelationViewItem) isSidebarItem() {}

// newItem returns an empty item of the given type, or nil for an unknown type
func newItem(t ItemType) Item {
	switch t {
	case ItemField:
		return &FieldItem{}
	case ItemFieldFromRelation:
		return &RelationFieldItem{}
	case ItemList:
		return &ListItem{}
	case ItemListFromRelation:
		return &RelationListItem{}
	case ItemView:
		return &ViewRefItem{}
	case ItemViewFromRelation:
		return &RelationViewItem{}
	case ItemHTML:
		return &HtmlItem{}
	}
	return nil
}

// ClearMeta drops every read-time projection from an item
func ClearMeta(it Item) {
	switch v := it.(type) {
	case *FieldItem:
		v.ItemMeta, v.FieldLabel, v.Field = ItemMeta{}, "", nil
	case *RelationFieldItem:
		v.ItemMeta, v.FieldLabel, v.Field = ItemMeta{}, "", nil
	case *ListItem:
		v.ItemMeta, v.ListLabel, v.List = ItemMeta{}, "", nil
	case *RelationListItem:
		v.ItemMeta, v.ListLabel, v.List = ItemMeta{}, "", nil
	case *ViewRefItem:
		v.ItemMeta, v.ViewLabel, v.View = ItemMeta{}, "", nil
	case *RelationViewItem:
		v.ItemMeta, v.ViewLabel, v.View = ItemMeta{}, "", nil
	case *HtmlItem:
	}
}
