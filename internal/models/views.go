package models

import (
	"strings"

	"github.com/google/uuid"
)

// RecordViewType is the purpose of a record view
type RecordViewType string

const (
	ViewTypeGeneral     RecordViewType = "general"
	ViewTypeQuickView   RecordViewType = "quick_view"
	ViewTypeCreate      RecordViewType = "create"
	ViewTypeQuickCreate RecordViewType = "quick_create"
)

// ParseRecordViewType parses a view type case-insensitively
func ParseRecordViewType(s string) (RecordViewType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range []RecordViewType{ViewTypeGeneral, ViewTypeQuickView, ViewTypeCreate, ViewTypeQuickCreate} {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// DefaultRegionName is the region every new view starts with
const DefaultRegionName = "content"

// GridColumns is the width every view row is divided into
const GridColumns = 12

// RecordView is a structured detail-page layout of one record
type RecordView struct {
	ID       uuid.UUID     `json:"id"`
	Name     string        `json:"name"`
	Label    string        `json:"label"`
	Default  bool          `json:"default"`
	System   bool          `json:"system"`
	Weight   Weight        `json:"weight"`
	CssClass string        `json:"cssClass"`
	Type     string        `json:"type"`
	Regions  []*ViewRegion `json:"regions"`
	Sidebar  *ViewSidebar  `json:"sidebar"`
}

func (v *RecordView) GetID() uuid.UUID   { return v.ID }
func (v *RecordView) GetWeight() Weight  { return v.Weight }
func (v *RecordView) SetWeight(w Weight) { v.Weight = w }

// ViewRegion is a named area of a view holding sections
type ViewRegion struct {
	Name     string         `json:"name"`
	Render   bool           `json:"render"`
	CssClass string         `json:"cssClass"`
	Sections []*ViewSection `json:"sections"`
}

// ViewSection groups rows under an optional label
type ViewSection struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Label     string     `json:"label"`
	CssClass  string     `json:"cssClass"`
	ShowLabel bool       `json:"showLabel"`
	Collapsed bool       `json:"collapsed"`
	TabOrder  string     `json:"tabOrder"`
	Weight    Weight     `json:"weight"`
	Rows      []*ViewRow `json:"rows"`
}

func (s *ViewSection) GetID() uuid.UUID   { return s.ID }
func (s *ViewSection) GetWeight() Weight  { return s.Weight }
func (s *ViewSection) SetWeight(w Weight) { s.Weight = w }

// ViewRow is a horizontal band of grid columns
type ViewRow struct {
	ID      uuid.UUID     `json:"id"`
	Weight  Weight        `json:"weight"`
	Columns []*ViewColumn `json:"columns"`
}

func (r *ViewRow) GetID() uuid.UUID   { return r.ID }
func (r *ViewRow) GetWeight() Weight  { return r.Weight }
func (r *ViewRow) SetWeight(w Weight) { r.Weight = w }

// ViewColumn is a slice of a row, gridColCount twelfths wide
type ViewColumn struct {
	GridColCount int       `json:"gridColCount"`
	Items        ViewItems `json:"items"`
}

// ViewSidebar holds lists and views shown next to the record
type ViewSidebar struct {
	Render   bool         `json:"render"`
	CssClass string       `json:"cssClass"`
	Items    SidebarItems `json:"items"`
}
