package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
	"github.com/railsuser2014/WebVella-ERP/internal/ordering"
	"github.com/railsuser2014/WebVella-ERP/internal/validation"
)

const msgViewNotFound = "Record view with such Id does not exist!"

const (
	keyRegions  = "regions."
	keySections = "regions.sections."
	keyRows     = "regions.sections.rows."
	keyColumns  = "regions.sections.rows.columns."
	keyItems    = "regions.sections.rows.columns.items."
	keySidebar  = "sidebar.items."
)

// validateRecordView checks a record view against its entity and the graph
// and returns a normalized copy with sections and rows renumbered
func (m *EntityManager) validateRecordView(g *Graph, entity *models.Entity, input *models.RecordView, existing bool) (*models.RecordView, models.Errors, error) {
	var errs models.Errors
	if input == nil {
		errs.Add("view", "", "Record view is required!")
		return nil, errs, nil
	}
	view, err := models.Clone(input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to copy view: %w", err)
	}
	view.Name = strings.TrimSpace(view.Name)
	view.Label = strings.TrimSpace(view.Label)
	view.CssClass = strings.TrimSpace(view.CssClass)

	if view.ID == uuid.Nil {
		errs.Add("id", "", "Id is required!")
	} else {
		found := entity.ViewByID(view.ID)
		switch {
		case existing && found == nil:
			errs.Add("id", view.ID.String(), msgViewNotFound)
		case !existing && found != nil:
			errs.Add("id", view.ID.String(), "There is already a view with such Id!")
		}
	}

	nameErrs := validation.ValidateViewName(view.Name, "name")
	errs.Append(nameErrs...)
	if len(nameErrs) == 0 {
		if other := entity.ViewByName(view.Name); other != nil && other.ID != view.ID {
			errs.Add("name", view.Name, "There is already a view with such Name!")
		}
	}
	errs.Append(validation.ValidateLabel(view.Label, "label")...)

	if strings.TrimSpace(view.Type) == "" {
		errs.Add("type", "", "Type is required!")
	} else if t, ok := models.ParseRecordViewType(view.Type); ok {
		view.Type = string(t)
	} else {
		errs.Add("type", view.Type, "There is no such type!")
	}

	if view.Regions == nil {
		view.Regions = []*models.ViewRegion{}
	}
	regionNames := map[string]bool{}
	for _, region := range view.Regions {
		if region == nil {
			errs.Add("regions", "", "Region is required!")
			continue
		}
		region.Name = strings.TrimSpace(region.Name)
		region.CssClass = strings.TrimSpace(region.CssClass)
		switch {
		case region.Name == "":
			errs.Add(keyRegions+"name", "", "Name is required!")
		case regionNames[region.Name]:
			errs.Add(keyRegions+"name", region.Name, "There is already region with such name!")
		default:
			errs.Append(validation.ValidateName(region.Name, keyRegions+"name")...)
		}
		regionNames[region.Name] = true
		validateSections(g, entity, region, &errs)
	}

	if view.Sidebar != nil {
		view.Sidebar.CssClass = strings.TrimSpace(view.Sidebar.CssClass)
		checker := newItemChecker(g, entity, keySidebar, &errs)
		for _, it := range view.Sidebar.Items {
			checker.check(it)
		}
		if view.Sidebar.Items == nil {
			view.Sidebar.Items = models.SidebarItems{}
		}
	}
	return view, errs, nil
}

func validateSections(g *Graph, entity *models.Entity, region *models.ViewRegion, errs *models.Errors) {
	sectionIDs := map[uuid.UUID]bool{}
	sectionNames := map[string]bool{}
	sections := make([]*models.ViewSection, 0, len(region.Sections))
	for _, section := range region.Sections {
		if section == nil {
			errs.Add(keyRegions+"sections", "", "Section is required!")
			continue
		}
		section.Name = strings.TrimSpace(section.Name)
		section.Label = strings.TrimSpace(section.Label)
		section.CssClass = strings.TrimSpace(section.CssClass)

		switch {
		case section.ID == uuid.Nil:
			errs.Add(keySections+"id", "", "Id is required!")
		case sectionIDs[section.ID]:
			errs.Add(keySections+"id", section.ID.String(), "There is already a section with such Id!")
		}
		sectionIDs[section.ID] = true

		nameErrs := validation.ValidateName(section.Name, keySections+"name")
		errs.Append(nameErrs...)
		if len(nameErrs) == 0 && sectionNames[section.Name] {
			errs.Add(keySections+"name", section.Name, "There is already section with such name!")
		}
		sectionNames[section.Name] = true
		errs.Append(validation.ValidateLabel(section.Label, keySections+"label")...)

		if !section.Weight.IsSet() {
			section.Weight = 1
		}
		validateRows(g, entity, section, errs)
		sections = append(sections, section)
	}
	region.Sections = ordering.Renumber(sections)
}

func validateRows(g *Graph, entity *models.Entity, section *models.ViewSection, errs *models.Errors) {
	rowIDs := map[uuid.UUID]bool{}
	rows := make([]*models.ViewRow, 0, len(section.Rows))
	for _, row := range section.Rows {
		if row == nil {
			errs.Add(keySections+"rows", "", "Row is required!")
			continue
		}
		switch {
		case row.ID == uuid.Nil:
			errs.Add(keyRows+"id", "", "Id is required!")
		case rowIDs[row.ID]:
			errs.Add(keyRows+"id", row.ID.String(), "There is already a row with such Id!")
		}
		rowIDs[row.ID] = true
		if !row.Weight.IsSet() {
			row.Weight = 1
		}

		width, valid := 0, true
		for _, col := range row.Columns {
			if col == nil {
				errs.Add(keyRows+"columns", "", "Column is required!")
				valid = false
				continue
			}
			if col.GridColCount < 1 || col.GridColCount > models.GridColumns {
				errs.Add(keyColumns+"gridColCount", fmt.Sprint(col.GridColCount), "Grid column count must be between 1 and 12!")
				valid = false
			}
			width += col.GridColCount

			checker := newItemChecker(g, entity, keyItems, errs)
			for _, it := range col.Items {
				checker.check(it)
			}
			if col.Items == nil {
				col.Items = models.ViewItems{}
			}
		}
		if valid && len(row.Columns) > 0 && width != models.GridColumns {
			errs.Add(keyColumns+"gridColCount", fmt.Sprint(width), "The grid column counts of a row must sum to 12!")
		}
		rows = append(rows, row)
	}
	section.Rows = ordering.Renumber(rows)
}
