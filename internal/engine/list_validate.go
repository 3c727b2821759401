package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
	"github.com/railsuser2014/WebVella-ERP/internal/validation"
)

const msgListNotFound = "List with such Id does not exist!"

// validateRecordList checks a record list against its entity and the graph and
// returns a normalized copy. existing says whether the list is expected to
// exist already.
func (m *EntityManager) validateRecordList(g *Graph, entity *models.Entity, input *models.RecordList, existing bool) (*models.RecordList, models.Errors, error) {
	var errs models.Errors
	if input == nil {
		errs.Add("list", "", "List is required!")
		return nil, errs, nil
	}
	list, err := models.Clone(input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to copy list: %w", err)
	}
	list.Name = strings.TrimSpace(list.Name)
	list.Label = strings.TrimSpace(list.Label)
	list.CssClass = strings.TrimSpace(list.CssClass)

	if list.ID == uuid.Nil {
		errs.Add("id", "", "Id is required!")
	} else {
		found := entity.ListByID(list.ID)
		switch {
		case existing && found == nil:
			errs.Add("id", list.ID.String(), msgListNotFound)
		case !existing && found != nil:
			errs.Add("id", list.ID.String(), "There is already a list with such Id!")
		}
	}

	nameErrs := validation.ValidateName(list.Name, "name")
	errs.Append(nameErrs...)
	if len(nameErrs) == 0 {
		if other := entity.ListByName(list.Name); other != nil && other.ID != list.ID {
			errs.Add("name", list.Name, "There is already a list with such Name!")
		}
	}
	errs.Append(validation.ValidateLabel(list.Label, "label")...)

	if strings.TrimSpace(list.Type) == "" {
		errs.Add("type", "", "Type is required!")
	} else if t, ok := models.ParseRecordListType(list.Type); ok {
		list.Type = string(t)
	} else {
		errs.Add("type", list.Type, "There is no such type!")
	}
	if list.PageSize <= 0 {
		list.PageSize = defaultPageSize
	}

	checker := newItemChecker(g, entity, "columns.", &errs)
	for _, col := range list.Columns {
		checker.check(col)
	}
	if list.Columns == nil {
		list.Columns = models.ListColumns{}
	}

	if list.Query != nil {
		m.validateQuery(list.Query, 1, &errs)
	}
	for _, s := range list.Sorts {
		validateSort(s, &errs)
	}
	return list, errs, nil
}

// validateQuery checks one node of a filter tree and normalizes its type
func (m *EntityManager) validateQuery(q *models.RecordListQuery, depth int, errs *models.Errors) {
	if depth > m.opts.MaxQueryDepth {
		errs.Add("query.subQueries", "", fmt.Sprintf("Query nesting cannot be deeper than %d levels!", m.opts.MaxQueryDepth))
		return
	}
	if strings.TrimSpace(q.QueryType) == "" {
		errs.Add("query.queryType", "", "QueryType is required!")
		return
	}
	t, ok := models.ParseQueryType(q.QueryType)
	if !ok {
		errs.Add("query.queryType", q.QueryType, "There is no such query type!")
		return
	}
	q.QueryType = string(t)

	if t.IsBranch() {
		if q.FieldName != "" {
			errs.Add("query.fieldName", q.FieldName, "FieldName is not allowed for AND and OR queries!")
		}
		if q.FieldValue != nil {
			errs.Add("query.fieldValue", fmt.Sprint(q.FieldValue), "FieldValue is not allowed for AND and OR queries!")
		}
		if len(q.SubQueries) == 0 {
			errs.Add("query.subQueries", "", "SubQueries must have at least one item!")
			return
		}
		for _, sub := range q.SubQueries {
			if sub == nil {
				errs.Add("query.subQueries", "", "SubQueries cannot contain empty items!")
				continue
			}
			m.validateQuery(sub, depth+1, errs)
		}
		return
	}

	q.FieldName = strings.TrimSpace(q.FieldName)
	if q.FieldName == "" {
		errs.Add("query.fieldName", "", "FieldName is required!")
	}
	if q.FieldValue == nil {
		errs.Add("query.fieldValue", "", "FieldValue is required!")
	}
	if len(q.SubQueries) > 0 {
		errs.Add("query.subQueries", "", "SubQueries are allowed only for AND and OR queries!")
	}
}

func validateSort(s *models.RecordListSort, errs *models.Errors) {
	if s == nil {
		errs.Add("sorts", "", "Sort is required!")
		return
	}
	s.FieldName = strings.TrimSpace(s.FieldName)
	if s.FieldName == "" {
		errs.Add("sorts.fieldName", "", "FieldName is required!")
	}
	if strings.TrimSpace(s.SortType) == "" {
		errs.Add("sorts.sortType", "", "SortType is required!")
	} else if t, ok := models.ParseSortType(s.SortType); ok {
		s.SortType = string(t)
	} else {
		errs.Add("sorts.sortType", s.SortType, "There is no such sort type!")
	}
}
