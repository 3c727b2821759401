package models

import (
	"strings"

	"github.com/google/uuid"
)

// RecordListType is the purpose of a record list
type RecordListType string

const (
	ListTypeGeneral RecordListType = "general"
	ListTypeLookup  RecordListType = "lookup"
)

// ParseRecordListType parses a list type case-insensitively
func ParseRecordListType(s string) (RecordListType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(ListTypeGeneral):
		return ListTypeGeneral, true
	case string(ListTypeLookup):
		return ListTypeLookup, true
	}
	return "", false
}

// RecordList is a named, filtered and sorted tabular projection of an entity's records
type RecordList struct {
	ID       uuid.UUID         `json:"id"`
	Name     string            `json:"name"`
	Label    string            `json:"label"`
	Default  bool              `json:"default"`
	System   bool              `json:"system"`
	Weight   Weight            `json:"weight"`
	CssClass string            `json:"cssClass"`
	Type     string            `json:"type"`
	PageSize int               `json:"pageSize"`
	Columns  ListColumns       `json:"columns"`
	Query    *RecordListQuery  `json:"query"`
	Sorts    []*RecordListSort `json:"sorts"`
}

func (l *RecordList) GetID() uuid.UUID   { return l.ID }
func (l *RecordList) GetWeight() Weight  { return l.Weight }
func (l *RecordList) SetWeight(w Weight) { l.Weight = w }

// QueryType is a node type of a record list filter tree
type QueryType string

const (
	QueryEQ         QueryType = "EQ"
	QueryNOT        QueryType = "NOT"
	QueryLT         QueryType = "LT"
	QueryLTE        QueryType = "LTE"
	QueryGT         QueryType = "GT"
	QueryGTE        QueryType = "GTE"
	QueryContains   QueryType = "CONTAINS"
	QueryStartsWith QueryType = "STARTSWITH"
	QueryAND        QueryType = "AND"
	QueryOR         QueryType = "OR"
)

var queryTypes = []QueryType{
	QueryEQ, QueryNOT, QueryLT, QueryLTE, QueryGT, QueryGTE,
	QueryContains, QueryStartsWith, QueryAND, QueryOR,
}

// ParseQueryType parses a query node type case-insensitively
func ParseQueryType(s string) (QueryType, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, t := range queryTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// IsBranch reports whether the node combines sub queries
func (t QueryType) IsBranch() bool {
	return t == QueryAND || t == QueryOR
}

// RecordListQuery is a node of the filter tree: an AND/OR branch with SubQueries,
// or a leaf comparing FieldName with FieldValue
type RecordListQuery struct {
	QueryType  string             `json:"queryType"`
	FieldName  string             `json:"fieldName,omitempty"`
	FieldValue any                `json:"fieldValue,omitempty"`
	SubQueries []*RecordListQuery `json:"subQueries,omitempty"`
}

// SortType is the direction of a record list sort
type SortType string

const (
	SortAscending  SortType = "ascending"
	SortDescending SortType = "descending"
)

// ParseSortType parses a sort direction case-insensitively
func ParseSortType(s string) (SortType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(SortAscending):
		return SortAscending, true
	case string(SortDescending):
		return SortDescending, true
	}
	return "", false
}

// RecordListSort orders a record list by one field
type RecordListSort struct {
	FieldName string `json:"fieldName"`
	SortType  string `json:"sortType"`
}
