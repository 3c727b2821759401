// Package models contains the entity metadata aggregate and its parts
package models

import (
	"strings"

	"github.com/google/uuid"
)

// =============================================================================
// ENTITY
// =============================================================================

// RecordPermissions lists the role ids allowed to perform each record operation
type RecordPermissions struct {
	CanRead   []uuid.UUID `json:"canRead"`
	CanCreate []uuid.UUID `json:"canCreate"`
	CanUpdate []uuid.UUID `json:"canUpdate"`
	CanDelete []uuid.UUID `json:"canDelete"`
}

// Entity is a user-defined record table together with its lists and views
type Entity struct {
	ID                uuid.UUID          `json:"id"`
	Name              string             `json:"name"`
	Label             string             `json:"label"`
	LabelPlural       string             `json:"labelPlural"`
	System            bool               `json:"system"`
	IconName          string             `json:"iconName"`
	Weight            Weight             `json:"weight"`
	RecordPermissions *RecordPermissions `json:"recordPermissions"`
	Fields            FieldList          `json:"fields"`
	RecordLists       []*RecordList      `json:"recordLists"`
	RecordViews       []*RecordView      `json:"recordViews"`
}

// FieldByID returns the field with the given id or nil
func (e *Entity) FieldByID(id uuid.UUID) Field {
	for _, f := range e.Fields {
		if f.Common().ID == id {
			return f
		}
	}
	return nil
}

// FieldByName returns the field with the given name or nil
func (e *Entity) FieldByName(name string) Field {
	for _, f := range e.Fields {
		if f.Common().Name == name {
			return f
		}
	}
	return nil
}

// ListByID returns the record list with the given id or nil
func (e *Entity) ListByID(id uuid.UUID) *RecordList {
	for _, l := range e.RecordLists {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// ListByName returns the record list with the given name or nil
func (e *Entity) ListByName(name string) *RecordList {
	for _, l := range e.RecordLists {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// ViewByID returns the record view with the given id or nil
func (e *Entity) ViewByID(id uuid.UUID) *RecordView {
	for _, v := range e.RecordViews {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// ViewByName returns the record view with the given name or nil
func (e *Entity) ViewByName(name string) *RecordView {
	for _, v := range e.RecordViews {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// PrimaryFields returns the unique GUID fields of the entity.
// A well-formed entity has exactly one.
func (e *Entity) PrimaryFields() []*GuidField {
	var out []*GuidField
	for _, f := range e.Fields {
		if g, ok := f.(*GuidField); ok && g.Unique {
			out = append(out, g)
		}
	}
	return out
}

// =============================================================================
// RELATIONS
// =============================================================================

// RelationType is the cardinality of an entity relation
type RelationType int

const (
	OneToOne   RelationType = 1
	OneToMany  RelationType = 2
	ManyToMany RelationType = 3
)

// String returns a readable cardinality
func (t RelationType) String() string {
	switch t {
	case OneToOne:
		return "1:1"
	case OneToMany:
		return "1:N"
	case ManyToMany:
		return "N:N"
	default:
		return "unknown"
	}
}

// EntityRelation links an origin (entity, field) pair to a target (entity, field) pair
type EntityRelation struct {
	ID             uuid.UUID    `json:"id"`
	Name           string       `json:"name"`
	Label          string       `json:"label"`
	Description    string       `json:"description,omitempty"`
	System         bool         `json:"system"`
	RelationType   RelationType `json:"relationType"`
	OriginEntityID uuid.UUID    `json:"originEntityId"`
	OriginFieldID  uuid.UUID    `json:"originFieldId"`
	TargetEntityID uuid.UUID    `json:"targetEntityId"`
	TargetFieldID  uuid.UUID    `json:"targetFieldId"`
}

// Involves reports whether the entity is on either side of the relation
func (r *EntityRelation) Involves(entityID uuid.UUID) bool {
	return r.OriginEntityID == entityID || r.TargetEntityID == entityID
}

// RelatedEntityID returns the side of the relation opposite to entityID.
// For a self relation both sides are the same entity.
func (r *EntityRelation) RelatedEntityID(entityID uuid.UUID) uuid.UUID {
	if r.OriginEntityID == entityID {
		return r.TargetEntityID
	}
	return r.OriginEntityID
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorModel is one validation failure: the offending key path, the rejected value and a message
type ErrorModel struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// NewError creates an ErrorModel
func NewError(key, value, message string) ErrorModel {
	return ErrorModel{Key: key, Value: value, Message: message}
}

// Errors is an ordered list of validation failures
type Errors []ErrorModel

// Add appends a failure
func (e *Errors) Add(key, value, message string) {
	*e = append(*e, NewError(key, value, message))
}

// Append appends other failures
func (e *Errors) Append(other ...ErrorModel) {
	*e = append(*e, other...)
}

// HasKey reports whether any failure was recorded under key
func (e Errors) HasKey(key string) bool {
	for _, m := range e {
		if m.Key == key {
			return true
		}
	}
	return false
}

// String joins all messages
func (e Errors) String() string {
	parts := make([]string, 0, len(e))
	for _, m := range e {
		parts = append(parts, m.Key+": "+m.Message)
	}
	return strings.Join(parts, "; ")
}
