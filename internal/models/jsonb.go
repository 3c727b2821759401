// Package models - tagged JSON encoding for the polymorphic metadata parts
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

const (
	fieldTypeKey = "fieldType"
	itemTypeKey  = "type"
)

// withTag prefixes an encoded JSON object with a discriminator member
func withTag(key string, tag any, body []byte) ([]byte, error) {
	tagBytes, err := json.Marshal(tag)
	if err != nil {
		return nil, err
	}
	body = bytes.TrimSpace(body)
	if len(body) < 2 || body[0] != '{' {
		return nil, errors.New("tagged value must encode as a JSON object")
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	keyBytes, _ := json.Marshal(key)
	buf.Write(keyBytes)
	buf.WriteByte(':')
	buf.Write(tagBytes)
	if inner := bytes.TrimSpace(body[1 : len(body)-1]); len(inner) > 0 {
		buf.WriteByte(',')
		buf.Write(inner)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}

// =============================================================================
// FIELDS
// =============================================================================

// EncodeField encodes a field with its kind under "fieldType"
func EncodeField(f Field) ([]byte, error) {
	if isNil(f) {
		return []byte("null"), nil
	}
	body, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return withTag(fieldTypeKey, f.Kind(), body)
}

// DecodeField decodes a field whose kind is given by "fieldType"
func DecodeField(data []byte) (Field, error) {
	var probe struct {
		FieldType FieldType `json:"fieldType"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("invalid field: %w", err)
	}
	f := NewField(probe.FieldType)
	if f == nil {
		return nil, fmt.Errorf("unknown field type %d", probe.FieldType)
	}
	if err := json.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("invalid %s field: %w", probe.FieldType, err)
	}
	return f, nil
}

// FieldList is an ordered set of fields of mixed kinds
type FieldList []Field

func (l FieldList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	out := make([]json.RawMessage, 0, len(l))
	for _, f := range l {
		b, err := EncodeField(f)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return json.Marshal(out)
}

func (l *FieldList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	fields := make(FieldList, 0, len(raw))
	for i, r := range raw {
		f, err := DecodeField(r)
		if err != nil {
			return fmt.Errorf("fields[%d]: %w", i, err)
		}
		fields = append(fields, f)
	}
	*l = fields
	return nil
}

// TypedField wraps a single field so its kind travels with it
type TypedField struct {
	Field
}

func (t TypedField) MarshalJSON() ([]byte, error) {
	return EncodeField(t.Field)
}

func (t *TypedField) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		t.Field = nil
		return nil
	}
	f, err := DecodeField(data)
	if err != nil {
		return err
	}
	t.Field = f
	return nil
}

// =============================================================================
// ITEMS
// =============================================================================

func encodeItem(it Item) ([]byte, error) {
	if isNil(it) {
		return []byte("null"), nil
	}
	body, err := json.Marshal(it)
	if err != nil {
		return nil, err
	}
	return withTag(itemTypeKey, it.ItemType(), body)
}

func decodeItem(data []byte) (Item, error) {
	var probe struct {
		Type ItemType `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	it := newItem(probe.Type)
	if it == nil {
		return nil, fmt.Errorf("unknown item type %q", probe.Type)
	}
	if err := json.Unmarshal(data, it); err != nil {
		return nil, fmt.Errorf("invalid %s item: %w", probe.Type, err)
	}
	return it, nil
}

func encodeItems[T Item](items []T) ([]byte, error) {
	out := make([]json.RawMessage, 0, len(items))
	for _, it := range items {
		b, err := encodeItem(it)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return json.Marshal(out)
}

func decodeItems[T Item](data []byte, what string) ([]T, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	for i, r := range raw {
		it, err := decodeItem(r)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", what, i, err)
		}
		typed, ok := it.(T)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: item type %q is not allowed here", what, i, it.ItemType())
		}
		out = append(out, typed)
	}
	return out, nil
}

// ListColumns is the ordered column sequence of a record list
type ListColumns []ListColumn

func (c ListColumns) MarshalJSON() ([]byte, error) { return encodeItems(c) }

func (c *ListColumns) UnmarshalJSON(data []byte) error {
	items, err := decodeItems[ListColumn](data, "columns")
	if err != nil {
		return err
	}
	*c = items
	return nil
}

// ViewItems is the ordered item sequence of a view column
type ViewItems []ViewItem

func (v ViewItems) MarshalJSON() ([]byte, error) { return encodeItems(v) }

func (v *ViewItems) UnmarshalJSON(data []byte) error {
	items, err := decodeItems[ViewItem](data, "items")
	if err != nil {
		return err
	}
	*v = items
	return nil
}

// SidebarItems is the ordered item sequence of a view sidebar
type SidebarItems []SidebarItem

func (s SidebarItems) MarshalJSON() ([]byte, error) { return encodeItems(s) }

func (s *SidebarItems) UnmarshalJSON(data []byte) error {
	items, err := decodeItems[SidebarItem](data, "items")
	if err != nil {
		return err
	}
	*s = items
	return nil
}

// =============================================================================
// CLONING
// =============================================================================

// Clone returns a deep copy of v made through its JSON form
func Clone[T any](v T) (T, error) {
	var out T
	b, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(b, &out)
	return out, err
}

// CloneField returns a deep copy of a field of any kind
func CloneField(f Field) (Field, error) {
	b, err := EncodeField(f)
	if err != nil {
		return nil, err
	}
	return DecodeField(b)
}
