package models

import (
	"encoding/json"
	"time"
)

// Response is the envelope every metadata operation returns
type Response[T any] struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message"`
	Errors    []ErrorModel `json:"errors"`
	Object    T            `json:"object"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewResponse returns an envelope stamped with the current time
func NewResponse[T any]() *Response[T] {
	return &Response[T]{
		Success:   true,
		Errors:    []ErrorModel{},
		Timestamp: time.Now().UTC(),
	}
}

// MarshalJSON keeps the kind of a field object in the encoded envelope
func (r Response[T]) MarshalJSON() ([]byte, error) {
	var object any = r.Object
	if f, ok := object.(Field); ok {
		object = TypedField{Field: f}
	}
	errs := r.Errors
	if errs == nil {
		errs = []ErrorModel{}
	}
	return json.Marshal(struct {
		Success   bool         `json:"success"`
		Message   string       `json:"message"`
		Errors    []ErrorModel `json:"errors"`
		Object    any          `json:"object"`
		Timestamp time.Time    `json:"timestamp"`
	}{r.Success, r.Message, errs, object, r.Timestamp})
}

type (
	EntityResponse       = Response[*Entity]
	EntityListResponse   = Response[[]*Entity]
	FieldResponse        = Response[Field]
	FieldListResponse    = Response[FieldList]
	RecordListResponse   = Response[*RecordList]
	RecordListsResponse  = Response[[]*RecordList]
	RecordViewResponse   = Response[*RecordView]
	RecordViewsResponse  = Response[[]*RecordView]
	RelationResponse     = Response[*EntityRelation]
	RelationListResponse = Response[[]*EntityRelation]
)
