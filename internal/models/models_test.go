package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeField_KindFromTag(t *testing.T) {
	data := []byte(`{"fieldType":12,"name":"amount","label":"Amount","decimalPlaces":3}`)

	f, err := DecodeField(data)
	require.NoError(t, err)
	require.IsType(t, &NumberField{}, f)
	assert.Equal(t, "amount", f.Common().Name)
	assert.Equal(t, NumberFieldType, f.Kind())

	_, err = DecodeField([]byte(`{"fieldType":0}`))
	assert.ErrorContains(t, err, "unknown field type")
}

func TestEncodeField_TagComesFirst(t *testing.T) {
	f := &TextField{FieldCommon: FieldCommon{ID: uuid.New(), Name: "title"}}

	b, err := EncodeField(f)
	require.NoError(t, err)
	assert.Regexp(t, `^\{"fieldType":18,`, string(b))

	null, err := EncodeField((*TextField)(nil))
	require.NoError(t, err)
	assert.Equal(t, "null", string(null))
}

func TestListColumns_RejectsItemsNotAllowedInLists(t *testing.T) {
	var cols ListColumns
	err := json.Unmarshal([]byte(`[{"type":"field","fieldName":"id"},{"type":"html","tag":"p"}]`), &cols)
	assert.ErrorContains(t, err, `columns[1]: item type "html" is not allowed here`)

	err = json.Unmarshal([]byte(`[{"type":"chart"}]`), &cols)
	assert.ErrorContains(t, err, `unknown item type "chart"`)

	require.NoError(t, json.Unmarshal([]byte(`[{"type":"field","fieldName":"id"}]`), &cols))
	require.Len(t, cols, 1)
	assert.Equal(t, ItemField, cols[0].ItemType())
}

func TestViewItems_KeepsKinds(t *testing.T) {
	items := ViewItems{&FieldItem{FieldName: "name"}, &HtmlItem{Tag: "h3", Content: "Hi"}}

	b, err := json.Marshal(items)
	require.NoError(t, err)

	var back ViewItems
	require.NoError(t, json.Unmarshal(b, &back))
	require.Len(t, back, 2)
	assert.IsType(t, &FieldItem{}, back[0])
	assert.Equal(t, &HtmlItem{Tag: "h3", Content: "Hi"}, back[1])
}

func TestWeight_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want Weight
	}{
		{`3`, 3},
		{`"7"`, 7},
		{`2.6`, 3},
		{`""`, 0},
		{`null`, 0},
		{`-4`, 0},
		{`1e12`, 2147483647},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var w Weight
			require.NoError(t, json.Unmarshal([]byte(tt.in), &w))
			assert.Equal(t, tt.want, w)
		})
	}

	var w Weight
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &w))
}

func TestResponse_MarshalJSON(t *testing.T) {
	resp := NewResponse[Field]()
	resp.Object = &GuidField{FieldCommon: FieldCommon{Name: "id"}}
	resp.Errors = nil

	b, err := json.Marshal(resp)
	require.NoError(t, err)

	var out struct {
		Errors []ErrorModel    `json:"errors"`
		Object json.RawMessage `json:"object"`
	}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.NotNil(t, out.Errors)
	f, err := DecodeField(out.Object)
	require.NoError(t, err)
	assert.Equal(t, GuidFieldType, f.Kind())
}
