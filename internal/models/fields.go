package models

import (
	"time"

	"github.com/google/uuid"
)

// FieldType identifies one of the closed set of field kinds
type FieldType int

const (
	AutoNumberFieldType    FieldType = 1
	CheckboxFieldType      FieldType = 2
	CurrencyFieldType      FieldType = 3
	DateFieldType          FieldType = 4
	DateTimeFieldType      FieldType = 5
	EmailFieldType         FieldType = 6
	FileFieldType          FieldType = 7
	HtmlFieldType          FieldType = 8
	ImageFieldType         FieldType = 9
	MultiLineTextFieldType FieldType = 10
	MultiSelectFieldType   FieldType = 11
	NumberFieldType        FieldType = 12
	PasswordFieldType      FieldType = 13
	PercentFieldType       FieldType = 14
	PhoneFieldType         FieldType = 15
	GuidFieldType          FieldType = 16
	SelectFieldType        FieldType = 17
	TextFieldType          FieldType = 18
	UrlFieldType           FieldType = 19
)

var fieldTypeNames = map[FieldType]string{
	AutoNumberFieldType:    "autonumber",
	CheckboxFieldType:      "checkbox",
	CurrencyFieldType:      "currency",
	DateFieldType:          "date",
	DateTimeFieldType:      "datetime",
	EmailFieldType:         "email",
	FileFieldType:          "file",
	HtmlFieldType:          "html",
	ImageFieldType:         "image",
	MultiLineTextFieldType: "multilinetext",
	MultiSelectFieldType:   "multiselect",
	NumberFieldType:        "number",
	PasswordFieldType:      "password",
	PercentFieldType:       "percent",
	PhoneFieldType:         "phone",
	GuidFieldType:          "guid",
	SelectFieldType:        "select",
	TextFieldType:          "text",
	UrlFieldType:           "url",
}

func (t FieldType) String() string {
	if n, ok := fieldTypeNames[t]; ok {
		return n
	}
	return "unknown"
}

// FieldTypes returns every known kind in numeric order
func FieldTypes() []FieldType {
	out := make([]FieldType, 0, len(fieldTypeNames))
	for t := AutoNumberFieldType; t <= UrlFieldType; t++ {
		out = append(out, t)
	}
	return out
}

// Field is one column definition of an entity.
// The concrete kinds below are the only implementations.
type Field interface {
	Common() *FieldCommon
	Kind() FieldType
}

// FieldCommon holds the attributes every field kind shares
type FieldCommon struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Label           string    `json:"label"`
	PlaceholderText string    `json:"placeholderText,omitempty"`
	Description     string    `json:"description,omitempty"`
	HelpText        string    `json:"helpText,omitempty"`
	Required        bool      `json:"required"`
	Unique          bool      `json:"unique"`
	Searchable      bool      `json:"searchable"`
	Auditable       bool      `json:"auditable"`
	System          bool      `json:"system"`
}

// Common returns the shared attributes
func (c *FieldCommon) Common() *FieldCommon { return c }

// SelectFieldOption is one entry of a select or multi-select field
type SelectFieldOption struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CurrencyType describes the currency of a currency field
type CurrencyType struct {
	Symbol          string `json:"symbol"`
	SymbolNative    string `json:"symbolNative"`
	Name            string `json:"name"`
	NamePlural      string `json:"namePlural"`
	Code            string `json:"code"`
	DecimalDigits   int    `json:"decimalDigits"`
	Rounding        int    `json:"rounding"`
	SymbolPlacement string `json:"symbolPlacement"`
}

// DefaultCurrency is assigned to currency fields created without one
func DefaultCurrency() *CurrencyType {
	return &CurrencyType{
		Symbol:          "$",
		SymbolNative:    "$",
		Name:            "US Dollar",
		NamePlural:      "US dollars",
		Code:            "USD",
		DecimalDigits:   2,
		Rounding:        0,
		SymbolPlacement: "before",
	}
}

type AutoNumberField struct {
	FieldCommon
	DefaultValue   *float64 `json:"defaultValue"`
	DisplayFormat  string   `json:"displayFormat"`
	StartingNumber *float64 `json:"startingNumber"`
}

type CheckboxField struct {
	FieldCommon
	DefaultValue *bool `json:"defaultValue"`
}

type CurrencyField struct {
	FieldCommon
	DefaultValue *float64      `json:"defaultValue"`
	MinValue     *float64      `json:"minValue"`
	MaxValue     *float64      `json:"maxValue"`
	Currency     *CurrencyType `json:"currency"`
}

type DateField struct {
	FieldCommon
	DefaultValue                 *time.Time `json:"defaultValue"`
	Format                       string     `json:"format"`
	UseCurrentTimeAsDefaultValue *bool      `json:"useCurrentTimeAsDefaultValue"`
}

type DateTimeField struct {
	FieldCommon
	DefaultValue                 *time.Time `json:"defaultValue"`
	Format                       string     `json:"format"`
	UseCurrentTimeAsDefaultValue *bool      `json:"useCurrentTimeAsDefaultValue"`
}

type EmailField struct {
	FieldCommon
	DefaultValue *string `json:"defaultValue"`
	MaxLength    *int    `json:"maxLength"`
}

type FileField struct {
	FieldCommon
	DefaultValue *string `json:"defaultValue"`
}

// GuidField holds a unique identifier. The unique GUID field of an entity is its primary field.
type GuidField struct {
	FieldCommon
	DefaultValue  *uuid.UUID `json:"defaultValue"`
	GenerateNewID *bool      `json:"generateNewId"`
}

type HtmlField struct {
	FieldCommon
	DefaultValue *string `json:"defaultValue"`
}

type ImageField struct {
	FieldCommon
	DefaultValue *string `json:"defaultValue"`
}

type MultiLineTextField struct {
	FieldCommon
	DefaultValue      *string `json:"defaultValue"`
	MaxLength         *int    `json:"maxLength"`
	VisibleLineNumber *int    `json:"visibleLineNumber"`
}

type MultiSelectField struct {
	FieldCommon
	DefaultValue []string            `json:"defaultValue"`
	Options      []SelectFieldOption `json:"options"`
}

type NumberField struct {
	FieldCommon
	DefaultValue  *float64 `json:"defaultValue"`
	MinValue      *float64 `json:"minValue"`
	MaxValue      *float64 `json:"maxValue"`
	DecimalPlaces *int     `json:"decimalPlaces"`
}

type PasswordField struct {
	FieldCommon
	DefaultValue *string `json:"defaultValue"`
	MaxLength    *int    `json:"maxLength"`
	MinLength    *int    `json:"minLength"`
	Encrypted    *bool   `json:"encrypted"`
}

type PercentField struct {
	FieldCommon
	DefaultValue  *float64 `json:"defaultValue"`
	MinValue      *float64 `json:"minValue"`
	MaxValue      *float64 `json:"maxValue"`
	DecimalPlaces *int     `json:"decimalPlaces"`
}

type PhoneField struct {
	FieldCommon
	DefaultValue *string `json:"defaultValue"`
	Format       string  `json:"format"`
	MaxLength    *int    `json:"maxLength"`
}

type SelectField struct {
	FieldCommon
	DefaultValue *string             `json:"defaultValue"`
	Options      []SelectFieldOption `json:"options"`
}

type TextField struct {
	FieldCommon
	DefaultValue *string `json:"defaultValue"`
	MaxLength    *int    `json:"maxLength"`
}

type UrlField struct {
	FieldCommon
	DefaultValue          *string `json:"defaultValue"`
	MaxLength             *int    `json:"maxLength"`
	OpenTargetInNewWindow *bool   `json:"openTargetInNewWindow"`
}

func (*AutoNumberField) Kind() FieldType    { return AutoNumberFieldType }
func (*CheckboxField) Kind() FieldType      { return CheckboxFieldType }
func (*CurrencyField) Kind() FieldType      { return CurrencyFieldType }
func (*DateField) Kind() FieldType          { return DateFieldType }
func (*DateTimeField) Kind() FieldType      { return DateTimeFieldType }
func (*EmailField) Kind() FieldType         { return EmailFieldType }
func (*FileField) Kind() FieldType          { return FileFieldType }
func (*GuidField) Kind() FieldType          { return GuidFieldType }
func (*HtmlField) Kind() FieldType          { return HtmlFieldType }
func (*ImageField) Kind() FieldType         { return ImageFieldType }
func (*MultiLineTextField) Kind() FieldType { return MultiLineTextFieldType }
func (*MultiSelectField) Kind() FieldType   { return MultiSelectFieldType }
func (*NumberField) Kind() FieldType        { return NumberFieldType }
func (*PasswordField) Kind() FieldType      { return PasswordFieldType }
func (*PercentField) Kind() FieldType       { return PercentFieldType }
func (*PhoneField) Kind() FieldType         { return PhoneFieldType }
func (*SelectField) Kind() FieldType        { return SelectFieldType }
func (*TextField) Kind() FieldType          { return TextFieldType }
func (*UrlField) Kind() FieldType           { return UrlFieldType }

// NewField returns an empty field of the given kind, or nil for an unknown kind
func NewField(t FieldType) Field {
	switch t {
	case AutoNumberFieldType:
		return &AutoNumberField{}
	case CheckboxFieldType:
		return &CheckboxField{}
	case CurrencyFieldType:
		return &CurrencyField{}
	case DateFieldType:
		return &DateField{}
	case DateTimeFieldType:
		return &DateTimeField{}
	case EmailFieldType:
		return &EmailField{}
	case FileFieldType:
		return &FileField{}
	case GuidFieldType:
		return &GuidField{}
	case HtmlFieldType:
		return &HtmlField{}
	case ImageFieldType:
		return &ImageField{}
	case MultiLineTextFieldType:
		return &MultiLineTextField{}
	case MultiSelectFieldType:
		return &MultiSelectField{}
	case NumberFieldType:
		return &NumberField{}
	case PasswordFieldType:
		return &PasswordField{}
	case PercentFieldType:
		return &PercentField{}
	case PhoneFieldType:
		return &PhoneField{}
	case SelectFieldType:
		return &SelectField{}
	case TextFieldType:
		return &TextField{}
	case UrlFieldType:
		return &UrlField{}
	}
	return nil
}

// DefaultValue returns the field's default value, or nil when it has none
func DefaultValue(f Field) any {
	switch v := f.(type) {
	case *AutoNumberField:
		return derefOrNil(v.DefaultValue)
	case *CheckboxField:
		return derefOrNil(v.DefaultValue)
	case *CurrencyField:
		return derefOrNil(v.DefaultValue)
	case *DateField:
		return derefOrNil(v.DefaultValue)
	case *DateTimeField:
		return derefOrNil(v.DefaultValue)
	case *EmailField:
		return derefOrNil(v.DefaultValue)
	case *FileField:
		return derefOrNil(v.DefaultValue)
	case *GuidField:
		return derefOrNil(v.DefaultValue)
	case *HtmlField:
		return derefOrNil(v.DefaultValue)
	case *ImageField:
		return derefOrNil(v.DefaultValue)
	case *MultiLineTextField:
		return derefOrNil(v.DefaultValue)
	case *MultiSelectField:
		if v.DefaultValue == nil {
			return nil
		}
		return append([]string(nil), v.DefaultValue...)
	case *NumberField:
		return derefOrNil(v.DefaultValue)
	case *PasswordField:
		return derefOrNil(v.DefaultValue)
	case *PercentField:
		return derefOrNil(v.DefaultValue)
	case *PhoneField:
		return derefOrNil(v.DefaultValue)
	case *SelectField:
		return derefOrNil(v.DefaultValue)
	case *TextField:
		return derefOrNil(v.DefaultValue)
	case *UrlField:
		return derefOrNil(v.DefaultValue)
	}
	return nil
}

func derefOrNil[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}
