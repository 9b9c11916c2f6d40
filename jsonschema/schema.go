package jsonschema

// Schema is a minimal JSON Schema representation used for export.
// Keep this struct small and extend incrementally.
type Schema struct {
	// Core
	Type        string `json:"type,omitempty"`
	Format      string `json:"format,omitempty"`
	Pattern     string `json:"pattern,omitempty"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
	Enum        []any  `json:"enum,omitempty"`

	// Number
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`

	// String
	MinLength *int `json:"minLength,omitempty"`
	MaxLength *int `json:"maxLength,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`
	MinProperties        *int               `json:"minProperties,omitempty"`

	// Array
	Items    *Schema `json:"items,omitempty"`
	MinItems *int    `json:"minItems,omitempty"`
	MaxItems *int    `json:"maxItems,omitempty"`

	// Composition
	OneOf []*Schema `json:"oneOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`
	AllOf []*Schema `json:"allOf,omitempty"`
}

// Float returns a pointer to f, for the bound fields.
func Float(f float64) *float64 { return &f }

// Int returns a pointer to n, for the length fields.
func Int(n int) *int { return &n }

// String is the schema for any string.
func String() *Schema { return &Schema{Type: "string"} }

// AnyOf wraps alternatives; a single alternative is returned as-is.
func AnyOf(alts ...*Schema) *Schema {
	if len(alts) == 1 {
		return alts[0]
	}
	return &Schema{AnyOf: alts}
}

// Merge overlays the set fields of each schema in order, so sequential
// constraints (type, then bounds) describe one value.
func Merge(schemas ...*Schema) *Schema {
	out := &Schema{}
	for _, s := range schemas {
		if s == nil {
			continue
		}
		if s.Type != "" {
			out.Type = s.Type
		}
		if s.Format != "" {
			out.Format = s.Format
		}
		if s.Pattern != "" {
			out.Pattern = s.Pattern
		}
		if s.Description != "" {
			out.Description = s.Description
		}
		if s.Default != nil {
			out.Default = s.Default
		}
		if s.Enum != nil {
			out.Enum = s.Enum
		}
		if s.Minimum != nil {
			out.Minimum = s.Minimum
		}
		if s.Maximum != nil {
			out.Maximum = s.Maximum
		}
		if s.ExclusiveMinimum != nil {
			out.ExclusiveMinimum = s.ExclusiveMinimum
		}
		if s.ExclusiveMaximum != nil {
			out.ExclusiveMaximum = s.ExclusiveMaximum
		}
		if s.MinLength != nil {
			out.MinLength = s.MinLength
		}
		if s.MaxLength != nil {
			out.MaxLength = s.MaxLength
		}
		if s.Properties != nil {
			out.Properties = s.Properties
			out.Required = s.Required
			out.AdditionalProperties = s.AdditionalProperties
		}
		if s.MinProperties != nil {
			out.MinProperties = s.MinProperties
		}
		if s.Items != nil {
			out.Items = s.Items
		}
		if s.MinItems != nil {
			out.MinItems = s.MinItems
		}
		if s.MaxItems != nil {
			out.MaxItems = s.MaxItems
		}
		if s.OneOf != nil {
			out.OneOf = s.OneOf
		}
		if s.AnyOf != nil {
			out.AnyOf = s.AnyOf
		}
		if s.AllOf != nil {
			out.AllOf = s.AllOf
		}
	}
	return out
}
