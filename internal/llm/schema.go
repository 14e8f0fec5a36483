package llm

// Schema is the subset of JSON Schema every provider can express. Values are
// shared between requests and must not be modified after construction.
type Schema struct {
	Type                 string             `json:"type"`
	Description          string             `json:"description,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty"`
}

const (
	TypeObject = "object"
	TypeArray  = "array"
	TypeString = "string"
)

// Map returns the schema as plain JSON-compatible values.
func (s *Schema) Map() map[string]interface{} {
	if s == nil {
		return nil
	}
	m := map[string]interface{}{"type": s.Type}
	if s.Description != "" {
		m["description"] = s.Description
	}
	if len(s.Properties) > 0 {
		props := make(map[string]interface{}, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = p.Map()
		}
		m["properties"] = props
	}
	if len(s.Required) > 0 {
		m["required"] = append([]string(nil), s.Required...)
	}
	if s.Items != nil {
		m["items"] = s.Items.Map()
	}
	if s.AdditionalProperties != nil {
		m["additionalProperties"] = *s.AdditionalProperties
	}
	return m
}
