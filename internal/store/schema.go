package store

import (
	"maps"

	"github.com/kode4food/docket/pkg/api"
)

type (
	// Schema describes the attribute surface of a record source as reported
	// by introspection. A nil Schema degrades gracefully: no patch
	// filtering, raw attribute names as labels
	Schema struct {
		Fields map[api.Name]Field `json:"fields"`
	}

	// Field describes a single attribute of a record source
	Field struct {
		Alias string `json:"alias,omitempty"`
		Type  string `json:"type,omitempty"`
	}
)

// Filter returns a copy of the patch with attribute names the schema does
// not recognize silently dropped. Unknown keys are a symptom of schema
// drift, not a reason to fail the whole update
func (s *Schema) Filter(patch api.Attrs) api.Attrs {
	if s == nil || len(s.Fields) == 0 {
		return maps.Clone(patch)
	}
	res := make(api.Attrs, len(patch))
	for name, value := range patch {
		if _, ok := s.Fields[name]; ok {
			res[name] = value
		}
	}
	return res
}

// Label returns the display alias for an attribute, or the raw name when
// the schema does not carry one
func (s *Schema) Label(name api.Name) string {
	if s != nil {
		if f, ok := s.Fields[name]; ok && f.Alias != "" {
			return f.Alias
		}
	}
	return string(name)
}
