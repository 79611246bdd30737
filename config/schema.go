package config

import (
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
)

// Schema describes the TOML configuration file as a JSON schema.
// Dotted keys become nested objects, one per section.
func Schema() *jsonschema.Schema {
	root := &jsonschema.Schema{
		Version:    jsonschema.Version,
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}

	keys := lo.Keys(Default)
	sort.Strings(keys)

	for _, k := range keys {
		field := Default[k]
		section, name, found := strings.Cut(k, ".")
		if !found {
			root.Properties.Set(k, fieldSchema(field))
			continue
		}

		parent, ok := root.Properties.Get(section)
		if !ok {
			parent = &jsonschema.Schema{
				Type:       "object",
				Properties: jsonschema.NewProperties(),
			}
			root.Properties.Set(section, parent)
		}
		parent.Properties.Set(name, fieldSchema(field))
	}

	return root
}

func fieldSchema(f Field) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Description: f.Description,
		Default:     f.Value,
	}

	switch f.Value.(type) {
	case string:
		s.Type = "string"
	case int:
		s.Type = "integer"
	case bool:
		s.Type = "boolean"
	case []string:
		s.Type = "array"
		s.Items = &jsonschema.Schema{Type: "string"}
	}

	return s
}
