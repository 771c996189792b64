package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/yogeshdas-v/yup"
)

// schemaDef is the YAML/JSON shape of a schema definition file.
type schemaDef struct {
	Type       string               `mapstructure:"type"`
	Label      string               `mapstructure:"label"`
	Required   bool                 `mapstructure:"required"`
	Nullable   bool                 `mapstructure:"nullable"`
	Strict     bool                 `mapstructure:"strict"`
	AbortEarly *bool                `mapstructure:"abortEarly"`
	Default    any                  `mapstructure:"default"`
	HasDefault bool                 `mapstructure:"-"`
	OneOf      []any                `mapstructure:"oneOf"`
	NotOneOf   []any                `mapstructure:"notOneOf"`
	Meta       map[string]any       `mapstructure:"meta"`
	Fields     map[string]schemaDef `mapstructure:"fields"`
}

// loadSchemaFile reads a YAML schema definition and builds the schema.
func loadSchemaFile(path string) (*yup.Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	def, err := decodeDef(doc)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return buildSchema(def)
}

func decodeDef(doc map[string]any) (schemaDef, error) {
	var def schemaDef
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &def,
		ErrorUnused: true,
	})
	if err != nil {
		return def, err
	}
	if err := dec.Decode(doc); err != nil {
		return def, err
	}
	markDefaults(&def, doc)
	return def, nil
}

// markDefaults records which nodes carry an explicit default key, since a
// null default is indistinguishable from an absent one after decoding.
func markDefaults(def *schemaDef, doc map[string]any) {
	_, def.HasDefault = doc["default"]
	sub, _ := doc["fields"].(map[string]any)
	for name := range def.Fields {
		field, ok := sub[name].(map[string]any)
		if !ok {
			continue
		}
		f := def.Fields[name]
		markDefaults(&f, field)
		def.Fields[name] = f
	}
}

func buildSchema(def schemaDef) (*yup.Schema, error) {
	var s *yup.Schema
	switch strings.ToLower(def.Type) {
	case "", "mixed":
		s = yup.Mixed()
	case "string":
		s = yup.String()
	case "number":
		s = yup.Number()
	case "bool", "boolean":
		s = yup.Bool()
	case "object":
		fields := make(map[string]*yup.Schema, len(def.Fields))
		for name, sub := range def.Fields {
			built, err := buildSchema(sub)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}
			fields[name] = built
		}
		s = yup.Object(fields)
	default:
		return nil, fmt.Errorf("unknown schema type %q", def.Type)
	}

	if def.Label != "" {
		s = s.Label(def.Label)
	}
	if def.Required {
		s = s.Required()
	}
	if def.Nullable {
		s = s.Nullable()
	}
	if def.Strict {
		s = s.Strict(true)
	}
	if def.AbortEarly != nil {
		s = s.AbortEarly(*def.AbortEarly)
	}
	if def.HasDefault {
		// YAML decodes numbers as int; match the JSON shape the kinds check.
		s = s.Default(normalizeYAML(def.Default))
	}
	if len(def.OneOf) > 0 {
		s = s.OneOf(def.OneOf)
	}
	if len(def.NotOneOf) > 0 {
		s = s.NotOneOf(def.NotOneOf)
	}
	for k, v := range def.Meta {
		s = s.Meta(k, v)
	}
	return s, nil
}

// loadValueFile decodes a JSON or YAML document into a runtime value.
func loadValueFile(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return v, nil
	case ".yaml", ".yml":
		var v any
		if err := yaml.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return normalizeYAML(v), nil
	default:
		return nil, fmt.Errorf("unsupported value file %s (want .json, .yaml, or .yml)", path)
	}
}

// normalizeYAML rewrites yaml.v3 map[string]any trees so integers match the
// JSON shape the schemas expect.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalizeYAML(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeYAML(e)
		}
		return out
	case int:
		return float64(t)
	case int64:
		return float64(t)
	default:
		return v
	}
}
