package kson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ManyMarker prefixes a schema id or meta entry whose value is a sequence.
const ManyMarker = "[]"

// BootstrapSchemaID names the pre-registered schema describing schemas.
const BootstrapSchemaID = "schema"

// Meta is the per-field transform of a schema. The empty Meta is the
// passthrough sentinel, written as 0 on the wire. Any other value is a
// coder spec ("date|int36"), a schema id ("child"), or either of them
// behind ManyMarker ("[]child", "[]enum:a:b"); a bare "[]" marks a plain
// sequence.
type Meta string

// Many reports whether m carries ManyMarker.
func (m Meta) Many() bool { return strings.HasPrefix(string(m), ManyMarker) }

// Plain returns m without ManyMarker.
func (m Meta) Plain() string { return PlainID(string(m)) }

// MarshalJSON writes the passthrough sentinel as 0.
func (m Meta) MarshalJSON() ([]byte, error) {
	if m == "" {
		return []byte("0"), nil
	}
	return gojson.Marshal(string(m))
}

// UnmarshalJSON accepts a string or one of the sentinels 0, null, false.
func (m *Meta) UnmarshalJSON(b []byte) error {
	var v any
	dec := gojson.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	meta, err := metaFromAny(v)
	if err != nil {
		return err
	}
	*m = meta
	return nil
}

// MarshalYAML writes the passthrough sentinel as 0.
func (m Meta) MarshalYAML() (any, error) {
	if m == "" {
		return 0, nil
	}
	return string(m), nil
}

// UnmarshalYAML accepts a string or one of the sentinels 0, null, false.
func (m *Meta) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("meta must be a scalar, got YAML node kind %d", node.Kind)
	}
	switch node.Tag {
	case "!!str":
		*m = Meta(node.Value)
		return nil
	case "!!null":
		*m = ""
		return nil
	}
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	meta, err := metaFromAny(v)
	if err != nil {
		return err
	}
	*m = meta
	return nil
}

// metaFromAny converts a decoded meta entry into Meta.
func metaFromAny(v any) (Meta, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return Meta(x), nil
	case Meta:
		return x, nil
	case bool:
		if !x {
			return "", nil
		}
	case json.Number:
		if f, err := x.Float64(); err == nil && f == 0 {
			return "", nil
		}
	case float64:
		if x == 0 {
			return "", nil
		}
	case int:
		if x == 0 {
			return "", nil
		}
	case int64:
		if x == 0 {
			return "", nil
		}
	case uint64:
		if x == 0 {
			return "", nil
		}
	}
	return "", fmt.Errorf("meta entry must be a string or 0, got %v (%T)", v, v)
}

// PlainID strips ManyMarker from id.
func PlainID(id string) string {
	return strings.TrimPrefix(id, ManyMarker)
}

// splitID returns the plain id and whether id carried ManyMarker.
func splitID(id string) (string, bool) {
	if strings.HasPrefix(id, ManyMarker) {
		return id[len(ManyMarker):], true
	}
	return id, false
}

// Schema is a named, ordered field list with a parallel meta list.
type Schema struct {
	ID     string   `json:"id" yaml:"id"`
	Fields []string `json:"fields" yaml:"fields"`
	Meta   []Meta   `json:"meta" yaml:"meta"`
}

// UnmarshalYAML decodes a schema mapping. meta entries are read
// positionally so null entries stay in place as passthrough.
func (s *Schema) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: schema must be a mapping, got YAML node kind %d", node.Line, node.Kind)
	}
	var rec map[string]any
	if err := node.Decode(&rec); err != nil {
		return err
	}
	out, err := schemaFromRecord(rec)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*s = out
	return nil
}

// Clone returns a deep copy of s.
func (s Schema) Clone() Schema {
	return Schema{
		ID:     s.ID,
		Fields: append([]string(nil), s.Fields...),
		Meta:   append([]Meta(nil), s.Meta...),
	}
}

// normalize validates s and returns a copy whose Meta is aligned with
// Fields. Missing trailing meta entries become passthrough; surplus ones are
// dropped.
func (s Schema) normalize() (Schema, error) {
	if s.ID == "" {
		return Schema{}, fmt.Errorf("missing field 'id'")
	}
	if strings.HasPrefix(s.ID, ManyMarker) {
		return Schema{}, fmt.Errorf("schema id %q must not start with %q", s.ID, ManyMarker)
	}
	if strings.ContainsAny(s.ID, ":|") {
		return Schema{}, fmt.Errorf("schema id %q must not contain ':' or '|'", s.ID)
	}
	seen := make(map[string]struct{}, len(s.Fields))
	for i, f := range s.Fields {
		if f == "" {
			return Schema{}, fmt.Errorf("schema %q: field %d has an empty name", s.ID, i)
		}
		if _, dup := seen[f]; dup {
			return Schema{}, fmt.Errorf("schema %q: duplicate field %q", s.ID, f)
		}
		seen[f] = struct{}{}
	}
	out := s.Clone()
	switch {
	case len(out.Meta) < len(out.Fields):
		out.Meta = append(out.Meta, make([]Meta, len(out.Fields)-len(out.Meta))...)
	case len(out.Meta) > len(out.Fields):
		out.Meta = out.Meta[:len(out.Fields)]
	}
	return out, nil
}

// record renders s as a keyed value for the bootstrap schema.
func (s Schema) record() map[string]any {
	fields := make([]any, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = f
	}
	meta := make([]any, len(s.Meta))
	for i, m := range s.Meta {
		if m == "" {
			meta[i] = 0
		} else {
			meta[i] = string(m)
		}
	}
	return map[string]any{"id": s.ID, "fields": fields, "meta": meta}
}

// schemaFromRecord converts a keyed value (as produced by a JSON, YAML or
// bootstrap-schema decode) into a Schema.
func schemaFromRecord(m map[string]any) (Schema, error) {
	var s Schema
	id, ok := m["id"].(string)
	if !ok {
		return s, fmt.Errorf("missing field 'id'")
	}
	s.ID = id
	rawFields, ok := m["fields"]
	if !ok || rawFields == nil {
		return s, fmt.Errorf("schema %q: missing field 'fields'", id)
	}
	fields, ok := rawFields.([]any)
	if !ok {
		return s, fmt.Errorf("schema %q: 'fields' must be a list, got %T", id, rawFields)
	}
	for i, f := range fields {
		name, ok := f.(string)
		if !ok {
			return s, fmt.Errorf("schema %q: field %d must be a string, got %T", id, i, f)
		}
		s.Fields = append(s.Fields, name)
	}
	switch meta := m["meta"].(type) {
	case nil:
	case []any:
		for i, raw := range meta {
			mv, err := metaFromAny(raw)
			if err != nil {
				return s, fmt.Errorf("schema %q: meta %d: %w", id, i, err)
			}
			s.Meta = append(s.Meta, mv)
		}
	default:
		return s, fmt.Errorf("schema %q: 'meta' must be a list, got %T", id, meta)
	}
	return s, nil
}

// bootstrapSchema describes schemas themselves so schema sets can travel in
// the keyless wire form.
func bootstrapSchema() Schema {
	return Schema{
		ID:     BootstrapSchemaID,
		Fields: []string{"id", "fields", "meta"},
		Meta:   []Meta{"", ManyMarker, ManyMarker},
	}
}
