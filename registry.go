package kson

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/reoring/kson/internal/dupkey"
	"github.com/reoring/kson/internal/metaspec"
)

// AddSchema registers one schema or an ordered batch. input may be a Schema,
// *Schema, []Schema, []*Schema, a keyed map, a []any of keyed maps, or JSON
// text ([]byte or string) holding either keyed schema objects or a keyless
// "schema" / "[]schema" document.
func (e *Engine) AddSchema(input any) error {
	schemas, err := e.schemasFrom(input)
	if err != nil {
		return err
	}
	return e.AddSchemas(schemas...)
}

// AddSchemas validates every schema, checks that each coder spec compiles,
// and then registers the batch in order. A later entry replaces an earlier
// one with the same id, so a placeholder may be declared before its real
// definition. Nothing is registered when any entry fails.
//
// References to schemas are not resolved here: a field may name a schema
// that is registered later.
func (e *Engine) AddSchemas(schemas ...Schema) error {
	var merr *multierror.Error
	batch := make([]Schema, 0, len(schemas))
	for i, s := range schemas {
		n, err := s.normalize()
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("schema %d: %w", i, err))
			continue
		}
		if len(s.Meta) > len(s.Fields) {
			e.log.Debug("surplus meta entries dropped", zap.String("schema", s.ID), zap.Int("fields", len(s.Fields)), zap.Int("meta", len(s.Meta)))
		}
		batch = append(batch, n)
	}
	if err := merr.ErrorOrNil(); err != nil {
		return newError(CodeInvalidSchema, "", "", err)
	}

	known := make(map[string]struct{}, len(batch))
	for _, s := range batch {
		known[s.ID] = struct{}{}
	}
	for _, s := range batch {
		if err := e.checkMeta(s, known); err != nil {
			return err
		}
	}

	e.mu.Lock()
	for i := range batch {
		s := batch[i]
		e.schemas[s.ID] = &s
	}
	e.mu.Unlock()
	for _, s := range batch {
		e.log.Debug("schema registered", zap.String("schema", s.ID), zap.Strings("fields", s.Fields))
	}
	return nil
}

// checkMeta compiles every coder spec of s. Bare identifiers that name
// neither a schema nor a coder are left for late binding.
func (e *Engine) checkMeta(s Schema, known map[string]struct{}) error {
	for i, m := range s.Meta {
		plain := m.Plain()
		if plain == "" {
			continue
		}
		if _, ok := known[plain]; ok {
			continue
		}
		if _, ok := e.lookup(plain); ok {
			continue
		}
		if metaspec.IsBare(plain) && !e.hasCoder(plain) {
			e.log.Debug("meta left unresolved", zap.String("schema", s.ID), zap.String("field", s.Fields[i]), zap.String("ref", plain))
			continue
		}
		if _, err := e.Compile(plain); err != nil {
			return atField(atField(err, s.Fields[i]), s.ID)
		}
	}
	return nil
}

func (e *Engine) schemasFrom(input any) ([]Schema, error) {
	switch v := input.(type) {
	case Schema:
		return []Schema{v}, nil
	case *Schema:
		if v == nil {
			break
		}
		return []Schema{*v}, nil
	case []Schema:
		return v, nil
	case []*Schema:
		out := make([]Schema, 0, len(v))
		for i, s := range v {
			if s == nil {
				return nil, newError(CodeInvalidSchema, "", fmt.Sprintf("schema %d is nil", i), nil)
			}
			out = append(out, *s)
		}
		return out, nil
	case map[string]any:
		s, err := schemaFromRecord(v)
		if err != nil {
			return nil, newError(CodeInvalidSchema, "", "", err)
		}
		return []Schema{s}, nil
	case []any:
		return schemasFromList(v)
	case string:
		return e.schemasFromText([]byte(v))
	case []byte:
		return e.schemasFromText(v)
	}
	return nil, newError(CodeInvalidSchema, "", fmt.Sprintf("unsupported schema input %T", input), nil)
}

func schemasFromList(list []any) ([]Schema, error) {
	out := make([]Schema, 0, len(list))
	var merr *multierror.Error
	for i, item := range list {
		switch r := item.(type) {
		case map[string]any:
			s, err := schemaFromRecord(r)
			if err != nil {
				merr = multierror.Append(merr, fmt.Errorf("schema %d: %w", i, err))
				continue
			}
			out = append(out, s)
		case Schema:
			out = append(out, r)
		case *Schema:
			if r != nil {
				out = append(out, *r)
				continue
			}
			merr = multierror.Append(merr, fmt.Errorf("schema %d is nil", i))
		default:
			merr = multierror.Append(merr, fmt.Errorf("schema %d: expected an object, got %T", i, item))
		}
	}
	if err := merr.ErrorOrNil(); err != nil {
		return nil, newError(CodeInvalidSchema, "", "", err)
	}
	return out, nil
}

// schemasFromText reads keyed JSON schema objects or a keyless document
// encoded with the bootstrap schema.
func (e *Engine) schemasFromText(data []byte) ([]Schema, error) {
	dups, err := dupkey.Find(data)
	if err != nil {
		return nil, newError(CodeWire, "", "schema document", err)
	}
	if len(dups) > 0 {
		msgs := make([]string, len(dups))
		for i, d := range dups {
			msgs[i] = d.String()
		}
		return nil, newError(CodeInvalidSchema, "", strings.Join(msgs, "; "), nil)
	}
	tree, err := e.wireDriver().Unmarshal(data)
	if err != nil {
		return nil, newError(CodeWire, "", "schema document", err)
	}
	if list, ok := tree.([]any); ok && len(list) > 0 {
		if id, ok := list[0].(string); ok {
			if PlainID(id) != BootstrapSchemaID {
				return nil, newError(CodeInvalidSchema, id, fmt.Sprintf("keyless schema documents must use %q", BootstrapSchemaID), nil)
			}
			decoded, err := e.Decode(list)
			if err != nil {
				return nil, err
			}
			tree = decoded
		}
	}
	return e.schemasFrom(tree)
}

// LoadSchemas reads schema documents from r and registers them. JSON input
// (keyed or keyless) is detected by its first character; anything else is
// read as a stream of YAML documents, each holding one schema or a list.
func (e *Engine) LoadSchemas(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return newError(CodeWire, "", "read schemas", err)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return e.AddSchema(trimmed)
	}
	schemas, err := decodeYAMLSchemas(data)
	if err != nil {
		return newError(CodeInvalidSchema, "", "yaml", err)
	}
	return e.AddSchemas(schemas...)
}

// LoadSchemaFile registers the schemas stored at path.
func (e *Engine) LoadSchemaFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return newError(CodeWire, filepath.Base(path), "open", err)
	}
	defer f.Close()
	if err := e.LoadSchemas(f); err != nil {
		if ke, ok := AsError(err); ok && ke.ID == "" {
			ke.ID = path
		}
		return err
	}
	e.log.Debug("schema file loaded", zap.String("path", path))
	return nil
}

func decodeYAMLSchemas(data []byte) ([]Schema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var out []Schema
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if len(doc.Content) == 0 {
			continue
		}
		root := doc.Content[0]
		switch root.Kind {
		case yaml.SequenceNode:
			var list []Schema
			if err := root.Decode(&list); err != nil {
				return nil, err
			}
			out = append(out, list...)
		case yaml.MappingNode:
			var s Schema
			if err := root.Decode(&s); err != nil {
				return nil, err
			}
			out = append(out, s)
		default:
			return nil, fmt.Errorf("line %d: expected a schema mapping or a list of them", root.Line)
		}
	}
}
