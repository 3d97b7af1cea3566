package kson

import "fmt"

// Decode rebuilds keyed values from a keyless tree. With a schema id the
// whole tree is field data; without one slot 0 names the schema. A tree that
// carries no schema id (anything but a list headed by a string) is returned
// unchanged, so plain JSON flows through the same entry point.
//
// Single records decode to map[string]any, the "[]" form to []any of them.
func (e *Engine) Decode(tree any, schemaID ...string) (any, error) {
	var id string
	if len(schemaID) > 0 && schemaID[0] != "" {
		id = schemaID[0]
	} else {
		list, ok := tree.([]any)
		if !ok || len(list) == 0 {
			return tree, nil
		}
		if id, ok = list[0].(string); !ok {
			return tree, nil
		}
		tree = list[1:]
	}
	plain, many := splitID(id)
	s, ok := e.lookup(plain)
	if !ok {
		return nil, schemaNotFound(plain)
	}
	seq, ok := asSequence(tree)
	if !ok {
		return nil, newError(CodeInvalidValue, id, fmt.Sprintf("expected a list, got %T", tree), nil)
	}
	return e.decodeFields(seq, s, many)
}

// Parse deserializes raw with the wire driver and decodes the result.
func (e *Engine) Parse(raw []byte, schemaID ...string) (any, error) {
	tree, err := e.wireDriver().Unmarshal(raw)
	if err != nil {
		return nil, newError(CodeWire, "", "unmarshal", err)
	}
	return e.Decode(tree, schemaID...)
}

// decodeFields reads one record from the front of list, or consecutive
// records until list is exhausted when many is set.
func (e *Engine) decodeFields(list []any, s *Schema, many bool) (any, error) {
	if !many {
		return e.decodeRecord(list, 0, s)
	}
	out := []any{}
	n := len(s.Fields)
	if n == 0 {
		return out, nil
	}
	for pos := 0; pos < len(list); pos += n {
		rec, err := e.decodeRecord(list, pos, s)
		if err != nil {
			return nil, atIndex(err, len(out))
		}
		out = append(out, rec)
	}
	return out, nil
}

func (e *Engine) decodeRecord(list []any, pos int, s *Schema) (map[string]any, error) {
	rec := make(map[string]any, len(s.Fields))
	for i, f := range s.Fields {
		var raw any
		if pos+i < len(list) {
			raw = list[pos+i]
		}
		v, err := e.process(raw, s.Meta[i], decoding)
		if err != nil {
			return nil, atField(err, f)
		}
		rec[f] = v
	}
	return rec, nil
}
