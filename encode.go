package kson

import (
	"fmt"
	"reflect"
)

// Encode flattens data into the keyless tree for schemaID. Slot 0 holds the
// schema id. A slice passed with an unmarked id is encoded as the "[]" form.
func (e *Engine) Encode(data any, schemaID string) ([]any, error) {
	plain, many := splitID(schemaID)
	s, ok := e.lookup(plain)
	if !ok {
		return nil, schemaNotFound(plain)
	}
	if !many && isList(data) {
		many = true
	}
	if many {
		schemaID = ManyMarker + plain
	}
	flat, err := e.encodeFields(data, s, many)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(flat)+1)
	out = append(out, schemaID)
	return append(out, flat...), nil
}

// Stringify encodes data and serializes the tree with the wire driver.
func (e *Engine) Stringify(data any, schemaID string) ([]byte, error) {
	tree, err := e.Encode(data, schemaID)
	if err != nil {
		return nil, err
	}
	b, err := e.wireDriver().Marshal(tree)
	if err != nil {
		return nil, newError(CodeWire, schemaID, "marshal", err)
	}
	return b, nil
}

// encodeFields returns the flat field run of one record, or the concatenated
// runs of every record when many is set.
func (e *Engine) encodeFields(data any, s *Schema, many bool) ([]any, error) {
	if !many {
		return e.encodeRecord(data, s, make([]any, 0, len(s.Fields)))
	}
	if data == nil {
		return []any{}, nil
	}
	items, ok := asSequence(data)
	if !ok {
		return nil, newError(CodeInvalidValue, ManyMarker+s.ID, fmt.Sprintf("expected a list of records, got %T", data), nil)
	}
	out := make([]any, 0, len(items)*len(s.Fields))
	for i, item := range items {
		var err error
		if out, err = e.encodeRecord(item, s, out); err != nil {
			return nil, atIndex(err, i)
		}
	}
	return out, nil
}

func (e *Engine) encodeRecord(rec any, s *Schema, out []any) ([]any, error) {
	get, ok := fieldGetter(rec)
	if !ok {
		return nil, newError(CodeInvalidValue, s.ID, fmt.Sprintf("expected a record, got %T", rec), nil)
	}
	for i, f := range s.Fields {
		v, err := e.process(get(f), s.Meta[i], encoding)
		if err != nil {
			return nil, atField(err, f)
		}
		out = append(out, v)
	}
	return out, nil
}

func isList(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.([]byte); ok {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}
