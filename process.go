package kson

import (
	"fmt"
	"reflect"
)

type direction int

const (
	encoding direction = iota
	decoding
)

// process transforms one field value according to its meta entry: a nested
// schema recurses, a coder chain applies once or element-wise, anything else
// passes through.
func (e *Engine) process(v any, meta Meta, dir direction) (any, error) {
	if v == nil || meta == "" {
		return v, nil
	}
	plain, many := splitID(string(meta))
	s, chain, err := e.resolve(plain)
	if err != nil {
		return nil, err
	}
	switch {
	case s != nil:
		if dir == encoding {
			return e.encodeFields(v, s, many)
		}
		seq, ok := asSequence(v)
		if !ok {
			return nil, newError(CodeInvalidValue, s.ID, fmt.Sprintf("expected a nested list, got %T", v), nil)
		}
		return e.decodeFields(seq, s, many)
	case chain != nil && many:
		return mapSequence(v, chain, dir)
	case chain != nil:
		return chain.apply(v, dir)
	}
	return v, nil
}

// mapSequence applies chain to every element of v and returns a new slice.
// The input is never written to.
func mapSequence(v any, chain *Chain, dir direction) (any, error) {
	items, ok := asSequence(v)
	if !ok {
		return nil, newError(CodeInvalidValue, "[]"+chain.spec, fmt.Sprintf("expected a list, got %T", v), nil)
	}
	out := make([]any, len(items))
	for i, item := range items {
		r, err := chain.apply(item, dir)
		if err != nil {
			return nil, atIndex(err, i)
		}
		out[i] = r
	}
	return out, nil
}

// asSequence views any slice or array as []any. Typed slices are copied
// element by element; strings and byte slices are not sequences.
func asSequence(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case nil:
		return nil, false
	case []byte, string:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// fieldGetter returns a lookup for the fields of one record.
func fieldGetter(rec any) (func(string) any, bool) {
	switch r := rec.(type) {
	case nil:
		return func(string) any { return nil }, true
	case map[string]any:
		return func(k string) any { return r[k] }, true
	case Schema:
		m := r.record()
		return func(k string) any { return m[k] }, true
	case *Schema:
		if r == nil {
			return func(string) any { return nil }, true
		}
		m := r.record()
		return func(k string) any { return m[k] }, true
	}
	rv := reflect.ValueOf(rec)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	kt := rv.Type().Key()
	return func(k string) any {
		mv := rv.MapIndex(reflect.ValueOf(k).Convert(kt))
		if !mv.IsValid() {
			return nil
		}
		return mv.Interface()
	}, true
}
