// Package kson implements a schema-driven, keyless encoding of JSON-shaped
// values.
//
// A schema names an ordered field list and, per field, a meta entry telling
// the engine how to transform the value:
//
//   - "" (written as 0 on the wire): copy the value as is.
//   - a coder spec such as "date|int36" or "enum:draft:published".
//   - a schema id: the field holds one record of that schema.
//   - "[]" followed by a schema id or coder spec: the field holds a list.
//
// Encoding drops the keys and writes field values positionally:
//
//	e := kson.New()
//	_ = e.AddSchemas(kson.Schema{ID: "user", Fields: []string{"name", "role"}, Meta: []kson.Meta{"", "enum:admin:member"}})
//	b, _ := e.Stringify(map[string]any{"name": "ada", "role": "member"}, "user")
//	// b == `["user","ada",1]`
//	v, _ := e.Parse(b)
//	// v == map[string]any{"name": "ada", "role": "member"}
//
// Nested schema references are resolved at encode and decode time, so
// schemas may refer to themselves or to each other and may be registered in
// any order.
//
// Design policy:
//   - Keep the public API in the root package; coders live in codec/ and the
//     spec tokenizer in internal/metaspec.
//   - Schema inference lives in introspect/, the CLI in cmd/kson.
//   - Prefer black-box testing against public APIs.
package kson
