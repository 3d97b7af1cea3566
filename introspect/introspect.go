// Package introspect derives kson schemas from example JSON values.
//
// Every object shape becomes a schema named <prefix>-<level>-<index>, where
// level is the nesting depth and index counts the schemas created at that
// depth. Fields are sorted by name. A field holding objects refers to a
// child schema, a field holding lists of objects to its "[]" form, and a
// field holding lists of scalars gets the plain "[]" meta. Schemas with the
// same fields and meta are merged afterwards.
package introspect

import (
	"errors"
	"fmt"
	"sort"

	"github.com/reoring/kson"
)

// DefaultPrefix is used when Detect is given an empty prefix.
const DefaultPrefix = "auto-schema"

// ErrUnsupported reports a top-level value that is neither an object nor a
// list.
var ErrUnsupported = errors.New("introspect: top level must be an object or a list")

// Result is the outcome of a detection run.
type Result struct {
	// Root references the top schema; it carries "[]" when the input was a
	// list.
	Root string
	// Schemas are ordered so that every schema follows the schemas it refers
	// to.
	Schemas []kson.Schema
}

// Top returns the plain id of the root schema.
func (r Result) Top() string { return kson.PlainID(r.Root) }

type detector struct {
	prefix  string
	counter map[int]int
	out     []kson.Schema
}

// Detect infers schemas for data, a value as produced by decoding JSON into
// any.
func Detect(data any, prefix string) (Result, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	d := &detector{prefix: prefix, counter: make(map[int]int)}

	var (
		records []map[string]any
		many    bool
	)
	switch v := data.(type) {
	case map[string]any:
		records = []map[string]any{v}
	case []any:
		many = true
		records = objects(v)
	default:
		return Result{}, fmt.Errorf("%w, got %T", ErrUnsupported, data)
	}

	id, ok := d.records(records, 0)
	if !ok {
		id = d.nextID(0)
		d.out = append(d.out, kson.Schema{ID: id})
	}
	root := id
	if many {
		root = kson.ManyMarker + id
	}
	root = d.compact(root)
	return Result{Root: root, Schemas: d.out}, nil
}

// DetectJSON decodes raw with the default wire driver and runs Detect.
func DetectJSON(raw []byte, prefix string) (Result, error) {
	v, err := kson.JSONDriver().Unmarshal(raw)
	if err != nil {
		return Result{}, fmt.Errorf("introspect: %w", err)
	}
	return Detect(v, prefix)
}

func (d *detector) nextID(lvl int) string {
	n := d.counter[lvl]
	d.counter[lvl] = n + 1
	return fmt.Sprintf("%s-%d-%d", d.prefix, lvl, n)
}

// records builds one schema covering the union of the records' keys. It
// reports false, adding nothing, when there are no keys at all.
func (d *detector) records(records []map[string]any, lvl int) (string, bool) {
	keys := make(map[string]struct{})
	for _, r := range records {
		for k := range r {
			keys[k] = struct{}{}
		}
	}
	if len(keys) == 0 {
		return "", false
	}
	id := d.nextID(lvl)
	fields := make([]string, 0, len(keys))
	for k := range keys {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	meta := make([]kson.Meta, len(fields))
	for i, f := range fields {
		meta[i] = d.field(records, f, lvl)
	}
	d.out = append(d.out, kson.Schema{ID: id, Fields: fields, Meta: meta})
	return id, true
}

// field derives the meta entry of one field from every value it takes.
func (d *detector) field(records []map[string]any, name string, lvl int) kson.Meta {
	var (
		nested  []map[string]any
		listed  []any
		hasList bool
	)
	for _, r := range records {
		switch v := r[name].(type) {
		case map[string]any:
			nested = append(nested, v)
		case []any:
			hasList = true
			listed = append(listed, v...)
		}
	}
	if hasList {
		if id, ok := d.records(objects(listed), lvl+1); ok {
			return kson.Meta(kson.ManyMarker + id)
		}
		return kson.ManyMarker
	}
	if len(nested) > 0 {
		if id, ok := d.records(nested, lvl+1); ok {
			return kson.Meta(id)
		}
	}
	return ""
}

func objects(list []any) []map[string]any {
	var out []map[string]any
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// compact merges structurally identical schemas until none remain, keeping
// the earliest of each group, and returns root rewritten accordingly.
func (d *detector) compact(root string) string {
	for {
		keep, drop, found := d.findDuplicate()
		if !found {
			return root
		}
		dropped := d.out[drop].ID
		keptID := d.out[keep].ID
		d.out = append(d.out[:drop], d.out[drop+1:]...)
		for i := range d.out {
			for j, m := range d.out[i].Meta {
				if m.Plain() == dropped {
					d.out[i].Meta[j] = rewrite(m, keptID)
				}
			}
		}
		if kson.PlainID(root) == dropped {
			root = string(rewrite(kson.Meta(root), keptID))
		}
	}
}

func (d *detector) findDuplicate() (int, int, bool) {
	for i := range d.out {
		for j := i + 1; j < len(d.out); j++ {
			if sameShape(d.out[i], d.out[j]) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

func rewrite(m kson.Meta, id string) kson.Meta {
	if m.Many() {
		return kson.Meta(kson.ManyMarker + id)
	}
	return kson.Meta(id)
}

func sameShape(a, b kson.Schema) bool {
	if len(a.Fields) != len(b.Fields) {
		return false
	}
	for i := range a.Fields {
		if a.Fields[i] != b.Fields[i] || a.Meta[i] != b.Meta[i] {
			return false
		}
	}
	return true
}
