package kson

import (
	"fmt"
	"sort"
	"strings"
)

// FindTopSchema returns the id of the only schema in the set that no other
// schema refers to. Self references do not count. It fails with
// ErrInvalidSchema when there is no such schema or more than one.
func FindTopSchema(schemas []Schema) (string, error) {
	referenced := make(map[string]struct{})
	for _, s := range schemas {
		for _, m := range s.Meta {
			if p := m.Plain(); p != "" && p != s.ID {
				referenced[p] = struct{}{}
			}
		}
	}
	var tops []string
	seen := make(map[string]struct{}, len(schemas))
	for _, s := range schemas {
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		if _, ok := referenced[s.ID]; !ok {
			tops = append(tops, s.ID)
		}
	}
	switch len(tops) {
	case 1:
		return tops[0], nil
	case 0:
		return "", newError(CodeInvalidSchema, "", "no top-level schema: every schema is referenced by another", nil)
	}
	sort.Strings(tops)
	return "", newError(CodeInvalidSchema, "", fmt.Sprintf("ambiguous top-level schema: %s", strings.Join(tops, ", ")), nil)
}
