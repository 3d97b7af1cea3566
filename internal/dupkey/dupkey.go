// Package dupkey finds repeated object keys in JSON documents. Decoding into
// maps silently keeps the last value of a repeated key, which hides mistakes
// in hand-written schema files.
package dupkey

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"
)

// Duplicate is one repeated key. Path is the JSON Pointer of the object that
// holds it.
type Duplicate struct {
	Path string
	Key  string
}

func (d Duplicate) String() string {
	return "key '" + d.Key + "' duplicated at " + d.Path
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	token        string // reference token of this container inside its parent
	keys         map[string]struct{}
	expectingKey bool
	lastKey      string
	index        int
}

// Find scans data and returns every duplicate key in document order. A
// syntax error stops the scan and is returned along with what was found so
// far.
func Find(data []byte) ([]Duplicate, error) {
	return FindReader(bytes.NewReader(data))
}

// FindReader is Find over a reader; r is consumed fully.
func FindReader(r io.Reader) ([]Duplicate, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()

	var (
		dups  []Duplicate
		stack []frame
	)
	// childToken is the reference token a value opening now would get.
	childToken := func() string {
		if len(stack) == 0 {
			return ""
		}
		top := &stack[len(stack)-1]
		if top.kind == kindObject {
			return top.lastKey
		}
		return strconv.Itoa(top.index)
	}
	// valueDone advances the parent after a complete value.
	valueDone := func() {
		if len(stack) == 0 {
			return
		}
		top := &stack[len(stack)-1]
		if top.kind == kindObject {
			top.expectingKey = true
		} else {
			top.index++
		}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return dups, nil
		}
		if err != nil {
			return dups, err
		}
		switch v := tok.(type) {
		case j.Delim:
			switch v {
			case '{':
				stack = append(stack, frame{kind: kindObject, token: childToken(), keys: make(map[string]struct{}), expectingKey: true})
			case '[':
				stack = append(stack, frame{kind: kindArray, token: childToken()})
			case '}', ']':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				valueDone()
			}
		case string:
			if n := len(stack); n > 0 {
				top := &stack[n-1]
				if top.kind == kindObject && top.expectingKey {
					if _, ok := top.keys[v]; ok {
						dups = append(dups, Duplicate{Path: pointer(stack), Key: v})
					}
					top.keys[v] = struct{}{}
					top.lastKey = v
					top.expectingKey = false
					continue
				}
			}
			valueDone()
		default:
			valueDone()
		}
	}
}

func pointer(stack []frame) string {
	if len(stack) <= 1 {
		return "/"
	}
	var b strings.Builder
	for _, f := range stack[1:] {
		b.WriteByte('/')
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(f.token, "~", "~0"), "/", "~1"))
	}
	return b.String()
}
