package kson

import (
	"errors"
	"strconv"
	"strings"
)

// Paths are assembled while an error unwinds out of the recursive encoder
// and decoder: each level prepends its own reference token, so the happy
// path never builds pointers.

// atField prefixes err's JSON Pointer with an object member name.
func atField(err error, name string) error {
	// escape '~' -> '~0', '/' -> '~1' per RFC6901
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return prependPath(err, esc)
}

// atIndex prefixes err's JSON Pointer with an array index.
func atIndex(err error, i int) error {
	return prependPath(err, strconv.Itoa(i))
}

func prependPath(err error, token string) error {
	var ke *Error
	if !errors.As(err, &ke) {
		return err
	}
	if ke.Path == "" || ke.Path == "/" {
		ke.Path = "/" + token
	} else {
		ke.Path = "/" + token + ke.Path
	}
	return err
}
