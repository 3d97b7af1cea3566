// Package metaspec tokenizes coder specifications of the form
//
//	coder[:arg[:arg...]][|coder[:arg...]...]
//
// A backslash escapes the next character, so `\|` and `\:` appear literally
// inside arguments.
package metaspec

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed reports an unbalanced escape or an empty coder id.
var ErrMalformed = errors.New("metaspec: malformed spec")

// Token is one pipe-separated element of a spec.
type Token struct {
	ID   string
	Args []string
}

// Parse splits spec into tokens and unescapes every part.
func Parse(spec string) ([]Token, error) {
	if spec == "" {
		return nil, fmt.Errorf("%w: empty spec", ErrMalformed)
	}
	var (
		tokens []Token
		parts  []string
		cur    strings.Builder
	)
	flushPart := func() {
		parts = append(parts, cur.String())
		cur.Reset()
	}
	flushToken := func(pos int) error {
		flushPart()
		if parts[0] == "" {
			return fmt.Errorf("%w: empty coder id before offset %d in %q", ErrMalformed, pos, spec)
		}
		tokens = append(tokens, Token{ID: parts[0], Args: parts[1:]})
		parts = nil
		return nil
	}
	for i := 0; i < len(spec); i++ {
		switch c := spec[i]; c {
		case '\\':
			if i+1 >= len(spec) {
				return nil, fmt.Errorf("%w: trailing escape in %q", ErrMalformed, spec)
			}
			i++
			cur.WriteByte(spec[i])
		case '|':
			if err := flushToken(i); err != nil {
				return nil, err
			}
		case ':':
			flushPart()
		default:
			cur.WriteByte(c)
		}
	}
	if err := flushToken(len(spec)); err != nil {
		return nil, err
	}
	return tokens, nil
}

// IsBare reports whether spec is a single identifier without arguments or
// pipes. Bare identifiers may name either a coder or a schema.
func IsBare(spec string) bool {
	toks, err := Parse(spec)
	return err == nil && len(toks) == 1 && len(toks[0].Args) == 0
}

// Escape quotes the separator and escape characters in s.
func Escape(s string) string {
	if !strings.ContainsAny(s, `\|:`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '|', ':':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Format renders tokens back into spec form. Parse(Format(t)) == t.
func Format(tokens []Token) string {
	var b strings.Builder
	for i, t := range tokens {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(Escape(t.ID))
		for _, a := range t.Args {
			b.WriteByte(':')
			b.WriteString(Escape(a))
		}
	}
	return b.String()
}
