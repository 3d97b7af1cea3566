// Package codec provides the coder contract used by kson schemas together
// with the built-in coders.
//
// A coder is a bidirectional value transform. Encode runs while producing
// the keyless wire form, Decode runs while rebuilding keyed values. Coders
// are created by a Factory from the colon-separated arguments of a meta
// spec, for example `enum:draft:published` builds an enum coder with the
// arguments ["draft", "published"].
//
// Every built-in coder passes nil through unchanged.
package codec

import (
	"errors"
	"sort"
)

var (
	// ErrInvalidValue indicates a value outside the domain of a coder.
	ErrInvalidValue = errors.New("invalid value")

	// ErrOutOfVocabulary indicates a strict enum met a value it does not list.
	ErrOutOfVocabulary = errors.New("out of vocabulary")

	// ErrMissingArgument indicates a coder was declared without a required argument.
	ErrMissingArgument = errors.New("missing coder argument")
)

// Coder transforms one value in both directions.
type Coder interface {
	Encode(v any) (any, error)
	Decode(v any) (any, error)
}

// Factory builds a Coder from spec arguments.
type Factory interface {
	Build(args []string) (Coder, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(args []string) (Coder, error)

// Build calls f(args).
func (f FactoryFunc) Build(args []string) (Coder, error) { return f(args) }

// Funcs is a Coder assembled from a pair of functions. A nil function is the
// identity.
type Funcs struct {
	EncodeFunc func(v any) (any, error)
	DecodeFunc func(v any) (any, error)
}

func (f Funcs) Encode(v any) (any, error) {
	if f.EncodeFunc == nil || v == nil {
		return v, nil
	}
	return f.EncodeFunc(v)
}

func (f Funcs) Decode(v any) (any, error) {
	if f.DecodeFunc == nil || v == nil {
		return v, nil
	}
	return f.DecodeFunc(v)
}

// Options tunes the built-in coders.
type Options struct {
	// Strict makes enum reject out-of-vocabulary values and prefix/suffix
	// reject values lacking their affix. Lenient coders pass such values
	// through unchanged.
	Strict bool
}

// Builtins returns the factories registered on every new engine.
func Builtins(opt Options) map[string]Factory {
	return map[string]Factory{
		"enum":    EnumFactory(opt),
		"prefix":  PrefixFactory(opt),
		"suffix":  SuffixFactory(opt),
		"bool":    FactoryFunc(func([]string) (Coder, error) { return Bool(), nil }),
		"int36":   FactoryFunc(func([]string) (Coder, error) { return Int36(), nil }),
		"date":    FactoryFunc(func([]string) (Coder, error) { return Date(), nil }),
		"isodate": FactoryFunc(func([]string) (Coder, error) { return ISODate(), nil }),
		"iso8601": FactoryFunc(func([]string) (Coder, error) { return ISODate(), nil }),
	}
}

// BuiltinNames lists the built-in coder names in sorted order.
func BuiltinNames() []string {
	m := Builtins(Options{})
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
