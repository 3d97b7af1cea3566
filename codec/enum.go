package codec

import "fmt"

// EnumFactory builds `enum:<v0>:<v1>:...` coders. Encode maps a listed
// string to its zero-based index, decode maps an index back to the string.
func EnumFactory(opt Options) Factory {
	return FactoryFunc(func(args []string) (Coder, error) {
		return NewEnum(args, opt.Strict), nil
	})
}

// NewEnum returns an enum coder over values.
func NewEnum(values []string, strict bool) Coder {
	e := &enumCoder{
		values: append([]string(nil), values...),
		index:  make(map[string]int, len(values)),
		strict: strict,
	}
	for i := len(values) - 1; i >= 0; i-- {
		e.index[values[i]] = i
	}
	return e
}

type enumCoder struct {
	values []string
	index  map[string]int
	strict bool
}

func (e *enumCoder) Encode(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok {
		if i, ok := e.index[s]; ok {
			return i, nil
		}
	}
	return e.miss(v)
}

func (e *enumCoder) Decode(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if i, ok := toInt64(v); ok && i >= 0 && i < int64(len(e.values)) {
		return e.values[i], nil
	}
	return e.miss(v)
}

func (e *enumCoder) miss(v any) (any, error) {
	if e.strict {
		return nil, fmt.Errorf("%w: %v not in %v", ErrOutOfVocabulary, v, e.values)
	}
	return v, nil
}
