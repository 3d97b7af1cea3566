package codec

import (
	"fmt"
	"strings"
)

// PrefixFactory builds `prefix:<p>` coders: encode strips p, decode prepends it.
func PrefixFactory(opt Options) Factory {
	return FactoryFunc(func(args []string) (Coder, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: prefix needs the prefix text", ErrMissingArgument)
		}
		return &affixCoder{affix: args[0], suffix: false, strict: opt.Strict}, nil
	})
}

// SuffixFactory builds `suffix:<s>` coders: encode strips s, decode appends it.
func SuffixFactory(opt Options) Factory {
	return FactoryFunc(func(args []string) (Coder, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: suffix needs the suffix text", ErrMissingArgument)
		}
		return &affixCoder{affix: args[0], suffix: true, strict: opt.Strict}, nil
	})
}

type affixCoder struct {
	affix  string
	suffix bool
	strict bool
}

func (a *affixCoder) Encode(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s coder expects a string, got %T", ErrInvalidValue, a.kind(), v)
	}
	if a.suffix && strings.HasSuffix(s, a.affix) {
		return s[:len(s)-len(a.affix)], nil
	}
	if !a.suffix && strings.HasPrefix(s, a.affix) {
		return s[len(a.affix):], nil
	}
	if a.strict {
		return nil, fmt.Errorf("%w: %q lacks %s %q", ErrInvalidValue, s, a.kind(), a.affix)
	}
	return s, nil
}

func (a *affixCoder) Decode(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s coder expects a string, got %T", ErrInvalidValue, a.kind(), v)
	}
	if a.suffix {
		return s + a.affix, nil
	}
	return a.affix + s, nil
}

func (a *affixCoder) kind() string {
	if a.suffix {
		return "suffix"
	}
	return "prefix"
}
