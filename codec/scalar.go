package codec

import (
	"fmt"
	"strconv"
	"time"
)

// Bool encodes truthy values as 1 and falsy values as 0.
func Bool() Coder {
	return Funcs{
		EncodeFunc: func(v any) (any, error) {
			if truthy(v) {
				return 1, nil
			}
			return 0, nil
		},
		DecodeFunc: func(v any) (any, error) { return truthy(v), nil },
	}
}

// Int36 encodes integers as base-36 text.
func Int36() Coder {
	return Funcs{
		EncodeFunc: func(v any) (any, error) {
			n, ok := toInt64(v)
			if !ok {
				return nil, fmt.Errorf("%w: int36 expects an integer, got %T", ErrInvalidValue, v)
			}
			return strconv.FormatInt(n, 36), nil
		},
		DecodeFunc: func(v any) (any, error) {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%w: int36 expects base-36 text, got %T", ErrInvalidValue, v)
			}
			n, err := strconv.ParseInt(s, 36, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
			}
			return n, nil
		},
	}
}

// Date encodes a time.Time as whole seconds since the Unix epoch. Decoded
// times are in UTC.
func Date() Coder {
	return Funcs{
		EncodeFunc: func(v any) (any, error) {
			t, ok := asTime(v)
			if !ok {
				return nil, fmt.Errorf("%w: date expects time.Time, got %T", ErrInvalidValue, v)
			}
			return t.Round(time.Second).Unix(), nil
		},
		DecodeFunc: func(v any) (any, error) {
			n, ok := toInt64(v)
			if !ok {
				return nil, fmt.Errorf("%w: date expects epoch seconds, got %v", ErrInvalidValue, v)
			}
			return time.Unix(n, 0).UTC(), nil
		},
	}
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t != nil {
			return *t, true
		}
	}
	return time.Time{}, false
}
