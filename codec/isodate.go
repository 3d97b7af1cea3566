package codec

import (
	"fmt"
	"time"
)

// ISODate converts between time.Time and RFC 3339 text. Encoded values are
// in UTC with trailing fractional zeros trimmed.
func ISODate() Coder { return isoDateCoder{} }

type isoDateCoder struct{}

func (isoDateCoder) Encode(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	t, ok := asTime(v)
	if !ok {
		return nil, fmt.Errorf("%w: isodate expects time.Time, got %T", ErrInvalidValue, v)
	}
	return t.UTC().Format(time.RFC3339Nano), nil
}

func (isoDateCoder) Decode(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: isodate expects a string, got %T", ErrInvalidValue, v)
	}
	// RFC3339Nano parsing also accepts inputs without fractional seconds.
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid RFC3339 time: %v", ErrInvalidValue, err)
	}
	return t, nil
}
