package codec

// Identity returns a Coder that leaves values untouched in both directions.
// Engines in lenient mode compile unknown coder specs to it.
func Identity() Coder { return identityCoder{} }

type identityCoder struct{}

func (identityCoder) Encode(v any) (any, error) { return v, nil }
func (identityCoder) Decode(v any) (any, error) { return v, nil }
