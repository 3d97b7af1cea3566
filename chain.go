package kson

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/reoring/kson/codec"
	"github.com/reoring/kson/internal/metaspec"
)

// Chain is a compiled coder spec. Encode applies the coders in declaration
// order and Decode in reverse, so "date|int36" encodes a time to epoch
// seconds and then to base 36.
type Chain struct {
	spec   string
	coders []codec.Coder
}

// Spec returns the spec the chain was compiled from.
func (c *Chain) Spec() string { return c.spec }

// Len reports the number of coders in the chain.
func (c *Chain) Len() int { return len(c.coders) }

// Encode runs every coder left to right.
func (c *Chain) Encode(v any) (any, error) {
	var err error
	for _, cd := range c.coders {
		if v, err = cd.Encode(v); err != nil {
			return nil, coderError(c.spec, err)
		}
	}
	return v, nil
}

// Decode runs every coder right to left.
func (c *Chain) Decode(v any) (any, error) {
	var err error
	for i := len(c.coders) - 1; i >= 0; i-- {
		if v, err = c.coders[i].Decode(v); err != nil {
			return nil, coderError(c.spec, err)
		}
	}
	return v, nil
}

func (c *Chain) apply(v any, dir direction) (any, error) {
	if dir == encoding {
		return c.Encode(v)
	}
	return c.Decode(v)
}

// Compile returns the chain for spec, building and caching it on first use.
// A leading "[]" marker is ignored. Unknown coders fail with
// ErrUnknownCoder unless the engine is lenient, in which case the cached
// chain is the identity.
func (e *Engine) Compile(spec string) (*Chain, error) {
	plain := PlainID(spec)
	e.mu.RLock()
	if c, ok := e.chains[plain]; ok {
		e.mu.RUnlock()
		return c, nil
	}
	e.mu.RUnlock()

	toks, err := metaspec.Parse(plain)
	if err != nil {
		return nil, newError(CodeMalformedSpec, plain, "", err)
	}
	chain := &Chain{spec: plain, coders: make([]codec.Coder, 0, len(toks))}
	for _, t := range toks {
		e.mu.RLock()
		f, ok := e.coders[t.ID]
		e.mu.RUnlock()
		if !ok {
			if e.lenient {
				e.log.Debug("unknown coder, compiling identity chain", zap.String("spec", plain), zap.String("coder", t.ID))
				chain.coders = []codec.Coder{codec.Identity()}
				break
			}
			return nil, newError(CodeUnknownCoder, t.ID, fmt.Sprintf("in spec %q", plain), nil)
		}
		cd, err := f.Build(t.Args)
		if err != nil {
			code := CodeMalformedSpec
			if errors.Is(err, codec.ErrInvalidValue) {
				code = CodeInvalidValue
			}
			return nil, newError(code, plain, fmt.Sprintf("build coder %q", t.ID), err)
		}
		chain.coders = append(chain.coders, cd)
	}

	e.mu.Lock()
	if c, ok := e.chains[plain]; ok {
		e.mu.Unlock()
		return c, nil
	}
	e.chains[plain] = chain
	e.mu.Unlock()
	e.log.Debug("coder chain compiled", zap.String("spec", plain), zap.Int("coders", len(chain.coders)))
	return chain, nil
}

// resolve maps a plain meta id to either a schema or a chain. Both nil means
// passthrough.
func (e *Engine) resolve(plain string) (*Schema, *Chain, error) {
	if plain == "" {
		return nil, nil, nil
	}
	if s, ok := e.lookup(plain); ok {
		return s, nil, nil
	}
	c, err := e.Compile(plain)
	if err == nil {
		return nil, c, nil
	}
	if metaspec.IsBare(plain) && errors.Is(err, ErrUnknownCoder) {
		return nil, nil, schemaNotFound(plain)
	}
	return nil, nil, err
}
