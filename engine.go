package kson

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/reoring/kson/codec"
)

// Engine owns the coder registry, the schema registry and the compiled chain
// cache. The zero value is not usable; construct engines with New.
//
// Lookups take a read lock, registration a write lock, so encode and decode
// may run concurrently with each other and with registration.
type Engine struct {
	mu      sync.RWMutex
	coders  map[string]codec.Factory
	schemas map[string]*Schema
	chains  map[string]*Chain

	log     *zap.Logger
	strict  bool
	lenient bool
	wire    WireDriver
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. Registration, chain compilation and
// schema normalization are logged at debug level. nil is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithStrictCoders makes the built-in coders reject values outside their
// domain: enum misses fail with ErrOutOfVocabulary, prefix and suffix
// mismatches with ErrInvalidValue.
func WithStrictCoders() Option {
	return func(e *Engine) { e.strict = true }
}

// WithLenientCoders makes unknown coders and unresolved references pass
// values through instead of failing.
func WithLenientCoders() Option {
	return func(e *Engine) { e.lenient = true }
}

// WithWireDriver pins the text driver used by Stringify and Parse. Engines
// without one follow SetWireDriver.
func WithWireDriver(d WireDriver) Option {
	return func(e *Engine) { e.wire = d }
}

// New returns an engine with the built-in coders and the bootstrap schema
// registered.
func New(opts ...Option) *Engine {
	e := &Engine{
		schemas: make(map[string]*Schema),
		chains:  make(map[string]*Chain),
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(e)
	}
	e.coders = codec.Builtins(codec.Options{Strict: e.strict})
	b := bootstrapSchema()
	e.schemas[b.ID] = &b
	return e
}

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// Default returns the process-wide engine used by the package-level helpers.
func Default() *Engine {
	defaultOnce.Do(func() { defaultEngine = New() })
	return defaultEngine
}

// AddCoder registers or replaces the factory for name. Replacing a coder
// drops every compiled chain so later lookups rebuild with the new factory.
func (e *Engine) AddCoder(name string, f codec.Factory) error {
	if name == "" || f == nil {
		return newError(CodeMalformedSpec, name, "coder needs a name and a factory", nil)
	}
	e.mu.Lock()
	_, replaced := e.coders[name]
	e.coders[name] = f
	if replaced {
		e.chains = make(map[string]*Chain)
	}
	e.mu.Unlock()
	e.log.Debug("coder registered", zap.String("coder", name), zap.Bool("replaced", replaced))
	return nil
}

// Schema returns a copy of the schema registered under id.
func (e *Engine) Schema(id string) (Schema, bool) {
	s, ok := e.lookup(PlainID(id))
	if !ok {
		return Schema{}, false
	}
	return s.Clone(), true
}

// SchemaIDs lists registered schema ids in sorted order, the bootstrap
// schema included.
func (e *Engine) SchemaIDs() []string {
	e.mu.RLock()
	ids := make([]string, 0, len(e.schemas))
	for id := range e.schemas {
		ids = append(ids, id)
	}
	e.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Schemas returns copies of every schema except the bootstrap one, sorted by
// id. The result can be fed back through AddSchemas or encoded with the
// "[]schema" id.
func (e *Engine) Schemas() []Schema {
	e.mu.RLock()
	out := make([]Schema, 0, len(e.schemas))
	for id, s := range e.schemas {
		if id == BootstrapSchemaID {
			continue
		}
		out = append(out, s.Clone())
	}
	e.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (e *Engine) lookup(plain string) (*Schema, bool) {
	e.mu.RLock()
	s, ok := e.schemas[plain]
	e.mu.RUnlock()
	return s, ok
}

func (e *Engine) hasCoder(name string) bool {
	e.mu.RLock()
	_, ok := e.coders[name]
	e.mu.RUnlock()
	return ok
}

func (e *Engine) wireDriver() WireDriver {
	if e.wire != nil {
		return e.wire
	}
	return getWireDriver()
}
