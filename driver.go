package kson

import (
	"bytes"
	"sync"

	gojson "github.com/goccy/go-json"
)

// WireDriver serializes the flat positional tree to text and back. The
// default implementation is backed by github.com/goccy/go-json and may be
// swapped with SetWireDriver or per engine with WithWireDriver.
type WireDriver interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte) (any, error)
	Name() string
}

var (
	wireDriverMu      sync.RWMutex
	currentWireDriver WireDriver = goJSONDriver{}
)

// SetWireDriver replaces the global wire driver used by engines created
// without WithWireDriver; nil values are ignored.
func SetWireDriver(d WireDriver) {
	if d == nil {
		return
	}
	wireDriverMu.Lock()
	currentWireDriver = d
	wireDriverMu.Unlock()
}

// UseDefaultWireDriver restores the go-json backed driver.
func UseDefaultWireDriver() {
	wireDriverMu.Lock()
	currentWireDriver = goJSONDriver{}
	wireDriverMu.Unlock()
}

func getWireDriver() WireDriver {
	wireDriverMu.RLock()
	d := currentWireDriver
	wireDriverMu.RUnlock()
	return d
}

// JSONDriver returns the default go-json driver. Output is compact and does
// not HTML-escape.
func JSONDriver() WireDriver { return goJSONDriver{} }

type goJSONDriver struct{}

// Marshal writes compact JSON without HTML escaping.
func (goJSONDriver) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := gojson.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func (goJSONDriver) Unmarshal(data []byte) (any, error) {
	var v any
	if err := gojson.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (goJSONDriver) Name() string { return "go-json" }
