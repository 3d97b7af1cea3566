package kson

import (
	"io"

	"github.com/reoring/kson/codec"
)

// Package-level helpers operate on Default().

// AddCoder registers a coder factory on the default engine.
func AddCoder(name string, f codec.Factory) error { return Default().AddCoder(name, f) }

// AddSchema registers schemas on the default engine. See Engine.AddSchema.
func AddSchema(input any) error { return Default().AddSchema(input) }

// AddSchemas registers an ordered batch on the default engine.
func AddSchemas(schemas ...Schema) error { return Default().AddSchemas(schemas...) }

// LoadSchemas reads schema documents into the default engine.
func LoadSchemas(r io.Reader) error { return Default().LoadSchemas(r) }

// LoadSchemaFile reads a schema file into the default engine.
func LoadSchemaFile(path string) error { return Default().LoadSchemaFile(path) }

// Encode flattens data with the default engine.
func Encode(data any, schemaID string) ([]any, error) { return Default().Encode(data, schemaID) }

// Decode rebuilds keyed values with the default engine.
func Decode(tree any, schemaID ...string) (any, error) { return Default().Decode(tree, schemaID...) }

// Stringify encodes and serializes data with the default engine.
func Stringify(data any, schemaID string) ([]byte, error) {
	return Default().Stringify(data, schemaID)
}

// Parse deserializes and decodes raw with the default engine.
func Parse(raw []byte, schemaID ...string) (any, error) { return Default().Parse(raw, schemaID...) }
