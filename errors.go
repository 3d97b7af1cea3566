package kson

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/kson/codec"
)

// Error codes carried by *Error.
const (
	CodeSchemaNotFound  = "schema_not_found"
	CodeUnknownCoder    = "unknown_coder"
	CodeMalformedSpec   = "malformed_spec"
	CodeInvalidSchema   = "invalid_schema"
	CodeInvalidValue    = "invalid_value"
	CodeOutOfVocabulary = "out_of_vocabulary"
	CodeWire            = "wire_error"
)

// Sentinel errors. Every *Error unwraps to exactly one of them, so callers
// can branch with errors.Is.
var (
	ErrSchemaNotFound  = errors.New("kson: schema not found")
	ErrUnknownCoder    = errors.New("kson: unknown coder")
	ErrMalformedSpec   = errors.New("kson: malformed coder spec")
	ErrInvalidSchema   = errors.New("kson: invalid schema")
	ErrInvalidValue    = codec.ErrInvalidValue
	ErrOutOfVocabulary = codec.ErrOutOfVocabulary
	ErrWire            = errors.New("kson: wire format error")
)

var codeSentinels = map[string]error{
	CodeSchemaNotFound:  ErrSchemaNotFound,
	CodeUnknownCoder:    ErrUnknownCoder,
	CodeMalformedSpec:   ErrMalformedSpec,
	CodeInvalidSchema:   ErrInvalidSchema,
	CodeInvalidValue:    ErrInvalidValue,
	CodeOutOfVocabulary: ErrOutOfVocabulary,
	CodeWire:            ErrWire,
}

// Error describes a failed registration, encode or decode.
type Error struct {
	Code    string // One of the codes listed above.
	Path    string // JSON Pointer of the offending field ("/" for the root).
	ID      string // Schema id, coder name or meta spec involved, when known.
	Message string
	Cause   error // Optional: underlying error.
}

func (e *Error) Error() string {
	b := &strings.Builder{}
	b.WriteString("kson: ")
	b.WriteString(e.Code)
	if e.ID != "" {
		fmt.Fprintf(b, " %q", e.ID)
	}
	if e.Path != "" && e.Path != "/" {
		fmt.Fprintf(b, " at %s", e.Path)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap exposes the sentinel for e.Code and the cause.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s, ok := codeSentinels[e.Code]; ok {
		errs = append(errs, s)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// AsError extracts *Error from err using errors.As internally.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var ke *Error
	if errors.As(err, &ke) {
		return ke, true
	}
	return nil, false
}

func newError(code, id, msg string, cause error) *Error {
	return &Error{Code: code, Path: "/", ID: id, Message: msg, Cause: cause}
}

func schemaNotFound(id string) *Error {
	return newError(CodeSchemaNotFound, id, "", nil)
}

// coderError classifies an error returned by a codec.Coder.
func coderError(spec string, err error) *Error {
	if errors.Is(err, codec.ErrOutOfVocabulary) {
		return newError(CodeOutOfVocabulary, spec, "", err)
	}
	return newError(CodeInvalidValue, spec, "", err)
}
