package codec

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func build(t *testing.T, name string, opt Options, args ...string) Coder {
	t.Helper()
	f, ok := Builtins(opt)[name]
	if !ok {
		t.Fatalf("builtin %q not registered", name)
	}
	c, err := f.Build(args)
	if err != nil {
		t.Fatalf("build %s: %v", name, err)
	}
	return c
}

func TestEnum_EncodeDecode(t *testing.T) {
	c := build(t, "enum", Options{}, "a", "b", "c")
	for i, s := range []string{"a", "b", "c"} {
		got, err := c.Encode(s)
		if err != nil || got != i {
			t.Fatalf("encode %q = %v, %v; want %d", s, got, err, i)
		}
		back, err := c.Decode(float64(i))
		if err != nil || back != s {
			t.Fatalf("decode %d = %v, %v; want %q", i, back, err, s)
		}
	}
	// json.Number input from a UseNumber decoder
	if got, _ := c.Decode(json.Number("2")); got != "c" {
		t.Fatalf("decode json.Number: got %v", got)
	}
}

func TestEnum_LenientMissPassesThrough(t *testing.T) {
	c := build(t, "enum", Options{}, "a", "b")
	if got, err := c.Encode("zzz"); err != nil || got != "zzz" {
		t.Fatalf("lenient encode miss: %v, %v", got, err)
	}
	if got, err := c.Decode(float64(7)); err != nil || got != float64(7) {
		t.Fatalf("lenient decode miss: %v, %v", got, err)
	}
	if got, err := c.Decode(1.5); err != nil || got != 1.5 {
		t.Fatalf("non-integral index should pass through: %v, %v", got, err)
	}
}

func TestEnum_StrictMissFails(t *testing.T) {
	c := build(t, "enum", Options{Strict: true}, "a", "b")
	if _, err := c.Encode("zzz"); !errors.Is(err, ErrOutOfVocabulary) {
		t.Fatalf("expected ErrOutOfVocabulary, got %v", err)
	}
	if _, err := c.Decode(-1); !errors.Is(err, ErrOutOfVocabulary) {
		t.Fatalf("expected ErrOutOfVocabulary, got %v", err)
	}
}

func TestEnum_DuplicateValuesUseFirstIndex(t *testing.T) {
	c := build(t, "enum", Options{}, "x", "y", "x")
	if got, _ := c.Encode("x"); got != 0 {
		t.Fatalf("expected first index, got %v", got)
	}
}

func TestAffix_PrefixSuffix(t *testing.T) {
	p := build(t, "prefix", Options{}, "/static/images/")
	s := build(t, "suffix", Options{}, ".png")

	v, err := p.Encode("/static/images/foo.png")
	if err != nil || v != "foo.png" {
		t.Fatalf("prefix encode: %v, %v", v, err)
	}
	v, err = s.Encode(v)
	if err != nil || v != "foo" {
		t.Fatalf("suffix encode: %v, %v", v, err)
	}
	v, _ = s.Decode(v)
	v, _ = p.Decode(v)
	if v != "/static/images/foo.png" {
		t.Fatalf("affix round trip: %v", v)
	}
}

func TestAffix_MissingAffix(t *testing.T) {
	lenient := build(t, "prefix", Options{}, "x-")
	if v, err := lenient.Encode("abc"); err != nil || v != "abc" {
		t.Fatalf("lenient prefix miss: %v, %v", v, err)
	}
	strict := build(t, "suffix", Options{Strict: true}, ".png")
	if _, err := strict.Encode("abc.jpg"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("strict suffix miss: expected ErrInvalidValue, got %v", err)
	}
	if _, err := lenient.Encode(42); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("non-string: expected ErrInvalidValue, got %v", err)
	}
}

func TestAffix_RequiresArgument(t *testing.T) {
	if _, err := PrefixFactory(Options{}).Build(nil); !errors.Is(err, ErrMissingArgument) {
		t.Fatalf("expected ErrMissingArgument, got %v", err)
	}
	if _, err := SuffixFactory(Options{}).Build(nil); !errors.Is(err, ErrMissingArgument) {
		t.Fatalf("expected ErrMissingArgument, got %v", err)
	}
}

func TestBool_Truthiness(t *testing.T) {
	c := build(t, "bool", Options{})
	cases := []struct {
		in   any
		want int
	}{
		{true, 1}, {false, 0}, {"", 0}, {"x", 1}, {0, 0}, {float64(3), 1}, {[]any{}, 1},
	}
	for _, tc := range cases {
		got, err := c.Encode(tc.in)
		if err != nil || got != tc.want {
			t.Fatalf("encode %#v = %v, %v; want %d", tc.in, got, err, tc.want)
		}
	}
	if got, _ := c.Decode(float64(1)); got != true {
		t.Fatalf("decode 1: %v", got)
	}
	if got, _ := c.Decode(float64(0)); got != false {
		t.Fatalf("decode 0: %v", got)
	}
	if got, _ := c.Decode(nil); got != nil {
		t.Fatalf("nil must pass through, got %v", got)
	}
}

func TestInt36(t *testing.T) {
	c := build(t, "int36", Options{})
	got, err := c.Encode(float64(-446774400))
	if err != nil || got != "-7dzxc0" {
		t.Fatalf("encode: %v, %v", got, err)
	}
	back, err := c.Decode("-7dzxc0")
	if err != nil || back != int64(-446774400) {
		t.Fatalf("decode: %v, %v", back, err)
	}
	if _, err := c.Encode(1.25); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue for fraction, got %v", err)
	}
	if _, err := c.Decode("!!"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue for bad text, got %v", err)
	}
}

func TestDate(t *testing.T) {
	c := build(t, "date", Options{})
	when := time.Date(1955, 11, 5, 0, 0, 0, 0, time.UTC)
	got, err := c.Encode(when)
	if err != nil || got != int64(-446774400) {
		t.Fatalf("encode: %v, %v", got, err)
	}
	back, err := c.Decode(float64(-446774400))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !back.(time.Time).Equal(when) {
		t.Fatalf("decode mismatch: %v", back)
	}
	if _, err := c.Encode("1955-11-05"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

func TestISODate(t *testing.T) {
	c := build(t, "isodate", Options{})
	in := "2025-01-01T00:00:00Z"
	got, err := c.Decode(in)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if !got.(time.Time).Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time: %v", got)
	}
	out, err := c.Encode(got)
	if err != nil || out != in {
		t.Fatalf("roundtrip mismatch: %v != %s (%v)", out, in, err)
	}
	// offsets are normalized to UTC
	out, _ = c.Encode(time.Date(2025, 1, 1, 9, 0, 0, 0, time.FixedZone("JST", 9*3600)))
	if out != in {
		t.Fatalf("expected UTC normalization, got %v", out)
	}
	// fractional seconds are kept, trailing zeros trimmed
	frac, err := c.Decode("2025-01-01T00:00:00.120+02:00")
	if err != nil {
		t.Fatalf("decode fraction: %v", err)
	}
	if out, _ := c.Encode(frac); out != "2024-12-31T22:00:00.12Z" {
		t.Fatalf("fraction encode: %v", out)
	}
	if _, err := c.Decode("yesterday"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

func TestFuncs_NilIsIdentity(t *testing.T) {
	var f Funcs
	if v, _ := f.Encode("x"); v != "x" {
		t.Fatalf("nil EncodeFunc must be identity")
	}
	if v, _ := Identity().Decode(3); v != 3 {
		t.Fatalf("identity decode")
	}
}

func TestBuiltinNames(t *testing.T) {
	names := BuiltinNames()
	want := []string{"bool", "date", "enum", "int36", "iso8601", "isodate", "prefix", "suffix"}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}
