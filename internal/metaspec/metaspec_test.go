package metaspec

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse_Table(t *testing.T) {
	cases := []struct {
		spec string
		want []Token
	}{
		{"bool", []Token{{ID: "bool", Args: []string{}}}},
		{"enum:a:b:c", []Token{{ID: "enum", Args: []string{"a", "b", "c"}}}},
		{"date|int36", []Token{{ID: "date", Args: []string{}}, {ID: "int36", Args: []string{}}}},
		{
			"prefix:/static/images/|suffix:.png",
			[]Token{{ID: "prefix", Args: []string{"/static/images/"}}, {ID: "suffix", Args: []string{".png"}}},
		},
		{`prefix:http\://x`, []Token{{ID: "prefix", Args: []string{"http://x"}}}},
		{`enum:a\|b:c`, []Token{{ID: "enum", Args: []string{"a|b", "c"}}}},
		{`suffix:\\`, []Token{{ID: "suffix", Args: []string{`\`}}}},
		{"enum::x", []Token{{ID: "enum", Args: []string{"", "x"}}}},
	}
	for _, tc := range cases {
		got, err := Parse(tc.spec)
		if err != nil {
			t.Fatalf("Parse(%q) err: %v", tc.spec, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Parse(%q) = %#v, want %#v", tc.spec, got, tc.want)
		}
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, spec := range []string{"", `enum:a\`, "|bool", "bool|", ":a", "a||b"} {
		if _, err := Parse(spec); !errors.Is(err, ErrMalformed) {
			t.Fatalf("Parse(%q): expected ErrMalformed, got %v", spec, err)
		}
	}
}

func TestIsBare(t *testing.T) {
	if !IsBare("child") || !IsBare("bool") {
		t.Fatalf("expected bare ids")
	}
	if IsBare("enum:a") || IsBare("date|int36") || IsBare(`x\`) {
		t.Fatalf("expected non-bare specs")
	}
	if !IsBare(`a\:b`) {
		t.Fatalf("escaped colon keeps the id bare")
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	toks := []Token{
		{ID: "prefix", Args: []string{"http://a|b"}},
		{ID: "enum", Args: []string{`x\y`, "z"}},
	}
	spec := Format(toks)
	got, err := Parse(spec)
	if err != nil {
		t.Fatalf("parse formatted spec %q: %v", spec, err)
	}
	if !reflect.DeepEqual(got, toks) {
		t.Fatalf("round trip mismatch: %#v != %#v", got, toks)
	}
}
