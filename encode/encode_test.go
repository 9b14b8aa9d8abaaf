package encode

import (
	"bytes"
	"testing"

	"github.com/weavedoc/weave/format"
	"github.com/weavedoc/weave/ir"
	"github.com/weavedoc/weave/parse"
)

func mustParse(t *testing.T, src string) *ir.Node {
	t.Helper()
	y, err := parse.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return y
}

func TestEncodeYAMLSortsKeys(t *testing.T) {
	y := mustParse(t, "b: 2\na: 1\nc:\n  z: true\n  y: null\n")
	got := MustString(y)
	want := "a: 1\nb: 2\nc:\n  y: null\n  z: true"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeYAMLQuoting(t *testing.T) {
	tests := []struct {
		name string
		node *ir.Node
		want string
	}{
		{name: "plain word", node: ir.FromString("hello"), want: "hello"},
		{name: "empty string", node: ir.FromString(""), want: `""`},
		{name: "numeric string", node: ir.FromString("42"), want: `"42"`},
		{name: "bool string", node: ir.FromString("true"), want: `"true"`},
		{name: "null string", node: ir.FromString("null"), want: `"null"`},
		{name: "colon space", node: ir.FromString("a: b"), want: `"a: b"`},
		{name: "leading dash", node: ir.FromString("- item"), want: `"- item"`},
		{name: "newline", node: ir.FromString("a\nb"), want: `"a\nb"`},
		{name: "int", node: ir.FromInt(42), want: "42"},
		{name: "float", node: ir.FromFloat(0.5), want: "0.5"},
		{name: "null", node: ir.Null(), want: "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MustString(tt.node); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeYAMLSequences(t *testing.T) {
	y := mustParse(t, "xs:\n  - 1\n  - [a, b]\nempty: []\n")
	got := MustString(y)
	want := "empty: []\nxs:\n  - 1\n  -\n    - a\n    - b"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeYAMLMarkers(t *testing.T) {
	y := mustParse(t, "db: !ref {path: ./db.yaml}\nxs: !glob {glob: ./c/*}\nall: !flatten [a, b]\n")
	got := MustString(y)
	want := "all: !flatten\n  - a\n  - b\ndb: !ref {path: ./db.yaml}\nxs: !glob {glob: ./c/*}"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeYAMLRoundTrips(t *testing.T) {
	// What encode emits, parse reads back identically.
	src := "a: 1\nb:\n  - x\n  - \"42\"\nc: {d: null}\n"
	y := mustParse(t, src)
	enc := MustString(y) + "\n"
	y2 := mustParse(t, enc)
	if MustString(y2) != MustString(y) {
		t.Errorf("round trip changed document:\nfirst:\n%s\nsecond:\n%s",
			MustString(y), MustString(y2))
	}
}

func TestEncodeJSON(t *testing.T) {
	y := mustParse(t, "b: 2\na: [1, null, true]\n")
	buf := bytes.NewBuffer(nil)
	if err := Encode(y, buf, EncodeFormat(format.JSONFormat)); err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"a\": [\n    1,\n    null,\n    true\n  ],\n  \"b\": 2\n}\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestEncodeJSONRejectsMarkers(t *testing.T) {
	y := mustParse(t, "db: !ref {path: ./db.yaml}\n")
	buf := bytes.NewBuffer(nil)
	if err := Encode(y, buf, EncodeFormat(format.JSONFormat)); err == nil {
		t.Error("expected error encoding markers as json")
	}
}
