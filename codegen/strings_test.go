package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeEscapes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`hello`, "hello"},
		{`line\n`, "line\n"},
		{`a\tb`, "a\tb"},
		{`cr\r`, "cr\r"},
		{`back\\slash`, `back\slash`},
		{`quote\"`, `quote"`},
		{`nul\0end`, "nul\x00end"},
		{`hex\x41`, "hexA"},
		{`hex\x0a`, "hex\n"},
		{`mixed\n\t\x21`, "mixed\n\t!"},
	}

	for _, tt := range tests {
		got, unknown := DecodeEscapes(tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Empty(t, unknown, "input %q", tt.input)
	}
}

func TestDecodeEscapesUnknownVerbatim(t *testing.T) {
	// Unknown escapes keep the backslash and the following character.
	got, unknown := DecodeEscapes(`bad\qescape`)
	assert.Equal(t, `bad\qescape`, got)
	assert.Equal(t, []string{`\q`}, unknown)
}

func TestDecodeEscapesBadHex(t *testing.T) {
	// \x with missing or invalid digits is copied through verbatim.
	got, unknown := DecodeEscapes(`v\xzz`)
	assert.Equal(t, `v\xzz`, got)
	assert.Empty(t, unknown)

	got, _ = DecodeEscapes(`v\x4`)
	assert.Equal(t, `v\x4`, got)
}

func TestDecodeEscapesTrailingBackslash(t *testing.T) {
	got, unknown := DecodeEscapes(`end\`)
	assert.Equal(t, `end\`, got)
	assert.Empty(t, unknown)
}

func TestEscapeRoundTrip(t *testing.T) {
	inputs := []string{
		"plain",
		"new\nline",
		"tab\there",
		"cr\rhere",
		`back\slash`,
		`quo"te`,
		"nul\x00byte",
		"\x01\x02\xfe\xff",
		"every\n\r\t\\\"\x00\x7fthing",
	}

	for _, input := range inputs {
		encoded := EncodeEscapes(input)
		decoded, unknown := DecodeEscapes(encoded)
		assert.Equal(t, input, decoded, "round trip of %q via %q", input, encoded)
		assert.Empty(t, unknown)
	}
}
