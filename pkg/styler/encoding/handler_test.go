package encoding_test

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aclev/cljstyle/pkg/styler/encoding"
)

func TestIsBinary(t *testing.T) {
	h := encoding.NewCharsetHandler("")

	tests := []struct {
		name    string
		content []byte
		want    bool
	}{
		{"empty", nil, false},
		{"plain text", []byte("(ns core)\n(def x 1)\n"), false},
		{"utf-8 text", []byte("; komentář\n(def π 3.14)\n"), false},
		{"json", []byte(`{"a": 1}`), false},
		{"null heavy", append([]byte{0x00, 0x01, 0x02}, make([]byte, 64)...), true},
		{"png header", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00"), true},
		{"sparse nulls in text", append([]byte("mostly readable text with one stray "), 0x00), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, h.IsBinary(tc.content))
		})
	}
}

func TestDetectAndDecodeUTF8Passthrough(t *testing.T) {
	h := encoding.NewCharsetHandler("")
	in := []byte("(def grüße \"héllo\")\n")

	out, name, _, err := h.DetectAndDecode(in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Equal(t, "utf-8", name)
}

func TestDetectAndDecodeEmpty(t *testing.T) {
	h := encoding.NewCharsetHandler("")

	out, name, certain, err := h.DetectAndDecode(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, "utf-8", name)
	assert.True(t, certain)
}

func TestDetectAndDecodeLatin1(t *testing.T) {
	h := encoding.NewCharsetHandler("windows-1252")
	in := []byte{'c', 'a', 'f', 0xe9} // "café" in latin-1 / windows-1252

	out, _, _, err := h.DetectAndDecode(in)
	require.NoError(t, err)
	assert.True(t, utf8.Valid(out), "decoded output must be valid UTF-8")
	assert.Contains(t, string(out), "café")
}

func TestDetectAndDecodeBOM(t *testing.T) {
	h := encoding.NewCharsetHandler("")
	in := append([]byte{0xEF, 0xBB, 0xBF}, []byte("(ns core)")...)

	out, name, certain, err := h.DetectAndDecode(in)
	require.NoError(t, err)
	assert.True(t, certain, "a BOM makes detection certain")
	assert.Equal(t, "utf-8", name)
	assert.True(t, utf8.Valid(out))
}
