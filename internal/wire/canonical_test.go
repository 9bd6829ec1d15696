package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int64", int64(-100), "-100"},
		{"int", 42, "42"},
		{"uint32", uint32(4294967295), "4294967295"},
		{"bool", true, "true"},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"nested", map[string]any{"z": []any{int64(1), "a"}, "a": false}, `{"a":false,"z":[1,"a"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalRejects(t *testing.T) {
	for _, in := range []any{nil, 1.5, float32(2), struct{}{}, []any{nil}} {
		_, err := MarshalCanonical(in)
		assert.Error(t, err, "%#v", in)
	}
}

func TestMarshalCanonicalEscaping(t *testing.T) {
	result, err := MarshalCanonical("<a&b> \"q\" \\ \n\t\x01  ")
	require.NoError(t, err)
	assert.Equal(t, "\"<a&b> \\\"q\\\" \\\\ \\n\\t\\u0001  \"", string(result))
}

func TestMarshalCanonicalNFCKeys(t *testing.T) {
	// "e" followed by a combining acute accent normalizes to U+00E9.
	result, err := MarshalCanonical(map[string]any{"cafe\u0301": "cafe\u0301"})
	require.NoError(t, err)
	assert.Equal(t, "{\"caf\u00e9\":\"cafe\u0301\"}", string(result), "keys normalize, values stay exact")

	_, err = MarshalCanonical(map[string]any{"cafe\u0301": int64(1), "caf\u00e9": int64(2)})
	assert.Error(t, err)
}

func TestMarshalCanonicalUTF16Ordering(t *testing.T) {
	obj := map[string]any{
		"\uE000":     int64(1),
		"\U00010000": int64(2), // surrogate pair 0xD800 0xDC00 sorts before 0xE000
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, "{\"\U00010000\":2,\"\uE000\":1}", string(result))
}
