package classhash

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

func TestDecodeOrderedPreservesKeyOrder(t *testing.T) {
	raw := []byte(`{"zebra": 1, "apple": {"y": true, "a": null}, "mango": [3, "x"]}`)

	decoded, err := decodeOrdered(raw)
	require.NoError(t, err)

	object, ok := decoded.(*orderedmap.OrderedMap[string, any])
	require.True(t, ok)

	keys := []string{}
	for pair := object.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"zebra", "apple", "mango"}, keys)

	encoded, err := encodeCanonical(decoded)
	require.NoError(t, err)
	assert.Equal(t, `{"zebra":1,"apple":{"y":true,"a":null},"mango":[3,"x"]}`, string(encoded))
}

func TestDecodeOrderedKeepsNumberLiterals(t *testing.T) {
	// 2**70 does not fit a float64; the literal must survive untouched.
	raw := []byte(`{"big": 1180591620717411303424, "frac": 1.5, "exp": 1e3}`)

	decoded, err := decodeOrdered(raw)
	require.NoError(t, err)

	encoded, err := encodeCanonical(decoded)
	require.NoError(t, err)
	assert.Equal(t, `{"big":1180591620717411303424,"frac":1.5,"exp":1e3}`, string(encoded))
}

func TestDecodeOrderedRejectsTrailingData(t *testing.T) {
	_, err := decodeOrdered([]byte(`{} extra`))
	assert.Error(t, err)
}

func TestStringifyDropsEmptyFilteredArrays(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty attributes and accessible_scopes dropped",
			input: `{"attributes": [], "keep": 1, "nested": {"accessible_scopes": [], "x": 2}}`,
			want:  `{"keep":1,"nested":{"x":2}}`,
		},
		{
			name:  "populated attributes kept",
			input: `{"attributes": [1], "accessible_scopes": ["a"]}`,
			want:  `{"attributes":[1],"accessible_scopes":["a"]}`,
		},
		{
			name:  "debug_info forced to null but kept",
			input: `{"debug_info": {"file": "a.cairo"}, "x": 1}`,
			want:  `{"debug_info":null,"x":1}`,
		},
		{
			name:  "other null values dropped",
			input: `{"a": null, "b": 1}`,
			want:  `{"b":1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := stringify(json.RawMessage(tt.input), nullSkipReplacer)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIdentifiersReplacerRewritesCairoTypes(t *testing.T) {
	input := `{"identifiers": {"f": {"cairo_type": "(low: felt, high: felt)"}}}`

	got, err := stringify(json.RawMessage(input), identifiersNullSkipReplacer)
	require.NoError(t, err)
	assert.Equal(t, `{"identifiers":{"f":{"cairo_type":"(low : felt, high : felt)"}}}`, got)
}

func TestStringifyDoesNotEscapeHTML(t *testing.T) {
	got, err := stringify(json.RawMessage(`{"t": "a < b && c > d"}`), nullSkipReplacer)
	require.NoError(t, err)
	assert.Equal(t, `{"t":"a < b && c > d"}`, got)
}
