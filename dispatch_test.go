package classhash_test

import (
	"encoding/json"
	"testing"

	"github.com/starknet-go/classhash"
	"github.com/starknet-go/classhash/felt"
	"github.com/starknet-go/classhash/starknet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const deprecatedClassJSON = `{
	"abi": [],
	"entry_points_by_type": {"CONSTRUCTOR": [], "EXTERNAL": [], "L1_HANDLER": []},
	"program": {
		"builtins": [],
		"data": [],
		"debug_info": null,
		"hints": {},
		"identifiers": {},
		"main_scope": "__main__",
		"prime": "0x800000000000011000000000000000000000000000000000000000000000001",
		"reference_manager": {"references": []}
	}
}`

func TestComputeFromJSONDeprecated(t *testing.T) {
	fromJSON, err := classhash.ComputeFromJSON(json.RawMessage(deprecatedClassJSON))
	require.NoError(t, err)

	var class starknet.ClassDefinition
	require.NoError(t, json.Unmarshal([]byte(deprecatedClassJSON), &class))
	require.NotNil(t, class.DeprecatedCairo)

	direct, err := classhash.ComputeDeprecatedClassHash(class.DeprecatedCairo)
	require.NoError(t, err)
	assert.Equal(t, direct, fromJSON)
}

func TestComputeFromJSONSierra(t *testing.T) {
	sierra := &starknet.SierraClass{
		Abi:     "[]",
		Version: "0.1.0",
		EntryPoints: starknet.SierraEntryPoints{
			External: []starknet.SierraEntryPoint{
				{Selector: new(felt.Felt).SetUint64(0x44), Index: 3},
			},
		},
		Program: feltsFromUint64(1, 2, 3),
	}

	serialized, err := json.Marshal(sierra)
	require.NoError(t, err)

	fromJSON, err := classhash.ComputeFromJSON(serialized)
	require.NoError(t, err)

	direct, err := classhash.ComputeSierraClassHash(sierra)
	require.NoError(t, err)
	assert.True(t, (*felt.Felt)(fromJSON).Equal((*felt.Felt)(direct)),
		"got %s, want %s", fromJSON, direct)
}

func TestComputeUnsupportedDefinition(t *testing.T) {
	_, err := classhash.Compute(&starknet.ClassDefinition{})
	assert.ErrorIs(t, err, classhash.ErrUnsupportedClassDefinition)
}

func TestComputeFromJSONMalformed(t *testing.T) {
	_, err := classhash.ComputeFromJSON(json.RawMessage(`"not an object"`))
	assert.Error(t, err)
}

func TestIsDeprecatedCompiledClassDefinition(t *testing.T) {
	deprecated, err := starknet.IsDeprecatedCompiledClassDefinition(json.RawMessage(deprecatedClassJSON))
	require.NoError(t, err)
	assert.True(t, deprecated)

	sierra, err := starknet.IsDeprecatedCompiledClassDefinition(
		json.RawMessage(`{"sierra_program": [], "contract_class_version": "0.1.0", "entry_points_by_type": {}}`))
	require.NoError(t, err)
	assert.False(t, sierra)
}
