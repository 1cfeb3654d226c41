package classhash

import (
	"encoding/json"
	"testing"

	"github.com/starknet-go/classhash/crypto"
	"github.com/starknet-go/classhash/felt"
	"github.com/starknet-go/classhash/starknet"
	"github.com/starknet-go/classhash/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHintedClassHash(t *testing.T) {
	var program Program
	require.NoError(t, json.Unmarshal([]byte(minimalProgramJSON), &program))

	hinted, err := computeHintedClassHash(json.RawMessage(`[]`), &program)
	require.NoError(t, err)

	// Independently computed with the reference canonical serialisation.
	want, err := new(felt.Felt).SetString("0x2e6cab23683a9c3b27c333796340931c78393cc951f68d0f16f9f4842aaab42")
	require.NoError(t, err)
	assert.True(t, hinted.Equal(want), "got %s, want %s", hinted, want)
}

func TestComputeDeprecatedClassHash(t *testing.T) {
	class := &starknet.DeprecatedCairoClass{
		Abi:     json.RawMessage(`[]`),
		Program: json.RawMessage(minimalProgramJSON),
	}

	got, err := ComputeDeprecatedClassHash(class)
	require.NoError(t, err)

	hinted, err := new(felt.Felt).SetString("0x2e6cab23683a9c3b27c333796340931c78393cc951f68d0f16f9f4842aaab42")
	require.NoError(t, err)

	empty := crypto.PedersenArray()
	want := crypto.PedersenArray(
		&felt.Zero,
		empty, // external entry points
		empty, // l1 handler entry points
		empty, // constructor entry points
		empty, // builtins
		hinted,
		empty, // data
	)
	assert.True(t, (*felt.Felt)(got).Equal(want), "got %s, want %s", got, want)
}

func TestComputeDeprecatedClassHashCompressedProgram(t *testing.T) {
	plain := &starknet.DeprecatedCairoClass{
		Abi:     json.RawMessage(`[]`),
		Program: json.RawMessage(minimalProgramJSON),
	}
	plainHash, err := ComputeDeprecatedClassHash(plain)
	require.NoError(t, err)

	compressed, err := utils.Gzip64Encode([]byte(minimalProgramJSON))
	require.NoError(t, err)
	quoted, err := json.Marshal(compressed)
	require.NoError(t, err)

	gateway := &starknet.DeprecatedCairoClass{
		Abi:     json.RawMessage(`[]`),
		Program: json.RawMessage(quoted),
	}
	gatewayHash, err := ComputeDeprecatedClassHash(gateway)
	require.NoError(t, err)

	assert.Equal(t, plainHash, gatewayHash)
}

func TestComputeDeprecatedClassHashEntryPointsMatter(t *testing.T) {
	selector, err := new(felt.Felt).SetString("0x44")
	require.NoError(t, err)
	offset := new(felt.Felt).SetUint64(7)

	base := &starknet.DeprecatedCairoClass{
		Abi:     json.RawMessage(`[]`),
		Program: json.RawMessage(minimalProgramJSON),
	}
	baseHash, err := ComputeDeprecatedClassHash(base)
	require.NoError(t, err)

	withExternal := &starknet.DeprecatedCairoClass{
		Abi:     json.RawMessage(`[]`),
		Program: json.RawMessage(minimalProgramJSON),
		EntryPoints: starknet.EntryPoints{
			External: []starknet.EntryPoint{{Selector: selector, Offset: offset}},
		},
	}
	externalHash, err := ComputeDeprecatedClassHash(withExternal)
	require.NoError(t, err)

	assert.NotEqual(t, baseHash, externalHash)
}

func TestComputeDeprecatedClassHashErrors(t *testing.T) {
	t.Run("missing program", func(t *testing.T) {
		_, err := ComputeDeprecatedClassHash(&starknet.DeprecatedCairoClass{Abi: json.RawMessage(`[]`)})
		assert.Error(t, err)
	})

	t.Run("nil entry point selector", func(t *testing.T) {
		_, err := ComputeDeprecatedClassHash(&starknet.DeprecatedCairoClass{
			Abi:     json.RawMessage(`[]`),
			Program: json.RawMessage(minimalProgramJSON),
			EntryPoints: starknet.EntryPoints{
				External: []starknet.EntryPoint{{Offset: new(felt.Felt).SetUint64(1)}},
			},
		})
		assert.ErrorIs(t, err, ErrMissingEntryPointFields)
	})

	t.Run("invalid compressed program", func(t *testing.T) {
		_, err := ComputeDeprecatedClassHash(&starknet.DeprecatedCairoClass{
			Abi:     json.RawMessage(`[]`),
			Program: json.RawMessage(`"not base64 gzip"`),
		})
		assert.Error(t, err)
	})

	t.Run("invalid data felt", func(t *testing.T) {
		_, err := ComputeDeprecatedClassHash(&starknet.DeprecatedCairoClass{
			Abi:     json.RawMessage(`[]`),
			Program: json.RawMessage(`{"builtins": [], "data": ["0xnothex"], "debug_info": null, "hints": {}}`),
		})
		assert.Error(t, err)
	})
}
