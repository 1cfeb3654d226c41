package classhash

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/starknet-go/classhash/crypto"
	"github.com/starknet-go/classhash/felt"
	"github.com/starknet-go/classhash/starknet"
	"github.com/starknet-go/classhash/utils"
)

var ErrMissingEntryPointFields = errors.New("entry point is missing selector or offset")

// ComputeDeprecatedClassHash computes the class hash of a Cairo v0 class.
// The class's Program may be either the plain program JSON object or a
// gzip+base64 string of it, as served by the gateway.
func ComputeDeprecatedClassHash(class *starknet.DeprecatedCairoClass) (*felt.ClassHash, error) {
	programJSON, err := deprecatedProgramJSON(class)
	if err != nil {
		return nil, err
	}

	var program Program
	if err = json.Unmarshal(programJSON, &program); err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	var externalEntryPointHash, l1HandlerEntryPointHash, constructorEntryPointHash, builtinsHash, dataHash *felt.Felt
	var externalErr, l1HandlerErr, constructorErr, dataErr error
	var hintedClassHash *felt.Felt
	var hintedClassHashErr error

	wg.Add(6)

	go func() {
		defer wg.Done()
		externalEntryPointHash, externalErr = entryPointsHash(class.EntryPoints.External)
	}()

	go func() {
		defer wg.Done()
		l1HandlerEntryPointHash, l1HandlerErr = entryPointsHash(class.EntryPoints.L1Handler)
	}()

	go func() {
		defer wg.Done()
		constructorEntryPointHash, constructorErr = entryPointsHash(class.EntryPoints.Constructor)
	}()

	go func() {
		defer wg.Done()
		builtinsHash = crypto.PedersenArray(utils.Map(program.Builtins, func(builtin string) *felt.Felt {
			// hex text of any byte string always parses
			builtinFelt, _ := new(felt.Felt).SetString("0x" + hex.EncodeToString([]byte(builtin)))
			return builtinFelt
		})...)
	}()

	go func() {
		defer wg.Done()
		hintedClassHash, hintedClassHashErr = computeHintedClassHash(class.Abi, &program)
	}()

	go func() {
		defer wg.Done()
		dataElements := make([]*felt.Felt, 0, len(program.Data))
		for _, data := range program.Data {
			dataFelt, err := new(felt.Felt).SetString(data)
			if err != nil {
				dataErr = err
				return
			}
			dataElements = append(dataElements, dataFelt)
		}
		dataHash = crypto.PedersenArray(dataElements...)
	}()

	wg.Wait()

	for _, err := range []error{externalErr, l1HandlerErr, constructorErr, hintedClassHashErr, dataErr} {
		if err != nil {
			return nil, err
		}
	}

	classHash := crypto.PedersenArray(
		&felt.Zero, // API version
		externalEntryPointHash,
		l1HandlerEntryPointHash,
		constructorEntryPointHash,
		builtinsHash,
		hintedClassHash,
		dataHash,
	)

	return (*felt.ClassHash)(classHash), nil
}

// deprecatedProgramJSON returns the program as plain JSON, decompressing the
// gateway's gzip+base64 form when present.
func deprecatedProgramJSON(class *starknet.DeprecatedCairoClass) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(class.Program)
	if len(trimmed) == 0 {
		return nil, errors.New("class has no program")
	}
	if trimmed[0] != '"' {
		return trimmed, nil
	}

	var compressed string
	if err := json.Unmarshal(trimmed, &compressed); err != nil {
		return nil, err
	}
	return utils.Gzip64Decode(compressed)
}

func entryPointsHash(entryPoints []starknet.EntryPoint) (*felt.Felt, error) {
	elements := make([]*felt.Felt, 0, len(entryPoints)*2)
	for _, ep := range entryPoints {
		if ep.Selector == nil || ep.Offset == nil {
			return nil, ErrMissingEntryPointFields
		}
		elements = append(elements, ep.Selector, ep.Offset)
	}
	return crypto.PedersenArray(elements...), nil
}

// computeHintedClassHash hashes the canonical {"abi": ..., "program": ...}
// JSON text. Both parts are serialised in authored key order, with pythonic
// whitespace after every colon and comma outside strings.
func computeHintedClassHash(abi json.RawMessage, program *Program) (*felt.Felt, error) {
	if err := program.Format(); err != nil {
		return nil, err
	}

	programBytes, err := json.Marshal(program)
	if err != nil {
		return nil, err
	}
	formattedProgram, err := utils.ToPythonicJSON(string(programBytes))
	if err != nil {
		return nil, err
	}

	abiJSON := abi
	if len(bytes.TrimSpace(abiJSON)) == 0 {
		abiJSON = json.RawMessage("null")
	}
	stringifiedABI, err := stringify(abiJSON, nullSkipReplacer)
	if err != nil {
		return nil, err
	}
	formattedABI, err := utils.ToPythonicJSON(stringifiedABI)
	if err != nil {
		return nil, err
	}

	var hintedClassJSON strings.Builder
	hintedClassJSON.Grow(len(formattedABI) + len(formattedProgram) + 20)
	hintedClassJSON.WriteString(`{"abi": `)
	hintedClassJSON.WriteString(formattedABI)
	hintedClassJSON.WriteString(`, "program": `)
	hintedClassJSON.WriteString(formattedProgram)
	hintedClassJSON.WriteString("}")

	return crypto.StarknetKeccak([]byte(hintedClassJSON.String()))
}
