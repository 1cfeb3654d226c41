package classhash

import (
	"errors"
	"fmt"

	"github.com/starknet-go/classhash/crypto"
	"github.com/starknet-go/classhash/felt"
	"github.com/starknet-go/classhash/starknet"
)

const (
	sierraVersionPrefix = "CONTRACT_CLASS_V"
	casmVersion         = "COMPILED_CLASS_V1"
)

// ComputeSierraClassHash computes the declare-time class hash of a Sierra
// class. Entry point tables are hashed in their stored order.
func ComputeSierraClassHash(class *starknet.SierraClass) (*felt.SierraClassHash, error) {
	if class.Version == "" {
		return nil, errors.New("sierra class has no contract_class_version")
	}

	versionFelt, err := shortString(sierraVersionPrefix + class.Version)
	if err != nil {
		return nil, err
	}

	externalHash, err := sierraEntryPointsHash(class.EntryPoints.External)
	if err != nil {
		return nil, err
	}
	l1HandlerHash, err := sierraEntryPointsHash(class.EntryPoints.L1Handler)
	if err != nil {
		return nil, err
	}
	constructorHash, err := sierraEntryPointsHash(class.EntryPoints.Constructor)
	if err != nil {
		return nil, err
	}

	abiHash, err := crypto.StarknetKeccak([]byte(class.Abi))
	if err != nil {
		return nil, err
	}

	programHash := crypto.PoseidonArray(class.Program...)

	classHash := crypto.PoseidonArray(
		versionFelt,
		externalHash,
		l1HandlerHash,
		constructorHash,
		abiHash,
		programHash,
	)
	return (*felt.SierraClassHash)(classHash), nil
}

func sierraEntryPointsHash(entryPoints []starknet.SierraEntryPoint) (*felt.Felt, error) {
	elements := make([]*felt.Felt, 0, len(entryPoints)*2)
	for _, ep := range entryPoints {
		if ep.Selector == nil {
			return nil, ErrMissingEntryPointFields
		}
		elements = append(elements, ep.Selector, new(felt.Felt).SetUint64(ep.Index))
	}
	return crypto.PoseidonArray(elements...), nil
}

// ComputeCasmClassHash computes the compiled class hash of a CASM class.
func ComputeCasmClassHash(class *starknet.CasmClass) (*felt.CasmClassHash, error) {
	versionFelt, err := shortString(casmVersion)
	if err != nil {
		return nil, err
	}

	externalHash, err := compiledEntryPointsHash(class.EntryPoints.External)
	if err != nil {
		return nil, err
	}
	l1HandlerHash, err := compiledEntryPointsHash(class.EntryPoints.L1Handler)
	if err != nil {
		return nil, err
	}
	constructorHash, err := compiledEntryPointsHash(class.EntryPoints.Constructor)
	if err != nil {
		return nil, err
	}

	bytecodeHash, err := casmBytecodeHash(class)
	if err != nil {
		return nil, err
	}

	classHash := crypto.PoseidonArray(
		versionFelt,
		externalHash,
		l1HandlerHash,
		constructorHash,
		bytecodeHash,
	)
	return (*felt.CasmClassHash)(classHash), nil
}

func compiledEntryPointsHash(entryPoints []starknet.CompiledEntryPoint) (*felt.Felt, error) {
	elements := make([]*felt.Felt, 0, len(entryPoints)*3)
	for _, ep := range entryPoints {
		if ep.Selector == nil {
			return nil, ErrMissingEntryPointFields
		}
		builtins := make([]*felt.Felt, 0, len(ep.Builtins))
		for _, builtin := range ep.Builtins {
			builtinFelt, err := shortString(builtin)
			if err != nil {
				return nil, err
			}
			builtins = append(builtins, builtinFelt)
		}
		elements = append(elements,
			ep.Selector,
			new(felt.Felt).SetUint64(ep.Offset),
			crypto.PoseidonArray(builtins...),
		)
	}
	return crypto.PoseidonArray(elements...), nil
}

// casmBytecodeHash hashes the bytecode either flat or, when segment lengths
// are attached, as a merkle-like tree of Poseidon hashes over the segments.
func casmBytecodeHash(class *starknet.CasmClass) (*felt.Felt, error) {
	if len(class.BytecodeSegmentLengths) == 0 {
		return crypto.PoseidonArray(class.Bytecode...), nil
	}

	hash, consumed, err := segmentedBytecodeHash(class.Bytecode, class.BytecodeSegmentLengths)
	if err != nil {
		return nil, err
	}
	if consumed != uint64(len(class.Bytecode)) {
		return nil, fmt.Errorf("bytecode segment lengths cover %d of %d felts", consumed, len(class.Bytecode))
	}
	return hash, nil
}

// segmentedBytecodeHash hashes one level of the segment tree rooted at the
// start of bytecode and reports how many felts it consumed. Leaf segments
// hash their felts directly; nodes hash the (length, hash) pairs of their
// children and add one to mark themselves as inner nodes.
func segmentedBytecodeHash(bytecode []*felt.Felt, segments []starknet.SegmentLengths) (*felt.Felt, uint64, error) {
	var totalLength uint64
	elements := make([]*felt.Felt, 0, len(segments)*2)

	for _, segment := range segments {
		var segmentHash *felt.Felt
		var segmentLength uint64

		if len(segment.Children) == 0 {
			if segment.Length > uint64(len(bytecode)) {
				return nil, 0, fmt.Errorf("bytecode segment length %d exceeds remaining bytecode %d", segment.Length, len(bytecode))
			}
			segmentHash = crypto.PoseidonArray(bytecode[:segment.Length]...)
			segmentLength = segment.Length
		} else {
			var err error
			segmentHash, segmentLength, err = segmentedBytecodeHash(bytecode, segment.Children)
			if err != nil {
				return nil, 0, err
			}
		}

		elements = append(elements, new(felt.Felt).SetUint64(segmentLength), segmentHash)
		bytecode = bytecode[segmentLength:]
		totalLength += segmentLength
	}

	nodeHash := new(felt.Felt).Add(&one, crypto.PoseidonArray(elements...))
	return nodeHash, totalLength, nil
}
