// Package starknet holds the wire representations of contract classes as the
// network serves and accepts them. Entry order inside every table is
// caller-supplied and hash-significant; nothing here may reorder it.
package starknet

import (
	"encoding/json"
	"strconv"

	"github.com/starknet-go/classhash/felt"
)

type EntryPoint struct {
	Selector *felt.Felt `json:"selector"`
	Offset   *felt.Felt `json:"offset"`
}

type EntryPoints struct {
	Constructor []EntryPoint `json:"CONSTRUCTOR"`
	External    []EntryPoint `json:"EXTERNAL"`
	L1Handler   []EntryPoint `json:"L1_HANDLER"`
}

// DeprecatedCairoClass is a Cairo v0 class. Program is either the program
// JSON object or, in the gateway form, a gzip+base64 string of it.
type DeprecatedCairoClass struct {
	Abi         json.RawMessage `json:"abi"`
	EntryPoints EntryPoints     `json:"entry_points_by_type"`
	Program     json.RawMessage `json:"program"`
}

type SierraEntryPoint struct {
	Index    uint64     `json:"function_idx"`
	Selector *felt.Felt `json:"selector"`
}

type SierraEntryPoints struct {
	Constructor []SierraEntryPoint `json:"CONSTRUCTOR"`
	External    []SierraEntryPoint `json:"EXTERNAL"`
	L1Handler   []SierraEntryPoint `json:"L1_HANDLER"`
}

type SierraClass struct {
	Abi         string            `json:"abi,omitempty"`
	EntryPoints SierraEntryPoints `json:"entry_points_by_type"`
	Program     []*felt.Felt      `json:"sierra_program"`
	Version     string            `json:"contract_class_version"`
}

// ClassDefinition is the tagged union of the two class representations. The
// variant is decided once at ingestion from the structural presence of the
// sierra_program field and never re-inferred downstream.
type ClassDefinition struct {
	DeprecatedCairo *DeprecatedCairoClass
	Sierra          *SierraClass
}

func (c *ClassDefinition) UnmarshalJSON(data []byte) error {
	jsonMap := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &jsonMap); err != nil {
		return err
	}

	if _, found := jsonMap["sierra_program"]; found {
		c.Sierra = new(SierraClass)
		return json.Unmarshal(data, c.Sierra)
	}
	c.DeprecatedCairo = new(DeprecatedCairoClass)
	return json.Unmarshal(data, c.DeprecatedCairo)
}

// SegmentLengths is the nested bytecode_segment_lengths structure attached to
// Sierra >=1.5 compiled classes: either a single leaf length or a list of
// child segments.
type SegmentLengths struct {
	Children []SegmentLengths
	Length   uint64
}

func (n *SegmentLengths) UnmarshalJSON(data []byte) error {
	var err error
	n.Length, err = strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return json.Unmarshal(data, &n.Children)
	}
	return err
}

func (n SegmentLengths) MarshalJSON() ([]byte, error) {
	if len(n.Children) > 0 {
		return json.Marshal(n.Children)
	}
	return json.Marshal(n.Length)
}

type CompiledEntryPoint struct {
	Selector *felt.Felt `json:"selector"`
	Offset   uint64     `json:"offset"`
	Builtins []string   `json:"builtins"`
}

type CompiledEntryPoints struct {
	Constructor []CompiledEntryPoint `json:"CONSTRUCTOR"`
	External    []CompiledEntryPoint `json:"EXTERNAL"`
	L1Handler   []CompiledEntryPoint `json:"L1_HANDLER"`
}

// CasmClass is the compiled (CASM) form of a Sierra class.
type CasmClass struct {
	Prime                  string              `json:"prime"`
	Bytecode               []*felt.Felt        `json:"bytecode"`
	Hints                  json.RawMessage     `json:"hints,omitempty"`
	PythonicHints          json.RawMessage     `json:"pythonic_hints,omitempty"`
	CompilerVersion        string              `json:"compiler_version"`
	BytecodeSegmentLengths []SegmentLengths    `json:"bytecode_segment_lengths,omitempty"`
	EntryPoints            CompiledEntryPoints `json:"entry_points_by_type"`
}

// IsDeprecatedCompiledClassDefinition reports whether a raw class definition
// uses the Cairo v0 representation, detected structurally by the presence of
// the program field.
func IsDeprecatedCompiledClassDefinition(definition json.RawMessage) (bool, error) {
	var classMap map[string]json.RawMessage
	if err := json.Unmarshal(definition, &classMap); err != nil {
		return false, err
	}
	return len(classMap["program"]) > 0, nil
}
