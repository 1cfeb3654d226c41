package classhash

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Program is the hashable view of a Cairo v0 program. Optional fields are nil
// when the source artefact omits them and stay omitted on re-serialisation,
// so the canonical form round-trips what the compiler actually emitted.
type Program struct {
	Attributes       []any
	Builtins         []string
	CompilerVersion  any
	Data             []string
	DebugInfo        any
	Hints            *orderedmap.OrderedMap[string, any]
	Identifiers      any
	MainScope        any
	Prime            any
	ReferenceManager any
}

func (p *Program) UnmarshalJSON(data []byte) error {
	decoded, err := decodeOrdered(data)
	if err != nil {
		return err
	}
	fields, ok := decoded.(*orderedmap.OrderedMap[string, any])
	if !ok {
		return fmt.Errorf("program is not a JSON object")
	}

	// An explicit null is equivalent to an absent key: the canonicalizer
	// omits null-valued keys either way.
	if attributes, _ := fields.Get("attributes"); attributes != nil {
		arr, ok := attributes.([]any)
		if !ok {
			return fmt.Errorf("program attributes is not an array")
		}
		p.Attributes = arr
	}
	if builtins, _ := fields.Get("builtins"); builtins != nil {
		p.Builtins, err = stringSlice("builtins", builtins)
		if err != nil {
			return err
		}
	}
	p.CompilerVersion, _ = fields.Get("compiler_version")
	if data, _ := fields.Get("data"); data != nil {
		p.Data, err = stringSlice("data", data)
		if err != nil {
			return err
		}
	}
	p.DebugInfo, _ = fields.Get("debug_info")
	if hints, _ := fields.Get("hints"); hints != nil {
		hintMap, ok := hints.(*orderedmap.OrderedMap[string, any])
		if !ok {
			return fmt.Errorf("program hints is not an object")
		}
		p.Hints = hintMap
	}
	p.Identifiers, _ = fields.Get("identifiers")
	p.MainScope, _ = fields.Get("main_scope")
	p.Prime, _ = fields.Get("prime")
	p.ReferenceManager, _ = fields.Get("reference_manager")

	return nil
}

func stringSlice(field string, value any) ([]string, error) {
	arr, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("program %s is not an array", field)
	}
	strs := make([]string, len(arr))
	for i, elem := range arr {
		str, ok := elem.(string)
		if !ok {
			return nil, fmt.Errorf("program %s element %d is not a string", field, i)
		}
		strs[i] = str
	}
	return strs, nil
}

// MarshalJSON writes the canonical compact form: fields in the fixed hashing
// order, nil optional fields omitted, debug_info always present.
func (p *Program) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	writeField := func(key string, value any) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err := writeCanonicalString(&buf, key); err != nil {
			return err
		}
		buf.WriteByte(':')
		return writeCanonical(&buf, value)
	}

	if p.Attributes != nil {
		if err := writeField("attributes", p.Attributes); err != nil {
			return nil, err
		}
	}
	if err := writeField("builtins", p.Builtins); err != nil {
		return nil, err
	}
	if p.CompilerVersion != nil {
		if err := writeField("compiler_version", p.CompilerVersion); err != nil {
			return nil, err
		}
	}
	if err := writeField("data", p.Data); err != nil {
		return nil, err
	}
	if err := writeField("debug_info", p.DebugInfo); err != nil {
		return nil, err
	}
	if p.Hints != nil {
		if err := writeField("hints", p.Hints); err != nil {
			return nil, err
		}
	}
	if p.Identifiers != nil {
		if err := writeField("identifiers", p.Identifiers); err != nil {
			return nil, err
		}
	}
	if p.MainScope != nil {
		if err := writeField("main_scope", p.MainScope); err != nil {
			return nil, err
		}
	}
	if p.Prime != nil {
		if err := writeField("prime", p.Prime); err != nil {
			return nil, err
		}
	}
	if p.ReferenceManager != nil {
		if err := writeField("reference_manager", p.ReferenceManager); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *Program) Format() error {
	if p.Attributes != nil {
		p.Attributes = applyReplacer(p.Attributes, nullSkipReplacer).([]any)
		if len(p.Attributes) == 0 {
			p.Attributes = nil
		}
	}
	if p.CompilerVersion != nil {
		p.CompilerVersion = applyReplacer(p.CompilerVersion, nullSkipReplacer)
	}
	p.DebugInfo = nil

	if p.Hints != nil {
		if err := p.ReorderHints(); err != nil {
			return err
		}
		p.Hints = applyReplacer(p.Hints, nullSkipReplacer).(*orderedmap.OrderedMap[string, any])
	}

	if p.CompilerVersion != nil {
		// Anything since compiler version 0.10.0 can be hashed directly. No extra overhead incurred.
		p.Identifiers = applyReplacer(p.Identifiers, nullSkipReplacer)
	} else {
		// This is needed for backward compatibility with pre-0.10.0 contract artefacts.
		p.Identifiers = applyReplacer(p.Identifiers, identifiersNullSkipReplacer)
	}
	p.MainScope = applyReplacer(p.MainScope, nullSkipReplacer)
	p.Prime = applyReplacer(p.Prime, nullSkipReplacer)
	p.ReferenceManager = applyReplacer(p.ReferenceManager, nullSkipReplacer)

	return nil
}

// ReorderHints sorts the hint map by its numeric program counter keys.
func (p *Program) ReorderHints() error {
	intKeys := []int{}

	for pair := p.Hints.Oldest(); pair != nil; pair = pair.Next() {
		intKey, err := strconv.Atoi(pair.Key)
		if err != nil {
			return fmt.Errorf("error converting key to integer: %v", err)
		}
		intKeys = append(intKeys, intKey)
	}

	sort.Ints(intKeys)

	newHints := orderedmap.New[string, any]()
	for _, intKey := range intKeys {
		strKey := strconv.Itoa(intKey)
		value, _ := p.Hints.Get(strKey)
		newHints.Set(strKey, value)
	}

	p.Hints = newHints
	return nil
}

var _ json.Marshaler = (*Program)(nil)
var _ json.Unmarshaler = (*Program)(nil)
