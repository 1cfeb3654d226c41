package classhash

import (
	"encoding/json"
	"errors"

	"github.com/starknet-go/classhash/felt"
	"github.com/starknet-go/classhash/starknet"
)

var ErrUnsupportedClassDefinition = errors.New("unsupported class definition")

// Compute returns the class hash of whichever class representation the
// definition holds.
func Compute(definition *starknet.ClassDefinition) (*felt.ClassHash, error) {
	switch {
	case definition.Sierra != nil:
		hash, err := ComputeSierraClassHash(definition.Sierra)
		if err != nil {
			return nil, err
		}
		return (*felt.ClassHash)(hash), nil
	case definition.DeprecatedCairo != nil:
		return ComputeDeprecatedClassHash(definition.DeprecatedCairo)
	default:
		return nil, ErrUnsupportedClassDefinition
	}
}

// ComputeFromJSON parses a raw class definition, detects its variant and
// returns its class hash.
func ComputeFromJSON(definition json.RawMessage) (*felt.ClassHash, error) {
	var class starknet.ClassDefinition
	if err := json.Unmarshal(definition, &class); err != nil {
		return nil, err
	}
	return Compute(&class)
}
