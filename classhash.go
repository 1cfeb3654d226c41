// Package classhash computes consensus-matching Starknet class hashes and
// deterministic contract addresses. Every operation is a pure function of its
// input: identical input yields a bit-identical result, matching the value
// the network recomputes independently.
package classhash

import (
	"fmt"

	"github.com/starknet-go/classhash/felt"
)

const shortStringMaxLen = 31

var one = *new(felt.Felt).SetUint64(1)

// shortString packs an ASCII string of at most 31 bytes big-endian into a
// single field element.
func shortString(s string) (*felt.Felt, error) {
	if len(s) > shortStringMaxLen {
		return nil, fmt.Errorf("short string exceeds 31 bytes: %q", s)
	}
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return nil, fmt.Errorf("short string is not ASCII: %q", s)
		}
	}
	return new(felt.Felt).SetBytes([]byte(s)), nil
}
