package crypto

import "github.com/starknet-go/classhash/felt"

type Digest interface {
	Update(...*felt.Felt) Digest
	Finish() *felt.Felt
}
