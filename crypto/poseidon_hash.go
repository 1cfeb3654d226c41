package crypto

import (
	"crypto/sha256"
	"math/big"
	"strconv"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	"github.com/starknet-go/classhash/felt"
)

// Poseidon implements the [Poseidon hash].
//
// [Poseidon hash]: https://docs.starknet.io/architecture-and-concepts/cryptography/#poseidon_hash
func Poseidon(x, y *felt.Felt) *felt.Felt {
	state := []felt.Felt{*x, *y, {}}
	state[2].SetUint64(2)

	hadesPermutation(state)
	return new(felt.Felt).Set(&state[0])
}

// PoseidonArray implements [Poseidon array hashing]. Unlike PedersenArray the
// sequence length is not appended; the padding scheme distinguishes lengths.
//
// [Poseidon array hashing]: https://docs.starknet.io/architecture-and-concepts/cryptography/#poseidon_array_hash
func PoseidonArray(elems ...*felt.Felt) *felt.Felt {
	var digest PoseidonDigest
	return digest.Update(elems...).Finish()
}

var _ Digest = (*PoseidonDigest)(nil)

type PoseidonDigest struct {
	state    [3]felt.Felt
	lastElem *felt.Felt
}

func (d *PoseidonDigest) Update(elems ...*felt.Felt) Digest {
	for idx := range elems {
		if d.lastElem == nil {
			d.lastElem = new(felt.Felt).Set(elems[idx])
		} else {
			d.state[0].Add(&d.state[0], d.lastElem)
			d.state[1].Add(&d.state[1], elems[idx])
			hadesPermutation(d.state[:])
			d.lastElem = nil
		}
	}
	return d
}

func (d *PoseidonDigest) Finish() *felt.Felt {
	if d.lastElem == nil {
		d.state[0].Add(&d.state[0], &feltOne)
	} else {
		d.state[0].Add(&d.state[0], d.lastElem)
		d.state[1].Add(&d.state[1], &feltOne)
		d.lastElem = nil
	}

	hadesPermutation(d.state[:])
	return new(felt.Felt).Set(&d.state[0])
}

var feltOne = *new(felt.Felt).SetUint64(1)

const (
	fullRounds    = 8
	partialRounds = 83
	stateWidth    = 3
)

var (
	roundKeysOnce sync.Once
	roundKeys     [fullRounds + partialRounds][stateWidth]felt.Felt
)

// Round keys follow the Starkware parameter generation: key i is
// sha256("Hades" || i) reduced modulo the field prime.
//
// https://github.com/starkware-industries/poseidon/blob/main/generate_parameters.py
func setRoundKeys() {
	value := new(big.Int)
	for i := range roundKeys {
		for j := range roundKeys[i] {
			digest := sha256.Sum256([]byte("Hades" + strconv.Itoa(i*stateWidth+j)))
			value.SetBytes(digest[:])
			value.Mod(value, fp.Modulus())
			roundKeys[i][j].SetBigInt(value)
		}
	}
}

func hadesPermutation(state []felt.Felt) {
	roundKeysOnce.Do(setRoundKeys)
	totalRounds := fullRounds + partialRounds
	for i := 0; i < totalRounds; i++ {
		full := i < fullRounds/2 || i >= totalRounds-fullRounds/2
		hadesRound(state, full, i)
	}
}

func hadesRound(state []felt.Felt, full bool, index int) {
	// AddRoundKeys
	for i := range state {
		state[i].Add(&state[i], &roundKeys[index][i])
	}

	// SubWords: the s-box x^3 is applied to the whole state in full rounds
	// and only to the last element in partial rounds.
	if full {
		for i := range state {
			cube(&state[i])
		}
	} else {
		cube(&state[2])
	}

	// MixLayer with the matrix ((3,1,1), (1,-1,1), (1,1,-2))
	var t felt.Felt
	t.Add(&state[0], &state[1])
	t.Add(&t, &state[2])

	var tmp felt.Felt
	tmp.Double(&state[0])
	state[0].Add(&t, &tmp)

	tmp.Double(&state[1])
	state[1].Sub(&t, &tmp)

	tmp.Double(&state[2])
	tmp.Add(&tmp, &state[2])
	state[2].Sub(&t, &tmp)
}

func cube(v *felt.Felt) {
	var square felt.Felt
	square.Mul(v, v)
	v.Mul(&square, v)
}
