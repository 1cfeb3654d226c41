package crypto

import (
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	pedersenhash "github.com/consensys/gnark-crypto/ecc/stark-curve/pedersen-hash"
	lru "github.com/hashicorp/golang-lru"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/starknet-go/classhash/felt"
)

// PedersenArray implements [Pedersen array hashing].
//
// [Pedersen array hashing]: https://docs.starknet.io/architecture-and-concepts/cryptography/#pedersen_array_hash
func PedersenArray(elems ...*felt.Felt) *felt.Felt {
	var digest PedersenDigest
	return digest.Update(elems...).Finish()
}

const pedersenCacheSize = 1 << 20

type lruKey struct {
	x, y felt.Felt
}

var lruPedersen, _ = lru.New(pedersenCacheSize)

var pedersenCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "classhash_pedersen_cache",
	Help: "Pedersen memo cache hits and misses.",
}, []string{"hit"})

// Pedersen implements the [Pedersen hash]. Results are memoized; the memo is
// a pure optimization and never changes observable output.
//
// [Pedersen hash]: https://docs.starknet.io/architecture-and-concepts/cryptography/#pedersen_hash
func Pedersen(a, b *felt.Felt) *felt.Felt {
	key := lruKey{
		x: *a, y: *b,
	}

	if res, ok := lruPedersen.Get(key); ok {
		pedersenCacheHits.WithLabelValues("true").Inc()
		return res.(*felt.Felt)
	}

	hash := pedersenhash.Pedersen(a.Impl(), b.Impl())
	result := felt.NewFelt(&hash)
	lruPedersen.Add(key, result)
	pedersenCacheHits.WithLabelValues("false").Inc()
	return result
}

var _ Digest = (*PedersenDigest)(nil)

type PedersenDigest struct {
	digest fp.Element
	count  uint64
}

func (d *PedersenDigest) Update(elems ...*felt.Felt) Digest {
	for idx := range elems {
		d.digest = pedersenhash.Pedersen(&d.digest, elems[idx].Impl())
	}
	d.count += uint64(len(elems))
	return d
}

func (d *PedersenDigest) Finish() *felt.Felt {
	d.digest = pedersenhash.Pedersen(&d.digest, new(fp.Element).SetUint64(d.count))
	return felt.NewFelt(&d.digest)
}
