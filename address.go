package classhash

import (
	"math/big"

	"github.com/starknet-go/classhash/crypto"
	"github.com/starknet-go/classhash/felt"
)

var (
	contractAddressPrefix = new(felt.Felt).SetBytes([]byte("STARKNET_CONTRACT_ADDRESS"))

	// l2AddressBound is 2^251 - 256, the upper bound of valid L2 addresses.
	l2AddressBound, _ = new(big.Int).SetString("3618502788666131106986593281521497120414687020801267626233049500247285300992", 10)
)

// ContractAddress computes the deterministic address a deploy with the given
// parameters results in. The address depends on the deployer, the salt, the
// class hash and the constructor calldata, and on nothing else.
func ContractAddress(callerAddress, classHash, salt *felt.Felt, constructorCallData []*felt.Felt) *felt.Address {
	callDataHash := crypto.PedersenArray(constructorCallData...)

	address := crypto.PedersenArray(
		contractAddressPrefix,
		callerAddress,
		salt,
		classHash,
		callDataHash,
	)

	addressInt := address.BigInt(new(big.Int))
	addressInt.Mod(addressInt, l2AddressBound)
	return (*felt.Address)(new(felt.Felt).SetBigInt(addressInt))
}
