package jupswap

import (
	"crypto/ed25519"

	"github.com/ligun0805/jupiterSwap/pkg/solana"
)

var (
	registryStatePrefix = []byte("swap")
)

// GetRegistryAddress derives the singleton registry record address. The bump
// seed doubles as the program's self-authority tag: reconstructing the address
// from it proves signing authority over program-owned holding accounts.
func GetRegistryAddress() (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		registryStatePrefix,
	)
}

// RegistrySeeds returns the derivation seeds (sans bump) for the registry
// address.
func RegistrySeeds() [][]byte {
	return [][]byte{registryStatePrefix}
}
