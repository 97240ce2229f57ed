package swap

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/ligun0805/jupiterSwap/pkg/solana"
	"github.com/ligun0805/jupiterSwap/pkg/solana/jupswap"
)

// Signer is signature evidence for a single account identity. It is either a
// private key held by a caller, or a structural proof that an address is a
// program-derived authority with no private key at all.
type Signer interface {
	// Pubkey returns the account identity the evidence covers.
	Pubkey() ed25519.PublicKey
}

// KeySigner proves authority through possession of a private key.
type KeySigner struct {
	privateKey ed25519.PrivateKey
}

func NewKeySigner(privateKey ed25519.PrivateKey) KeySigner {
	return KeySigner{privateKey: privateKey}
}

func (s KeySigner) Pubkey() ed25519.PublicKey {
	return s.privateKey.Public().(ed25519.PublicKey)
}

// Sign signs a message with the held key.
func (s KeySigner) Sign(message []byte) []byte {
	return ed25519.Sign(s.privateKey, message)
}

// AuthorityProof is the program's key-less signing capability. It is
// reconstructed from the registry derivation seeds on every call and never
// persisted: the capability is the ability to re-derive, not a secret.
type AuthorityProof struct {
	address ed25519.PublicKey
	seeds   [][]byte
	bump    uint8
}

// DeriveAuthority reconstructs the self-derived authority proof for the
// registry record at the given bump.
func DeriveAuthority(bump uint8) (AuthorityProof, error) {
	seeds := jupswap.RegistrySeeds()

	address, err := solana.CreateProgramAddress(jupswap.PROGRAM_ID, append(seeds, []byte{bump})...)
	if err != nil {
		return AuthorityProof{}, errors.Wrap(err, "error deriving program authority")
	}

	return AuthorityProof{
		address: address,
		seeds:   seeds,
		bump:    bump,
	}, nil
}

func (p AuthorityProof) Pubkey() ed25519.PublicKey {
	return p.address
}

// Verify recomputes the derivation and checks it matches the claimed address.
// This is the structural check a ledger performs in place of signature
// verification for program-derived authorities.
func (p AuthorityProof) Verify() error {
	derived, err := solana.CreateProgramAddress(jupswap.PROGRAM_ID, append(p.seeds, []byte{p.bump})...)
	if err != nil {
		return errors.Wrap(err, "error reconstructing program address")
	}

	if !bytes.Equal(derived, p.address) {
		return errors.New("authority proof does not match derivation")
	}

	return nil
}
