package jupswap

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
)

// RegistryAccount is the singleton program record holding the two commission
// beneficiaries and the self-authority tag. Created once by initialize;
// immutable thereafter (no update instruction exists).
type RegistryAccount struct {
	// Admin is the primary beneficiary, receiving the larger commission share.
	Admin ed25519.PublicKey

	// Referral is the secondary beneficiary.
	Referral ed25519.PublicKey

	// Bump is the registry PDA bump seed, stored so the authority can be
	// re-derived without searching.
	Bump uint8
}

const RegistryAccountSize = (8 + // discriminator
	32 + // admin
	32 + // referral
	1) // bump

var registryAccountDiscriminator = []byte{0x76, 0xe5, 0xed, 0x43, 0x1c, 0xae, 0x13, 0x95}

func (obj *RegistryAccount) Clone() *RegistryAccount {
	return &RegistryAccount{
		Admin:    append(ed25519.PublicKey{}, obj.Admin...),
		Referral: append(ed25519.PublicKey{}, obj.Referral...),
		Bump:     obj.Bump,
	}
}

func (obj *RegistryAccount) String() string {
	var admin, referral string

	if obj.Admin != nil {
		admin = base58.Encode(obj.Admin)
	}
	if obj.Referral != nil {
		referral = base58.Encode(obj.Referral)
	}

	return fmt.Sprintf(
		"RegistryAccount{admin=%s,referral=%s,bump=%d}",
		admin,
		referral,
		obj.Bump,
	)
}

func (obj *RegistryAccount) Marshal() []byte {
	data := make([]byte, RegistryAccountSize)

	var offset int
	putDiscriminator(data, registryAccountDiscriminator, &offset)
	putKey(data, obj.Admin, &offset)
	putKey(data, obj.Referral, &offset)
	putUint8(data, obj.Bump, &offset)

	return data
}

func (obj *RegistryAccount) Unmarshal(data []byte) bool {
	if len(data) != RegistryAccountSize {
		return false
	}

	var offset int
	var discriminator []byte
	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, registryAccountDiscriminator) {
		return false
	}

	getKey(data, &obj.Admin, &offset)
	getKey(data, &obj.Referral, &offset)
	getUint8(data, &obj.Bump, &offset)

	return true
}
