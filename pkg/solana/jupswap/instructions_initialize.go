package jupswap

import (
	"crypto/ed25519"

	"github.com/ligun0805/jupiterSwap/pkg/solana"
)

var initializeInstructionDiscriminator = []byte{
	0xaf, 0xaf, 0x6d, 0x1f, 0x0d, 0x98, 0x9b, 0xed,
}

const InitializeInstructionArgsSize = (32 + // admin
	32) // referral

type InitializeInstructionArgs struct {
	Admin    ed25519.PublicKey
	Referral ed25519.PublicKey
}

type InitializeInstructionAccounts struct {
	Registry ed25519.PublicKey
	Admin    ed25519.PublicKey
	Referral ed25519.PublicKey
}

// NewInitializeInstruction builds the instruction that creates the registry
// record. Both beneficiaries must co-sign, and the admin funds the record.
func NewInitializeInstruction(
	accounts *InitializeInstructionAccounts,
	args *InitializeInstructionArgs,
) solana.Instruction {
	var offset int

	// Serialize instruction arguments
	data := make([]byte,
		len(initializeInstructionDiscriminator)+
			InitializeInstructionArgsSize)

	putDiscriminator(data, initializeInstructionDiscriminator, &offset)
	putKey(data, args.Admin, &offset)
	putKey(data, args.Referral, &offset)

	return solana.NewInstruction(
		PROGRAM_ID,
		data,
		solana.NewAccountMeta(accounts.Registry, false),
		solana.NewAccountMeta(accounts.Admin, true),
		solana.NewAccountMeta(accounts.Referral, true),
		solana.NewReadonlyAccountMeta(SYSTEM_PROGRAM_ID, false),
	)
}
