package jupswap

import (
	"crypto/ed25519"

	"github.com/ligun0805/jupiterSwap/pkg/solana"
)

var swapTokensInstructionDiscriminator = []byte{
	0xc9, 0xe2, 0xea, 0x10, 0x46, 0x9b, 0x83, 0xce,
}

type SwapTokensInstructionArgs struct {
	InputAmount     uint64
	MinOutputAmount uint64
	RouteData       []byte
}

type SwapTokensInstructionAccounts struct {
	Registry ed25519.PublicKey
	User     ed25519.PublicKey

	InputMint       ed25519.PublicKey
	UserSource      ed25519.PublicKey
	UserDestination ed25519.PublicKey

	HoldingAccount    ed25519.PublicKey
	SettlementAccount ed25519.PublicKey
	ReferralAccount   ed25519.PublicKey
	AdminAccount      ed25519.PublicKey

	JupiterProgram ed25519.PublicKey
	JupiterRoute   ed25519.PublicKey

	UsdcMint ed25519.PublicKey
}

// NewSwapTokensInstruction builds the swap instruction. RouteData is carried
// verbatim; the program forwards it to the router without interpreting it.
func NewSwapTokensInstruction(
	accounts *SwapTokensInstructionAccounts,
	args *SwapTokensInstructionArgs,
) solana.Instruction {
	var offset int

	// Serialize instruction arguments. RouteData is length-prefixed per
	// borsh vec encoding.
	data := make([]byte,
		len(swapTokensInstructionDiscriminator)+
			8+ // input_amount
			8+ // min_output_amount
			4+len(args.RouteData)) // route_data

	putDiscriminator(data, swapTokensInstructionDiscriminator, &offset)
	putUint64(data, args.InputAmount, &offset)
	putUint64(data, args.MinOutputAmount, &offset)
	putUint32(data, uint32(len(args.RouteData)), &offset)
	copy(data[offset:], args.RouteData)

	return solana.NewInstruction(
		PROGRAM_ID,
		data,
		solana.NewAccountMeta(accounts.Registry, false),
		solana.NewAccountMeta(accounts.User, true),
		solana.NewReadonlyAccountMeta(accounts.InputMint, false),
		solana.NewAccountMeta(accounts.UserSource, false),
		solana.NewAccountMeta(accounts.UserDestination, false),
		solana.NewAccountMeta(accounts.HoldingAccount, false),
		solana.NewAccountMeta(accounts.SettlementAccount, false),
		solana.NewAccountMeta(accounts.ReferralAccount, false),
		solana.NewAccountMeta(accounts.AdminAccount, false),
		solana.NewReadonlyAccountMeta(accounts.JupiterProgram, false),
		solana.NewReadonlyAccountMeta(accounts.JupiterRoute, false),
		solana.NewReadonlyAccountMeta(accounts.UsdcMint, false),
		solana.NewReadonlyAccountMeta(SPL_TOKEN_PROGRAM_ID, false),
		solana.NewReadonlyAccountMeta(SPL_ATA_PROGRAM_ID, false),
		solana.NewReadonlyAccountMeta(SYSTEM_PROGRAM_ID, false),
	)
}
