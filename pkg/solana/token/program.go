package token

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"

	"github.com/ligun0805/jupiterSwap/pkg/solana"
	"github.com/ligun0805/jupiterSwap/pkg/solana/system"
)

// ProgramKey is the address of the token program that should be used.
//
// Current key: TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA
var ProgramKey = ed25519.PublicKey{6, 221, 246, 225, 215, 101, 161, 147, 217, 203, 225, 70, 206, 235, 121, 172, 28, 180, 133, 237, 95, 91, 55, 145, 58, 140, 245, 133, 126, 255, 0, 169}

type Command byte

const (
	// nolint:varcheck,deadcode,unused
	CommandInitializeMint Command = iota
	CommandInitializeAccount
	// nolint:varcheck,deadcode,unused
	CommandInitializeMultisig
	CommandTransfer
	// nolint:varcheck,deadcode,unused
	CommandApprove
	// nolint:varcheck,deadcode,unused
	CommandRevoke
	// nolint:varcheck,deadcode,unused
	CommandSetAuthority
	// nolint:varcheck,deadcode,unused
	CommandMintTo
	// nolint:varcheck,deadcode,unused
	CommandBurn
	CommandCloseAccount
)

const (
	// nolint:varcheck,deadcode,unused
	ErrorNotRentExempt solana.CustomError = iota
	ErrorInsufficientFunds
	// nolint:varcheck,deadcode,unused
	ErrorInvalidMint
	ErrorMintMismatch
	ErrorOwnerMismatch
)

// InitializeAccount initializes a new account to hold tokens.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/b011698251981b5a12088acba18fad1d41c3719a/token/program/src/instruction.rs#L41-L55
func InitializeAccount(account, mint, owner ed25519.PublicKey) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   0. `[writable]`  The account to initialize.
	//   1. `[]` The mint this account will be associated with.
	//   2. `[]` The new account's owner/multisignature.
	//   3. `[]` Rent sysvar
	return solana.NewInstruction(
		ProgramKey,
		[]byte{byte(CommandInitializeAccount)},
		solana.NewAccountMeta(account, true),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(owner, false),
		solana.NewReadonlyAccountMeta(system.RentSysVar, false),
	)
}

// Transfer moves tokens between accounts, authorized by the source owner or
// delegate.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/b011698251981b5a12088acba18fad1d41c3719a/token/program/src/instruction.rs#L76-L91
func Transfer(source, dest, owner ed25519.PublicKey, amount uint64) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   * Single owner/delegate
	//   0. `[writable]` The source account.
	//   1. `[writable]` The destination account.
	//   2. `[signer]` The source account's owner/delegate.
	data := make([]byte, 1+8)
	data[0] = byte(CommandTransfer)
	binary.LittleEndian.PutUint64(data[1:], amount)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(source, false),
		solana.NewAccountMeta(dest, false),
		solana.NewReadonlyAccountMeta(owner, true),
	)
}

// DecompiledTransfer is a token transfer recovered from an instruction.
type DecompiledTransfer struct {
	Source      ed25519.PublicKey
	Destination ed25519.PublicKey
	Owner       ed25519.PublicKey
	Amount      uint64
}

// DecompileTransfer recovers the transfer parameters from an instruction.
func DecompileTransfer(ixn solana.Instruction) (*DecompiledTransfer, error) {
	if !bytes.Equal(ixn.Program, ProgramKey) {
		return nil, solana.ErrIncorrectProgram
	}
	if len(ixn.Data) != 9 || ixn.Data[0] != byte(CommandTransfer) {
		return nil, solana.ErrIncorrectInstruction
	}
	// note: we do < 3 instead of != 3 in order to support multisig cases.
	if len(ixn.Accounts) < 3 {
		return nil, solana.ErrIncorrectInstruction
	}

	return &DecompiledTransfer{
		Source:      ixn.Accounts[0].PublicKey,
		Destination: ixn.Accounts[1].PublicKey,
		Owner:       ixn.Accounts[2].PublicKey,
		Amount:      binary.LittleEndian.Uint64(ixn.Data[1:]),
	}, nil
}

// CloseAccount closes an account by transferring all its SOL to the destination
// account. Non-native accounts may only be closed if the token amount is zero.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/b011698251981b5a12088acba18fad1d41c3719a/token/program/src/instruction.rs#L183-L197
func CloseAccount(account, dest, owner ed25519.PublicKey) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   * Single owner
	//   0. `[writable]` The account to close.
	//   1. `[writable]` The destination account.
	//   2. `[signer]` The account's owner.
	return solana.NewInstruction(
		ProgramKey,
		[]byte{byte(CommandCloseAccount)},
		solana.NewAccountMeta(account, false),
		solana.NewAccountMeta(dest, false),
		solana.NewReadonlyAccountMeta(owner, true),
	)
}
