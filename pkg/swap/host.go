package swap

import (
	"context"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/ligun0805/jupiterSwap/pkg/solana"
	"github.com/ligun0805/jupiterSwap/pkg/solana/token"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
)

// RouterCall is a delegated conversion dispatched to the external router. The
// route payload is forwarded verbatim; the router's internal accounting is a
// black box and only the resulting destination balance is authoritative.
type RouterCall struct {
	// Router is the program the call is delegated to.
	Router ed25519.PublicKey

	// Source holds the asset being converted.
	Source ed25519.PublicKey

	// Destination is credited with the converted asset.
	Destination ed25519.PublicKey

	// Authority provides signature evidence for moving funds out of Source.
	Authority Signer

	// Amount is the quantity of the source asset routed by this leg.
	Amount uint64

	// RoutePayload is the opaque routing instruction data.
	RoutePayload []byte
}

// Host is the ledger execution environment the orchestrator runs against.
//
// The orchestrator depends on the host for all-or-nothing execution: when the
// function given to ExecuteAtomic returns an error, every effect of every
// earlier step within the same call must be rolled back as if it never ran.
// There is no compensation logic in the orchestrator itself. Concurrent units
// of work touching the same accounts are serialized by the host.
type Host interface {
	// GetAccountData reads raw program account data. Returns
	// ErrAccountNotFound if no record exists at the address.
	GetAccountData(ctx context.Context, address ed25519.PublicKey) ([]byte, error)

	// CreateAccount allocates a program-owned data account at the address,
	// funded by the payer. Returns ErrAccountExists if the address already
	// holds a record; creation can only ever succeed once per address.
	CreateAccount(ctx context.Context, address ed25519.PublicKey, data []byte, payer Signer) error

	// GetTokenAccount reads the current state of an SPL token account.
	GetTokenAccount(ctx context.Context, address ed25519.PublicKey) (*token.Account, error)

	// Invoke synchronously executes an instruction. Every account marked as
	// a signer must be covered by one of the provided signature proofs.
	Invoke(ctx context.Context, ixn solana.Instruction, signers ...Signer) error

	// InvokeRouter synchronously executes a delegated conversion call
	// against an external router program.
	InvokeRouter(ctx context.Context, call *RouterCall) error

	// ExecuteAtomic runs fn as a single indivisible unit of work.
	ExecuteAtomic(ctx context.Context, fn func(ctx context.Context) error) error
}
