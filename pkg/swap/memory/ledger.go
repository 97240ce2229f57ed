package memory

import (
	"context"
	"crypto/ed25519"
	"sync"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/ligun0805/jupiterSwap/pkg/solana"
	"github.com/ligun0805/jupiterSwap/pkg/solana/token"
	"github.com/ligun0805/jupiterSwap/pkg/swap"
)

// RouteFunc models one external router program. It receives a delegated
// conversion call and returns the amount of the destination asset credited.
// Tests program it to set realized conversion rates or inject failures.
type RouteFunc func(call *swap.RouterCall) (uint64, error)

// Ledger is an in-memory swap.Host. A single mutex serializes units of work;
// ExecuteAtomic snapshots all state up front and restores it when the unit
// fails, so partial effects are never observable.
//
// Token accounts are persisted as marshaled SPL account records, so every
// read and write round-trips through the wire encoding like on a real ledger.
//
// The primitive host methods do not lock. They are only ever called from
// inside an atomic unit, which holds the lock for its whole duration, or from
// single-threaded test setup.
type Ledger struct {
	mu sync.Mutex

	dataAccounts  map[string][]byte
	tokenAccounts map[string][]byte
	routers       map[string]RouteFunc
}

// New returns an empty in-memory ledger.
func New() *Ledger {
	return &Ledger{
		dataAccounts:  make(map[string][]byte),
		tokenAccounts: make(map[string][]byte),
		routers:       make(map[string]RouteFunc),
	}
}

// SetTokenAccount seeds a token account record. Test setup only.
func (l *Ledger) SetTokenAccount(address ed25519.PublicKey, account token.Account) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.writeTokenAccount(address, &account)
}

// SetRouter registers the behavior of an external router program.
func (l *Ledger) SetRouter(router ed25519.PublicKey, fn RouteFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.routers[base58.Encode(router)] = fn
}

// TokenBalance reads a token account balance outside of any unit of work.
// Test assertions only.
func (l *Ledger) TokenBalance(address ed25519.PublicKey) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, ok := l.readTokenAccount(address)
	if !ok {
		return 0
	}
	return account.Amount
}

func (l *Ledger) GetAccountData(_ context.Context, address ed25519.PublicKey) ([]byte, error) {
	data, ok := l.dataAccounts[base58.Encode(address)]
	if !ok {
		return nil, swap.ErrAccountNotFound
	}

	cloned := make([]byte, len(data))
	copy(cloned, data)
	return cloned, nil
}

func (l *Ledger) CreateAccount(_ context.Context, address ed25519.PublicKey, data []byte, payer swap.Signer) error {
	if err := verifySigner(payer); err != nil {
		return err
	}

	key := base58.Encode(address)
	if _, ok := l.dataAccounts[key]; ok {
		return swap.ErrAccountExists
	}

	cloned := make([]byte, len(data))
	copy(cloned, data)
	l.dataAccounts[key] = cloned
	return nil
}

func (l *Ledger) GetTokenAccount(_ context.Context, address ed25519.PublicKey) (*token.Account, error) {
	account, ok := l.readTokenAccount(address)
	if !ok {
		return nil, swap.ErrAccountNotFound
	}
	return account, nil
}

func (l *Ledger) Invoke(_ context.Context, ixn solana.Instruction, signers ...swap.Signer) error {
	decompiled, err := token.DecompileTransfer(ixn)
	if err != nil {
		return errors.Wrap(err, "unsupported instruction")
	}

	if err := requireSignature(decompiled.Owner, signers); err != nil {
		return err
	}

	source, ok := l.readTokenAccount(decompiled.Source)
	if !ok {
		return swap.ErrAccountNotFound
	}
	destination, ok := l.readTokenAccount(decompiled.Destination)
	if !ok {
		return swap.ErrAccountNotFound
	}

	if !bytes32Equal(source.Owner, decompiled.Owner) {
		return errors.New("owner mismatch on source account")
	}
	if !bytes32Equal(source.Mint, destination.Mint) {
		return errors.New("mint mismatch between source and destination")
	}
	if source.Amount < decompiled.Amount {
		return errors.New("insufficient source balance")
	}

	source.Amount -= decompiled.Amount
	destination.Amount += decompiled.Amount

	l.writeTokenAccount(decompiled.Source, source)
	l.writeTokenAccount(decompiled.Destination, destination)
	return nil
}

func (l *Ledger) InvokeRouter(_ context.Context, call *swap.RouterCall) error {
	fn, ok := l.routers[base58.Encode(call.Router)]
	if !ok {
		return errors.New("unknown router program")
	}

	if err := verifySigner(call.Authority); err != nil {
		return err
	}

	source, ok := l.readTokenAccount(call.Source)
	if !ok {
		return swap.ErrAccountNotFound
	}
	destination, ok := l.readTokenAccount(call.Destination)
	if !ok {
		return swap.ErrAccountNotFound
	}

	if !bytes32Equal(source.Owner, call.Authority.Pubkey()) {
		return errors.New("owner mismatch on source account")
	}
	if source.Amount < call.Amount {
		return errors.New("insufficient source balance")
	}

	out, err := fn(call)
	if err != nil {
		return err
	}

	source.Amount -= call.Amount
	destination.Amount += out

	l.writeTokenAccount(call.Source, source)
	l.writeTokenAccount(call.Destination, destination)
	return nil
}

func (l *Ledger) ExecuteAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	snapshot := l.snapshot()

	if err := fn(ctx); err != nil {
		l.restore(snapshot)
		return err
	}
	return nil
}

type ledgerSnapshot struct {
	dataAccounts  map[string][]byte
	tokenAccounts map[string][]byte
}

func (l *Ledger) snapshot() ledgerSnapshot {
	return ledgerSnapshot{
		dataAccounts:  cloneRecords(l.dataAccounts),
		tokenAccounts: cloneRecords(l.tokenAccounts),
	}
}

func (l *Ledger) restore(snapshot ledgerSnapshot) {
	l.dataAccounts = snapshot.dataAccounts
	l.tokenAccounts = snapshot.tokenAccounts
}

func (l *Ledger) readTokenAccount(address ed25519.PublicKey) (*token.Account, bool) {
	data, ok := l.tokenAccounts[base58.Encode(address)]
	if !ok {
		return nil, false
	}

	var account token.Account
	if !account.Unmarshal(data) {
		return nil, false
	}
	return &account, true
}

func (l *Ledger) writeTokenAccount(address ed25519.PublicKey, account *token.Account) {
	l.tokenAccounts[base58.Encode(address)] = account.Marshal()
}

func cloneRecords(records map[string][]byte) map[string][]byte {
	cloned := make(map[string][]byte, len(records))
	for key, data := range records {
		record := make([]byte, len(data))
		copy(record, data)
		cloned[key] = record
	}
	return cloned
}

// verifySigner checks signature evidence structurally. Key possession is the
// evidence for key signers; derived authorities must survive re-derivation.
func verifySigner(signer swap.Signer) error {
	switch typed := signer.(type) {
	case swap.KeySigner:
		return nil
	case swap.AuthorityProof:
		return typed.Verify()
	default:
		return errors.Errorf("unsupported signer type %T", signer)
	}
}

func requireSignature(address ed25519.PublicKey, signers []swap.Signer) error {
	for _, signer := range signers {
		if bytes32Equal(signer.Pubkey(), address) {
			return verifySigner(signer)
		}
	}
	return errors.Errorf("missing signature for %s", base58.Encode(address))
}

func bytes32Equal(a, b ed25519.PublicKey) bool {
	return string(a) == string(b)
}
