package swap

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ligun0805/jupiterSwap/pkg/metrics"
	"github.com/ligun0805/jupiterSwap/pkg/solana/jupswap"
	"github.com/ligun0805/jupiterSwap/pkg/solana/token"
)

const metricsStructName = "swap.orchestrator"

// Orchestrator executes the swap protocol against a host ledger: it validates
// requests, computes the commission split, delegates the two conversion legs
// to the trusted router, and distributes settled commission between the two
// registry beneficiaries.
//
// The orchestrator is stateless; the registry record on the host ledger is the
// only persistent state.
type Orchestrator struct {
	log  *logrus.Entry
	host Host

	registry     ed25519.PublicKey
	registryBump uint8
}

// NewOrchestrator returns an orchestrator bound to a host ledger. The registry
// address is derived once up front; its bump seed is validated against the
// stored record on every swap.
func NewOrchestrator(host Host) (*Orchestrator, error) {
	registry, bump, err := jupswap.GetRegistryAddress()
	if err != nil {
		return nil, errors.Wrap(err, "error deriving registry address")
	}

	return &Orchestrator{
		log:          logrus.StandardLogger().WithField("type", "swap/orchestrator"),
		host:         host,
		registry:     registry,
		registryBump: bump,
	}, nil
}

// RegistryAddress returns the derived address of the singleton registry record.
func (o *Orchestrator) RegistryAddress() ed25519.PublicKey {
	return o.registry
}

type InitializeParams struct {
	// Admin is the primary beneficiary identity.
	Admin ed25519.PublicKey

	// Referral is the secondary beneficiary identity.
	Referral ed25519.PublicKey

	// AdminSigner proves the admin authorized this call. The admin also
	// funds the registry record.
	AdminSigner Signer

	// ReferralSigner proves the referral authorized this call.
	ReferralSigner Signer
}

// Initialize creates the singleton registry record. Both beneficiaries must
// co-sign, each matching the identity value passed. The record is immutable
// once created; a second call fails with ErrAccountExists.
func (o *Orchestrator) Initialize(ctx context.Context, params *InitializeParams) error {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Initialize")
	defer tracer.End()

	log := o.log.WithField("method", "Initialize")

	if !bytes.Equal(params.Admin, params.AdminSigner.Pubkey()) {
		return jupswap.ErrInvalidAdmin
	}
	if !bytes.Equal(params.Referral, params.ReferralSigner.Pubkey()) {
		return jupswap.ErrInvalidReferral
	}
	if bytes.Equal(params.Admin, params.Referral) {
		return jupswap.ErrInvalidReferral
	}

	state := &jupswap.RegistryAccount{
		Admin:    params.Admin,
		Referral: params.Referral,
		Bump:     o.registryBump,
	}

	err := o.host.ExecuteAtomic(ctx, func(ctx context.Context) error {
		return o.host.CreateAccount(ctx, o.registry, state.Marshal(), params.AdminSigner)
	})
	if err != nil {
		log.WithError(err).Warn("failure creating registry record")
		tracer.OnError(err)
		return err
	}

	recordRegistryCreatedEvent(ctx, params.Admin, params.Referral)

	log.WithFields(logrus.Fields{
		"registry": base58.Encode(o.registry),
		"admin":    base58.Encode(params.Admin),
		"referral": base58.Encode(params.Referral),
	}).Debug("registry initialized")

	return nil
}

type SwapParams struct {
	// User proves the caller authorized moving funds out of its source
	// account.
	User Signer

	// UserSource is the caller-owned source-asset token account.
	UserSource ed25519.PublicKey

	// UserDestination is the caller-owned destination-asset token account
	// credited by the user conversion leg.
	UserDestination ed25519.PublicKey

	// InputMint is the source asset being swapped.
	InputMint ed25519.PublicKey

	// Router is the router program identity presented by the caller. It
	// must match the hard-coded trusted router.
	Router ed25519.PublicKey

	// SettlementMint is the commission settlement asset presented by the
	// caller. It must match the hard-coded settlement asset.
	SettlementMint ed25519.PublicKey

	InputAmount     uint64
	MinOutputAmount uint64

	// RoutePayload is forwarded verbatim to the router on both legs.
	RoutePayload []byte
}

// Swap executes one swap-and-commission-distribution call as a single
// indivisible unit of work on the host ledger. Any failure at any step aborts
// the whole call with no observable partial state.
func (o *Orchestrator) Swap(ctx context.Context, params *SwapParams) error {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Swap")
	defer tracer.End()

	log := o.log.WithField("method", "Swap")

	start := time.Now()
	err := o.host.ExecuteAtomic(ctx, func(ctx context.Context) error {
		return o.executeSwap(ctx, log, params)
	})
	if err != nil {
		recordSwapOutcomeMetrics(ctx, "failure", time.Since(start))
		tracer.OnError(err)
		return err
	}

	recordSwapOutcomeMetrics(ctx, "success", time.Since(start))
	return nil
}

func (o *Orchestrator) executeSwap(ctx context.Context, log *logrus.Entry, params *SwapParams) error {
	//
	// Section: Validation (pure reads, no mutation until every check passes)
	//

	if params.InputAmount == 0 {
		return jupswap.ErrInvalidAmount
	}
	if params.MinOutputAmount == 0 {
		return jupswap.ErrInvalidMinOutAmount
	}
	if !bytes.Equal(params.Router, jupswap.JUPITER_PROGRAM_ID) {
		return jupswap.ErrInvalidJupiterRoute
	}
	if !bytes.Equal(params.SettlementMint, jupswap.USDC_MINT) {
		return jupswap.ErrInvalidJupiterRoute
	}

	registry, err := o.loadRegistry(ctx)
	if err != nil {
		log.WithError(err).Warn("failure loading registry record")
		return err
	}

	authority, err := DeriveAuthority(registry.Bump)
	if err != nil {
		log.WithError(err).Warn("failure deriving program authority")
		return err
	}

	user := params.User.Pubkey()
	log = log.WithField("user", base58.Encode(user))

	source, err := o.host.GetTokenAccount(ctx, params.UserSource)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return jupswap.ErrInvalidTokenAccount
		}
		log.WithError(err).Warn("failure reading user source account")
		return err
	}
	if !bytes.Equal(source.Mint, params.InputMint) || !bytes.Equal(source.Owner, user) {
		return jupswap.ErrInvalidTokenAccount
	}
	if source.Amount < params.InputAmount {
		return jupswap.ErrInsufficientBalance
	}

	destination, err := o.host.GetTokenAccount(ctx, params.UserDestination)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return jupswap.ErrInvalidTokenAccount
		}
		log.WithError(err).Warn("failure reading user destination account")
		return err
	}
	if !bytes.Equal(destination.Owner, user) {
		return jupswap.ErrInvalidTokenAccount
	}

	//
	// Section: Commission computation
	//

	commission, net, err := CalculateCommission(params.InputAmount)
	if err != nil {
		return err
	}
	log = log.WithFields(logrus.Fields{
		"input_amount": params.InputAmount,
		"commission":   commission,
	})

	holding, err := token.GetAssociatedAccount(o.registry, params.InputMint)
	if err != nil {
		log.WithError(err).Warn("failure deriving holding account")
		return err
	}
	settlement, err := token.GetAssociatedAccount(o.registry, params.SettlementMint)
	if err != nil {
		log.WithError(err).Warn("failure deriving settlement account")
		return err
	}

	//
	// Section: Funding transfer into the program-owned holding account
	//

	err = o.host.Invoke(ctx, token.Transfer(params.UserSource, holding, user, params.InputAmount), params.User)
	if err != nil {
		log.WithError(err).Warn("failure transferring input to holding account")
		return err
	}

	//
	// Section: Delegated conversion, user leg
	//

	err = o.host.InvokeRouter(ctx, &RouterCall{
		Router:       params.Router,
		Source:       holding,
		Destination:  params.UserDestination,
		Authority:    authority,
		Amount:       net,
		RoutePayload: params.RoutePayload,
	})
	if err != nil {
		log.WithError(err).Warn("router failed user conversion leg")
		return jupswap.ErrJupiterSwapFailed
	}

	// Slippage is a post-condition on the realized output; it cannot be
	// checked until the router has executed.
	destination, err = o.host.GetTokenAccount(ctx, params.UserDestination)
	if err != nil {
		log.WithError(err).Warn("failure reading realized output balance")
		return err
	}
	if destination.Amount < params.MinOutputAmount {
		return jupswap.ErrSlippageExceeded
	}

	//
	// Section: Delegated conversion, commission leg
	//

	if commission > 0 {
		err = o.host.InvokeRouter(ctx, &RouterCall{
			Router:       params.Router,
			Source:       holding,
			Destination:  settlement,
			Authority:    authority,
			Amount:       commission,
			RoutePayload: params.RoutePayload,
		})
		if err != nil {
			log.WithError(err).Warn("router failed commission conversion leg")
			return jupswap.ErrJupiterSwapFailed
		}
	}

	//
	// Section: Distribution of the realized settlement balance
	//

	settled, err := o.host.GetTokenAccount(ctx, settlement)
	if err != nil {
		log.WithError(err).Warn("failure reading settled commission balance")
		return err
	}

	// The realized settlement balance is authoritative, never the
	// theoretical pre-conversion commission amount.
	referralShare, adminShare, err := SplitSettlement(settled.Amount)
	if err != nil {
		return err
	}

	if referralShare > 0 {
		referralAccount, err := token.GetAssociatedAccount(registry.Referral, params.SettlementMint)
		if err != nil {
			log.WithError(err).Warn("failure deriving referral settlement account")
			return err
		}

		err = o.host.Invoke(ctx, token.Transfer(settlement, referralAccount, authority.Pubkey(), referralShare), authority)
		if err != nil {
			log.WithError(err).Warn("failure distributing referral share")
			return err
		}
	}

	if adminShare > 0 {
		adminAccount, err := token.GetAssociatedAccount(registry.Admin, params.SettlementMint)
		if err != nil {
			log.WithError(err).Warn("failure deriving admin settlement account")
			return err
		}

		err = o.host.Invoke(ctx, token.Transfer(settlement, adminAccount, authority.Pubkey(), adminShare), authority)
		if err != nil {
			log.WithError(err).Warn("failure distributing admin share")
			return err
		}
	}

	recordSwapExecutedEvent(ctx, params.InputAmount, commission, settled.Amount, referralShare, adminShare)

	log.WithFields(logrus.Fields{
		"settled":        settled.Amount,
		"referral_share": referralShare,
		"admin_share":    adminShare,
	}).Debug("swap executed")

	return nil
}

func (o *Orchestrator) loadRegistry(ctx context.Context) (*jupswap.RegistryAccount, error) {
	data, err := o.host.GetAccountData(ctx, o.registry)
	if err != nil {
		return nil, errors.Wrap(err, "registry is not initialized")
	}

	var registry jupswap.RegistryAccount
	if !registry.Unmarshal(data) {
		return nil, jupswap.ErrInvalidAccountData
	}

	return &registry, nil
}
