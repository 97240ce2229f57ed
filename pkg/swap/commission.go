package swap

import (
	"lukechampine.com/uint128"

	"github.com/ligun0805/jupiterSwap/pkg/solana/jupswap"
)

const (
	// Commission taken off the input amount.
	commissionRateNumerator   = 1
	commissionRateDenominator = 100

	// Referral's cut of the settled commission; the admin takes the rest.
	referralShareNumerator   = 40
	referralShareDenominator = 100
)

// CalculateCommission splits an input amount into the commission and the net
// amount forwarded to the user's conversion leg. The multiply is performed in
// 128 bits before narrowing back; any overflow or failed subtraction is fatal.
//
// Invariant: commission + net == inputAmount exactly.
func CalculateCommission(inputAmount uint64) (commission, net uint64, err error) {
	wide := uint128.From64(inputAmount).
		Mul64(commissionRateNumerator).
		Div64(commissionRateDenominator)
	if wide.Hi != 0 {
		return 0, 0, jupswap.ErrCommissionOverflow
	}

	commission = wide.Lo
	if commission > inputAmount {
		return 0, 0, jupswap.ErrCommissionOverflow
	}

	return commission, inputAmount - commission, nil
}

// SplitSettlement divides a realized settlement balance between the referral
// and the admin. The referral share rounds down and the admin absorbs the
// remainder, so no settlement unit is stranded or created.
//
// Invariant: referralShare + adminShare == balance exactly.
func SplitSettlement(balance uint64) (referralShare, adminShare uint64, err error) {
	wide := uint128.From64(balance).
		Mul64(referralShareNumerator).
		Div64(referralShareDenominator)
	if wide.Hi != 0 {
		return 0, 0, jupswap.ErrCommissionOverflow
	}

	referralShare = wide.Lo
	if referralShare > balance {
		return 0, 0, jupswap.ErrCommissionOverflow
	}

	return referralShare, balance - referralShare, nil
}
