package jupswap

import (
	"github.com/ligun0805/jupiterSwap/pkg/solana"
)

// SwapError is a program error surfaced from the swap program.
type SwapError uint32

const (
	// Invalid admin address
	ErrInvalidAdmin SwapError = iota + 0x1770

	// Invalid referral address
	ErrInvalidReferral

	// Invalid amount
	ErrInvalidAmount

	// Invalid minimum output amount
	ErrInvalidMinOutAmount

	// Commission calculation overflow
	ErrCommissionOverflow

	// Slippage tolerance exceeded
	ErrSlippageExceeded

	// Jupiter swap failed
	ErrJupiterSwapFailed

	// Invalid Jupiter route
	ErrInvalidJupiterRoute

	// Insufficient balance
	ErrInsufficientBalance

	// Invalid token account
	ErrInvalidTokenAccount
)

func (e SwapError) Error() string {
	switch e {
	case ErrInvalidAdmin:
		return "invalid admin address"
	case ErrInvalidReferral:
		return "invalid referral address"
	case ErrInvalidAmount:
		return "invalid amount"
	case ErrInvalidMinOutAmount:
		return "invalid minimum output amount"
	case ErrCommissionOverflow:
		return "commission calculation overflow"
	case ErrSlippageExceeded:
		return "slippage tolerance exceeded"
	case ErrJupiterSwapFailed:
		return "jupiter swap failed"
	case ErrInvalidJupiterRoute:
		return "invalid jupiter route"
	case ErrInsufficientBalance:
		return "insufficient balance"
	case ErrInvalidTokenAccount:
		return "invalid token account"
	}

	return "unknown swap error"
}

// SwapErrorFromError extracts the swap program error from a failed
// instruction, if the custom error code falls within the program's range.
func SwapErrorFromError(err error) (SwapError, bool) {
	instructionErr, ok := err.(solana.InstructionError)
	if !ok {
		return 0, false
	}

	customErr := instructionErr.CustomError()
	if customErr == nil {
		return 0, false
	}

	swapErr := SwapError(*customErr)
	if swapErr < ErrInvalidAdmin || swapErr > ErrInvalidTokenAccount {
		return 0, false
	}

	return swapErr, true
}
