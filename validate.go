package viem

import (
	"math/big"

	"github.com/holiman/uint256"
)

// checkFeeModel rejects requests mixing the legacy and EIP-1559 fee models.
// Exactly one model may be active; both may be absent (defaults fill in).
// Runs on the raw caller request, before any resolution.
func checkFeeModel(r *TxRequest, echo []Arg, version string) *TxError {
	if r.gasPrice != nil && (r.maxFeePerGas != nil || r.maxPriorityFeePerGas != nil) {
		return &TxError{
			Kind:    KindFeeConflict,
			Args:    echo,
			Version: version,
		}
	}
	return nil
}

// validateFees is the pure fee validation over a fully-resolved request plus
// the current node snapshot. Checks run in fixed order and the first violated
// rule wins:
//
//  1. fee cap above 2^256-1
//  2. tip above fee cap
//  3. fee cap below the block base fee
//
// Gas-bound and balance rules are left to the node itself; the checks here are
// the ones that are economically meaningful client-side before spending a
// round trip. Validation is idempotent: a valid request stays valid against
// the same snapshot.
func validateFees(r *TxRequest, head *Head, echo []Arg, version string) *TxError {
	feeCap := r.maxFeePerGas
	if feeCap == nil {
		feeCap = r.gasPrice
	}

	if feeCap != nil && exceedsUint256(feeCap) {
		return &TxError{
			Kind:    KindFeeCapTooHigh,
			FeeCap:  feeCap,
			Args:    echo,
			Version: version,
		}
	}

	if r.maxPriorityFeePerGas != nil && r.maxFeePerGas != nil &&
		r.maxPriorityFeePerGas.Cmp(r.maxFeePerGas) > 0 {
		return &TxError{
			Kind:    KindTipAboveFeeCap,
			Tip:     r.maxPriorityFeePerGas,
			FeeCap:  r.maxFeePerGas,
			Args:    echo,
			Version: version,
		}
	}

	if r.maxFeePerGas != nil && head != nil && head.BaseFee != nil &&
		r.maxFeePerGas.Cmp(head.BaseFee) < 0 {
		return &TxError{
			Kind:    KindFeeCapTooLow,
			FeeCap:  r.maxFeePerGas,
			Args:    echo,
			Version: version,
		}
	}

	return nil
}

// exceedsUint256 reports whether v does not fit the 256-bit unsigned integer
// range the wire format allows.
func exceedsUint256(v *big.Int) bool {
	if v.Sign() < 0 {
		return false
	}
	_, overflow := uint256.FromBig(v)
	return overflow
}
