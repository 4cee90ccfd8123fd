package viem

import (
	"strings"

	"github.com/KyberNetwork/logger"
)

// nodeErrorPattern is one row of the classification table: a set of substring
// signals mapped to an error kind. Matching is best-effort and order
// sensitive; two failure conditions can produce overlapping node wording, so
// the first matching row wins.
type nodeErrorPattern struct {
	signals []string
	kind    ErrorKind
}

// nodeErrorPatterns is checked in order against the lowercased node
// diagnostic. The first five rows mirror the diagnostics of go-ethereum's
// txpool; the remaining rows cover wordings some nodes use for violations
// that are normally caught client-side.
var nodeErrorPatterns = []nodeErrorPattern{
	{signals: []string{"insufficient funds"}, kind: KindInsufficientFunds},
	{signals: []string{"intrinsic gas too low"}, kind: KindIntrinsicGasTooLow},
	{signals: []string{"intrinsic gas too high", "exceeds block gas limit"}, kind: KindIntrinsicGasTooHigh},
	{signals: []string{"max fee per gas less than block base fee"}, kind: KindFeeCapTooLow},
	{signals: []string{"nonce too low"}, kind: KindNonceTooLow},
	{signals: []string{"max priority fee per gas higher than max fee per gas", "tip higher than fee cap"}, kind: KindTipAboveFeeCap},
	{signals: []string{"max fee per gas higher than 2^256-1", "fee cap higher than 2^256-1"}, kind: KindFeeCapTooHigh},
}

// classifyNodeError maps a node rejection onto exactly one TxError. The raw
// diagnostic is always preserved on the Details line; the structured values of
// the matched kind are taken from the submitted request so the rendered
// message can state them in display units. An unmatched diagnostic produces
// KindUnknownTransaction with the request arguments still echoed.
func classifyNodeError(nodeErr error, r *TxRequest, echo []Arg, version string) *TxError {
	details := nodeErr.Error()
	needle := strings.ToLower(details)

	txErr := &TxError{
		Kind:    KindUnknownTransaction,
		Args:    echo,
		Details: details,
		Version: version,
	}

	for _, row := range nodeErrorPatterns {
		if !matchesAny(needle, row.signals) {
			continue
		}
		txErr.Kind = row.kind
		break
	}

	switch txErr.Kind {
	case KindIntrinsicGasTooLow, KindIntrinsicGasTooHigh:
		txErr.Gas = r.gas
	case KindNonceTooLow:
		txErr.Nonce = r.nonce
	case KindFeeCapTooLow, KindFeeCapTooHigh:
		if r.maxFeePerGas != nil {
			txErr.FeeCap = r.maxFeePerGas
		} else {
			txErr.FeeCap = r.gasPrice
		}
	case KindTipAboveFeeCap:
		txErr.Tip = r.maxPriorityFeePerGas
		txErr.FeeCap = r.maxFeePerGas
	}

	logger.WithFields(logger.Fields{
		"from":    r.from.Hex(),
		"kind":    txErr.Kind.String(),
		"details": details,
	}).Debug("classify: node rejection classified")

	return txErr
}

func matchesAny(needle string, signals []string) bool {
	for _, s := range signals {
		if strings.Contains(needle, s) {
			return true
		}
	}
	return false
}
