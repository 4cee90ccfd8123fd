package viem

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/Tumelo-Alt/viem/internal/units"
)

// DefaultVersionTag is the identity line appended to every rendered error.
// Downstream tooling pattern-matches rendered messages, so the tag is part of
// the message contract; override per client with WithVersionTag.
const DefaultVersionTag = "viem-go@1.0.2"

// ErrorKind is the closed taxonomy of transaction submission failures.
type ErrorKind uint8

const (
	KindUnknownTransaction ErrorKind = iota
	KindChainMismatch
	KindFeeConflict
	KindFeeCapTooHigh
	KindFeeCapTooLow
	KindTipAboveFeeCap
	KindIntrinsicGasTooLow
	KindIntrinsicGasTooHigh
	KindInsufficientFunds
	KindNonceTooLow
)

// String returns the canonical name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindChainMismatch:
		return "ChainMismatchError"
	case KindFeeConflict:
		return "FeeConflictError"
	case KindFeeCapTooHigh:
		return "FeeCapTooHighError"
	case KindFeeCapTooLow:
		return "FeeCapTooLowError"
	case KindTipAboveFeeCap:
		return "TipHigherThanFeeCapError"
	case KindIntrinsicGasTooLow:
		return "IntrinsicGasTooLowError"
	case KindIntrinsicGasTooHigh:
		return "IntrinsicGasTooHighError"
	case KindInsufficientFunds:
		return "InsufficientFundsError"
	case KindNonceTooLow:
		return "NonceTooLowError"
	default:
		return "UnknownTransactionError"
	}
}

// Arg is one echoed request argument, already rendered in its display unit.
type Arg struct {
	Key   string
	Value string
}

// TxError is the terminal artifact of a failed submission: a tagged variant
// carrying the structured values behind the violation plus the echo of the
// caller-supplied request arguments. Error() renders the full multi-line
// message; the rendered text is byte-for-byte part of the package contract.
type TxError struct {
	Kind ErrorKind

	// Structured values, populated per kind. Fee values are wei-denominated.
	FeeCap      *big.Int
	Tip         *big.Int
	Gas         *uint64
	Nonce       *uint64
	NodeChainID uint64
	Chain       *Chain

	// Args is the ordered echo of the request fields the caller actually set.
	Args []Arg

	// Details carries the raw provider diagnostic, if any.
	Details string

	// Version is the trailing identity tag; empty means DefaultVersionTag.
	Version string
}

func (e *TxError) Error() string {
	return renderTxError(e)
}

// Is lets errors.Is match TxErrors by kind, so sentinel-style checks like
// errors.Is(err, &TxError{Kind: KindNonceTooLow}) work.
func (e *TxError) Is(target error) bool {
	t, ok := target.(*TxError)
	return ok && t.Kind == e.Kind
}

// IsKind reports whether err is (or wraps) a TxError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var txErr *TxError
	return errors.As(err, &txErr) && txErr.Kind == kind
}

// renderTxError is the single formatting function behind every rendered
// message. Layout: explanation paragraph (with optional cause bullets), blank
// line, "Request Arguments:" block, blank line, optional Details line, then
// the Version line. Field names in the argument block are padded to the
// longest name present so values align in one column.
func renderTxError(e *TxError) string {
	sections := []string{
		strings.Join(explain(e), "\n"),
		renderArgs(e.Args),
		renderTail(e),
	}
	return strings.Join(sections, "\n\n")
}

// explain produces the kind-specific explanation lines with exact numeric
// values rendered in display units.
func explain(e *TxError) []string {
	switch e.Kind {
	case KindChainMismatch:
		return []string{fmt.Sprintf(
			"The current chain of the node (id: %d) does not match the target chain for the transaction (id: %d - %s).",
			e.NodeChainID, e.Chain.ID, e.Chain.Name,
		)}
	case KindFeeConflict:
		return []string{
			"Cannot specify both a `gasPrice` and a `maxFeePerGas`/`maxPriorityFeePerGas`.",
			"Use `maxFeePerGas`/`maxPriorityFeePerGas` for EIP-1559 compatible networks, or `gasPrice` for others.",
		}
	case KindFeeCapTooHigh:
		return []string{fmt.Sprintf(
			"The fee cap (`maxFeePerGas`/`gasPrice` = %s gwei) cannot be higher than the maximum allowed value (2^256-1).",
			units.FormatGwei(e.FeeCap),
		)}
	case KindFeeCapTooLow:
		return []string{fmt.Sprintf(
			"The fee cap (`maxFeePerGas`/`gasPrice` = %s gwei) cannot be lower than the block base fee.",
			units.FormatGwei(e.FeeCap),
		)}
	case KindTipAboveFeeCap:
		return []string{fmt.Sprintf(
			"The provided tip (`maxPriorityFeePerGas` = %s gwei) cannot be higher than the fee cap (`maxFeePerGas` = %s gwei).",
			units.FormatGwei(e.Tip), units.FormatGwei(e.FeeCap),
		)}
	case KindIntrinsicGasTooLow:
		if e.Gas != nil {
			return []string{fmt.Sprintf(
				"The amount of gas (%d) provided for the transaction is too low.", *e.Gas,
			)}
		}
		return []string{"The amount of gas provided for the transaction is too low."}
	case KindIntrinsicGasTooHigh:
		if e.Gas != nil {
			return []string{fmt.Sprintf(
				"The amount of gas (%d) provided for the transaction exceeds the limit allowed for the block.", *e.Gas,
			)}
		}
		return []string{"The amount of gas provided for the transaction exceeds the limit allowed for the block."}
	case KindInsufficientFunds:
		return []string{
			"The total cost (gas * gas fee + value) of executing this transaction exceeds the balance of the account.",
			"",
			"This error could arise when the account does not have enough funds to:",
			"- pay for the total gas fee,",
			"- pay for the value to send.",
		}
	case KindNonceTooLow:
		first := "Nonce provided for the transaction is lower than the current nonce of the account."
		if e.Nonce != nil {
			first = fmt.Sprintf(
				"Nonce provided for the transaction (%d) is lower than the current nonce of the account.", *e.Nonce,
			)
		}
		return []string{
			first,
			"Try increasing the nonce or find the latest nonce with `eth_getTransactionCount`.",
		}
	default:
		return []string{"An unknown error occurred while executing the transaction."}
	}
}

func renderArgs(args []Arg) string {
	var b strings.Builder
	b.WriteString("Request Arguments:")

	width := 0
	for _, a := range args {
		if len(a.Key) > width {
			width = len(a.Key)
		}
	}
	for _, a := range args {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %-*s  %s", width+1, a.Key+":", a.Value)
	}
	return b.String()
}

func renderTail(e *TxError) string {
	version := e.Version
	if version == "" {
		version = DefaultVersionTag
	}
	if e.Details != "" {
		return "Details: " + e.Details + "\nVersion: " + version
	}
	return "Version: " + version
}

// echoRequestArgs renders the subset of request fields the caller supplied, in
// the fixed field order chain, from, to, value, gas, gasPrice, maxFeePerGas,
// maxPriorityFeePerGas, nonce. Values are rendered in canonical display units
// (native currency for value, gwei for fee fields).
func echoRequestArgs(r *TxRequest) []Arg {
	symbol := r.chain.symbol()
	args := make([]Arg, 0, 9)

	if r.chain != nil {
		args = append(args, Arg{"chain", fmt.Sprintf("%s (id: %d)", r.chain.Name, r.chain.ID)})
	}
	args = append(args, Arg{"from", strings.ToLower(r.from.Hex())})
	if r.to != nil {
		args = append(args, Arg{"to", strings.ToLower(r.to.Hex())})
	}
	if r.value != nil {
		args = append(args, Arg{"value", units.FormatEther(r.value) + " " + symbol})
	}
	if r.gas != nil {
		args = append(args, Arg{"gas", fmt.Sprintf("%d", *r.gas)})
	}
	if r.gasPrice != nil {
		args = append(args, Arg{"gasPrice", units.FormatGwei(r.gasPrice) + " gwei"})
	}
	if r.maxFeePerGas != nil {
		args = append(args, Arg{"maxFeePerGas", units.FormatGwei(r.maxFeePerGas) + " gwei"})
	}
	if r.maxPriorityFeePerGas != nil {
		args = append(args, Arg{"maxPriorityFeePerGas", units.FormatGwei(r.maxPriorityFeePerGas) + " gwei"})
	}
	if r.nonce != nil {
		args = append(args, Arg{"nonce", fmt.Sprintf("%d", *r.nonce)})
	}
	return args
}
