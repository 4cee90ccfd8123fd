package viem

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxErrorRenderChainMismatch(t *testing.T) {
	err := &TxError{
		Kind:        KindChainMismatch,
		NodeChainID: 1,
		Chain:       Optimism,
		Args: []Arg{
			{"chain", "OP Mainnet (id: 10)"},
			{"from", "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"},
			{"to", "0x70997970c51812dc3a010c7d01b50e0d17dc79c8"},
			{"value", "1 ETH"},
		},
	}

	expected := strings.Join([]string{
		"The current chain of the node (id: 1) does not match the target chain for the transaction (id: 10 - OP Mainnet).",
		"",
		"Request Arguments:",
		"  chain:  OP Mainnet (id: 10)",
		"  from:   0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266",
		"  to:     0x70997970c51812dc3a010c7d01b50e0d17dc79c8",
		"  value:  1 ETH",
		"",
		"Version: viem-go@1.0.2",
	}, "\n")
	assert.Equal(t, expected, err.Error())
}

// A long field name in the echo widens the whole argument column.
func TestTxErrorRenderAlignsToLongestKey(t *testing.T) {
	err := &TxError{
		Kind:   KindTipAboveFeeCap,
		Tip:    gwei(11),
		FeeCap: gwei(10),
		Args: []Arg{
			{"from", "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"},
			{"maxFeePerGas", "10 gwei"},
			{"maxPriorityFeePerGas", "11 gwei"},
		},
	}

	expected := strings.Join([]string{
		"The provided tip (`maxPriorityFeePerGas` = 11 gwei) cannot be higher than the fee cap (`maxFeePerGas` = 10 gwei).",
		"",
		"Request Arguments:",
		"  from:                  0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266",
		"  maxFeePerGas:          10 gwei",
		"  maxPriorityFeePerGas:  11 gwei",
		"",
		"Version: viem-go@1.0.2",
	}, "\n")
	assert.Equal(t, expected, err.Error())
}

func TestTxErrorRenderNonceTooLowWithDetails(t *testing.T) {
	nonce := uint64(1)
	err := &TxError{
		Kind:  KindNonceTooLow,
		Nonce: &nonce,
		Args: []Arg{
			{"from", "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"},
			{"nonce", "1"},
		},
		Details: "nonce too low: address 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266, tx: 1 state: 5",
	}

	expected := strings.Join([]string{
		"Nonce provided for the transaction (1) is lower than the current nonce of the account.",
		"Try increasing the nonce or find the latest nonce with `eth_getTransactionCount`.",
		"",
		"Request Arguments:",
		"  from:   0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266",
		"  nonce:  1",
		"",
		"Details: nonce too low: address 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266, tx: 1 state: 5",
		"Version: viem-go@1.0.2",
	}, "\n")
	assert.Equal(t, expected, err.Error())
}

func TestTxErrorRenderInsufficientFunds(t *testing.T) {
	err := &TxError{
		Kind: KindInsufficientFunds,
		Args: []Arg{
			{"from", "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"},
			{"value", "1 ETH"},
		},
		Details: "insufficient funds for gas * price + value",
	}

	expected := strings.Join([]string{
		"The total cost (gas * gas fee + value) of executing this transaction exceeds the balance of the account.",
		"",
		"This error could arise when the account does not have enough funds to:",
		"- pay for the total gas fee,",
		"- pay for the value to send.",
		"",
		"Request Arguments:",
		"  from:   0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266",
		"  value:  1 ETH",
		"",
		"Details: insufficient funds for gas * price + value",
		"Version: viem-go@1.0.2",
	}, "\n")
	assert.Equal(t, expected, err.Error())
}

func TestTxErrorRenderUnknownKeepsDetails(t *testing.T) {
	err := &TxError{
		Kind:    KindUnknownTransaction,
		Args:    []Arg{{"from", "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"}},
		Details: "replacement transaction underpriced",
	}

	msg := err.Error()
	assert.True(t, strings.HasPrefix(msg, "An unknown error occurred while executing the transaction."))
	assert.Contains(t, msg, "Details: replacement transaction underpriced")
	assert.Contains(t, msg, "Version: "+DefaultVersionTag)
}

func TestTxErrorVersionOverride(t *testing.T) {
	err := &TxError{Kind: KindFeeConflict, Version: "acme-wallet@2.0.0"}
	assert.True(t, strings.HasSuffix(err.Error(), "Version: acme-wallet@2.0.0"))
}

func TestTxErrorIsMatchesByKind(t *testing.T) {
	var err error = &TxError{Kind: KindNonceTooLow}
	assert.True(t, errors.Is(err, &TxError{Kind: KindNonceTooLow}))
	assert.False(t, errors.Is(err, &TxError{Kind: KindInsufficientFunds}))

	wrapped := fmt.Errorf("send failed: %w", err)
	assert.True(t, IsKind(wrapped, KindNonceTooLow))
	assert.False(t, IsKind(wrapped, KindChainMismatch))
	assert.False(t, IsKind(errors.New("plain"), KindNonceTooLow))
}

func TestErrorKindString(t *testing.T) {
	for kind, name := range map[ErrorKind]string{
		KindUnknownTransaction:  "UnknownTransactionError",
		KindChainMismatch:       "ChainMismatchError",
		KindFeeConflict:         "FeeConflictError",
		KindFeeCapTooHigh:       "FeeCapTooHighError",
		KindFeeCapTooLow:        "FeeCapTooLowError",
		KindTipAboveFeeCap:      "TipHigherThanFeeCapError",
		KindIntrinsicGasTooLow:  "IntrinsicGasTooLowError",
		KindIntrinsicGasTooHigh: "IntrinsicGasTooHighError",
		KindInsufficientFunds:   "InsufficientFundsError",
		KindNonceTooLow:         "NonceTooLowError",
	} {
		assert.Equal(t, name, kind.String())
	}
}

// The echo keeps the fixed field order and skips everything the caller never
// set, rendering values in display units.
func TestEchoRequestArgs(t *testing.T) {
	gas := uint64(21000)
	nonce := uint64(7)
	r := &TxRequest{
		chain:                Mainnet,
		from:                 addr("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		to:                   addrPtr("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"),
		value:                ether(1),
		gas:                  &gas,
		maxFeePerGas:         gwei(20),
		maxPriorityFeePerGas: gwei(2),
		nonce:                &nonce,
	}

	args := echoRequestArgs(r)
	require.Len(t, args, 8)
	assert.Equal(t, []Arg{
		{"chain", "Ethereum (id: 1)"},
		{"from", "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"},
		{"to", "0x70997970c51812dc3a010c7d01b50e0d17dc79c8"},
		{"value", "1 ETH"},
		{"gas", "21000"},
		{"maxFeePerGas", "20 gwei"},
		{"maxPriorityFeePerGas", "2 gwei"},
		{"nonce", "7"},
	}, args)
}

func TestEchoRequestArgsMinimal(t *testing.T) {
	r := &TxRequest{from: addr("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")}
	args := echoRequestArgs(r)
	require.Len(t, args, 1)
	assert.Equal(t, Arg{"from", "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"}, args[0])
}

func TestEchoRequestArgsUsesChainCurrency(t *testing.T) {
	r := &TxRequest{
		chain: Celo,
		from:  addr("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		value: ether(3),
	}
	args := echoRequestArgs(r)
	require.Len(t, args, 3)
	assert.Equal(t, Arg{"value", "3 CELO"}, args[2])
}

func addr(hex string) common.Address {
	return common.HexToAddress(hex)
}

func addrPtr(hex string) *common.Address {
	a := common.HexToAddress(hex)
	return &a
}

func gwei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000))
}

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000_000_000_000))
}
