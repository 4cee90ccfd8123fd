package viem

import (
	"context"
	"math/big"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// Head is the subset of the current block the pipeline needs: the protocol
// base fee (nil on pre-London networks) and the declared block gas limit.
type Head struct {
	Number   uint64
	BaseFee  *big.Int
	GasLimit uint64
}

// NodeBackend is the read/submit surface of the connected execution node. It
// is the only external collaborator of the pipeline; implementations own the
// transport, batching and network-level retries.
//
// All methods take a context; cancellation and timeouts are entirely the
// backend's responsibility, the pipeline imposes none of its own.
type NodeBackend interface {
	// ChainID returns the network id of the connected node.
	ChainID(ctx context.Context) (*big.Int, error)

	// PendingNonceAt returns the pending-inclusive nonce of the account.
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)

	// BalanceAt returns the latest balance of the account in wei.
	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)

	// HeadBlock returns base fee and gas limit of the current block.
	HeadBlock(ctx context.Context) (*Head, error)

	// SuggestGasTipCap returns a suggested priority fee per gas.
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)

	// SuggestGasPrice returns a suggested legacy gas price. Only consulted on
	// networks without a base fee.
	SuggestGasPrice(ctx context.Context) (*big.Int, error)

	// EstimateGas returns the node's gas estimate for the given call shape.
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)

	// SendTransaction submits the formatted request (eth_sendTransaction
	// argument shape, hex-quantity encoded) and returns the transaction hash.
	// Node rejections are returned verbatim for classification.
	SendTransaction(ctx context.Context, args map[string]any) (common.Hash, error)
}
