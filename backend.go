package viem

import (
	"context"
	"fmt"
	"math/big"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// rpcBackend implements NodeBackend over a JSON-RPC connection. Read queries
// go through ethclient; the submission itself uses the raw RPC client because
// eth_sendTransaction takes the argument map the pipeline produced, not a
// signed raw transaction.
type rpcBackend struct {
	rpc *rpc.Client
	eth *ethclient.Client
}

// Dial connects to the node at rawurl and returns a backend for it. The node
// must manage the sender's key itself (eth_sendTransaction); signing is out of
// scope for this package.
func Dial(ctx context.Context, rawurl string) (NodeBackend, error) {
	rpcClient, err := rpc.DialContext(ctx, rawurl)
	if err != nil {
		return nil, fmt.Errorf("couldn't dial node at %s: %w", rawurl, err)
	}
	return NewRPCBackend(rpcClient), nil
}

// NewRPCBackend wraps an existing RPC connection, for callers managing the
// connection lifecycle themselves.
func NewRPCBackend(rpcClient *rpc.Client) NodeBackend {
	return &rpcBackend{
		rpc: rpcClient,
		eth: ethclient.NewClient(rpcClient),
	}
}

func (b *rpcBackend) ChainID(ctx context.Context) (*big.Int, error) {
	return b.eth.ChainID(ctx)
}

func (b *rpcBackend) PendingNonceAt(ctx context.Context, addr common.Address) (uint64, error) {
	return b.eth.PendingNonceAt(ctx, addr)
}

func (b *rpcBackend) BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error) {
	return b.eth.BalanceAt(ctx, addr, nil)
}

func (b *rpcBackend) HeadBlock(ctx context.Context) (*Head, error) {
	header, err := b.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Head{
		Number:   header.Number.Uint64(),
		BaseFee:  header.BaseFee,
		GasLimit: header.GasLimit,
	}, nil
}

func (b *rpcBackend) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return b.eth.SuggestGasTipCap(ctx)
}

func (b *rpcBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return b.eth.SuggestGasPrice(ctx)
}

func (b *rpcBackend) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	return b.eth.EstimateGas(ctx, call)
}

func (b *rpcBackend) SendTransaction(ctx context.Context, args map[string]any) (common.Hash, error) {
	var hash common.Hash
	if err := b.rpc.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}
