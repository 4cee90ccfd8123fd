package viem

import (
	"context"
	"fmt"

	"github.com/KyberNetwork/logger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	ErrFromAddressZero = fmt.Errorf("from address cannot be zero")
	ErrBackendNil      = fmt.Errorf("backend cannot be nil")
)

// Client drives the transaction submission pipeline against one node backend.
// Each submission is independent and stateless across calls; the client keeps
// no mutable state beyond its configuration, so it is safe for concurrent use.
// Two concurrent submissions that both default-resolve the nonce of the same
// account may race and collide; callers needing ordered nonces must supply
// them explicitly.
type Client struct {
	backend NodeBackend
	chain   *Chain
	version string
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// WithChain sets the default chain descriptor inherited by new requests.
func WithChain(chain *Chain) ClientOption {
	return func(c *Client) {
		c.chain = chain
	}
}

// WithVersionTag overrides the version line rendered at the end of every
// error message.
func WithVersionTag(tag string) ClientOption {
	return func(c *Client) {
		c.version = tag
	}
}

// NewClient creates a new Client for the given backend with optional
// configuration.
func NewClient(backend NodeBackend, opts ...ClientOption) (*Client, error) {
	if backend == nil {
		return nil, ErrBackendNil
	}
	c := &Client{
		backend: backend,
		version: DefaultVersionTag,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SendTransaction runs the full pipeline for one request: chain assertion,
// default resolution, fee validation, chain-specific formatting, then the
// node submission. The success path is linear with no retry loop; every
// failure surfaces as a terminal typed error and a request either fully
// succeeds (hash returned) or fully fails.
func (c *Client) SendTransaction(ctx context.Context, r *TxRequest) (string, error) {
	if r.from == (common.Address{}) {
		return "", ErrFromAddressZero
	}

	// Snapshot of the caller-supplied fields, taken before resolution so
	// errors echo only what the caller actually set.
	echo := echoRequestArgs(r)

	txErr, err := c.assertChain(ctx, r, echo)
	if err != nil {
		return "", err
	}
	if txErr != nil {
		return "", txErr
	}

	if txErr := checkFeeModel(r, echo, c.version); txErr != nil {
		return "", txErr
	}

	head, err := c.resolve(ctx, r)
	if err != nil {
		return "", err
	}

	if txErr := validateFees(r, head, echo, c.version); txErr != nil {
		return "", txErr
	}

	args := c.formatRequest(r)

	hash, err := c.backend.SendTransaction(ctx, args)
	if err != nil {
		return "", classifyNodeError(err, r, echo, c.version)
	}

	logger.WithFields(logger.Fields{
		"from":    r.from.Hex(),
		"tx_hash": hash.Hex(),
	}).Info("transaction submitted")

	return hash.Hex(), nil
}

// assertChain compares the caller-declared chain against the connected node.
// It runs before any RPC side effect and passes when no chain is declared or
// the assertion is disabled. Provider failures while reading the network id
// propagate unclassified.
func (c *Client) assertChain(ctx context.Context, r *TxRequest, echo []Arg) (*TxError, error) {
	if r.chain == nil || !r.assertChain {
		return nil, nil
	}

	nodeID, err := c.backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("couldn't get connected network id: %w", err)
	}

	if nodeID.Uint64() == r.chain.ID {
		return nil, nil
	}

	return &TxError{
		Kind:        KindChainMismatch,
		NodeChainID: nodeID.Uint64(),
		Chain:       r.chain,
		Args:        echo,
		Version:     c.version,
	}, nil
}

// formatRequest serializes the resolved request into the eth_sendTransaction
// argument shape and applies the chain's "transactionRequest" formatter when
// the chain declares that capability. A chain without the capability gets the
// identity transformation.
func (c *Client) formatRequest(r *TxRequest) map[string]any {
	args := map[string]any{
		"from":  r.from.Hex(),
		"value": hexutil.EncodeBig(r.value),
		"nonce": hexutil.EncodeUint64(*r.nonce),
	}
	if r.to != nil {
		args["to"] = r.to.Hex()
	}
	if r.gas != nil {
		args["gas"] = hexutil.EncodeUint64(*r.gas)
	}
	if r.gasPrice != nil {
		args["gasPrice"] = hexutil.EncodeBig(r.gasPrice)
	}
	if r.maxFeePerGas != nil {
		args["maxFeePerGas"] = hexutil.EncodeBig(r.maxFeePerGas)
	}
	if r.maxPriorityFeePerGas != nil {
		args["maxPriorityFeePerGas"] = hexutil.EncodeBig(r.maxPriorityFeePerGas)
	}
	if len(r.data) > 0 {
		args["data"] = hexutil.Encode(r.data)
	}

	if formatter := r.chain.FormatterFor(FormatterTransactionRequest); formatter != nil {
		args = formatter(args)
	}
	return args
}
