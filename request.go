package viem

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TxRequest represents a transaction request with builder pattern.
//
// Every field except from is optional: absent fields are resolved to network
// defaults right before submission and explicitly supplied fields are never
// downgraded. A request is built per call, enriched in place during
// resolution, and discarded once the submission returns or fails.
type TxRequest struct {
	client *Client

	chain       *Chain
	assertChain bool

	from                 common.Address
	to                   *common.Address
	value                *big.Int
	gas                  *uint64
	gasPrice             *big.Int
	maxFeePerGas         *big.Int
	maxPriorityFeePerGas *big.Int
	nonce                *uint64
	data                 []byte
}

// R creates a new transaction request (similar to go-resty's R() method).
// The request inherits the client's default chain and asserts it by default.
func (c *Client) R() *TxRequest {
	return &TxRequest{
		client:      c,
		chain:       c.chain,
		assertChain: true,
	}
}

// SetChain sets the target chain descriptor.
func (r *TxRequest) SetChain(chain *Chain) *TxRequest {
	r.chain = chain
	return r
}

// SetAssertChain toggles the pre-submission check that the declared chain id
// matches the connected node. Enabled by default.
func (r *TxRequest) SetAssertChain(assert bool) *TxRequest {
	r.assertChain = assert
	return r
}

// SetFrom sets the sender address.
func (r *TxRequest) SetFrom(from common.Address) *TxRequest {
	r.from = from
	return r
}

// SetTo sets the recipient address. Leave unset for contract creation.
func (r *TxRequest) SetTo(to common.Address) *TxRequest {
	r.to = &to
	return r
}

// SetValue sets the amount of native currency to send, in wei.
func (r *TxRequest) SetValue(value *big.Int) *TxRequest {
	if value != nil {
		r.value = new(big.Int).Set(value)
	}
	return r
}

// SetGas sets the gas limit.
func (r *TxRequest) SetGas(gas uint64) *TxRequest {
	r.gas = &gas
	return r
}

// SetGasPrice sets the legacy gas price, in wei. Mutually exclusive with the
// EIP-1559 fee fields.
func (r *TxRequest) SetGasPrice(gasPrice *big.Int) *TxRequest {
	if gasPrice != nil {
		r.gasPrice = new(big.Int).Set(gasPrice)
	}
	return r
}

// SetMaxFeePerGas sets the EIP-1559 fee cap, in wei.
func (r *TxRequest) SetMaxFeePerGas(feeCap *big.Int) *TxRequest {
	if feeCap != nil {
		r.maxFeePerGas = new(big.Int).Set(feeCap)
	}
	return r
}

// SetMaxPriorityFeePerGas sets the EIP-1559 priority fee, in wei.
func (r *TxRequest) SetMaxPriorityFeePerGas(tip *big.Int) *TxRequest {
	if tip != nil {
		r.maxPriorityFeePerGas = new(big.Int).Set(tip)
	}
	return r
}

// SetNonce sets the transaction nonce.
func (r *TxRequest) SetNonce(nonce uint64) *TxRequest {
	r.nonce = &nonce
	return r
}

// SetData sets the transaction calldata.
func (r *TxRequest) SetData(data []byte) *TxRequest {
	r.data = data
	return r
}

// Send submits the request through the client's pipeline using a background
// context. For production use, prefer SendContext to allow cancellation.
func (r *TxRequest) Send() (string, error) {
	return r.SendContext(context.Background())
}

// SendContext submits the request through the client's pipeline. It returns
// the transaction hash in the node's canonical hex format, or a *TxError
// describing exactly which rule the request violated.
func (r *TxRequest) SendContext(ctx context.Context) (string, error) {
	return r.client.SendTransaction(ctx, r)
}
