package viem

import (
	"context"
	"fmt"
	"math/big"

	"github.com/KyberNetwork/logger"
	ethereum "github.com/ethereum/go-ethereum"
)

// resolve fills network defaults for every field the caller left unset and
// returns the node snapshot the later validation steps run against. It never
// downgrades an explicitly supplied field. Failures here are provider errors,
// not transaction-validation errors, so they propagate unclassified.
func (c *Client) resolve(ctx context.Context, r *TxRequest) (*Head, error) {
	head, err := c.backend.HeadBlock(ctx)
	if err != nil {
		return nil, fmt.Errorf("couldn't get current block: %w", err)
	}

	if r.value == nil {
		r.value = big.NewInt(0)
	}

	if r.nonce == nil {
		nonce, err := c.backend.PendingNonceAt(ctx, r.from)
		if err != nil {
			return nil, fmt.Errorf("couldn't get pending nonce of the wallet: %w", err)
		}
		r.nonce = &nonce
		logger.WithFields(logger.Fields{
			"from":  r.from.Hex(),
			"nonce": nonce,
		}).Debug("resolve: nonce defaulted from pending account state")
	}

	if err := c.resolveFees(ctx, r, head); err != nil {
		return nil, err
	}

	if r.gas == nil {
		gas, err := c.backend.EstimateGas(ctx, callMsg(r))
		if err != nil {
			return nil, fmt.Errorf("couldn't estimate gas: %w", err)
		}
		r.gas = &gas
		logger.WithFields(logger.Fields{
			"from": r.from.Hex(),
			"gas":  gas,
		}).Debug("resolve: gas defaulted from node estimate")
	}

	return head, nil
}

// resolveFees fills the missing fee fields of whichever fee model the request
// uses. On networks with a base fee the EIP-1559 model is the default: the tip
// comes from the node's suggestion and the cap leaves headroom for two blocks
// of rising base fee. On pre-London networks the legacy gas price is suggested
// instead. A request that already carries a full fee model is left untouched.
func (c *Client) resolveFees(ctx context.Context, r *TxRequest, head *Head) error {
	if r.gasPrice != nil {
		return nil
	}

	if head.BaseFee == nil {
		if r.maxFeePerGas != nil || r.maxPriorityFeePerGas != nil {
			// The node can't price EIP-1559 fields without a base fee; leave
			// the request as-is and let the node reject it.
			return nil
		}
		price, err := c.backend.SuggestGasPrice(ctx)
		if err != nil {
			return fmt.Errorf("couldn't get suggested gas price: %w", err)
		}
		r.gasPrice = price
		logger.WithFields(logger.Fields{
			"gas_price": price.String(),
		}).Debug("resolve: legacy gas price defaulted from node suggestion")
		return nil
	}

	if r.maxPriorityFeePerGas == nil {
		tip, err := c.backend.SuggestGasTipCap(ctx)
		if err != nil {
			return fmt.Errorf("couldn't get suggested tip cap: %w", err)
		}
		r.maxPriorityFeePerGas = tip
	}
	if r.maxFeePerGas == nil {
		// maxFeePerGas = 2*baseFee + tip, the slack keeps the request valid
		// while the base fee rises.
		feeCap := new(big.Int).Mul(head.BaseFee, big.NewInt(2))
		feeCap.Add(feeCap, r.maxPriorityFeePerGas)
		r.maxFeePerGas = feeCap
	}

	logger.WithFields(logger.Fields{
		"base_fee":        head.BaseFee.String(),
		"max_fee_per_gas": r.maxFeePerGas.String(),
		"tip_cap":         r.maxPriorityFeePerGas.String(),
	}).Debug("resolve: EIP-1559 fees resolved")
	return nil
}

// callMsg maps the request onto the call shape used for gas estimation.
func callMsg(r *TxRequest) ethereum.CallMsg {
	return ethereum.CallMsg{
		From:      r.from,
		To:        r.to,
		Value:     r.value,
		GasPrice:  r.gasPrice,
		GasFeeCap: r.maxFeePerGas,
		GasTipCap: r.maxPriorityFeePerGas,
		Data:      r.data,
	}
}
