package testutil

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"

	"github.com/Tumelo-Alt/viem"
)

// Account holds the simulated state of one address.
type Account struct {
	Balance *big.Int
	Nonce   uint64
}

// simTx is a transaction accepted into the simulated mempool.
type simTx struct {
	from     common.Address
	to       *common.Address
	value    *big.Int
	gas      uint64
	effPrice *big.Int
	gasUsed  uint64
}

// SimNode is an in-memory execution node implementing viem.NodeBackend. It
// keeps per-account balances and nonces, a base fee and a block gas limit,
// applies node-side validation with go-ethereum's diagnostic wording, and
// mines accepted transactions when Commit is called.
//
// Each test constructs its own SimNode with explicit state; there is no
// process-wide fixture.
type SimNode struct {
	mu sync.Mutex

	chainID  *big.Int
	baseFee  *big.Int
	gasLimit uint64
	number   uint64
	tipCap   *big.Int

	accounts map[common.Address]*Account
	pending  []*simTx

	// Submissions counts SendTransaction calls, so tests can assert that
	// client-side guards fire before any state-mutating RPC.
	Submissions int
}

// NewSimNode creates a node for the given chain id with a 10 gwei base fee,
// a 30M block gas limit and a 1 gwei suggested tip.
func NewSimNode(chainID uint64) *SimNode {
	return &SimNode{
		chainID:  new(big.Int).SetUint64(chainID),
		baseFee:  gwei(10),
		gasLimit: 30_000_000,
		tipCap:   gwei(1),
		accounts: make(map[common.Address]*Account),
	}
}

// SetBaseFee overrides the current block's base fee. Pass nil to simulate a
// pre-London network.
func (n *SimNode) SetBaseFee(baseFee *big.Int) *SimNode {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.baseFee = baseFee
	return n
}

// SetBlockGasLimit overrides the block gas limit.
func (n *SimNode) SetBlockGasLimit(limit uint64) *SimNode {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.gasLimit = limit
	return n
}

// Fund credits the account with the given wei amount.
func (n *SimNode) Fund(addr common.Address, amount *big.Int) *SimNode {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.account(addr).Balance.Add(n.account(addr).Balance, amount)
	return n
}

// SetAccountNonce forces the account's mined nonce.
func (n *SimNode) SetAccountNonce(addr common.Address, nonce uint64) *SimNode {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.account(addr).Nonce = nonce
	return n
}

// account returns the state for addr, creating an empty one if needed.
// Callers must hold n.mu.
func (n *SimNode) account(addr common.Address) *Account {
	acc, ok := n.accounts[addr]
	if !ok {
		acc = &Account{Balance: big.NewInt(0)}
		n.accounts[addr] = acc
	}
	return acc
}

func (n *SimNode) ChainID(_ context.Context) (*big.Int, error) {
	return new(big.Int).Set(n.chainID), nil
}

func (n *SimNode) PendingNonceAt(_ context.Context, addr common.Address) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	nonce := n.account(addr).Nonce
	for _, tx := range n.pending {
		if tx.from == addr {
			nonce++
		}
	}
	return nonce, nil
}

func (n *SimNode) BalanceAt(_ context.Context, addr common.Address) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return new(big.Int).Set(n.account(addr).Balance), nil
}

func (n *SimNode) HeadBlock(_ context.Context) (*viem.Head, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	head := &viem.Head{Number: n.number, GasLimit: n.gasLimit}
	if n.baseFee != nil {
		head.BaseFee = new(big.Int).Set(n.baseFee)
	}
	return head, nil
}

func (n *SimNode) SuggestGasTipCap(_ context.Context) (*big.Int, error) {
	return new(big.Int).Set(n.tipCap), nil
}

func (n *SimNode) SuggestGasPrice(_ context.Context) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.baseFee == nil {
		return new(big.Int).Set(n.tipCap), nil
	}
	return new(big.Int).Add(n.baseFee, n.tipCap), nil
}

func (n *SimNode) EstimateGas(_ context.Context, call ethereum.CallMsg) (uint64, error) {
	return intrinsicGas(call.Data, call.To == nil), nil
}

// SendTransaction validates the submitted argument map the way a go-ethereum
// txpool would and queues the transaction for the next block. Rejections use
// go-ethereum's diagnostic wording so the classifier is exercised against
// realistic node output.
func (n *SimNode) SendTransaction(_ context.Context, args map[string]any) (common.Hash, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Submissions++

	tx, err := n.decode(args)
	if err != nil {
		return common.Hash{}, err
	}

	acc := n.account(tx.from)

	if tx.feeCap != nil && tx.tip != nil && tx.tip.Cmp(tx.feeCap) > 0 {
		return common.Hash{}, fmt.Errorf("max priority fee per gas higher than max fee per gas")
	}
	if tx.feeCap != nil && n.baseFee != nil && tx.feeCap.Cmp(n.baseFee) < 0 {
		return common.Hash{}, fmt.Errorf(
			"max fee per gas less than block base fee: address %s, maxFeePerGas: %s, baseFee: %s",
			tx.from.Hex(), tx.feeCap, n.baseFee,
		)
	}
	if tx.nonce < acc.Nonce {
		return common.Hash{}, fmt.Errorf(
			"nonce too low: address %s, tx: %d state: %d", tx.from.Hex(), tx.nonce, acc.Nonce,
		)
	}
	intrinsic := intrinsicGas(tx.data, tx.to == nil)
	if tx.gas < intrinsic {
		return common.Hash{}, fmt.Errorf(
			"intrinsic gas too low: gas %d, minimum needed %d", tx.gas, intrinsic,
		)
	}
	if tx.gas > n.gasLimit {
		return common.Hash{}, fmt.Errorf(
			"exceeds block gas limit: gas %d, limit %d", tx.gas, n.gasLimit,
		)
	}

	effPrice := tx.effectivePrice(n.baseFee)
	cost := new(big.Int).Mul(effPrice, new(big.Int).SetUint64(tx.gas))
	cost.Add(cost, tx.value)
	if acc.Balance.Cmp(cost) < 0 {
		return common.Hash{}, fmt.Errorf(
			"insufficient funds for gas * price + value: address %s have %s want %s",
			tx.from.Hex(), acc.Balance, cost,
		)
	}

	n.pending = append(n.pending, &simTx{
		from:     tx.from,
		to:       tx.to,
		value:    tx.value,
		gas:      tx.gas,
		effPrice: effPrice,
		gasUsed:  intrinsic,
	})
	return n.hashFor(tx), nil
}

// Commit mines one block: every pending transaction transfers its value,
// burns gasUsed * effective price from the sender and bumps the sender nonce.
func (n *SimNode) Commit() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, tx := range n.pending {
		sender := n.account(tx.from)
		fee := new(big.Int).Mul(tx.effPrice, new(big.Int).SetUint64(tx.gasUsed))
		sender.Balance.Sub(sender.Balance, new(big.Int).Add(tx.value, fee))
		sender.Nonce++
		if tx.to != nil {
			recipient := n.account(*tx.to)
			recipient.Balance.Add(recipient.Balance, tx.value)
		}
	}
	n.pending = nil
	n.number++
}

// decodedTx is the wire argument map parsed back into native values.
type decodedTx struct {
	from   common.Address
	to     *common.Address
	value  *big.Int
	gas    uint64
	price  *big.Int
	feeCap *big.Int
	tip    *big.Int
	nonce  uint64
	data   []byte
}

// effectivePrice is gasPrice under the legacy model, or
// min(maxFeePerGas, baseFee + maxPriorityFeePerGas) under EIP-1559.
func (tx *decodedTx) effectivePrice(baseFee *big.Int) *big.Int {
	if tx.price != nil {
		return tx.price
	}
	if tx.feeCap == nil {
		return big.NewInt(0)
	}
	if baseFee == nil || tx.tip == nil {
		return tx.feeCap
	}
	price := new(big.Int).Add(baseFee, tx.tip)
	if price.Cmp(tx.feeCap) > 0 {
		return tx.feeCap
	}
	return price
}

func (n *SimNode) decode(args map[string]any) (*decodedTx, error) {
	tx := &decodedTx{value: big.NewInt(0)}

	fromHex, ok := args["from"].(string)
	if !ok {
		return nil, fmt.Errorf("missing from address")
	}
	tx.from = common.HexToAddress(fromHex)

	if toHex, ok := args["to"].(string); ok {
		to := common.HexToAddress(toHex)
		tx.to = &to
	}
	if raw, ok := args["value"].(string); ok {
		v, err := hexutil.DecodeBig(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid value: %w", err)
		}
		tx.value = v
	}
	if raw, ok := args["gas"].(string); ok {
		g, err := hexutil.DecodeUint64(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid gas: %w", err)
		}
		tx.gas = g
	}
	if raw, ok := args["nonce"].(string); ok {
		nn, err := hexutil.DecodeUint64(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid nonce: %w", err)
		}
		tx.nonce = nn
	}
	if raw, ok := args["gasPrice"].(string); ok {
		p, err := hexutil.DecodeBig(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid gasPrice: %w", err)
		}
		tx.price = p
	}
	if raw, ok := args["maxFeePerGas"].(string); ok {
		p, err := hexutil.DecodeBig(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid maxFeePerGas: %w", err)
		}
		tx.feeCap = p
	}
	if raw, ok := args["maxPriorityFeePerGas"].(string); ok {
		p, err := hexutil.DecodeBig(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid maxPriorityFeePerGas: %w", err)
		}
		tx.tip = p
	}
	if raw, ok := args["data"].(string); ok {
		d, err := hexutil.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid data: %w", err)
		}
		tx.data = d
	}
	return tx, nil
}

// hashFor derives a canonical transaction hash from the accepted request.
func (n *SimNode) hashFor(tx *decodedTx) common.Hash {
	if tx.price != nil {
		return types.NewTx(&types.LegacyTx{
			Nonce:    tx.nonce,
			GasPrice: tx.price,
			Gas:      tx.gas,
			To:       tx.to,
			Value:    tx.value,
			Data:     tx.data,
		}).Hash()
	}
	feeCap := tx.feeCap
	if feeCap == nil {
		feeCap = big.NewInt(0)
	}
	tip := tx.tip
	if tip == nil {
		tip = big.NewInt(0)
	}
	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   n.chainID,
		Nonce:     tx.nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       tx.gas,
		To:        tx.to,
		Value:     tx.value,
		Data:      tx.data,
	}).Hash()
}

// intrinsicGas is the minimum gas a transaction shape requires before any
// execution: the base cost plus the per-byte calldata cost.
func intrinsicGas(data []byte, contractCreation bool) uint64 {
	gas := params.TxGas
	if contractCreation {
		gas = params.TxGasContractCreation
	}
	for _, b := range data {
		if b == 0 {
			gas += params.TxDataZeroGas
		} else {
			gas += params.TxDataNonZeroGasEIP2028
		}
	}
	return gas
}
