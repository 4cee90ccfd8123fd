package testutil

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Well-known addresses used across tests. Alice is the usual sender, Bob the
// usual recipient.
var (
	Alice = common.HexToAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	Bob   = common.HexToAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
)

// OneEther is 10^18 wei.
var OneEther = Ether(1)

// Ether returns n ether in wei.
func Ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000_000_000_000))
}

// Gwei returns n gwei in wei.
func Gwei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000))
}

func gwei(n int64) *big.Int { return Gwei(n) }
