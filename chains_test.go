package viem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatterFor(t *testing.T) {
	assert.Nil(t, Mainnet.FormatterFor(FormatterTransactionRequest))
	assert.NotNil(t, Celo.FormatterFor(FormatterTransactionRequest))
	assert.Nil(t, Celo.FormatterFor("receipt"))

	var none *Chain
	assert.Nil(t, none.FormatterFor(FormatterTransactionRequest))
}

func TestCeloFormatterDropsGasPriceOnDynamicFee(t *testing.T) {
	format := Celo.FormatterFor(FormatterTransactionRequest)

	args := format(map[string]any{
		"from":         "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266",
		"gasPrice":     "0x2540be400",
		"maxFeePerGas": "0x4e3b29200",
	})
	assert.NotContains(t, args, "gasPrice")
	assert.Contains(t, args, "maxFeePerGas")

	// Legacy requests keep their gasPrice.
	args = format(map[string]any{
		"from":     "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266",
		"gasPrice": "0x2540be400",
	})
	assert.Contains(t, args, "gasPrice")
}

func TestChainSymbol(t *testing.T) {
	assert.Equal(t, "ETH", Mainnet.symbol())
	assert.Equal(t, "CELO", Celo.symbol())

	var none *Chain
	assert.Equal(t, "ETH", none.symbol())
	assert.Equal(t, "ETH", (&Chain{ID: 7777}).symbol())
}
