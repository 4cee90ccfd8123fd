package viem

// FormatterFunc reshapes the wire-level argument map of a request before it is
// submitted to the node. Formatters may add, rename or drop fields; they must
// not perform validation.
type FormatterFunc func(args map[string]any) map[string]any

// Formatter categories a chain can declare a capability for.
const (
	FormatterTransactionRequest = "transactionRequest"
)

// NativeCurrency describes the native token of a chain, used to render value
// amounts in error messages.
type NativeCurrency struct {
	Symbol   string
	Decimals int
}

// Chain is the static descriptor of a target network. Formatters is a
// capability set keyed by category; a chain without an entry for a category
// gets the identity transformation, never an error.
type Chain struct {
	ID             uint64
	Name           string
	NativeCurrency NativeCurrency
	Formatters     map[string]FormatterFunc
}

// FormatterFor returns the formatter declared for the given category, or nil
// if the chain doesn't have that capability.
func (c *Chain) FormatterFor(category string) FormatterFunc {
	if c == nil || c.Formatters == nil {
		return nil
	}
	return c.Formatters[category]
}

var (
	// Mainnet is the Ethereum mainnet descriptor.
	Mainnet = &Chain{
		ID:             1,
		Name:           "Ethereum",
		NativeCurrency: NativeCurrency{Symbol: "ETH", Decimals: 18},
	}

	// Optimism is the OP Mainnet descriptor.
	Optimism = &Chain{
		ID:             10,
		Name:           "OP Mainnet",
		NativeCurrency: NativeCurrency{Symbol: "ETH", Decimals: 18},
	}

	// Sepolia is the Sepolia testnet descriptor.
	Sepolia = &Chain{
		ID:             11155111,
		Name:           "Sepolia",
		NativeCurrency: NativeCurrency{Symbol: "ETH", Decimals: 18},
	}

	// Celo requires a reshaped transaction request: the node accepts an
	// optional feeCurrency field and rejects the legacy gasPrice field on
	// EIP-1559 requests.
	Celo = &Chain{
		ID:             42220,
		Name:           "Celo",
		NativeCurrency: NativeCurrency{Symbol: "CELO", Decimals: 18},
		Formatters: map[string]FormatterFunc{
			FormatterTransactionRequest: formatCeloTransactionRequest,
		},
	}
)

// formatCeloTransactionRequest drops the legacy gasPrice field when the
// request already carries EIP-1559 fee fields, matching the shape Celo nodes
// accept.
func formatCeloTransactionRequest(args map[string]any) map[string]any {
	if _, ok := args["maxFeePerGas"]; ok {
		delete(args, "gasPrice")
	}
	return args
}

// symbol returns the chain's native currency symbol, defaulting to ETH when no
// chain is declared on the request.
func (c *Chain) symbol() string {
	if c == nil || c.NativeCurrency.Symbol == "" {
		return "ETH"
	}
	return c.NativeCurrency.Symbol
}
