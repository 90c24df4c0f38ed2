package entity

import "math/big"

const (
	// NativeAssetAddress is the sentinel contract address of the chain's base currency.
	NativeAssetAddress = "ETH"
	NativeAssetSymbol  = "ETH"
	NativeAssetName    = "Ethereum"
	NativeDecimals     = 18

	// DefaultTokenDecimals applies when token metadata omits decimals.
	DefaultTokenDecimals = 18
	MaxTokenDecimals     = 36

	UnknownTokenSymbol = "UNKNOWN"
	UnknownTokenName   = "Unknown Token"
)

// AssetBalance is a wallet's holding of one asset in human units.
type AssetBalance struct {
	ContractAddress string  `json:"contractAddress"`
	Symbol          string  `json:"symbol"`
	Name            string  `json:"name"`
	Balance         float64 `json:"balance"`
	Decimals        int     `json:"decimals"`
}

// IsNative reports whether the balance is the native-asset entry.
func (b AssetBalance) IsNative() bool {
	return b.ContractAddress == NativeAssetAddress
}

// RawTokenBalance is one (contract, raw balance) pair returned by the balance source.
type RawTokenBalance struct {
	ContractAddress string
	RawBalance      *big.Int
}

// TokenMetadata describes an ERC-20 contract. Nil Decimals means the source omitted it.
type TokenMetadata struct {
	Symbol   string
	Name     string
	Decimals *int
}
