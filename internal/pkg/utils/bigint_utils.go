package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseHexBigInt parses a 0x-prefixed hex quantity. Unlike hexutil.DecodeBig it accepts
// leading zeros, which token-balance endpoints return as 32-byte padded words.
// "0x" and "" decode to zero.
func ParseHexBigInt(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(digits) == len(s) && s != "" {
		return nil, fmt.Errorf("hex quantity %q lacks 0x prefix", s)
	}
	if digits == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex quantity %q", s)
	}
	return v, nil
}

// ToHumanAmount converts a raw integer balance to human units: raw / 10^decimals.
// Example: amount=1234500000000000000, decimals=18 => 1.2345
func ToHumanAmount(amount *big.Int, decimals int) float64 {
	if amount == nil {
		return 0
	}
	return decimal.NewFromBigInt(amount, int32(-decimals)).InexactFloat64()
}
