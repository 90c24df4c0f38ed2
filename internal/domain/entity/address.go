package entity

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// IsValidAddress reports whether s matches ^0x[a-fA-F0-9]{40}$.
func IsValidAddress(s string) bool {
	return strings.HasPrefix(s, "0x") && common.IsHexAddress(s)
}

// NormalizeAddress validates s and returns it lowercased.
func NormalizeAddress(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("%w: address is required", ErrInvalidInput)
	}
	if !IsValidAddress(s) {
		return "", fmt.Errorf("%w: invalid Ethereum address format %q", ErrInvalidInput, s)
	}
	return strings.ToLower(s), nil
}
