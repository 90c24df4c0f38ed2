package client

import (
	"fmt"
	"strings"

	"wallet_dashboard/internal/domain/entity"
)

// tokenBalancesResult is the result of alchemy_getTokenBalances.
type tokenBalancesResult struct {
	Address       string              `json:"address"`
	TokenBalances *[]tokenBalanceItem `json:"tokenBalances"`
}

type tokenBalanceItem struct {
	ContractAddress string  `json:"contractAddress"`
	TokenBalance    *string `json:"tokenBalance"`
	Error           any     `json:"error"`
}

// tokenMetadataResult is the result of alchemy_getTokenMetadata.
type tokenMetadataResult struct {
	Name     *string `json:"name"`
	Symbol   *string `json:"symbol"`
	Decimals *int    `json:"decimals"`
	Logo     *string `json:"logo"`
}

func (m *tokenMetadataResult) toEntity() (entity.TokenMetadata, error) {
	if m == nil {
		return entity.TokenMetadata{}, fmt.Errorf("empty metadata result")
	}
	if m.Decimals != nil && (*m.Decimals < 0 || *m.Decimals > entity.MaxTokenDecimals) {
		return entity.TokenMetadata{}, fmt.Errorf("decimals %d out of range [0,%d]", *m.Decimals, entity.MaxTokenDecimals)
	}
	md := entity.TokenMetadata{Decimals: m.Decimals}
	if m.Symbol != nil {
		md.Symbol = *m.Symbol
	}
	if m.Name != nil {
		md.Name = *m.Name
	}
	return md, nil
}

// assetTransfersParams is the single parameter object of alchemy_getAssetTransfers.
type assetTransfersParams struct {
	FromBlock        string   `json:"fromBlock"`
	ToBlock          string   `json:"toBlock"`
	FromAddress      string   `json:"fromAddress,omitempty"`
	ToAddress        string   `json:"toAddress,omitempty"`
	ExcludeZeroValue bool     `json:"excludeZeroValue"`
	Category         []string `json:"category"`
	MaxCount         string   `json:"maxCount"`
	WithMetadata     bool     `json:"withMetadata"`
}

// assetTransfersResult is the result of alchemy_getAssetTransfers.
type assetTransfersResult struct {
	Transfers *[]assetTransfer `json:"transfers"`
	PageKey   string           `json:"pageKey,omitempty"`
}

type assetTransfer struct {
	BlockNum    string              `json:"blockNum"`
	UniqueID    string              `json:"uniqueId"`
	Hash        string              `json:"hash"`
	From        string              `json:"from"`
	To          *string             `json:"to"`
	Value       *float64            `json:"value"`
	Asset       *string             `json:"asset"`
	Category    string              `json:"category"`
	RawContract *transferContract   `json:"rawContract"`
	Metadata    *transferBlockStamp `json:"metadata"`
}

type transferContract struct {
	Value   *string `json:"value"`
	Address *string `json:"address"`
	Decimal *string `json:"decimal"`
}

type transferBlockStamp struct {
	BlockTimestamp string `json:"blockTimestamp"`
}

// toEntity validates a transfer and converts it. A transfer without a hash has no
// dedup identity and is rejected.
func (t assetTransfer) toEntity() (entity.RawTransfer, error) {
	if strings.TrimSpace(t.Hash) == "" {
		return entity.RawTransfer{}, fmt.Errorf("transfer %q has no hash", t.UniqueID)
	}
	rt := entity.RawTransfer{
		Hash:     t.Hash,
		From:     t.From,
		Value:    t.Value,
		Category: t.Category,
	}
	if t.To != nil {
		rt.To = *t.To
	}
	if t.Asset != nil {
		rt.Asset = *t.Asset
	}
	if t.RawContract != nil && t.RawContract.Address != nil {
		rt.ContractAddress = *t.RawContract.Address
	}
	if t.Metadata != nil {
		rt.BlockTimestamp = t.Metadata.BlockTimestamp
	}
	return rt, nil
}
