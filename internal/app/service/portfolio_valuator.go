package service

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"wallet_dashboard/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// MaxAllocationSlices caps the allocation chart.
const MaxAllocationSlices = 10

// ResolvePrice looks an asset up in prices: by lowercase contract address for real contracts,
// then by symbol verbatim, then by symbol uppercased. The first non-zero hit wins.
func ResolvePrice(ab entity.AssetBalance, prices entity.PriceTable) (float64, entity.PriceStatus) {
	status := entity.PriceUnresolved
	lookup := func(key string) float64 {
		if key == "" {
			return 0
		}
		p, ok := prices[key]
		if !ok {
			return 0
		}
		if p > 0 {
			status = entity.PriceResolved
			return p
		}
		status = entity.PriceResolvedZero
		return 0
	}

	if !ab.IsNative() && strings.HasPrefix(ab.ContractAddress, "0x") {
		if p := lookup(strings.ToLower(ab.ContractAddress)); p > 0 {
			return p, status
		}
	}
	if p := lookup(ab.Symbol); p > 0 {
		return p, status
	}
	if p := lookup(strings.ToUpper(ab.Symbol)); p > 0 {
		return p, status
	}
	return 0, status
}

// ValuePortfolio prices each balance and sums the values. Holdings keep the input order.
func ValuePortfolio(balances []entity.AssetBalance, prices entity.PriceTable) entity.Portfolio {
	holdings := make([]entity.ValuedHolding, len(balances))
	var total float64
	for i, ab := range balances {
		price, status := ResolvePrice(ab, prices)
		value := ab.Balance * price
		holdings[i] = entity.ValuedHolding{
			AssetBalance: ab,
			Price:        price,
			Value:        value,
			PriceStatus:  status,
			DisplayValue: FormatUSD(value),
		}
		total += value
	}
	return entity.Portfolio{Holdings: holdings, TotalValue: total}
}

// SortHoldingsByValue returns a copy ordered by value descending. Ties keep input order.
func SortHoldingsByValue(holdings []entity.ValuedHolding) []entity.ValuedHolding {
	sorted := slices.Clone(holdings)
	slices.SortStableFunc(sorted, func(a, b entity.ValuedHolding) int {
		return cmp.Compare(b.Value, a.Value)
	})
	return sorted
}

// BuildAllocation keeps holdings with a positive value, takes the largest ten and reports
// each one's share of their combined value.
func BuildAllocation(holdings []entity.ValuedHolding) []entity.AllocationSlice {
	positive := make([]entity.ValuedHolding, 0, len(holdings))
	for _, h := range holdings {
		if h.Value > 0 {
			positive = append(positive, h)
		}
	}
	positive = SortHoldingsByValue(positive)
	if len(positive) > MaxAllocationSlices {
		positive = positive[:MaxAllocationSlices]
	}

	var sum float64
	for _, h := range positive {
		sum += h.Value
	}
	slicesOut := make([]entity.AllocationSlice, len(positive))
	for i, h := range positive {
		slicesOut[i] = entity.AllocationSlice{
			Symbol:  h.Symbol,
			Value:   h.Value,
			Percent: h.Value / sum * 100,
		}
	}
	return slicesOut
}

// FormatUSD renders v as "$1,234.56", or "N/A" when v is zero or not finite.
func FormatUSD(v float64) string {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	fixed := decimal.NewFromFloat(v).StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String() + "." + frac
}
