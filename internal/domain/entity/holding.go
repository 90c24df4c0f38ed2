package entity

// PriceTable maps a price key (lowercase contract address or uppercase symbol) to a USD price.
type PriceTable map[string]float64

// PriceStatus tells a resolved zero price apart from a missing one.
type PriceStatus string

const (
	PriceResolved     PriceStatus = "resolved"
	PriceResolvedZero PriceStatus = "resolved_zero"
	PriceUnresolved   PriceStatus = "unresolved"
)

// ValuedHolding is an AssetBalance with its USD price and value.
type ValuedHolding struct {
	AssetBalance
	Price        float64     `json:"price"`
	Value        float64     `json:"value"`
	PriceStatus  PriceStatus `json:"priceStatus"`
	DisplayValue string      `json:"displayValue"` // "$1,234.56", or "N/A" when Value is zero
}

// Portfolio is the valuation of one balance list.
type Portfolio struct {
	Holdings   []ValuedHolding `json:"holdings"`
	TotalValue float64         `json:"totalValue"`
}

// AllocationSlice is one segment of the allocation chart.
type AllocationSlice struct {
	Symbol  string  `json:"symbol"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

// WalletLookup is everything the dashboard shows for one address.
type WalletLookup struct {
	Address      string            `json:"address"`
	Holdings     []ValuedHolding   `json:"holdings"`
	TotalValue   float64           `json:"totalValue"`
	DisplayTotal string            `json:"displayTotal"`
	Allocation   []AllocationSlice `json:"allocation"`
	Prices       PriceTable        `json:"prices"`
	Transactions []TransferRecord  `json:"transactions"`
}
