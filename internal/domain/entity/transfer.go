package entity

// Direction classifies a transfer relative to the queried wallet.
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// TransferRole selects which side of a transfer the queried address must be on.
type TransferRole int

const (
	// RoleRecipient matches transfers sent to the address.
	RoleRecipient TransferRole = iota
	// RoleSender matches transfers sent from the address.
	RoleSender
)

func (r TransferRole) String() string {
	switch r {
	case RoleRecipient:
		return "recipient"
	case RoleSender:
		return "sender"
	default:
		return "unknown"
	}
}

// DefaultTransferLimit is the result-size cap used when the caller gives none.
const DefaultTransferLimit = 20

// TransferCategories are the asset-transfer categories requested upstream.
var TransferCategories = []string{"external", "erc20", "erc721", "erc1155"}

// RawTransfer is a transfer as validated at the transfer-source boundary,
// before direction classification. Empty strings mean the field was absent.
type RawTransfer struct {
	Hash            string
	From            string
	To              string
	Asset           string
	ContractAddress string
	Value           *float64
	BlockTimestamp  string
	Category        string
}

// TransferRecord is one reconciled transaction row.
type TransferRecord struct {
	Hash      string    `json:"hash"`
	Timestamp string    `json:"timestamp"`
	Token     string    `json:"token"`
	Direction Direction `json:"direction"`
	Value     float64   `json:"value"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Category  string    `json:"category"`
}
