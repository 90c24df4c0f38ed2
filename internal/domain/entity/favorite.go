package entity

import "time"

// FavoriteWallet is a wallet address saved by a user.
type FavoriteWallet struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Address   string    `json:"address"`
	Label     *string   `json:"label"`
	CreatedAt time.Time `json:"createdAt"`
}
