package model

import "time"

// DefaultCurrency is assigned to households created without an explicit currency.
const DefaultCurrency = "USD"

type Household struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
