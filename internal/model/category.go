package model

import "time"

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	HouseholdID string    `json:"householdId"`
	CreatedAt   time.Time `json:"createdAt"`
}
